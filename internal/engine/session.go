package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dekho-exam/prep-engine/internal/config"
	"github.com/dekho-exam/prep-engine/internal/model"
	"github.com/rs/zerolog"
)

// Status enumerates the attempt lifecycle states.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSubmitting Status = "SUBMITTING"
	StatusSubmitted  Status = "SUBMITTED"
)

// SaveState tracks the background persistence of one answer. Purely
// observational — it never gates the local answer map.
type SaveState string

const (
	SavePending SaveState = "PENDING"
	SaveDone    SaveState = "SAVED"
	SaveFailed  SaveState = "FAILED"
)

var (
	// ErrMissingTestID is returned by Init when the session was created
	// without a test id.
	ErrMissingTestID = errors.New("engine: test id is required")
	// ErrAlreadyStarted is returned by Init on a session that already left
	// NotStarted.
	ErrAlreadyStarted = errors.New("engine: attempt already initialized")
	// ErrNotInProgress is returned by Submit when the attempt is not in a
	// submittable state. The second of two racing submit triggers sees it.
	ErrNotInProgress = errors.New("engine: attempt is not in progress")
)

// Callbacks notify the host UI of terminal transitions. Either field may be
// nil. OnSubmitted receives the attempt id to key the result view by.
type Callbacks struct {
	OnSubmitted        func(attemptID string)
	OnAutoSubmitFailed func(err error)
}

// Session owns the lifecycle of exactly one attempt: its question sequence,
// answer map, save-sync state and remaining time. The UI reads snapshots and
// calls the three mutating operations; nothing else touches the state.
type Session struct {
	svc    AttemptService
	testID string
	cb     Callbacks
	log    zerolog.Logger

	tickInterval time.Duration
	queueDepth   int
	saveTimeout  time.Duration

	mu           sync.Mutex
	status       Status
	initializing bool
	attemptID    string
	questions    []model.Question
	known        map[string]struct{}
	answers      map[string]int
	remaining    int
	expired      bool

	// saveStates has its own lock: the saver reports results (including the
	// synchronous queue-full drop) while callers may hold mu. Lock order is
	// always mu before saveMu.
	saveMu     sync.Mutex
	saveStates map[string]SaveState

	timer *countdown
	saver *saver
}

// NewSession creates a session for one run through one test. Call Init before
// anything else, and Close on every exit path from the exam screen.
func NewSession(svc AttemptService, testID string, cfg *config.Config, log zerolog.Logger, cb Callbacks) *Session {
	return &Session{
		svc:          svc,
		testID:       testID,
		cb:           cb,
		log:          log.With().Str("component", "attempt_session").Logger(),
		tickInterval: cfg.TickInterval,
		queueDepth:   cfg.SaveQueueDepth,
		saveTimeout:  cfg.HTTPTimeout,
		status:       StatusNotStarted,
		known:        make(map[string]struct{}),
		answers:      make(map[string]int),
		saveStates:   make(map[string]SaveState),
	}
}

// Init starts or resumes the attempt: it obtains the attempt id, fetches the
// question sequence and the server's remaining time, and starts the countdown
// seeded from that value only — local time never self-initializes. On any
// failure the session stays NotStarted and no timer exists.
//
// A zero (or negative) seed means the attempt already expired; it is
// submitted immediately without a countdown ever starting.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusNotStarted || s.initializing {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	if s.testID == "" {
		s.mu.Unlock()
		return ErrMissingTestID
	}
	// Claim the session before releasing the lock: an overlapping Init (a
	// double-tap on "Start") must be rejected here, not after it has started
	// a second attempt and a second countdown.
	s.initializing = true
	s.mu.Unlock()

	attemptID, err := s.svc.StartAttempt(ctx, s.testID)
	if err != nil {
		s.endInit()
		return fmt.Errorf("start attempt: %w", err)
	}
	paper, err := s.svc.AttemptQuestions(ctx, attemptID)
	if err != nil {
		s.endInit()
		return fmt.Errorf("fetch attempt questions: %w", err)
	}

	s.mu.Lock()
	s.initializing = false
	s.attemptID = attemptID
	s.questions = paper.Questions
	for _, q := range paper.Questions {
		s.known[q.ID] = struct{}{}
	}
	// Resume: the server is the source of truth for answers saved in a
	// previous session. Keys outside the question sequence are discarded.
	for qid, opt := range paper.Answers {
		if _, ok := s.known[qid]; ok {
			s.answers[qid] = opt
			s.setSaveState(qid, SaveDone)
		}
	}
	s.remaining = paper.TimeLeftSeconds
	if s.remaining < 0 {
		s.remaining = 0
	}
	s.status = StatusInProgress
	s.saver = newSaver(s.svc, s.queueDepth, s.saveTimeout, s.noteSaveResult, s.log)

	seedExpired := s.remaining == 0
	if seedExpired {
		s.expired = true
	} else {
		s.timer = startCountdown(s.tickInterval, s.tick)
	}
	s.mu.Unlock()

	s.log.Info().
		Str("attempt_id", attemptID).
		Int("questions", len(paper.Questions)).
		Int("remaining_seconds", paper.TimeLeftSeconds).
		Msg("Attempt initialized")

	if seedExpired {
		s.autoSubmit(ctx)
	}
	return nil
}

// endInit releases the Init claim after a failed attempt start, leaving the
// session NotStarted and retriable.
func (s *Session) endInit() {
	s.mu.Lock()
	s.initializing = false
	s.mu.Unlock()
}

// MarkAnswer records the selection for questionID, visible immediately, and
// queues a best-effort background save. Re-marking overwrites. Calls before
// Init resolves, after submission, or for an unknown question are caller
// errors and no-op silently.
func (s *Session) MarkAnswer(questionID string, option int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress || s.attemptID == "" {
		return
	}
	if _, ok := s.known[questionID]; !ok {
		return
	}

	s.answers[questionID] = option
	s.setSaveState(questionID, SavePending)

	// enqueue never blocks, so holding the lock here is fine; it also rules
	// out a send racing the saver teardown in Submit.
	if s.saver != nil {
		s.saver.enqueue(saveJob{attemptID: s.attemptID, questionID: questionID, option: option})
	}
}

// Submit finalizes the attempt. Only one of several near-simultaneous
// triggers (manual tap, timer expiry) performs the network call; the rest get
// ErrNotInProgress. On failure the attempt returns to InProgress so a manual
// retry remains possible.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return ErrNotInProgress
	}
	s.status = StatusSubmitting
	attemptID := s.attemptID
	answers := make(map[string]int, len(s.answers))
	for qid, opt := range s.answers {
		answers[qid] = opt
	}
	s.mu.Unlock()

	if err := s.svc.SubmitAttempt(ctx, attemptID, answers); err != nil {
		s.mu.Lock()
		s.status = StatusInProgress
		s.mu.Unlock()
		return fmt.Errorf("submit attempt: %w", err)
	}

	s.mu.Lock()
	s.status = StatusSubmitted
	timer := s.timer
	s.timer = nil
	sv := s.saver
	s.saver = nil
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if sv != nil {
		sv.close()
	}

	s.log.Info().Str("attempt_id", attemptID).Msg("Attempt submitted")
	if s.cb.OnSubmitted != nil {
		s.cb.OnSubmitted(attemptID)
	}
	return nil
}

// Close releases the countdown and saver. Safe on every exit path and safe to
// call more than once. It does not change the attempt status — an attempt
// abandoned mid-way stays resumable server-side.
func (s *Session) Close() {
	s.mu.Lock()
	timer := s.timer
	s.timer = nil
	sv := s.saver
	s.saver = nil
	s.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	if sv != nil {
		sv.close()
	}
}

// tick advances the countdown by one interval. Returning false stops the
// timer goroutine.
func (s *Session) tick() bool {
	s.mu.Lock()

	switch s.status {
	case StatusSubmitting:
		// A submit is in flight; freeze the clock until it settles.
		s.mu.Unlock()
		return true
	case StatusInProgress:
	default:
		s.mu.Unlock()
		return false
	}

	if s.remaining <= 1 {
		s.remaining = 0
		if s.expired {
			s.mu.Unlock()
			return false
		}
		s.expired = true
		s.mu.Unlock()

		s.autoSubmit(context.Background())
		return false
	}

	s.remaining--
	s.mu.Unlock()
	return true
}

// autoSubmit is the timeout transition. A lost race against a manual submit
// is fine; any other failure is terminal for the student — time is already
// up — so it is logged as a hard error and surfaced to the host.
func (s *Session) autoSubmit(ctx context.Context) {
	err := s.Submit(ctx)
	if err == nil || errors.Is(err, ErrNotInProgress) {
		return
	}

	s.log.Error().Err(err).
		Str("attempt_id", s.AttemptID()).
		Msg("Auto-submit failed after time expiry; attempt needs server-side reconciliation")
	if s.cb.OnAutoSubmitFailed != nil {
		s.cb.OnAutoSubmitFailed(err)
	}
}

func (s *Session) setSaveState(questionID string, state SaveState) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.saveStates[questionID] = state
}

func (s *Session) noteSaveResult(questionID string, err error) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if _, ok := s.saveStates[questionID]; !ok {
		return
	}
	if err != nil {
		s.saveStates[questionID] = SaveFailed
	} else {
		s.saveStates[questionID] = SaveDone
	}
}

// ─── Snapshot accessors ─────────────────────────────────────────────────────

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// AttemptID returns the server-issued attempt id, empty before Init resolves.
func (s *Session) AttemptID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attemptID
}

// Questions returns the ordered question sequence.
func (s *Session) Questions() []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answers returns a copy of the answer map.
func (s *Session) Answers() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.answers))
	for qid, opt := range s.answers {
		out[qid] = opt
	}
	return out
}

// SaveStates returns a copy of the per-answer sync state.
func (s *Session) SaveStates() map[string]SaveState {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	out := make(map[string]SaveState, len(s.saveStates))
	for qid, st := range s.saveStates {
		out[qid] = st
	}
	return out
}

// Remaining returns the seconds left on the local countdown.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}
