package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var errQueueFull = errors.New("save queue full")

// saveJob is one answer heading to the server in the background.
type saveJob struct {
	attemptID  string
	questionID string
	option     int
}

// saver propagates answered questions to the remote service best effort: a
// bounded queue drained by a single worker goroutine. Failures are logged and
// reported to the session's sync state, never retried — the local answer map
// stays authoritative and the full map is re-sent at submit time.
type saver struct {
	svc     AttemptService
	jobs    chan saveJob
	done    chan struct{}
	timeout time.Duration
	note    func(questionID string, err error)
	log     zerolog.Logger

	closeOnce sync.Once
}

func newSaver(svc AttemptService, depth int, timeout time.Duration, note func(string, error), log zerolog.Logger) *saver {
	if depth < 1 {
		depth = 1
	}
	s := &saver{
		svc:     svc,
		jobs:    make(chan saveJob, depth),
		done:    make(chan struct{}),
		timeout: timeout,
		note:    note,
		log:     log.With().Str("component", "answer_saver").Logger(),
	}
	go s.run()
	return s
}

// enqueue never blocks the caller. A full queue drops the job; the answer is
// still held locally and covered by the submit payload.
func (s *saver) enqueue(job saveJob) {
	select {
	case s.jobs <- job:
	default:
		s.log.Warn().
			Str("question_id", job.questionID).
			Msg("Save queue full, dropping answer save")
		s.note(job.questionID, errQueueFull)
	}
}

func (s *saver) run() {
	defer close(s.done)

	for job := range s.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		err := s.svc.SaveAnswer(ctx, job.attemptID, job.questionID, job.option)
		cancel()

		if err != nil {
			s.log.Error().Err(err).
				Str("attempt_id", job.attemptID).
				Str("question_id", job.questionID).
				Msg("Answer save failed")
		}
		s.note(job.questionID, err)
	}
}

// close drains queued saves and waits for the worker to exit.
func (s *saver) close() {
	s.closeOnce.Do(func() { close(s.jobs) })
	<-s.done
}
