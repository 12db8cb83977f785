package engine

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type noteRecorder struct {
	mu    sync.Mutex
	notes map[string]error
}

func newNoteRecorder() *noteRecorder {
	return &noteRecorder{notes: make(map[string]error)}
}

func (r *noteRecorder) note(questionID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[questionID] = err
}

func (r *noteRecorder) get(questionID string) (error, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	err, ok := r.notes[questionID]
	return err, ok
}

func TestSaverPersistsQueuedAnswers(t *testing.T) {
	svc := &fakeService{}
	rec := newNoteRecorder()

	s := newSaver(svc, 8, time.Second, rec.note, zerolog.Nop())
	s.enqueue(saveJob{attemptID: "a1", questionID: "q1", option: 2})
	s.enqueue(saveJob{attemptID: "a1", questionID: "q2", option: 4})
	s.close() // drains before returning

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.saved["q1"] != 2 || svc.saved["q2"] != 4 {
		t.Errorf("saved = %v, want map[q1:2 q2:4]", svc.saved)
	}
	if err, ok := rec.get("q1"); !ok || err != nil {
		t.Errorf("q1 note = %v/%v, want recorded nil", err, ok)
	}
}

func TestSaverReportsFailuresWithoutRetry(t *testing.T) {
	svc := &fakeService{saveErr: errors.New("network down")}
	rec := newNoteRecorder()

	s := newSaver(svc, 8, time.Second, rec.note, zerolog.Nop())
	s.enqueue(saveJob{attemptID: "a1", questionID: "q1", option: 1})
	s.close()

	if err, ok := rec.get("q1"); !ok || err == nil {
		t.Fatalf("q1 note = %v/%v, want recorded failure", err, ok)
	}
	if got := svc.saves(); got != 1 {
		t.Errorf("save calls = %d, want 1 (no retry)", got)
	}
}

func TestSaverDropsWhenQueueFull(t *testing.T) {
	svc := &fakeService{
		saveGate:    make(chan struct{}),
		saveEntered: make(chan struct{}, 1),
	}
	rec := newNoteRecorder()

	s := newSaver(svc, 1, time.Second, rec.note, zerolog.Nop())

	s.enqueue(saveJob{attemptID: "a1", questionID: "q1", option: 1})
	<-svc.saveEntered // worker is now blocked inside the first save
	s.enqueue(saveJob{attemptID: "a1", questionID: "q2", option: 2})

	// Queue depth 1 is exhausted: this one is dropped, caller never blocks.
	s.enqueue(saveJob{attemptID: "a1", questionID: "q3", option: 3})
	if err, ok := rec.get("q3"); !ok || !errors.Is(err, errQueueFull) {
		t.Errorf("q3 note = %v/%v, want errQueueFull", err, ok)
	}

	svc.mu.Lock()
	svc.saveEntered = nil
	svc.mu.Unlock()
	close(svc.saveGate)
	s.close()

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if _, ok := svc.saved["q2"]; !ok {
		t.Error("buffered q2 save lost")
	}
	if _, ok := svc.saved["q3"]; ok {
		t.Error("dropped q3 was saved anyway")
	}
}
