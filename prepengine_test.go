package prepengine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dekho-exam/prep-engine/internal/config"
	"github.com/dekho-exam/prep-engine/internal/engine"
)

// fakeBackend is an httptest stand-in for the remote test service, covering
// the full student journey.
type fakeBackend struct {
	mu          sync.Mutex
	savedCount  int
	submitted   map[string]int
	submitCalls int
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /test/get-test-instruction/test-42", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"name":"Reasoning Mock 1","durationMinutes":2,"totalQuestions":2,"positiveMarks":1,"negativeMarks":0.25}}`))
	})
	mux.HandleFunc("POST /test/start-test-attempt/test-42", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"attemptId":"a1"}}`))
	})
	mux.HandleFunc("GET /test/get-attempt-questions/a1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{
			"questions":[
				{"id":"q1","question":"If A+B=10 and A-B=4, find A*B.","options":["16","21","24","20"]},
				{"id":"q2","question":"2, 5, 10, 17, ...","options":["24","26","25","27"]}
			],
			"timeLeftSeconds":120
		}}`))
	})
	mux.HandleFunc("POST /test/save-answer/a1", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.savedCount++
		b.mu.Unlock()
		w.Write([]byte(`{"data":{"saved":true}}`))
	})
	mux.HandleFunc("POST /test/submit-test/a1", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Answers map[string]int `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("submit body: %v", err)
		}
		b.mu.Lock()
		b.submitCalls++
		b.submitted = body.Answers
		b.mu.Unlock()
		w.Write([]byte(`{"data":{"attemptId":"a1"}}`))
	})
	mux.HandleFunc("GET /test/get-test-result/a1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"attemptId":"a1","score":1.75,"percentage":87.5,"correct":2,"incorrect":0}}`))
	})

	return mux
}

func TestStudentJourney(t *testing.T) {
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler(t))
	t.Cleanup(srv.Close)

	eng, err := NewWithConfig(&config.Config{
		APIBaseURL:     srv.URL,
		HTTPTimeout:    5 * time.Second,
		LogLevel:       "error",
		LogFormat:      "json",
		TickInterval:   time.Hour, // keep the real ticker out of the way
		SaveQueueDepth: 8,
		CacheDir:       t.TempDir(),
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	ctx := context.Background()

	// Entry gate: instructions load before the start affordance shows.
	instructions := eng.Instructions("test-42")
	info, err := instructions.Fetch(ctx)
	if err != nil {
		t.Fatalf("instructions: %v", err)
	}
	if info.TotalQuestions != 2 || info.DurationMinutes != 2 {
		t.Errorf("instructions = %+v", info)
	}

	// Start, answer, submit.
	var navigatedTo string
	session := eng.NewAttempt("test-42", engine.Callbacks{
		OnSubmitted: func(attemptID string) { navigatedTo = attemptID },
	})
	defer session.Close()

	if err := session.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if session.Remaining() != 120 {
		t.Errorf("remaining = %d, want 120", session.Remaining())
	}

	session.MarkAnswer("q1", 2)
	session.MarkAnswer("q2", 2)

	if err := session.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if navigatedTo != "a1" {
		t.Errorf("result navigation keyed by %q, want a1", navigatedTo)
	}

	backend.mu.Lock()
	submitted := backend.submitted
	calls := backend.submitCalls
	backend.mu.Unlock()
	if calls != 1 {
		t.Errorf("submit calls = %d, want 1", calls)
	}
	if submitted["q1"] != 2 || submitted["q2"] != 2 {
		t.Errorf("submitted answers = %v", submitted)
	}

	// Exit gate: result view pulls from the read-only fetcher.
	result, err := eng.Result("a1").Fetch(ctx)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if result.Correct != 2 {
		t.Errorf("result = %+v", result)
	}
}
