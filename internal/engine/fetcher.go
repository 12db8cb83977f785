package engine

import (
	"context"
	"sync"

	"github.com/dekho-exam/prep-engine/internal/model"
)

// FetchState is the tri-state of a one-shot read-only load.
type FetchState string

const (
	FetchIdle    FetchState = "IDLE"
	FetchLoading FetchState = "LOADING"
	FetchReady   FetchState = "READY"
	FetchFailed  FetchState = "FAILED"
)

// Fetcher wraps a one-shot load with loading/error/success state for the UI.
// No caching, no retry, no invalidation — calling Fetch again simply reloads.
type Fetcher[T any] struct {
	load func(ctx context.Context) (T, error)

	mu    sync.Mutex
	state FetchState
	value T
	err   error
}

// NewFetcher creates an idle Fetcher over the given load function.
func NewFetcher[T any](load func(ctx context.Context) (T, error)) *Fetcher[T] {
	return &Fetcher[T]{load: load, state: FetchIdle}
}

// Fetch performs the load and records the outcome.
func (f *Fetcher[T]) Fetch(ctx context.Context) (T, error) {
	f.mu.Lock()
	f.state = FetchLoading
	f.mu.Unlock()

	value, err := f.load(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = FetchFailed
		f.err = err
		var zero T
		f.value = zero
		return zero, err
	}
	f.state = FetchReady
	f.value = value
	f.err = nil
	return value, nil
}

// State returns the current tri-state.
func (f *Fetcher[T]) State() FetchState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Value returns the loaded value and whether it is ready.
func (f *Fetcher[T]) Value() (T, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FetchReady {
		var zero T
		return zero, false
	}
	return f.value, true
}

// Err returns the last load error, nil unless state is FetchFailed.
func (f *Fetcher[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// NewInstructionsFetcher gates the "ready to start" UI.
func NewInstructionsFetcher(svc ReadService, testID string) *Fetcher[*model.Instructions] {
	return NewFetcher(func(ctx context.Context) (*model.Instructions, error) {
		return svc.GetInstructions(ctx, testID)
	})
}

// NewResultFetcher loads the score summary after submission.
func NewResultFetcher(svc ReadService, attemptID string) *Fetcher[*model.Result] {
	return NewFetcher(func(ctx context.Context) (*model.Result, error) {
		return svc.GetResult(ctx, attemptID)
	})
}

// NewSolutionsFetcher loads per-question solutions after submission.
func NewSolutionsFetcher(svc ReadService, attemptID string) *Fetcher[*model.SolutionSet] {
	return NewFetcher(func(ctx context.Context) (*model.SolutionSet, error) {
		return svc.GetSolutions(ctx, attemptID)
	})
}

// NewHistoryFetcher loads the student's attempt history.
func NewHistoryFetcher(svc ReadService) *Fetcher[[]model.AttemptSummary] {
	return NewFetcher(func(ctx context.Context) ([]model.AttemptSummary, error) {
		return svc.AttemptHistory(ctx)
	})
}
