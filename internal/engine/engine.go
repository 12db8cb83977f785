// Package engine implements the timed test-attempt engine: the attempt
// session store, the countdown scheduler, the background answer saver and the
// one-shot fetchers gating entry and exit of the attempt state machine.
//
// The engine owns all in-memory attempt state. The remote test service owns
// durable state; local state is seeded from it at start/resume time and never
// re-synced mid-attempt.
package engine

import (
	"context"

	"github.com/dekho-exam/prep-engine/internal/model"
)

// AttemptService is the slice of the remote test service the session store
// depends on. *api.TestService satisfies it.
type AttemptService interface {
	// StartAttempt starts or resumes an attempt and returns its id.
	StartAttempt(ctx context.Context, testID string) (string, error)
	// AttemptQuestions returns the ordered questions, remaining seconds and
	// any previously saved answers.
	AttemptQuestions(ctx context.Context, attemptID string) (*model.AttemptPaper, error)
	// SaveAnswer upserts one selection, idempotent on (attemptID, questionID).
	SaveAnswer(ctx context.Context, attemptID, questionID string, option int) error
	// SubmitAttempt finalizes the attempt with the full local answer map.
	SubmitAttempt(ctx context.Context, attemptID string, answers map[string]int) error
}

// ReadService is the read-only slice used by the entry/exit fetchers.
type ReadService interface {
	GetInstructions(ctx context.Context, testID string) (*model.Instructions, error)
	GetResult(ctx context.Context, attemptID string) (*model.Result, error)
	GetSolutions(ctx context.Context, attemptID string) (*model.SolutionSet, error)
	AttemptHistory(ctx context.Context) ([]model.AttemptSummary, error)
}
