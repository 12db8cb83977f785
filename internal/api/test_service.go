package api

import (
	"context"
	"fmt"

	"github.com/dekho-exam/prep-engine/internal/model"
	"github.com/dekho-exam/prep-engine/internal/validator"
)

// TestService covers the attempt lifecycle endpoints: instructions,
// start/resume, questions, answer saves, submission, results and solutions.
type TestService struct {
	c *Client
}

// GetInstructions fetches the pre-attempt metadata shown before starting.
func (s *TestService) GetInstructions(ctx context.Context, testID string) (*model.Instructions, error) {
	var out model.Instructions
	if err := s.c.get(ctx, "/test/get-test-instruction/"+testID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StartAttempt starts a new attempt for testID, or resumes the student's
// in-progress attempt if one exists. Returns the attempt id either way.
func (s *TestService) StartAttempt(ctx context.Context, testID string) (string, error) {
	var out model.StartedAttempt
	if err := s.c.post(ctx, "/test/start-test-attempt/"+testID, nil, &out); err != nil {
		return "", err
	}
	if fields := validator.Struct(&out); fields != nil {
		return "", fmt.Errorf("start attempt response: %v", fields)
	}
	return out.AttemptID, nil
}

// AttemptQuestions fetches the ordered question sequence, the remaining time
// and any previously saved answers for an active attempt.
func (s *TestService) AttemptQuestions(ctx context.Context, attemptID string) (*model.AttemptPaper, error) {
	var out model.AttemptPaper
	if err := s.c.get(ctx, "/test/get-attempt-questions/"+attemptID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveAnswer upserts a single selection server-side. The server treats each
// save as idempotent on (attemptId, questionId).
func (s *TestService) SaveAnswer(ctx context.Context, attemptID, questionID string, option int) error {
	req := model.SaveAnswerRequest{QuestionID: questionID, SelectedOption: option}
	if fields := validator.Struct(&req); fields != nil {
		return fmt.Errorf("save answer payload: %v", fields)
	}
	return s.c.post(ctx, "/test/save-answer/"+attemptID, req, nil)
}

// SubmitAttempt finalizes the attempt, sending the full local answer map.
func (s *TestService) SubmitAttempt(ctx context.Context, attemptID string, answers map[string]int) error {
	return s.c.post(ctx, "/test/submit-test/"+attemptID, model.SubmitRequest{Answers: answers}, nil)
}

// GetResult fetches the score summary of a submitted attempt.
func (s *TestService) GetResult(ctx context.Context, attemptID string) (*model.Result, error) {
	var out model.Result
	if err := s.c.get(ctx, "/test/get-test-result/"+attemptID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSolutions fetches per-question correctness and explanations.
func (s *TestService) GetSolutions(ctx context.Context, attemptID string) (*model.SolutionSet, error) {
	var out model.SolutionSet
	if err := s.c.get(ctx, "/test/view-solution/"+attemptID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AttemptHistory lists the student's past attempts, newest first.
func (s *TestService) AttemptHistory(ctx context.Context) ([]model.AttemptSummary, error) {
	var out []model.AttemptSummary
	if err := s.c.get(ctx, "/test/attempt-history", &out); err != nil {
		return nil, err
	}
	return out, nil
}
