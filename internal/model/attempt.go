package model

// Question is one item in an attempt's fixed, ordered sequence. Options keep
// the order the server sent them in; their count is not fixed by the client.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"question"`
	Options []string `json:"options"`
}

// StartedAttempt is the response to starting (or resuming) an attempt.
type StartedAttempt struct {
	AttemptID string `json:"attemptId" validate:"required"`
}

// AttemptPaper carries everything needed to render an active attempt: the
// ordered question sequence, the server-authoritative remaining time, and —
// when resuming — the answers already saved server-side, keyed by question id
// with 1-based option values.
type AttemptPaper struct {
	Questions       []Question     `json:"questions"`
	TimeLeftSeconds int            `json:"timeLeftSeconds"`
	Answers         map[string]int `json:"answers,omitempty"`
}

// SaveAnswerRequest persists a single selection. SelectedOption is 1-based.
type SaveAnswerRequest struct {
	QuestionID     string `json:"questionId" validate:"required"`
	SelectedOption int    `json:"selectedOption" validate:"min=1"`
}

// SubmitRequest finalizes an attempt. The full local answer map is sent so the
// server does not depend on every background save having succeeded.
type SubmitRequest struct {
	Answers map[string]int `json:"answers"`
}

// Instructions is the pre-attempt metadata shown before starting.
type Instructions struct {
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	TotalQuestions  int     `json:"totalQuestions"`
	PositiveMarks   float64 `json:"positiveMarks"`
	NegativeMarks   float64 `json:"negativeMarks"`
}

// Result is the score summary for a submitted attempt.
type Result struct {
	AttemptID  string  `json:"attemptId"`
	TestName   string  `json:"testName"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"maxScore"`
	Percentage float64 `json:"percentage"`
	Correct    int     `json:"correct"`
	Incorrect  int     `json:"incorrect"`
	Unanswered int     `json:"unanswered"`
}

// Solution explains one question of a submitted attempt.
type Solution struct {
	QuestionID     string   `json:"questionId"`
	Text           string   `json:"question"`
	Options        []string `json:"options"`
	CorrectOption  int      `json:"correctOption"`
	SelectedOption int      `json:"selectedOption,omitempty"`
	Explanation    string   `json:"explanation,omitempty"`
}

// SolutionSet is the per-question breakdown plus summary stats.
type SolutionSet struct {
	Summary   *Result    `json:"summary,omitempty"`
	Solutions []Solution `json:"solutions"`
}

// AttemptSummary is one row of the student's attempt history.
type AttemptSummary struct {
	AttemptID   string  `json:"attemptId"`
	TestID      string  `json:"testId"`
	TestName    string  `json:"testName"`
	Score       float64 `json:"score"`
	Percentage  float64 `json:"percentage"`
	SubmittedAt string  `json:"submittedAt"`
}
