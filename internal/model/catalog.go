package model

// Category groups mock tests (e.g. Banking, SSC, Railways).
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	TestCount int    `json:"testCount"`
}

// TestSummary is a catalog entry for one mock test.
type TestSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	TotalQuestions  int    `json:"totalQuestions"`
	DurationMinutes int    `json:"durationMinutes"`
	IsFree          bool   `json:"isFree"`
}

// PurchaseOption is the plan offered when a locked category is opened.
type PurchaseOption struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"durationDays"`
}

// CategoryAccess reports whether the student may enter a category and, if
// not, which plan unlocks it.
type CategoryAccess struct {
	IsUnlocked     bool            `json:"isUnlocked"`
	PurchaseOption *PurchaseOption `json:"purchaseOption,omitempty"`
}
