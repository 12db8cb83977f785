package model

// Plan is a purchasable subscription plan.
type Plan struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"durationDays"`
}

// Subscription is one of the student's active or expired plans.
type Subscription struct {
	ID        string `json:"id"`
	PlanID    string `json:"planId"`
	PlanName  string `json:"planName"`
	Status    string `json:"status"`
	StartsAt  string `json:"startsAt"`
	ExpiresAt string `json:"expiresAt"`
}

// Order is created server-side before handing off to the payment gateway.
type Order struct {
	OrderID  string  `json:"orderId" validate:"required"`
	Key      string  `json:"key"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// PaymentProof is the gateway's signed confirmation, verified server-side.
type PaymentProof struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}
