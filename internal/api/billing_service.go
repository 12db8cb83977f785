package api

import (
	"context"
	"fmt"

	"github.com/dekho-exam/prep-engine/internal/model"
	"github.com/dekho-exam/prep-engine/internal/validator"
)

// BillingService covers subscription plans and the payment handshake. The
// gateway checkout itself happens in the host app; the engine only creates
// the order and forwards the signed proof for server-side verification.
type BillingService struct {
	c *Client
}

// Plans lists all purchasable subscription plans.
func (s *BillingService) Plans(ctx context.Context) ([]model.Plan, error) {
	var out []model.Plan
	if err := s.c.get(ctx, "/subscription/get-all-subscriptions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MySubscriptions lists the student's own subscriptions.
func (s *BillingService) MySubscriptions(ctx context.Context) ([]model.Subscription, error) {
	var out []model.Subscription
	if err := s.c.get(ctx, "/subscription/my-subscriptions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateOrder opens a gateway order for the given plan.
func (s *BillingService) CreateOrder(ctx context.Context, planID string) (*model.Order, error) {
	var out model.Order
	if err := s.c.post(ctx, "/payment/create-order", map[string]string{"planId": planID}, &out); err != nil {
		return nil, err
	}
	if fields := validator.Struct(&out); fields != nil {
		return nil, fmt.Errorf("order response: %v", fields)
	}
	return &out, nil
}

// VerifyPayment forwards the gateway's signed confirmation for verification.
func (s *BillingService) VerifyPayment(ctx context.Context, proof model.PaymentProof) error {
	if fields := validator.Struct(&proof); fields != nil {
		return fmt.Errorf("payment proof payload: %v", fields)
	}
	return s.c.post(ctx, "/payment/verify", proof, nil)
}
