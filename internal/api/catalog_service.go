package api

import (
	"context"

	"github.com/dekho-exam/prep-engine/internal/model"
)

// CatalogService covers category and test browsing endpoints.
type CatalogService struct {
	c *Client
}

// Categories lists all exam categories.
func (s *CatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if err := s.c.get(ctx, "/category/categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CategoryAccess reports whether the student may enter a category and which
// plan unlocks it otherwise.
func (s *CatalogService) CategoryAccess(ctx context.Context, categoryID string) (*model.CategoryAccess, error) {
	var out model.CategoryAccess
	if err := s.c.get(ctx, "/category/check-category-access/"+categoryID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TestsByCategory lists the mock tests inside one category.
func (s *CatalogService) TestsByCategory(ctx context.Context, categoryID string) ([]model.TestSummary, error) {
	var out []model.TestSummary
	if err := s.c.get(ctx, "/test/get-test-by-category-id/"+categoryID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PopularTests lists the home-screen featured tests.
func (s *CatalogService) PopularTests(ctx context.Context) ([]model.TestSummary, error) {
	var out []model.TestSummary
	if err := s.c.get(ctx, "/test/get-popular-tests", &out); err != nil {
		return nil, err
	}
	return out, nil
}
