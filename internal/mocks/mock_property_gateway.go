package mocks

import (
	"context"

	"github.com/harshhujare/urban-frontend/domain"
)

// MockPropertyGateway implements domain.PropertyGateway interface for testing
type MockPropertyGateway struct {
	ListFunc   func(ctx context.Context, filters domain.PropertyFilters) ([]domain.Property, error)
	GetFunc    func(ctx context.Context, id string) (*domain.Property, error)
	MineFunc   func(ctx context.Context) ([]domain.Property, error)
	ByUserFunc func(ctx context.Context, userID string) ([]domain.Property, error)
	CreateFunc func(ctx context.Context, draft domain.PropertyDraft) (*domain.Property, error)
	UpdateFunc func(ctx context.Context, id string, draft domain.PropertyDraft) (*domain.Property, error)
	DeleteFunc func(ctx context.Context, id string) error
}

// NewMockPropertyGateway creates a new MockPropertyGateway with default behaviors
func NewMockPropertyGateway() *MockPropertyGateway {
	return &MockPropertyGateway{}
}

// List returns listings matching the filters
func (m *MockPropertyGateway) List(ctx context.Context, filters domain.PropertyFilters) ([]domain.Property, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filters)
	}
	return nil, nil
}

// Get returns one listing
func (m *MockPropertyGateway) Get(ctx context.Context, id string) (*domain.Property, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return &domain.Property{ID: id}, nil
}

// Mine returns the caller's listings
func (m *MockPropertyGateway) Mine(ctx context.Context) ([]domain.Property, error) {
	if m.MineFunc != nil {
		return m.MineFunc(ctx)
	}
	return nil, nil
}

// ByUser returns another user's listings
func (m *MockPropertyGateway) ByUser(ctx context.Context, userID string) ([]domain.Property, error) {
	if m.ByUserFunc != nil {
		return m.ByUserFunc(ctx, userID)
	}
	return nil, nil
}

// Create creates a listing
func (m *MockPropertyGateway) Create(ctx context.Context, draft domain.PropertyDraft) (*domain.Property, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, draft)
	}
	p := domain.Property{
		ID:          "mock-property",
		Title:       draft.Title,
		Description: draft.Description,
		RentType:    draft.RentType,
		RentAmount:  draft.RentAmount,
		MaxGuests:   draft.MaxGuests,
		Amenities:   draft.Amenities,
		Location:    draft.Location,
		Coordinates: draft.Coordinates,
		Images:      draft.Images,
	}
	return &p, nil
}

// Update updates a listing
func (m *MockPropertyGateway) Update(ctx context.Context, id string, draft domain.PropertyDraft) (*domain.Property, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, draft)
	}
	return &domain.Property{ID: id, Title: draft.Title}, nil
}

// Delete removes a listing
func (m *MockPropertyGateway) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
