package api

import (
	"context"
	"net/http"

	"github.com/google/go-querystring/query"

	"github.com/harshhujare/urban-frontend/domain"
)

// PropertyGatewayImpl implements domain.PropertyGateway over /properties
type PropertyGatewayImpl struct {
	client *Client
}

// NewPropertyGateway creates a new property gateway
func NewPropertyGateway(client *Client) domain.PropertyGateway {
	return &PropertyGatewayImpl{client: client}
}

// listEnvelope matches the {success, data} shape of listing endpoints.
type listEnvelope struct {
	Success bool              `json:"success"`
	Data    []domain.Property `json:"data"`
}

type itemEnvelope struct {
	Success bool             `json:"success"`
	Data    *domain.Property `json:"data"`
}

// List implements domain.PropertyGateway. Filters encode into the query
// string the same way the search page reflects them into the URL.
func (g *PropertyGatewayImpl) List(ctx context.Context, filters domain.PropertyFilters) ([]domain.Property, error) {
	path := "/properties"
	if !filters.IsZero() {
		values, err := query.Values(filters)
		if err != nil {
			return nil, err
		}
		path += "?" + values.Encode()
	}

	var out listEnvelope
	if err := g.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Get implements domain.PropertyGateway
func (g *PropertyGatewayImpl) Get(ctx context.Context, id string) (*domain.Property, error) {
	var out itemEnvelope
	if err := g.client.do(ctx, http.MethodGet, "/properties/"+id, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Mine implements domain.PropertyGateway
func (g *PropertyGatewayImpl) Mine(ctx context.Context) ([]domain.Property, error) {
	var out listEnvelope
	if err := g.client.do(ctx, http.MethodGet, "/properties/my", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ByUser implements domain.PropertyGateway
func (g *PropertyGatewayImpl) ByUser(ctx context.Context, userID string) ([]domain.Property, error) {
	var out listEnvelope
	if err := g.client.do(ctx, http.MethodGet, "/properties/user/"+userID, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Create implements domain.PropertyGateway
func (g *PropertyGatewayImpl) Create(ctx context.Context, draft domain.PropertyDraft) (*domain.Property, error) {
	var out itemEnvelope
	if err := g.client.do(ctx, http.MethodPost, "/properties", draft, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Update implements domain.PropertyGateway
func (g *PropertyGatewayImpl) Update(ctx context.Context, id string, draft domain.PropertyDraft) (*domain.Property, error) {
	var out itemEnvelope
	if err := g.client.do(ctx, http.MethodPut, "/properties/"+id, draft, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Delete implements domain.PropertyGateway
func (g *PropertyGatewayImpl) Delete(ctx context.Context, id string) error {
	return g.client.do(ctx, http.MethodDelete, "/properties/"+id, nil, nil)
}
