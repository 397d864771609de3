package api

import (
	"context"
	"net/http"

	"github.com/harshhujare/urban-frontend/domain"
)

// AuthGatewayImpl implements domain.AuthGateway over the /auth REST surface
type AuthGatewayImpl struct {
	client *Client
}

// NewAuthGateway creates a new auth gateway
func NewAuthGateway(client *Client) domain.AuthGateway {
	return &AuthGatewayImpl{client: client}
}

// userEnvelope matches the {user, ...} shape every auth endpoint returns.
type userEnvelope struct {
	User *domain.User `json:"user"`
}

// Register implements domain.AuthGateway
func (g *AuthGatewayImpl) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var out userEnvelope
	if err := g.client.do(ctx, http.MethodPost, "/auth/register", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login implements domain.AuthGateway
func (g *AuthGatewayImpl) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body := map[string]string{"email": email, "password": password}
	var out userEnvelope
	if err := g.client.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout implements domain.AuthGateway. The backend clears the session
// cookie; the response message is not interesting to callers.
func (g *AuthGatewayImpl) Logout(ctx context.Context) error {
	return g.client.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// CurrentUser implements domain.AuthGateway ("who am I")
func (g *AuthGatewayImpl) CurrentUser(ctx context.Context) (*domain.User, error) {
	var out userEnvelope
	if err := g.client.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// UpdateProfile implements domain.AuthGateway
func (g *AuthGatewayImpl) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	var out userEnvelope
	if err := g.client.do(ctx, http.MethodPut, "/auth/me", update, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// SendOTP implements domain.AuthGateway
func (g *AuthGatewayImpl) SendOTP(ctx context.Context, phone string) (*domain.PhoneChallenge, error) {
	body := map[string]string{"phoneNumber": phone}
	var out domain.PhoneChallenge
	if err := g.client.do(ctx, http.MethodPost, "/auth/send-otp", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP implements domain.AuthGateway. Name rides along only for
// unregistered numbers; the backend ignores it otherwise.
func (g *AuthGatewayImpl) VerifyOTP(ctx context.Context, phone, code, name string) (*domain.User, error) {
	body := map[string]string{"phoneNumber": phone, "otp": code}
	if name != "" {
		body["name"] = name
	}
	var out userEnvelope
	if err := g.client.do(ctx, http.MethodPost, "/auth/verify-otp", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// GoogleLogin implements domain.AuthGateway
func (g *AuthGatewayImpl) GoogleLogin(ctx context.Context, credential string) (*domain.User, error) {
	body := map[string]string{"credential": credential}
	var out userEnvelope
	if err := g.client.do(ctx, http.MethodPost, "/auth/google-login", body, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}
