package mocks

import (
	"context"

	"github.com/harshhujare/urban-frontend/domain"
)

// MockAuthGateway implements domain.AuthGateway interface for testing
type MockAuthGateway struct {
	RegisterFunc      func(ctx context.Context, name, email, password string) (*domain.User, error)
	LoginFunc         func(ctx context.Context, email, password string) (*domain.User, error)
	LogoutFunc        func(ctx context.Context) error
	CurrentUserFunc   func(ctx context.Context) (*domain.User, error)
	UpdateProfileFunc func(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error)
	SendOTPFunc       func(ctx context.Context, phone string) (*domain.PhoneChallenge, error)
	VerifyOTPFunc     func(ctx context.Context, phone, code, name string) (*domain.User, error)
	GoogleLoginFunc   func(ctx context.Context, credential string) (*domain.User, error)
}

// NewMockAuthGateway creates a new MockAuthGateway with default behaviors
func NewMockAuthGateway() *MockAuthGateway {
	return &MockAuthGateway{}
}

// Register creates an account
func (m *MockAuthGateway) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, email, password)
	}
	// Default behavior: echo a user back
	return &domain.User{ID: "mock", Name: name, Email: email, Role: domain.RoleGuest}, nil
}

// Login authenticates with email and password
func (m *MockAuthGateway) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &domain.User{ID: "mock", Email: email, Role: domain.RoleGuest}, nil
}

// Logout invalidates the server-side session
func (m *MockAuthGateway) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

// CurrentUser fetches the authoritative profile
func (m *MockAuthGateway) CurrentUser(ctx context.Context) (*domain.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	// Default behavior: no session
	return nil, domain.ErrNotAuthenticated
}

// UpdateProfile updates the mutable profile attributes
func (m *MockAuthGateway) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, update)
	}
	return &domain.User{ID: "mock", Name: update.Name, Email: update.Email}, nil
}

// SendOTP requests a one-time code
func (m *MockAuthGateway) SendOTP(ctx context.Context, phone string) (*domain.PhoneChallenge, error) {
	if m.SendOTPFunc != nil {
		return m.SendOTPFunc(ctx, phone)
	}
	return &domain.PhoneChallenge{IsNewUser: false, ExpiresIn: 300}, nil
}

// VerifyOTP submits a one-time code
func (m *MockAuthGateway) VerifyOTP(ctx context.Context, phone, code, name string) (*domain.User, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, phone, code, name)
	}
	return &domain.User{ID: "mock", Phone: phone, Name: name, Role: domain.RoleGuest}, nil
}

// GoogleLogin exchanges a federated token for a session
func (m *MockAuthGateway) GoogleLogin(ctx context.Context, credential string) (*domain.User, error) {
	if m.GoogleLoginFunc != nil {
		return m.GoogleLoginFunc(ctx, credential)
	}
	return &domain.User{ID: "mock", Role: domain.RoleGuest}, nil
}
