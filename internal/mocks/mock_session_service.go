package mocks

import (
	"context"

	"github.com/harshhujare/urban-frontend/domain"
)

// MockSessionService implements domain.SessionService interface for testing
type MockSessionService struct {
	HydrateFunc       func(ctx context.Context) domain.Session
	SnapshotFunc      func() domain.Session
	AuthenticateFunc  func(ctx context.Context, cred domain.Credential) (*domain.User, error)
	SendPhoneCodeFunc func(ctx context.Context, phone string) (*domain.PhoneChallenge, error)
	UpdateProfileFunc func(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error)
	LogoutFunc        func(ctx context.Context) error

	revalidated chan struct{}
	listeners   []domain.SessionListener
}

// NewMockSessionService creates a new MockSessionService with default behaviors
func NewMockSessionService() *MockSessionService {
	ch := make(chan struct{})
	close(ch)
	return &MockSessionService{revalidated: ch}
}

// Hydrate establishes the initial session
func (m *MockSessionService) Hydrate(ctx context.Context) domain.Session {
	if m.HydrateFunc != nil {
		return m.HydrateFunc(ctx)
	}
	return domain.Session{State: domain.SessionUnauthenticated}
}

// Revalidated reports first-resolution completion
func (m *MockSessionService) Revalidated() <-chan struct{} {
	return m.revalidated
}

// Snapshot returns the current session
func (m *MockSessionService) Snapshot() domain.Session {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return domain.Session{State: domain.SessionUnauthenticated}
}

// Authenticate performs a login transition
func (m *MockSessionService) Authenticate(ctx context.Context, cred domain.Credential) (*domain.User, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, cred)
	}
	return &domain.User{ID: "mock", Role: domain.RoleGuest}, nil
}

// SendPhoneCode requests a one-time code
func (m *MockSessionService) SendPhoneCode(ctx context.Context, phone string) (*domain.PhoneChallenge, error) {
	if m.SendPhoneCodeFunc != nil {
		return m.SendPhoneCodeFunc(ctx, phone)
	}
	return &domain.PhoneChallenge{IsNewUser: false, ExpiresIn: 300}, nil
}

// UpdateProfile updates profile fields
func (m *MockSessionService) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, update)
	}
	return &domain.User{ID: "mock"}, nil
}

// Logout clears the session
func (m *MockSessionService) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

// AddListener registers a session listener
func (m *MockSessionService) AddListener(listener domain.SessionListener) {
	m.listeners = append(m.listeners, listener)
}
