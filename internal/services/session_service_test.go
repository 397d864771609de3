package services

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/harshhujare/urban-frontend/domain"
	"github.com/harshhujare/urban-frontend/internal/mocks"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func waitRevalidated(t *testing.T, svc domain.SessionService) {
	t.Helper()
	select {
	case <-svc.Revalidated():
	case <-time.After(2 * time.Second):
		t.Fatal("revalidation did not resolve")
	}
}

func cachedAsha() *domain.User {
	return &domain.User{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: domain.RoleGuest}
}

func TestSessionServiceImpl_Hydrate_CacheFirst(t *testing.T) {
	// A present cache record must authenticate the session before any
	// network call resolves.
	authGw := mocks.NewMockAuthGateway()
	cache := mocks.NewMockProfileCache()
	cache.Seed(cachedAsha())

	release := make(chan struct{})
	authGw.CurrentUserFunc = func(ctx context.Context) (*domain.User, error) {
		<-release
		return cachedAsha(), nil
	}

	svc := NewSessionService(authGw, cache, testLogger())
	session := svc.Hydrate(context.Background())

	if !session.IsAuthenticated() {
		t.Fatal("expected authenticated session from cache")
	}
	if session.State != domain.SessionTrustedCached {
		t.Errorf("expected trusted_cached, got %s", session.State)
	}
	if session.Loading() {
		t.Error("loading must be false once the cache resolved")
	}
	if session.User.Email != "asha@example.com" {
		t.Errorf("expected cached profile, got %+v", session.User)
	}

	close(release)
	waitRevalidated(t, svc)
}

func TestSessionServiceImpl_Hydrate_RevalidationOverwrites(t *testing.T) {
	// The backend's profile wins over the cached one.
	authGw := mocks.NewMockAuthGateway()
	cache := mocks.NewMockProfileCache()
	cache.Seed(cachedAsha())

	fresh := &domain.User{ID: "u1", Name: "Asha R", Email: "asha.r@example.com", Role: domain.RoleHost}
	authGw.CurrentUserFunc = func(ctx context.Context) (*domain.User, error) {
		return fresh, nil
	}

	svc := NewSessionService(authGw, cache, testLogger())
	svc.Hydrate(context.Background())
	waitRevalidated(t, svc)

	session := svc.Snapshot()
	if session.State != domain.SessionVerified {
		t.Errorf("expected verified, got %s", session.State)
	}
	if session.User.Email != "asha.r@example.com" || session.User.Role != domain.RoleHost {
		t.Errorf("expected backend profile to overwrite cache, got %+v", session.User)
	}
	if stored := cache.Stored(); stored == nil || stored.Email != "asha.r@example.com" {
		t.Errorf("expected cache refreshed with backend profile, got %+v", stored)
	}
}

func TestSessionServiceImpl_Hydrate_RevalidationFailureClears(t *testing.T) {
	// An expired cookie after an optimistic render silently logs out.
	authGw := mocks.NewMockAuthGateway()
	cache := mocks.NewMockProfileCache()
	cache.Seed(cachedAsha())

	authGw.CurrentUserFunc = func(ctx context.Context) (*domain.User, error) {
		return nil, domain.ErrSessionExpired
	}

	var expired []domain.SessionEvent
	svc := NewSessionService(authGw, cache, testLogger())
	svc.AddListener(domain.SessionListenerFunc(func(e domain.SessionEvent) {
		if e.EventType == domain.SessionExpiredEvent {
			expired = append(expired, e)
		}
	}))

	svc.Hydrate(context.Background())
	waitRevalidated(t, svc)

	session := svc.Snapshot()
	if session.IsAuthenticated() || session.User != nil {
		t.Errorf("expected cleared session, got %+v", session)
	}
	if session.State != domain.SessionUnauthenticated {
		t.Errorf("expected unauthenticated, got %s", session.State)
	}
	if cache.Stored() != nil {
		t.Error("expected cache record deleted after failed revalidation")
	}
	if len(expired) != 1 {
		t.Errorf("expected one session-expired event, got %d", len(expired))
	}
}

func TestSessionServiceImpl_Hydrate_CacheMiss(t *testing.T) {
	tests := []struct {
		name          string
		currentUser   func(ctx context.Context) (*domain.User, error)
		wantAuth      bool
		wantState     domain.SessionState
		wantCacheUser bool
	}{
		{
			name: "backend session present",
			currentUser: func(ctx context.Context) (*domain.User, error) {
				return cachedAsha(), nil
			},
			wantAuth:      true,
			wantState:     domain.SessionVerified,
			wantCacheUser: true,
		},
		{
			name: "no backend session",
			currentUser: func(ctx context.Context) (*domain.User, error) {
				return nil, domain.ErrNotAuthenticated
			},
			wantAuth:      false,
			wantState:     domain.SessionUnauthenticated,
			wantCacheUser: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authGw := mocks.NewMockAuthGateway()
			authGw.CurrentUserFunc = tt.currentUser
			cache := mocks.NewMockProfileCache()

			svc := NewSessionService(authGw, cache, testLogger())
			session := svc.Hydrate(context.Background())

			if session.Loading() {
				t.Error("loading must resolve unconditionally after hydration")
			}
			if session.IsAuthenticated() != tt.wantAuth {
				t.Errorf("IsAuthenticated() = %v, want %v", session.IsAuthenticated(), tt.wantAuth)
			}
			if session.State != tt.wantState {
				t.Errorf("state = %s, want %s", session.State, tt.wantState)
			}
			if (cache.Stored() != nil) != tt.wantCacheUser {
				t.Errorf("cache presence = %v, want %v", cache.Stored() != nil, tt.wantCacheUser)
			}
			waitRevalidated(t, svc)
		})
	}
}

func TestSessionServiceImpl_Hydrate_RunsOnce(t *testing.T) {
	authGw := mocks.NewMockAuthGateway()
	calls := 0
	authGw.CurrentUserFunc = func(ctx context.Context) (*domain.User, error) {
		calls++
		return nil, domain.ErrNotAuthenticated
	}

	svc := NewSessionService(authGw, mocks.NewMockProfileCache(), testLogger())
	svc.Hydrate(context.Background())
	svc.Hydrate(context.Background())

	if calls != 1 {
		t.Errorf("expected a single who-am-I call, got %d", calls)
	}
}

func TestSessionServiceImpl_Authenticate(t *testing.T) {
	user := cachedAsha()

	tests := []struct {
		name          string
		cred          domain.Credential
		setupMocks    func(*mocks.MockAuthGateway)
		expectedError error
		wantAuth      bool
	}{
		{
			name: "password login succeeds",
			cred: domain.PasswordCredential{Email: "asha@example.com", Password: "secret123"},
			setupMocks: func(authGw *mocks.MockAuthGateway) {
				authGw.LoginFunc = func(ctx context.Context, email, password string) (*domain.User, error) {
					return user, nil
				}
			},
			wantAuth: true,
		},
		{
			name:          "password login requires email",
			cred:          domain.PasswordCredential{Password: "secret123"},
			setupMocks:    func(authGw *mocks.MockAuthGateway) {},
			expectedError: domain.ErrEmailRequired,
		},
		{
			name: "registration succeeds",
			cred: domain.RegisterCredential{Name: "Asha", Email: "asha@example.com", Password: "secret123", PasswordConfirm: "secret123"},
			setupMocks: func(authGw *mocks.MockAuthGateway) {
				authGw.RegisterFunc = func(ctx context.Context, name, email, password string) (*domain.User, error) {
					return user, nil
				}
			},
			wantAuth: true,
		},
		{
			name:          "registration rejects short password",
			cred:          domain.RegisterCredential{Name: "Asha", Email: "asha@example.com", Password: "abc", PasswordConfirm: "abc"},
			setupMocks:    func(authGw *mocks.MockAuthGateway) {},
			expectedError: domain.ErrPasswordTooShort,
		},
		{
			name:          "registration rejects mismatched passwords",
			cred:          domain.RegisterCredential{Name: "Asha", Email: "asha@example.com", Password: "secret123", PasswordConfirm: "secret124"},
			setupMocks:    func(authGw *mocks.MockAuthGateway) {},
			expectedError: domain.ErrPasswordMismatch,
		},
		{
			name: "phone login normalizes the number",
			cred: domain.PhoneCredential{Phone: "+91 98765 43210", Code: "1234"},
			setupMocks: func(authGw *mocks.MockAuthGateway) {
				authGw.VerifyOTPFunc = func(ctx context.Context, phone, code, name string) (*domain.User, error) {
					if phone != "9876543210" {
						return nil, errors.New("phone not normalized: " + phone)
					}
					return user, nil
				}
			},
			wantAuth: true,
		},
		{
			name:          "phone login rejects short code",
			cred:          domain.PhoneCredential{Phone: "9876543210", Code: "12"},
			setupMocks:    func(authGw *mocks.MockAuthGateway) {},
			expectedError: domain.ErrCodeLength,
		},
		{
			name: "federated login succeeds",
			cred: domain.FederatedCredential{Token: "header.payload.sig"},
			setupMocks: func(authGw *mocks.MockAuthGateway) {
				authGw.GoogleLoginFunc = func(ctx context.Context, credential string) (*domain.User, error) {
					return user, nil
				}
			},
			wantAuth: true,
		},
		{
			name:          "federated login rejects empty token",
			cred:          domain.FederatedCredential{},
			setupMocks:    func(authGw *mocks.MockAuthGateway) {},
			expectedError: domain.ErrTokenEmpty,
		},
		{
			name: "backend rejection leaves session untouched",
			cred: domain.PasswordCredential{Email: "asha@example.com", Password: "wrongpass"},
			setupMocks: func(authGw *mocks.MockAuthGateway) {
				authGw.LoginFunc = func(ctx context.Context, email, password string) (*domain.User, error) {
					return nil, errors.New("invalid email or password")
				}
			},
			expectedError: errors.New("invalid email or password"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authGw := mocks.NewMockAuthGateway()
			tt.setupMocks(authGw)
			cache := mocks.NewMockProfileCache()
			svc := NewSessionService(authGw, cache, testLogger())

			got, err := svc.Authenticate(context.Background(), tt.cred)

			if tt.expectedError != nil {
				if err == nil || err.Error() != tt.expectedError.Error() {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				session := svc.Snapshot()
				if session.IsAuthenticated() {
					t.Error("failed authentication must not mutate the session")
				}
				if cache.Stored() != nil {
					t.Error("failed authentication must not write the cache")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("expected a user")
			}
			session := svc.Snapshot()
			if session.IsAuthenticated() != tt.wantAuth {
				t.Errorf("IsAuthenticated() = %v, want %v", session.IsAuthenticated(), tt.wantAuth)
			}
			if session.State != domain.SessionVerified {
				t.Errorf("expected verified state, got %s", session.State)
			}
			if stored := cache.Stored(); stored == nil || stored.ID != got.ID {
				t.Errorf("expected cache to hold the authenticated profile, got %+v", stored)
			}
		})
	}
}

func TestSessionServiceImpl_Logout_Unconditional(t *testing.T) {
	tests := []struct {
		name       string
		logoutFunc func(ctx context.Context) error
		wantErr    bool
	}{
		{
			name:       "backend logout succeeds",
			logoutFunc: func(ctx context.Context) error { return nil },
		},
		{
			name:       "backend logout fails with 500",
			logoutFunc: func(ctx context.Context) error { return errors.New("internal server error") },
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authGw := mocks.NewMockAuthGateway()
			authGw.LoginFunc = func(ctx context.Context, email, password string) (*domain.User, error) {
				return cachedAsha(), nil
			}
			authGw.LogoutFunc = tt.logoutFunc
			cache := mocks.NewMockProfileCache()
			svc := NewSessionService(authGw, cache, testLogger())

			if _, err := svc.Authenticate(context.Background(), domain.PasswordCredential{
				Email: "asha@example.com", Password: "secret123",
			}); err != nil {
				t.Fatalf("login setup failed: %v", err)
			}

			err := svc.Logout(context.Background())
			if tt.wantErr && err == nil {
				t.Error("expected the backend error to surface")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			// Local state clears either way.
			session := svc.Snapshot()
			if session.IsAuthenticated() || session.User != nil {
				t.Errorf("expected cleared session, got %+v", session)
			}
			if cache.Stored() != nil {
				t.Error("expected cache cleared on logout")
			}
		})
	}
}

func TestSessionServiceImpl_UpdateProfile(t *testing.T) {
	authGw := mocks.NewMockAuthGateway()
	authGw.LoginFunc = func(ctx context.Context, email, password string) (*domain.User, error) {
		return cachedAsha(), nil
	}
	updated := &domain.User{ID: "u1", Name: "Asha Rao", Email: "asha@example.com", Role: domain.RoleGuest}
	authGw.UpdateProfileFunc = func(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
		return updated, nil
	}
	cache := mocks.NewMockProfileCache()
	svc := NewSessionService(authGw, cache, testLogger())

	if _, err := svc.UpdateProfile(context.Background(), domain.ProfileUpdate{Name: "Asha Rao"}); err != domain.ErrNotAuthenticated {
		t.Fatalf("expected ErrNotAuthenticated before login, got %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), domain.PasswordCredential{
		Email: "asha@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("login setup failed: %v", err)
	}

	user, err := svc.UpdateProfile(context.Background(), domain.ProfileUpdate{Name: "Asha Rao"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Name != "Asha Rao" {
		t.Errorf("expected updated name, got %q", user.Name)
	}

	session := svc.Snapshot()
	if !session.IsAuthenticated() {
		t.Error("profile update must not affect authentication")
	}
	if session.User.Name != "Asha Rao" {
		t.Errorf("expected session to carry updated profile, got %+v", session.User)
	}
	if stored := cache.Stored(); stored == nil || stored.Name != "Asha Rao" {
		t.Errorf("expected cache refreshed with updated profile, got %+v", stored)
	}
}

func TestSessionServiceImpl_PhoneChallenge_EndToEnd(t *testing.T) {
	// send-otp reports a new user; verify-otp with name authenticates and
	// the cache picks up the profile.
	authGw := mocks.NewMockAuthGateway()
	authGw.SendOTPFunc = func(ctx context.Context, phone string) (*domain.PhoneChallenge, error) {
		if phone != "9876543210" {
			t.Errorf("expected normalized phone, got %q", phone)
		}
		return &domain.PhoneChallenge{IsNewUser: true, ExpiresIn: 300}, nil
	}
	authGw.VerifyOTPFunc = func(ctx context.Context, phone, code, name string) (*domain.User, error) {
		if phone != "9876543210" || code != "1234" || name != "Asha" {
			t.Errorf("unexpected verify payload: %s %s %s", phone, code, name)
		}
		return &domain.User{ID: "u9", Name: name, Phone: phone, Role: domain.RoleGuest}, nil
	}
	cache := mocks.NewMockProfileCache()
	svc := NewSessionService(authGw, cache, testLogger())

	challenge, err := svc.SendPhoneCode(context.Background(), "9876543210")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if !challenge.IsNewUser {
		t.Fatal("expected new-user challenge")
	}

	user, err := svc.Authenticate(context.Background(), domain.PhoneCredential{
		Phone: "9876543210", Code: "1234", Name: "Asha",
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	session := svc.Snapshot()
	if !session.IsAuthenticated() || session.User.ID != user.ID {
		t.Errorf("expected authenticated session with %q, got %+v", user.ID, session.User)
	}
	if stored := cache.Stored(); stored == nil || stored.ID != "u9" {
		t.Errorf("expected cache record for the phone user, got %+v", stored)
	}
}

func TestSessionServiceImpl_SendPhoneCode_RejectsBadNumbers(t *testing.T) {
	authGw := mocks.NewMockAuthGateway()
	called := false
	authGw.SendOTPFunc = func(ctx context.Context, phone string) (*domain.PhoneChallenge, error) {
		called = true
		return &domain.PhoneChallenge{}, nil
	}
	svc := NewSessionService(authGw, mocks.NewMockProfileCache(), testLogger())

	if _, err := svc.SendPhoneCode(context.Background(), "12345"); err != domain.ErrPhoneLength {
		t.Errorf("expected ErrPhoneLength, got %v", err)
	}
	if called {
		t.Error("validation errors must never reach the backend")
	}
}
