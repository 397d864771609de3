package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/harshhujare/urban-frontend/domain"
)

// SessionServiceImpl implements domain.SessionService. It is the single
// writer of session state: screens read snapshots and request transitions,
// nothing else touches the user or the profile cache.
type SessionServiceImpl struct {
	authGw domain.AuthGateway
	cache  domain.ProfileCache
	log    *logrus.Logger

	mu        sync.RWMutex
	user      *domain.User
	state     domain.SessionState
	hydrated  bool
	listeners []domain.SessionListener

	revalidated chan struct{}
	resolveOnce sync.Once
}

// NewSessionService creates a new session service
func NewSessionService(authGw domain.AuthGateway, cache domain.ProfileCache, log *logrus.Logger) domain.SessionService {
	return &SessionServiceImpl{
		authGw:      authGw,
		cache:       cache,
		log:         log,
		state:       domain.SessionHydrating,
		revalidated: make(chan struct{}),
	}
}

// Hydrate implements domain.SessionService. It runs once per process:
//
//  1. Cache hit: trust the record immediately (instant render), then
//     revalidate against GET /auth/me in the background. Success overwrites
//     the profile, failure silently logs the user out.
//  2. Cache miss: hold the hydrating state across a synchronous /auth/me
//     round trip. This is the only path that gates on the network.
func (s *SessionServiceImpl) Hydrate(ctx context.Context) domain.Session {
	s.mu.Lock()
	if s.hydrated {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.hydrated = true
	s.mu.Unlock()

	if cached, err := s.cache.Read(); err == nil {
		s.mu.Lock()
		s.user = cached
		s.state = domain.SessionTrustedCached
		s.mu.Unlock()
		s.emit(domain.NewSessionEvent(domain.SessionHydratedEvent, domain.SessionTrustedCached).WithUser(cached))

		go s.revalidate(ctx)
		return s.Snapshot()
	}

	// No usable cache: the backend is the only source of truth.
	user, err := s.authGw.CurrentUser(ctx)
	if err != nil {
		s.clearSession()
		s.emit(domain.NewSessionEvent(domain.SessionHydratedEvent, domain.SessionUnauthenticated).WithError(err))
	} else {
		s.establish(user, "")
		s.emit(domain.NewSessionEvent(domain.SessionHydratedEvent, domain.SessionVerified).WithUser(user))
	}
	s.resolveOnce.Do(func() { close(s.revalidated) })
	return s.Snapshot()
}

// revalidate confirms a trusted cached profile against the backend.
func (s *SessionServiceImpl) revalidate(ctx context.Context) {
	defer s.resolveOnce.Do(func() { close(s.revalidated) })

	user, err := s.authGw.CurrentUser(ctx)
	if err != nil {
		// Expired or invalid session cookie. Clearing after an optimistic
		// render may visibly log the user out; accepted for instant load.
		s.log.WithError(err).Debug("background revalidation failed, clearing session")
		s.clearSession()
		s.emit(domain.NewSessionEvent(domain.SessionExpiredEvent, domain.SessionUnauthenticated).WithError(err))
		return
	}

	s.establish(user, "")
	s.emit(domain.NewSessionEvent(domain.SessionVerifiedEvent, domain.SessionVerified).WithUser(user))
}

// Revalidated implements domain.SessionService. The channel closes when the
// first resolution (cache-path revalidation or synchronous load) completes,
// so callers and tests can wait deterministically.
func (s *SessionServiceImpl) Revalidated() <-chan struct{} {
	return s.revalidated
}

// Snapshot implements domain.SessionService
func (s *SessionServiceImpl) Snapshot() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *SessionServiceImpl) snapshotLocked() domain.Session {
	return domain.Session{User: s.user, State: s.state}
}

// Authenticate implements domain.SessionService. Every login channel funnels
// through here so the post-condition is established exactly once: on success
// the user, the session state, and the cache record change together; on
// failure nothing changes.
func (s *SessionServiceImpl) Authenticate(ctx context.Context, cred domain.Credential) (*domain.User, error) {
	var (
		user    *domain.User
		err     error
		channel string
		event   domain.SessionEventType = domain.UserLoginEvent
	)

	switch c := cred.(type) {
	case domain.PasswordCredential:
		channel = "password"
		if err := validatePassword(c.Email, c.Password); err != nil {
			return nil, err
		}
		user, err = s.authGw.Login(ctx, c.Email, c.Password)

	case domain.RegisterCredential:
		channel = "password"
		event = domain.UserRegistrationEvent
		if err := validateRegistration(c); err != nil {
			return nil, err
		}
		user, err = s.authGw.Register(ctx, c.Name, c.Email, c.Password)

	case domain.PhoneCredential:
		channel = "phone"
		phone, perr := NormalizePhone(c.Phone)
		if perr != nil {
			return nil, perr
		}
		if len(c.Code) != 4 || !allDigits(c.Code) {
			return nil, domain.ErrCodeLength
		}
		user, err = s.authGw.VerifyOTP(ctx, phone, c.Code, strings.TrimSpace(c.Name))

	case domain.FederatedCredential:
		channel = "google"
		if c.Token == "" {
			return nil, domain.ErrTokenEmpty
		}
		s.peekFederatedClaims(c.Token)
		user, err = s.authGw.GoogleLogin(ctx, c.Token)

	default:
		return nil, fmt.Errorf("unsupported credential kind %T", cred)
	}

	if err != nil {
		s.emit(domain.NewSessionEvent(event, s.Snapshot().State).WithChannel(channel).WithError(err))
		return nil, err
	}

	s.establish(user, channel)
	s.emit(domain.NewSessionEvent(event, domain.SessionVerified).WithUser(user).WithChannel(channel))
	return user, nil
}

// SendPhoneCode implements domain.SessionService, phase (a) of the phone
// challenge. Success of this phase implies nothing about phase (b).
func (s *SessionServiceImpl) SendPhoneCode(ctx context.Context, phone string) (*domain.PhoneChallenge, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	return s.authGw.SendOTP(ctx, normalized)
}

// UpdateProfile implements domain.SessionService. Authentication validity is
// untouched; only the profile and its cache record change.
func (s *SessionServiceImpl) UpdateProfile(ctx context.Context, update domain.ProfileUpdate) (*domain.User, error) {
	if !s.Snapshot().IsAuthenticated() {
		return nil, domain.ErrNotAuthenticated
	}
	if err := validateProfileUpdate(update); err != nil {
		return nil, err
	}

	user, err := s.authGw.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.writeCache(user)
	s.emit(domain.NewSessionEvent(domain.ProfileUpdatedEvent, s.Snapshot().State).WithUser(user))
	return user, nil
}

// Logout implements domain.SessionService. Local state clears even when the
// backend call fails: a stuck logged-in UI is worse than a stale server
// session. The backend error still reaches the caller for display.
func (s *SessionServiceImpl) Logout(ctx context.Context) error {
	err := s.authGw.Logout(ctx)
	if err != nil {
		s.log.WithError(err).Warn("backend logout failed, clearing local session anyway")
	}

	s.clearSession()
	s.emit(domain.NewSessionEvent(domain.UserLogoutEvent, domain.SessionUnauthenticated))
	return err
}

// AddListener implements domain.SessionService
func (s *SessionServiceImpl) AddListener(listener domain.SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// establish is the shared authentication post-condition: user, state, and
// cache record move together.
func (s *SessionServiceImpl) establish(user *domain.User, channel string) {
	s.mu.Lock()
	s.user = user
	s.state = domain.SessionVerified
	s.mu.Unlock()
	s.writeCache(user)
	if channel != "" {
		s.log.WithFields(logrus.Fields{"user": user.ID, "channel": channel}).Info("authenticated")
	}
}

func (s *SessionServiceImpl) clearSession() {
	s.mu.Lock()
	s.user = nil
	s.state = domain.SessionUnauthenticated
	s.mu.Unlock()
	if err := s.cache.Clear(); err != nil {
		s.log.WithError(err).Warn("failed to clear profile cache")
	}
}

// writeCache keeps the denormalized record in sync. A write failure is not
// fatal; the next hydration just pays the network round trip.
func (s *SessionServiceImpl) writeCache(user *domain.User) {
	if err := s.cache.Write(user); err != nil {
		s.log.WithError(err).Warn("failed to cache profile")
	}
}

func (s *SessionServiceImpl) emit(event domain.SessionEvent) {
	s.mu.RLock()
	listeners := make([]domain.SessionListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l.OnSessionEvent(event)
	}
}

// peekFederatedClaims logs the unverified identity inside a federated token.
// Display only; verification is the backend's job.
func (s *SessionServiceImpl) peekFederatedClaims(token string) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return
	}
	if email, ok := claims["email"].(string); ok {
		s.log.WithField("email", email).Debug("exchanging federated token")
	}
}
