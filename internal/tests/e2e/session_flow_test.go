package e2e

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshhujare/urban-frontend/domain"
	"github.com/harshhujare/urban-frontend/internal/infrastructure/api"
	"github.com/harshhujare/urban-frontend/internal/infrastructure/storage"
	"github.com/harshhujare/urban-frontend/internal/services"
)

// fakeBackend is an in-process stand-in for the real UrbanStay API with
// just enough auth behavior: one OTP flow, cookie sessions, a profile.
type fakeBackend struct {
	mu         sync.Mutex
	users      map[string]*domain.User // keyed by phone
	sessions   map[string]string       // cookie token -> user phone
	otps       map[string]string       // phone -> code
	failLogout bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:    make(map[string]*domain.User),
		sessions: make(map[string]string),
		otps:     make(map[string]string),
	}
}

func (b *fakeBackend) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.POST("/auth/send-otp", func(c *gin.Context) {
		var body struct {
			PhoneNumber string `json:"phoneNumber"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phoneNumber is required"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.otps[body.PhoneNumber] = "1234"
		_, registered := b.users[body.PhoneNumber]
		c.JSON(http.StatusOK, gin.H{"isNewUser": !registered, "expiresIn": 300})
	})

	r.POST("/auth/verify-otp", func(c *gin.Context) {
		var body struct {
			PhoneNumber string `json:"phoneNumber"`
			OTP         string `json:"otp"`
			Name        string `json:"name"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.otps[body.PhoneNumber] != body.OTP {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid otp code"})
			return
		}
		user, ok := b.users[body.PhoneNumber]
		if !ok {
			user = &domain.User{
				ID:        "u-" + body.PhoneNumber,
				Name:      body.Name,
				Phone:     body.PhoneNumber,
				Role:      domain.RoleGuest,
				CreatedAt: time.Now().UTC(),
			}
			b.users[body.PhoneNumber] = user
		}
		token := "tok-" + body.PhoneNumber
		b.sessions[token] = body.PhoneNumber
		c.SetCookie("session", token, 3600, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"user": user})
	})

	r.GET("/auth/me", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		token, err := c.Cookie("session")
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}
		phone, ok := b.sessions[token]
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": b.users[phone]})
	})

	r.POST("/auth/logout", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failLogout {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if token, err := c.Cookie("session"); err == nil {
			delete(b.sessions, token)
		}
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	})

	return r
}

type testStack struct {
	backend  *fakeBackend
	server   *httptest.Server
	stateDir string
	log      *logrus.Logger
	cache    domain.ProfileCache
	session  domain.SessionService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	backend := newFakeBackend()
	server := httptest.NewServer(backend.router())
	t.Cleanup(server.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	stack := &testStack{
		backend:  backend,
		server:   server,
		stateDir: t.TempDir(),
		log:      log,
	}
	stack.cache, stack.session = stack.newProcess()
	return stack
}

// newProcess wires a fresh client, jar, cache, and session service over the
// same state directory and backend, simulating a new CLI invocation.
func (s *testStack) newProcess() (domain.ProfileCache, domain.SessionService) {
	jar := storage.NewPersistentCookieJar(s.stateDir)
	client := api.NewClientWithJar(s.server.URL, 5*time.Second, jar, s.log)
	cache := storage.NewProfileCache(s.stateDir)
	return cache, services.NewSessionService(api.NewAuthGateway(client), cache, s.log)
}

func TestPhoneChallengeEndToEnd(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	// Phase (a): the backend flags the number as unregistered.
	challenge, err := stack.session.SendPhoneCode(ctx, "9876543210")
	require.NoError(t, err)
	assert.True(t, challenge.IsNewUser)

	// Phase (b): verify with the code and the required name.
	user, err := stack.session.Authenticate(ctx, domain.PhoneCredential{
		Phone: "9876543210",
		Code:  "1234",
		Name:  "Asha",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)

	session := stack.session.Snapshot()
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, domain.SessionVerified, session.State)

	// The cache record now holds the profile.
	cached, err := stack.cache.Read()
	require.NoError(t, err)
	assert.Equal(t, user.ID, cached.ID)
	assert.Equal(t, "Asha", cached.Name)
}

func TestPhoneChallengeWrongCode(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	_, err := stack.session.SendPhoneCode(ctx, "9876543210")
	require.NoError(t, err)

	// Phase (a) success does not imply phase (b) success.
	_, err = stack.session.Authenticate(ctx, domain.PhoneCredential{
		Phone: "9876543210",
		Code:  "9999",
		Name:  "Asha",
	})
	require.Error(t, err)
	assert.Equal(t, "invalid otp code", err.Error())

	assert.False(t, stack.session.Snapshot().IsAuthenticated())
	_, err = stack.cache.Read()
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRestartKeepsSession(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	_, err := stack.session.SendPhoneCode(ctx, "9876543210")
	require.NoError(t, err)
	_, err = stack.session.Authenticate(ctx, domain.PhoneCredential{
		Phone: "9876543210", Code: "1234", Name: "Asha",
	})
	require.NoError(t, err)

	// New process over the same state directory: the persisted cookie and
	// cached profile together carry the session across restarts.
	_, restarted := stack.newProcess()

	session := restarted.Hydrate(ctx)
	assert.True(t, session.IsAuthenticated(), "cache hit renders optimistically")
	assert.Equal(t, domain.SessionTrustedCached, session.State)

	<-restarted.Revalidated()
	final := restarted.Snapshot()
	require.True(t, final.IsAuthenticated(), "persisted cookie keeps revalidation alive")
	assert.Equal(t, domain.SessionVerified, final.State)
	assert.Equal(t, "Asha", final.User.Name)
}

func TestRestartWithExpiredServerSession(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	_, err := stack.session.SendPhoneCode(ctx, "9876543210")
	require.NoError(t, err)
	_, err = stack.session.Authenticate(ctx, domain.PhoneCredential{
		Phone: "9876543210", Code: "1234", Name: "Asha",
	})
	require.NoError(t, err)

	// The server forgets the session behind the client's back.
	stack.backend.mu.Lock()
	stack.backend.sessions = make(map[string]string)
	stack.backend.mu.Unlock()

	cache, restarted := stack.newProcess()

	session := restarted.Hydrate(ctx)
	assert.True(t, session.IsAuthenticated(), "trust-on-read happens before the network answers")

	<-restarted.Revalidated()
	final := restarted.Snapshot()
	assert.False(t, final.IsAuthenticated(), "expired server session rolls the trusted render back")
	_, err = cache.Read()
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestLogoutClearsLocallyOnBackendError(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	_, err := stack.session.SendPhoneCode(ctx, "9876543210")
	require.NoError(t, err)
	_, err = stack.session.Authenticate(ctx, domain.PhoneCredential{
		Phone: "9876543210", Code: "1234", Name: "Asha",
	})
	require.NoError(t, err)

	stack.backend.mu.Lock()
	stack.backend.failLogout = true
	stack.backend.mu.Unlock()

	err = stack.session.Logout(ctx)
	require.Error(t, err, "the backend failure still surfaces")

	assert.False(t, stack.session.Snapshot().IsAuthenticated())
	_, err = stack.cache.Read()
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
