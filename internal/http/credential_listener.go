package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CredentialListener is a short-lived localhost endpoint that captures the
// identity token a third-party provider hands back after a browser login.
// The token is only captured here; exchanging it for a session is the
// session service's job.
type CredentialListener struct {
	addr string
	log  *logrus.Logger

	listener net.Listener
	server   *http.Server
	tokens   chan string
}

// NewCredentialListener creates a listener bound to addr on Start.
func NewCredentialListener(addr string, log *logrus.Logger) *CredentialListener {
	return &CredentialListener{
		addr:   addr,
		log:    log,
		tokens: make(chan string, 1),
	}
}

// Start binds the local endpoint and returns the redirect URL to hand to
// the identity provider.
func (l *CredentialListener) Start() (string, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	handle := func(c *gin.Context) {
		credential := c.Query("credential")
		if credential == "" {
			credential = c.PostForm("credential")
		}
		if credential == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing credential"})
			return
		}

		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, "<html><body>Signed in. You can close this window.</body></html>")

		select {
		case l.tokens <- credential:
		default:
			// A credential already arrived; late duplicates are ignored.
		}
	}
	router.GET("/callback", handle)
	router.POST("/callback", handle)

	listener, err := net.Listen("tcp", l.addr)
	if err != nil {
		return "", fmt.Errorf("failed to bind callback listener: %w", err)
	}
	l.listener = listener
	l.server = &http.Server{Handler: router}

	go func() {
		if err := l.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.log.WithError(err).Warn("callback listener stopped")
		}
	}()

	return fmt.Sprintf("http://%s/callback", listener.Addr().String()), nil
}

// Wait blocks until a credential arrives or the context ends, then shuts
// the endpoint down.
func (l *CredentialListener) Wait(ctx context.Context) (string, error) {
	defer l.shutdown()

	select {
	case credential := <-l.tokens:
		return credential, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (l *CredentialListener) shutdown() {
	if l.server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := l.server.Shutdown(ctx); err != nil {
		l.log.WithError(err).Debug("callback listener shutdown")
	}
}
