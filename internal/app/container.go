package app

import (
	"github.com/sirupsen/logrus"

	"github.com/harshhujare/urban-frontend/domain"
	"github.com/harshhujare/urban-frontend/internal/config"
	"github.com/harshhujare/urban-frontend/internal/infrastructure/api"
	"github.com/harshhujare/urban-frontend/internal/infrastructure/storage"
	"github.com/harshhujare/urban-frontend/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Log    *logrus.Logger

	// Infrastructure
	APIClient *api.Client

	// Gateways
	AuthGw     domain.AuthGateway
	PropertyGw domain.PropertyGateway
	UploadGw   domain.UploadGateway
	Cache      domain.ProfileCache

	// Services
	Session domain.SessionService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	container.initLogger()
	if err := container.initAPIClient(); err != nil {
		return nil, err
	}
	container.initGateways()
	container.initServices()

	return container, nil
}

func (c *Container) initLogger() {
	log := logrus.New()
	level, err := logrus.ParseLevel(c.Config.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	c.Log = log
}

func (c *Container) initAPIClient() error {
	// The session rides in a cookie and each CLI invocation is its own
	// process, so the jar persists next to the profile cache.
	jar := storage.NewPersistentCookieJar(c.Config.CacheDir)
	c.APIClient = api.NewClientWithJar(c.Config.APIBaseURL, c.Config.APITimeout, jar, c.Log)
	return nil
}

func (c *Container) initGateways() {
	c.AuthGw = api.NewAuthGateway(c.APIClient)
	c.PropertyGw = api.NewPropertyGateway(c.APIClient)
	c.UploadGw = api.NewUploadGateway(c.APIClient)
	c.Cache = storage.NewProfileCache(c.Config.CacheDir)
}

func (c *Container) initServices() {
	c.Session = services.NewSessionService(c.AuthGw, c.Cache, c.Log)
}

// NewPhoneFlow builds a phone challenge flow wired to the session service.
func (c *Container) NewPhoneFlow() *services.PhoneFlow {
	return services.NewPhoneFlow(c.Session, domain.SystemClock(), c.Config.OTPResendWindow)
}

// NewListingWizard builds a listing creation wizard.
func (c *Container) NewListingWizard() *services.ListingWizard {
	return services.NewListingWizard(c.PropertyGw, c.UploadGw, c.Log)
}
