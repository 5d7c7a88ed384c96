package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"ai-writing-assistant/internal/metrics"
	"ai-writing-assistant/pkg/log"
)

// ModelCatalog exposes the configured model surface for the UI.
type ModelCatalog interface {
	SupportedModels() []string
	DefaultModel() string
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Chat webhook ingress
	webhookHandler interface {
		HandleChatWebhook(c *gin.Context)
	}

	// Usage metrics + model catalog read endpoints
	recorder *metrics.Recorder
	catalog  ModelCatalog
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	WebhookHandler interface {
		HandleChatWebhook(c *gin.Context)
	}

	Recorder *metrics.Recorder
	Catalog  ModelCatalog
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.Default(),
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		webhookHandler: cfg.WebhookHandler,
		recorder:       cfg.Recorder,
		catalog:        cfg.Catalog,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.recorder == nil {
		return errors.New("metrics recorder is required")
	}
	return nil
}
