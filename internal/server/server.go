package server

import (
	"github.com/gin-gonic/gin"
	"github.com/paybridgelabs/paybridge/internal/config"
	"github.com/paybridgelabs/paybridge/internal/observability/metrics"
	"github.com/paybridgelabs/paybridge/internal/registry"
	"github.com/paybridgelabs/paybridge/internal/session"
	"github.com/paybridgelabs/paybridge/internal/webhook"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg        config.Config
	Log        *zap.Logger
	Sessions   *session.Orchestrator
	Registry   *registry.Service
	Verifier   *webhook.Verifier
	Dispatcher *webhook.Dispatcher
	Metrics    *metrics.Metrics
}

type Server struct {
	cfg        config.Config
	log        *zap.Logger
	sessions   *session.Orchestrator
	registry   *registry.Service
	verifier   *webhook.Verifier
	dispatcher *webhook.Dispatcher
	metrics    *metrics.Metrics
}

func New(p Params) *Server {
	return &Server{
		cfg:        p.Cfg,
		log:        p.Log.Named("server"),
		sessions:   p.Sessions,
		registry:   p.Registry,
		verifier:   p.Verifier,
		dispatcher: p.Dispatcher,
		metrics:    p.Metrics,
	}
}

// Router builds the gin engine. The webhook route takes the raw request body
// and must stay free of any body-transforming middleware.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())
	router.Use(metrics.GinMiddleware(s.metrics))

	s.registerRoutes(router)
	return router
}
