package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/vfg2006/aegis-admin-api/internal/api/handler"
	"github.com/vfg2006/aegis-admin-api/internal/api/handler/router"
	"github.com/vfg2006/aegis-admin-api/internal/config"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/authenticating"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/scoring"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/trial"
	"github.com/vfg2006/aegis-admin-api/pkg/log"
	"github.com/vfg2006/aegis-admin-api/pkg/metrics"
	"github.com/vfg2006/aegis-admin-api/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

type Server struct {
	httpServer *http.Server
	onShutdown []func(context.Context) error
}

type Services struct {
	Authenticator authenticating.Authenticator
	Health        scoring.HealthService
	Trial         trial.TrialService
	Engagement    handler.EngagementClassifier
	Cron          handler.CronJobServices
	Metrics       *metrics.Metrics
}

func New(config *config.Config, services Services) (*Server, error) {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, services),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}, nil
}

// NewHandler monta as rotas e a cadeia de middlewares globais
func NewHandler(config *config.Config, services Services) http.Handler {
	rt := router.New(
		router.WithMetrics(services.Metrics),
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Metrics(services.Metrics)...),
		router.WithRoutes(handler.Authentication(services.Authenticator)...),
		router.WithRoutes(handler.Health(services.Health)...),
		router.WithRoutes(handler.POCs(services.Trial, services.Engagement)...),
		router.WithRoutes(handler.CronJobs(services.Cron)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.App.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator),
	}

	return alice.New(middlewares...).Then(rt)
}

// OnShutdown registra limpezas executadas depois que o HTTP para de aceitar requisições
func (s *Server) OnShutdown(fn func(context.Context) error) {
	s.onShutdown = append(s.onShutdown, fn)
}

func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		log.L.WithField("address", s.httpServer.Addr).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.L.WithError(err).Error("Erro durante a execução do servidor")
			serverErr <- err
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case <-done:
		log.L.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		log.L.Info("Contexto de aplicação cancelado")
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.L.Infof("Iniciando desligamento gracioso do servidor (timeout %s)", shutdownTimeout)

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	log.L.Info("Servidor desligado com sucesso")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	log.L.Info("Servidor HTTP desligado com sucesso")

	var firstErr error
	for _, fn := range s.onShutdown {
		if err := fn(ctx); err != nil {
			log.L.WithError(err).Error("Erro ao liberar recurso no desligamento")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
