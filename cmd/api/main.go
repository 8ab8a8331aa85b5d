package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/aegis-admin-api/infrastructure/database/postgres"
	"github.com/vfg2006/aegis-admin-api/infrastructure/events"
	"github.com/vfg2006/aegis-admin-api/infrastructure/repository"
	"github.com/vfg2006/aegis-admin-api/infrastructure/repository/memory"
	"github.com/vfg2006/aegis-admin-api/internal/api"
	"github.com/vfg2006/aegis-admin-api/internal/api/handler"
	"github.com/vfg2006/aegis-admin-api/internal/config"
	"github.com/vfg2006/aegis-admin-api/internal/scheduler"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/authenticating"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/scoring"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/trial"
	"github.com/vfg2006/aegis-admin-api/pkg/log"
	"github.com/vfg2006/aegis-admin-api/pkg/metrics"
)

type stores struct {
	poc    repository.POCRepository
	health repository.HealthRepository
	close  func(context.Context) error
}

func main() {
	// Garante que o .env ao lado do binário seja encontrado
	chdirToSource()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o formatter e o nível de log com base na configuração
	log.Setup(cfg.App.LogLevel)
	log.L.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := openStores(ctx, cfg)

	publisher := newPublisher(cfg.Events)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics()
	}

	healthPolicy, err := scoring.NewPolicy(cfg.Health)
	if err != nil {
		log.L.WithError(err).Fatal("Configuração de saúde inválida")
	}

	trialPolicy, err := trial.NewPolicy(cfg.Trial)
	if err != nil {
		log.L.WithError(err).Fatal("Configuração de POC inválida")
	}

	authenticator, err := authenticating.NewService(cfg.Auth)
	if err != nil {
		log.L.WithError(err).Fatal("Configuração de autenticação inválida")
	}

	healthService := scoring.NewService(store.health, publisher, m, scoring.NewEngine(healthPolicy))
	trialService := trial.NewService(store.poc, publisher, m, trialPolicy)

	// Inicializa os agendadores
	trialSweepService := scheduler.NewTrialSweepService(trialService, m, cfg)
	healthRescoreService := scheduler.NewHealthRescoreService(healthService, m, cfg)

	// Inicia os agendadores em background
	if err := trialSweepService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador da varredura de POCs")
	} else {
		log.L.Info("Agendador da varredura de POCs iniciado com sucesso")
	}

	if err := healthRescoreService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador de recálculo de saúde")
	} else {
		log.L.Info("Agendador de recálculo de saúde iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Health:        healthService,
		Trial:         trialService,
		Engagement:    healthPolicy,
		Cron: handler.CronJobServices{
			TrialSweepService:    trialSweepService,
			HealthRescoreService: healthRescoreService,
		},
		Metrics: m,
	})
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao criar servidor")
	}

	server.OnShutdown(func(context.Context) error {
		cancel()
		return publisher.Close()
	})
	server.OnShutdown(store.close)

	if err := server.Run(ctx); err != nil {
		log.L.Error(err)
	}
}

// chdirToSource posiciona o processo no diretório do main
func chdirToSource() {
	_, file, _, _ := runtime.Caller(0)
	if err := os.Chdir(path.Dir(file)); err != nil {
		logrus.WithError(err).Warn("Não foi possível mudar para o diretório do main")
	}
}

// openStores escolhe o armazenamento conforme STORE_DRIVER
func openStores(ctx context.Context, cfg *config.Config) stores {
	if cfg.Database.StoreDriver == config.StoreDriverMemory {
		log.L.Warn("Usando armazenamento em memória, os dados serão perdidos ao reiniciar")
		return stores{
			poc:    memory.NewPOCRepository(),
			health: memory.NewHealthRepository(),
			close:  func(context.Context) error { return nil },
		}
	}

	conn := pgconn(ctx, cfg.Database)
	return stores{
		poc:    repository.NewPOCRepository(conn),
		health: repository.NewHealthRepository(conn),
		close: func(context.Context) error {
			return conn.Close()
		},
	}
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	log.L.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

func newPublisher(cfg config.Events) events.Publisher {
	if !cfg.Enabled {
		log.L.Info("Publicação de eventos desabilitada")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewKafkaPublisher(cfg)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao configurar publicação de eventos no Kafka")
	}

	log.L.WithField("brokers", cfg.Brokers).Info("Publicação de eventos no Kafka habilitada")
	return publisher
}
