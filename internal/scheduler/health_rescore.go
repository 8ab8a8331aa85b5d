package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/aegis-admin-api/internal/config"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/scoring"
	"github.com/vfg2006/aegis-admin-api/pkg/log"
	"github.com/vfg2006/aegis-admin-api/pkg/metrics"
)

const (
	JobHealthRescore = "health_rescore"
)

// HealthRescoreService recalcula a saúde de todas as organizações com a política atual
type HealthRescoreService struct {
	scheduler     *gocron.Scheduler
	cronSchedule  string
	enabled       bool
	healthService scoring.HealthService
	metrics       *metrics.Metrics
	now           func() time.Time
	baseCtx       context.Context
	state         jobState
	lastChanged   int
}

func NewHealthRescoreService(healthService scoring.HealthService, m *metrics.Metrics, appConfig *config.Config) *HealthRescoreService {
	log.L.WithFields(log.Fields{
		"job":             JobHealthRescore,
		"cron_schedule":   appConfig.HealthRescore.CronSchedule,
		"rescore_enabled": appConfig.HealthRescore.Enabled,
	}).Info("Configuração do recálculo de saúde carregada")

	return &HealthRescoreService{
		scheduler:     gocron.NewScheduler(time.UTC),
		cronSchedule:  appConfig.HealthRescore.CronSchedule,
		enabled:       appConfig.HealthRescore.Enabled,
		healthService: healthService,
		metrics:       m,
		now:           time.Now,
		baseCtx:       context.Background(),
	}
}

// Start inicia o agendador
func (s *HealthRescoreService) Start(ctx context.Context) error {
	s.baseCtx = ctx

	if !s.enabled {
		log.L.WithField("job", JobHealthRescore).Info("Recálculo de saúde desabilitado por configuração")
		return nil
	}

	_, err := s.scheduler.Cron(s.cronSchedule).Do(func() {
		s.run(s.baseCtx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar recálculo de saúde: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.WithField("job", JobHealthRescore).Info("Parando agendador do recálculo de saúde")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *HealthRescoreService) run(ctx context.Context) (int, bool) {
	startTime := s.now()
	if !s.state.tryStart(startTime) {
		log.L.WithField("job", JobHealthRescore).Info("Recálculo de saúde já em andamento, ignorando")
		return 0, false
	}

	return s.execute(ctx, startTime), true
}

// execute roda um recálculo já reservado via tryStart
func (s *HealthRescoreService) execute(ctx context.Context, startTime time.Time) int {
	ctx, _ = log.WithCorrelationID(ctx)
	logger := log.ForContext(ctx).WithField("job", JobHealthRescore)

	changed, err := s.healthService.RescoreAll(ctx)

	s.metrics.JobRun(JobHealthRescore, s.now().Sub(startTime), err == nil)

	s.state.syncMutex.Lock()
	s.lastChanged = changed
	s.state.syncMutex.Unlock()

	s.state.finish(s.now(), err)

	if err != nil {
		logger.WithError(err).Error("Recálculo de saúde falhou")
		return changed
	}

	logger.Infof("Recálculo de saúde concluído: %d registros alterados", changed)
	return changed
}

// TriggerManualSync inicia manualmente um recálculo; devolve false se já houver um em andamento
func (s *HealthRescoreService) TriggerManualSync() bool {
	startTime := s.now()
	if !s.state.tryStart(startTime) {
		log.L.WithField("job", JobHealthRescore).Info("Recálculo de saúde já em andamento, ignorando solicitação manual")
		return false
	}

	go s.execute(s.baseCtx, startTime)
	return true
}

// GetStatus retorna o status atual do agendador
func (s *HealthRescoreService) GetStatus() map[string]any {
	status := s.state.status()
	status["sync_enabled"] = s.enabled
	status["sync_cron"] = s.cronSchedule

	s.state.syncMutex.Lock()
	status["last_changed"] = s.lastChanged
	s.state.syncMutex.Unlock()

	return status
}
