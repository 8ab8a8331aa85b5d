package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vfg2006/aegis-admin-api/internal/config"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/trial"
	"github.com/vfg2006/aegis-admin-api/pkg/log"
	"github.com/vfg2006/aegis-admin-api/pkg/metrics"
)

const (
	JobTrialSweep = "trial_sweep"
)

// TrialSweepConfig representa a configuração da varredura de POCs
type TrialSweepConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	CleanupEnabled    bool
	SweepEnabled      bool
}

// SweepResult resume uma execução da varredura
type SweepResult struct {
	Processed int `json:"processed"`
	Ticked    int `json:"ticked"`
	Expired   int `json:"expired"`
	Failed    int `json:"failed"`
	Removed   int `json:"removed"`
}

// TrialSweepService consome os dias decorridos de todos os POCs vivos e remove os expirados
type TrialSweepService struct {
	scheduler    *gocron.Scheduler
	config       TrialSweepConfig
	trialService trial.TrialService
	metrics      *metrics.Metrics
	now          func() time.Time
	baseCtx      context.Context
	state        jobState

	resultMutex sync.Mutex
	lastResult  SweepResult
}

func NewTrialSweepService(trialService trial.TrialService, m *metrics.Metrics, appConfig *config.Config) *TrialSweepService {
	sweepConfig := TrialSweepConfig{
		CronSchedule:      appConfig.TrialSweep.CronSchedule,
		MaxConcurrentJobs: appConfig.TrialSweep.MaxConcurrentJobs,
		CleanupEnabled:    appConfig.TrialSweep.CleanupEnabled,
		SweepEnabled:      appConfig.TrialSweep.Enabled,
	}
	return newTrialSweepService(trialService, m, sweepConfig, func() time.Time { return time.Now().UTC() })
}

func newTrialSweepService(trialService trial.TrialService, m *metrics.Metrics, sweepConfig TrialSweepConfig, now func() time.Time) *TrialSweepService {
	if sweepConfig.MaxConcurrentJobs < 1 {
		sweepConfig.MaxConcurrentJobs = 1
	}

	log.L.WithFields(log.Fields{
		"job":                 JobTrialSweep,
		"cron_schedule":       sweepConfig.CronSchedule,
		"max_concurrent_jobs": sweepConfig.MaxConcurrentJobs,
		"cleanup_enabled":     sweepConfig.CleanupEnabled,
		"sweep_enabled":       sweepConfig.SweepEnabled,
	}).Info("Configuração da varredura de POCs carregada")

	return &TrialSweepService{
		scheduler:    gocron.NewScheduler(time.UTC),
		config:       sweepConfig,
		trialService: trialService,
		metrics:      m,
		now:          now,
		baseCtx:      context.Background(),
	}
}

// Start inicia o agendador
func (s *TrialSweepService) Start(ctx context.Context) error {
	s.baseCtx = ctx

	if !s.config.SweepEnabled {
		log.L.WithField("job", JobTrialSweep).Info("Varredura de POCs desabilitada por configuração")
		return nil
	}

	log.L.WithField("job", JobTrialSweep).Infof("Iniciando agendador da varredura de POCs (%s)", s.config.CronSchedule)

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.run(s.baseCtx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar varredura de POCs: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		log.L.WithField("job", JobTrialSweep).Info("Parando agendador da varredura de POCs")
		s.scheduler.Stop()
	}()

	return nil
}

// run executa a varredura se nenhuma outra estiver em andamento
func (s *TrialSweepService) run(ctx context.Context) (SweepResult, bool) {
	startTime := s.now()
	if !s.state.tryStart(startTime) {
		log.L.WithField("job", JobTrialSweep).Info("Varredura de POCs já em andamento, ignorando")
		return SweepResult{}, false
	}

	return s.execute(ctx, startTime), true
}

// execute roda uma varredura já reservada via tryStart
func (s *TrialSweepService) execute(ctx context.Context, startTime time.Time) SweepResult {
	ctx, _ = log.WithCorrelationID(ctx)
	logger := log.ForContext(ctx).WithField("job", JobTrialSweep)

	result, err := s.sweep(ctx, startTime)

	duration := s.now().Sub(startTime)
	s.metrics.JobRun(JobTrialSweep, duration, err == nil && result.Failed == 0)

	s.resultMutex.Lock()
	s.lastResult = result
	s.resultMutex.Unlock()

	s.state.finish(s.now(), err)

	if err != nil {
		logger.WithError(err).Error("Varredura de POCs falhou")
		return result
	}

	logger.WithFields(log.Fields{
		"duration_ms": duration.Milliseconds(),
	}).Infof("Varredura concluída: %d processados, %d avançados, %d expirados, %d falhas, %d removidos",
		result.Processed, result.Ticked, result.Expired, result.Failed, result.Removed)

	return result
}

// sweep avança todos os POCs vivos até sweepAt e depois limpa os expirados
func (s *TrialSweepService) sweep(ctx context.Context, sweepAt time.Time) (SweepResult, error) {
	logger := log.ForContext(ctx).WithField("job", JobTrialSweep)

	alive, err := s.trialService.ListPOCs(ctx, domain.POCFilters{
		Statuses: []domain.POCStatus{domain.POCStatusActive, domain.POCStatusExpiring},
	})
	if err != nil {
		return SweepResult{}, err
	}

	result := SweepResult{Processed: len(alive)}
	if len(alive) == 0 {
		logger.Info("Nenhum POC vivo para avançar")
	}

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, s.config.MaxConcurrentJobs)
	)

	for _, poc := range alive {
		if !acquire(ctx, semaphore) {
			logger.WithError(ctx.Err()).Warn("Varredura cancelada, POCs restantes não serão avançados")
			break
		}
		wg.Add(1)

		go func(before *domain.POC) {
			defer func() {
				<-semaphore
				wg.Done()
			}()

			after, err := s.trialService.TickElapsed(ctx, before.ID, sweepAt)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				result.Failed++
				logger.WithField("poc_id", before.ID).WithError(err).Warn("Falha ao avançar POC")
				return
			}
			if after.Version != before.Version {
				result.Ticked++
			}
			if after.Status == domain.POCStatusExpired {
				result.Expired++
			}
		}(poc)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if !s.config.CleanupEnabled {
		return result, nil
	}

	removed, err := s.trialService.CleanupExpired(ctx)
	result.Removed = removed
	if err != nil {
		return result, err
	}

	return result, nil
}

// acquire reserva uma vaga no semáforo; devolve false se o contexto for cancelado antes
func acquire(ctx context.Context, semaphore chan struct{}) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case semaphore <- struct{}{}:
		return true
	case <-ctx.Done():
		return false
	}
}

// TriggerManualSync inicia manualmente uma varredura; devolve false se já houver uma em andamento
func (s *TrialSweepService) TriggerManualSync() bool {
	startTime := s.now()
	if !s.state.tryStart(startTime) {
		log.L.WithField("job", JobTrialSweep).Info("Varredura de POCs já em andamento, ignorando solicitação manual")
		return false
	}

	log.L.WithField("job", JobTrialSweep).Info("Iniciando varredura manual de POCs")
	go s.execute(s.baseCtx, startTime)
	return true
}

// GetStatus retorna o status atual do agendador
func (s *TrialSweepService) GetStatus() map[string]any {
	status := s.state.status()
	status["sync_enabled"] = s.config.SweepEnabled
	status["sync_cron"] = s.config.CronSchedule
	status["sync_max_concurrent"] = s.config.MaxConcurrentJobs
	status["cleanup_enabled"] = s.config.CleanupEnabled

	s.resultMutex.Lock()
	status["last_result"] = s.lastResult
	s.resultMutex.Unlock()

	return status
}
