package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/aegis-admin-api/infrastructure/repository/memory"
	"github.com/vfg2006/aegis-admin-api/internal/config"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/trial"
	trialmocks "github.com/vfg2006/aegis-admin-api/internal/usecases/trial/mocks"
	scoringmocks "github.com/vfg2006/aegis-admin-api/internal/usecases/scoring/mocks"
	"github.com/vfg2006/aegis-admin-api/pkg/log"
	"github.com/vfg2006/aegis-admin-api/pkg/metrics"
	"go.uber.org/mock/gomock"
)

var sweepAt = time.Date(2026, 2, 1, 2, 0, 0, 0, time.UTC)

func init() {
	log.SetupTestLogger()
}

func fixedClock() time.Time { return sweepAt }

func TestTrialSweep_sweep(t *testing.T) {
	tests := []struct {
		name     string
		cleanup  bool
		setup    func(svc *trialmocks.MockTrialService)
		wantErr  bool
		validate func(t *testing.T, result SweepResult)
	}{
		{
			name:    "ticks alive pocs and removes expired",
			cleanup: true,
			setup: func(svc *trialmocks.MockTrialService) {
				svc.EXPECT().ListPOCs(gomock.Any(), domain.POCFilters{
					Statuses: []domain.POCStatus{domain.POCStatusActive, domain.POCStatusExpiring},
				}).Return([]*domain.POC{
					{ID: "poc-a", Status: domain.POCStatusActive, Version: 1},
					{ID: "poc-b", Status: domain.POCStatusExpiring, Version: 4},
					{ID: "poc-c", Status: domain.POCStatusActive, Version: 2},
				}, nil)

				svc.EXPECT().TickElapsed(gomock.Any(), "poc-a", sweepAt).
					Return(&domain.POC{ID: "poc-a", Status: domain.POCStatusActive, Version: 2}, nil)
				svc.EXPECT().TickElapsed(gomock.Any(), "poc-b", sweepAt).
					Return(&domain.POC{ID: "poc-b", Status: domain.POCStatusExpired, Version: 5}, nil)
				svc.EXPECT().TickElapsed(gomock.Any(), "poc-c", sweepAt).
					Return(&domain.POC{ID: "poc-c", Status: domain.POCStatusActive, Version: 2}, nil)

				svc.EXPECT().CleanupExpired(gomock.Any()).Return(1, nil)
			},
			validate: func(t *testing.T, result SweepResult) {
				assert.Equal(t, SweepResult{Processed: 3, Ticked: 2, Expired: 1, Removed: 1}, result)
			},
		},
		{
			name:    "failures are counted and do not stop the sweep",
			cleanup: false,
			setup: func(svc *trialmocks.MockTrialService) {
				svc.EXPECT().ListPOCs(gomock.Any(), gomock.Any()).Return([]*domain.POC{
					{ID: "poc-a", Version: 1},
					{ID: "poc-b", Version: 1},
				}, nil)
				svc.EXPECT().TickElapsed(gomock.Any(), "poc-a", sweepAt).Return(nil, trial.ErrDatabaseOperation)
				svc.EXPECT().TickElapsed(gomock.Any(), "poc-b", sweepAt).
					Return(&domain.POC{ID: "poc-b", Status: domain.POCStatusActive, Version: 2}, nil)
			},
			validate: func(t *testing.T, result SweepResult) {
				assert.Equal(t, SweepResult{Processed: 2, Ticked: 1, Failed: 1}, result)
			},
		},
		{
			name:    "list error aborts",
			cleanup: true,
			setup: func(svc *trialmocks.MockTrialService) {
				svc.EXPECT().ListPOCs(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantErr: true,
		},
		{
			name:    "nothing alive still cleans up",
			cleanup: true,
			setup: func(svc *trialmocks.MockTrialService) {
				svc.EXPECT().ListPOCs(gomock.Any(), gomock.Any()).Return(nil, nil)
				svc.EXPECT().CleanupExpired(gomock.Any()).Return(0, nil)
			},
			validate: func(t *testing.T, result SweepResult) {
				assert.Equal(t, SweepResult{}, result)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := trialmocks.NewMockTrialService(ctrl)
			tt.setup(svc)

			sweeper := newTrialSweepService(svc, nil, TrialSweepConfig{MaxConcurrentJobs: 2, CleanupEnabled: tt.cleanup}, fixedClock)

			result, err := sweeper.sweep(context.Background(), sweepAt)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, result)
		})
	}
}

func TestTrialSweep_BoundedConcurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := trialmocks.NewMockTrialService(ctrl)

	pocs := make([]*domain.POC, 12)
	for i := range pocs {
		pocs[i] = &domain.POC{ID: string(rune('a' + i)), Version: 1}
	}

	var inFlight, peak int32
	svc.EXPECT().ListPOCs(gomock.Any(), gomock.Any()).Return(pocs, nil)
	svc.EXPECT().TickElapsed(gomock.Any(), gomock.Any(), sweepAt).DoAndReturn(
		func(_ context.Context, id string, _ time.Time) (*domain.POC, error) {
			current := atomic.AddInt32(&inFlight, 1)
			for {
				seen := atomic.LoadInt32(&peak)
				if current <= seen || atomic.CompareAndSwapInt32(&peak, seen, current) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return &domain.POC{ID: id, Version: 1}, nil
		}).Times(len(pocs))

	sweeper := newTrialSweepService(svc, nil, TrialSweepConfig{MaxConcurrentJobs: 3}, fixedClock)

	result, err := sweeper.sweep(context.Background(), sweepAt)
	require.NoError(t, err)
	assert.Equal(t, len(pocs), result.Processed)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestTrialSweep_RunSkipsWhenAlreadyRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := trialmocks.NewMockTrialService(ctrl)

	release := make(chan struct{})
	entered := make(chan struct{})
	svc.EXPECT().ListPOCs(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, domain.POCFilters) ([]*domain.POC, error) {
			close(entered)
			<-release
			return nil, nil
		}).Times(1)

	sweeper := newTrialSweepService(svc, metrics.NewMetrics(), TrialSweepConfig{MaxConcurrentJobs: 1}, fixedClock)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, ran := sweeper.run(context.Background())
		assert.True(t, ran)
	}()

	<-entered
	_, ran := sweeper.run(context.Background())
	assert.False(t, ran)
	assert.False(t, sweeper.TriggerManualSync())
	assert.Equal(t, true, sweeper.GetStatus()["running"])

	close(release)
	wg.Wait()

	status := sweeper.GetStatus()
	assert.Equal(t, false, status["running"])
	assert.Equal(t, sweepAt, status["last_sync_completed_at"])
}

func TestTrialSweep_StopsDispatchingWhenCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := trialmocks.NewMockTrialService(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.EXPECT().ListPOCs(gomock.Any(), gomock.Any()).Return([]*domain.POC{
		{ID: "poc-a", Version: 1},
		{ID: "poc-b", Version: 1},
		{ID: "poc-c", Version: 1},
	}, nil)
	svc.EXPECT().TickElapsed(gomock.Any(), "poc-a", sweepAt).DoAndReturn(
		func(_ context.Context, id string, _ time.Time) (*domain.POC, error) {
			cancel()
			return &domain.POC{ID: id, Version: 2}, nil
		}).Times(1)

	sweeper := newTrialSweepService(svc, nil, TrialSweepConfig{MaxConcurrentJobs: 1, CleanupEnabled: true}, fixedClock)

	result, err := sweeper.sweep(ctx, sweepAt)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, SweepResult{Processed: 3, Ticked: 1}, result)
}

func TestTrialSweep_TriggerManualSyncReservesRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := trialmocks.NewMockTrialService(ctrl)

	release := make(chan struct{})
	svc.EXPECT().ListPOCs(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, domain.POCFilters) ([]*domain.POC, error) {
			<-release
			return nil, nil
		}).Times(1)

	sweeper := newTrialSweepService(svc, nil, TrialSweepConfig{MaxConcurrentJobs: 1}, fixedClock)

	assert.True(t, sweeper.TriggerManualSync())
	assert.False(t, sweeper.TriggerManualSync(), "a segunda chamada encontra a execução já reservada")
	assert.Equal(t, true, sweeper.GetStatus()["running"])

	close(release)
	assert.Eventually(t, func() bool {
		return sweeper.GetStatus()["running"] == false
	}, time.Second, 5*time.Millisecond)
}

func TestTrialSweep_WithMemoryStore(t *testing.T) {
	ctx := context.Background()
	trialService := trial.NewService(memory.NewPOCRepository(), nil, nil, trial.DefaultPolicy())

	var ids []string
	for _, name := range []string{"Emirates NBD", "Barclays", "HDFC Bank"} {
		poc, err := trialService.CreatePOC(ctx, &domain.CreatePOCRequest{
			ProspectName:  name,
			ProspectEmail: "cto@prospect.io",
			Market:        domain.MarketUK,
			Features:      []domain.Feature{domain.FeatureVaultEncryption},
			Owner:         "sarah.jenkins",
		})
		require.NoError(t, err)
		ids = append(ids, poc.ID)
	}

	_, err := trialService.ConvertPOC(ctx, ids[2])
	require.NoError(t, err)
	_, err = trialService.ExtendPOC(ctx, ids[1])
	require.NoError(t, err)

	at := time.Now().UTC().Add(31 * 24 * time.Hour)
	sweeper := newTrialSweepService(trialService, nil, TrialSweepConfig{MaxConcurrentJobs: 2, CleanupEnabled: true}, func() time.Time { return at })

	result, ran := sweeper.run(ctx)
	require.True(t, ran)
	assert.Equal(t, SweepResult{Processed: 2, Ticked: 2, Expired: 1, Removed: 1}, result)

	_, err = trialService.GetPOC(ctx, ids[0])
	assert.True(t, errors.Is(err, trial.ErrNotFound))

	extended, err := trialService.GetPOC(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, 13, extended.DaysRemaining)
	assert.Equal(t, domain.POCStatusActive, extended.Status)

	again, ran := sweeper.run(ctx)
	require.True(t, ran)
	assert.Equal(t, SweepResult{Processed: 1}, again, "varrer de novo no mesmo instante não consome dias")
}

func TestHealthRescore_run(t *testing.T) {
	ctrl := gomock.NewController(t)
	healthService := scoringmocks.NewMockHealthService(ctrl)

	cfg := &config.Config{HealthRescore: config.HealthRescore{CronSchedule: "30 2 * * *"}}
	rescorer := NewHealthRescoreService(healthService, nil, cfg)
	rescorer.now = fixedClock

	healthService.EXPECT().RescoreAll(gomock.Any()).Return(4, nil)
	changed, ran := rescorer.run(context.Background())
	assert.True(t, ran)
	assert.Equal(t, 4, changed)
	assert.Equal(t, 4, rescorer.GetStatus()["last_changed"])
	assert.Equal(t, "", rescorer.GetStatus()["last_error"])

	healthService.EXPECT().RescoreAll(gomock.Any()).Return(0, errors.New("db down"))
	_, ran = rescorer.run(context.Background())
	assert.True(t, ran)
	assert.Equal(t, "db down", rescorer.GetStatus()["last_error"])
}

func TestHealthRescore_TriggerManualSyncReservesRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	healthService := scoringmocks.NewMockHealthService(ctrl)

	rescorer := NewHealthRescoreService(healthService, nil, &config.Config{})
	rescorer.now = fixedClock

	release := make(chan struct{})
	healthService.EXPECT().RescoreAll(gomock.Any()).DoAndReturn(func(context.Context) (int, error) {
		<-release
		return 2, nil
	}).Times(1)

	assert.True(t, rescorer.TriggerManualSync())
	assert.False(t, rescorer.TriggerManualSync())

	close(release)
	assert.Eventually(t, func() bool {
		return rescorer.GetStatus()["running"] == false
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2, rescorer.GetStatus()["last_changed"])
}

func TestStartDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := &config.Config{}

	sweeper := NewTrialSweepService(trialmocks.NewMockTrialService(ctrl), nil, cfg)
	rescorer := NewHealthRescoreService(scoringmocks.NewMockHealthService(ctrl), nil, cfg)

	assert.NoError(t, sweeper.Start(context.Background()))
	assert.NoError(t, rescorer.Start(context.Background()))
	assert.Equal(t, false, sweeper.GetStatus()["sync_enabled"])
}

func TestStartRejectsInvalidCron(t *testing.T) {
	ctrl := gomock.NewController(t)
	cfg := &config.Config{TrialSweep: config.TrialSweep{Enabled: true, CronSchedule: "every now and then"}}

	sweeper := NewTrialSweepService(trialmocks.NewMockTrialService(ctrl), nil, cfg)
	assert.Error(t, sweeper.Start(context.Background()))
}
