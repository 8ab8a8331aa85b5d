package scoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/aegis-admin-api/infrastructure/events"
	eventmocks "github.com/vfg2006/aegis-admin-api/infrastructure/events/mocks"
	"github.com/vfg2006/aegis-admin-api/infrastructure/repository/memory"
	"github.com/vfg2006/aegis-admin-api/infrastructure/repository/mocks"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
	"github.com/vfg2006/aegis-admin-api/pkg/metrics"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

func snapshot(orgID, name string, plan domain.OrgPlan, raw int) *domain.OrgSnapshot {
	return &domain.OrgSnapshot{
		OrgID:   orgID,
		OrgName: name,
		Plan:    plan,
		DAU:     10,
		MAU:     40,
		Scores:  uniform(raw).Scores(),
	}
}

type capturedEvents struct {
	events []events.Event
}

func (c *capturedEvents) publish(_ context.Context, batch ...events.Event) error {
	c.events = append(c.events, batch...)
	return nil
}

func (c *capturedEvents) types() []string {
	types := make([]string, 0, len(c.events))
	for _, e := range c.events {
		types = append(types, e.Type)
	}
	return types
}

func newTestService(t *testing.T) (*Service, *memory.HealthRepository, *capturedEvents) {
	ctrl := gomock.NewController(t)
	publisher := eventmocks.NewMockPublisher(ctrl)
	captured := &capturedEvents{}
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(captured.publish).AnyTimes()

	repo := memory.NewHealthRepository()
	svc := newService(repo, publisher, metrics.NewMetrics(), NewEngine(DefaultPolicy()), func() time.Time { return fixedNow })
	return svc, repo, captured
}

func TestRefreshHealth(t *testing.T) {
	ctx := context.Background()
	svc, repo, captured := newTestService(t)

	first, err := svc.RefreshHealth(ctx, snapshot("org_1", "Emirates NBD", domain.OrgPlanEnterprise, 20))
	require.NoError(t, err)
	assert.Equal(t, "org_1", first.OrgID)
	assert.Equal(t, 20, first.Score)
	assert.Equal(t, domain.RiskTierChurning, first.RiskTier)
	assert.Equal(t, fixedNow, first.ComputedAt)
	assert.Equal(t, []string{events.TypeHealthChurnAlert}, captured.types())
	assert.Equal(t, events.StreamHealth, captured.events[0].Stream)
	assert.Equal(t, "org_1", captured.events[0].Key)

	second, err := svc.RefreshHealth(ctx, snapshot("org_1", "Emirates NBD", domain.OrgPlanEnterprise, 85))
	require.NoError(t, err)
	assert.Equal(t, domain.RiskTierHealthy, second.RiskTier)
	assert.Nil(t, second.TopRecommendation)
	assert.Equal(t, []string{events.TypeHealthChurnAlert, events.TypeHealthTierChange}, captured.types())

	stored, err := repo.GetByOrgID(ctx, "org_1")
	require.NoError(t, err)
	assert.Equal(t, 85, stored.Score)

	_, err = svc.RefreshHealth(ctx, snapshot("org_1", "Emirates NBD", domain.OrgPlanEnterprise, 90))
	require.NoError(t, err)
	assert.Len(t, captured.events, 2, "mesma faixa não gera evento")
}

func TestRefreshHealth_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)

	tests := []struct {
		name    string
		mutate  func(s *domain.OrgSnapshot)
		wantErr error
	}{
		{name: "missing org id", mutate: func(s *domain.OrgSnapshot) { s.OrgID = " " }, wantErr: ErrOrgIDRequired},
		{name: "missing org name", mutate: func(s *domain.OrgSnapshot) { s.OrgName = "" }, wantErr: ErrInvalidSnapshot},
		{name: "unknown plan", mutate: func(s *domain.OrgSnapshot) { s.Plan = "platinum" }, wantErr: ErrInvalidSnapshot},
		{name: "dau above mau", mutate: func(s *domain.OrgSnapshot) { s.DAU = 50 }, wantErr: ErrInvalidSnapshot},
		{name: "missing factor", mutate: func(s *domain.OrgSnapshot) { delete(s.Scores, domain.FactorLoginRecency) }, wantErr: ErrInvalidBreakdown},
		{name: "raw score out of range", mutate: func(s *domain.OrgSnapshot) { s.Scores[domain.FactorLoginRecency] = 120 }, wantErr: ErrInvalidBreakdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := snapshot("org_1", "Gulf Insurance", domain.OrgPlanProfessional, 50)
			tt.mutate(s)

			_, err := svc.RefreshHealth(context.Background(), s)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}

	_, err := svc.RefreshHealth(context.Background(), nil)
	assert.True(t, errors.Is(err, ErrInvalidSnapshot))
}

func TestRefreshHealth_DatabaseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHealthRepository(ctrl)
	svc := newService(repo, nil, nil, NewEngine(DefaultPolicy()), func() time.Time { return fixedNow })

	repo.EXPECT().GetByOrgID(gomock.Any(), "org_1").Return(nil, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

	_, err := svc.RefreshHealth(context.Background(), snapshot("org_1", "Emirates NBD", domain.OrgPlanEnterprise, 50))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDatabaseOperation))

	var breakdownErr *BreakdownError
	require.True(t, errors.As(err, &breakdownErr))
	assert.Equal(t, apiErrors.ErrDatabaseOperation, breakdownErr.Code)
}

func TestListHealth_InvalidSortSkipsRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockHealthRepository(ctrl)
	svc := newService(repo, nil, nil, NewEngine(DefaultPolicy()), func() time.Time { return fixedNow })

	// sem EXPECT: qualquer chamada ao repositório falha o teste
	_, err := svc.ListHealth(context.Background(), domain.HealthFilters{SortBy: "mrr"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSnapshot))
}

func TestGetHealth(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.GetHealth(ctx, "org_404")
	assert.True(t, errors.Is(err, ErrHealthNotFound))

	_, err = svc.GetHealth(ctx, "")
	assert.True(t, errors.Is(err, ErrOrgIDRequired))

	_, err = svc.RefreshHealth(ctx, snapshot("org_1", "Emirates NBD", domain.OrgPlanEnterprise, 50))
	require.NoError(t, err)

	health, err := svc.GetHealth(ctx, "org_1")
	require.NoError(t, err)
	assert.Equal(t, domain.RiskTierAtRisk, health.RiskTier)
}

func TestListHealthAndSummary(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	recent := fixedNow.Add(-2 * time.Hour)
	older := fixedNow.Add(-72 * time.Hour)

	fixtures := []*domain.OrgSnapshot{
		snapshot("org_1", "Emirates NBD", domain.OrgPlanEnterprise, 92),
		snapshot("org_2", "Abu Dhabi Health", domain.OrgPlanProfessional, 45),
		snapshot("org_3", "Careem Fintech", domain.OrgPlanStarter, 15),
		snapshot("org_4", "Dubai Islamic", domain.OrgPlanEnterprise, 45),
	}
	fixtures[0].LastActiveAt = &recent
	fixtures[1].LastActiveAt = &older

	for _, s := range fixtures {
		_, err := svc.RefreshHealth(ctx, s)
		require.NoError(t, err)
	}

	ids := func(records []*domain.OrgHealth) []string {
		out := make([]string, 0, len(records))
		for _, r := range records {
			out = append(out, r.OrgID)
		}
		return out
	}

	atRisk := domain.RiskTierAtRisk
	invalidTier := domain.RiskTier("dormant")

	tests := []struct {
		name    string
		filters domain.HealthFilters
		want    []string
		wantErr bool
	}{
		{name: "default sorts by score descending with org id tie-break", filters: domain.HealthFilters{}, want: []string{"org_1", "org_2", "org_4", "org_3"}},
		{name: "score ascending", filters: domain.HealthFilters{SortBy: domain.HealthSortScore, Asc: true}, want: []string{"org_3", "org_2", "org_4", "org_1"}},
		{name: "org name ascending", filters: domain.HealthFilters{SortBy: domain.HealthSortOrgName, Asc: true}, want: []string{"org_2", "org_3", "org_4", "org_1"}},
		{name: "plan descending", filters: domain.HealthFilters{SortBy: domain.HealthSortPlan}, want: []string{"org_1", "org_4", "org_2", "org_3"}},
		{name: "last active descending puts never active last", filters: domain.HealthFilters{SortBy: domain.HealthSortLastActive}, want: []string{"org_1", "org_2", "org_3", "org_4"}},
		{name: "filter by tier", filters: domain.HealthFilters{RiskTier: &atRisk}, want: []string{"org_2", "org_4"}},
		{name: "search by plan", filters: domain.HealthFilters{Search: "starter"}, want: []string{"org_3"}},
		{name: "invalid sort", filters: domain.HealthFilters{SortBy: "mrr"}, wantErr: true},
		{name: "invalid tier", filters: domain.HealthFilters{RiskTier: &invalidTier}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := svc.ListHealth(ctx, tt.filters)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(records))
		})
	}

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.HealthSummary{Total: 4, Healthy: 1, AtRisk: 2, Churning: 1, HealthyPct: 25}, summary)
}

func TestRescoreAll(t *testing.T) {
	ctx := context.Background()
	svc, repo, captured := newTestService(t)

	_, err := svc.RefreshHealth(ctx, snapshot("org_1", "Emirates NBD", domain.OrgPlanEnterprise, 75))
	require.NoError(t, err)
	_, err = svc.RefreshHealth(ctx, snapshot("org_2", "Gulf Insurance", domain.OrgPlanProfessional, 20))
	require.NoError(t, err)

	changed, err := svc.RescoreAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, changed, "mesma política não altera registros")

	policy := DefaultPolicy()
	policy.HealthyThreshold = 80
	policy.AtRiskThreshold = 15
	svc.engine = NewEngine(policy)
	captured.events = nil

	changed, err = svc.RescoreAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	first, err := repo.GetByOrgID(ctx, "org_1")
	require.NoError(t, err)
	assert.Equal(t, domain.RiskTierAtRisk, first.RiskTier)
	require.NotNil(t, first.TopRecommendation)
	assert.Equal(t, "Emirates NBD", first.OrgName)

	second, err := repo.GetByOrgID(ctx, "org_2")
	require.NoError(t, err)
	assert.Equal(t, domain.RiskTierAtRisk, second.RiskTier)
	assert.Equal(t, domain.PriorityHigh, second.TopRecommendation.Priority)

	assert.ElementsMatch(t, []string{events.TypeHealthTierChange, events.TypeHealthTierChange}, captured.types())
}

func TestRescoreAll_SkipsIncompatibleRecords(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	require.NoError(t, repo.Save(ctx, &domain.OrgHealth{
		HealthRecord: domain.HealthRecord{
			OrgID:     "org_legacy",
			Score:     50,
			RiskTier:  domain.RiskTierAtRisk,
			Breakdown: domain.FactorBreakdown{{Name: "nps", RawScore: 50, Weight: 1}},
		},
		OrgName: "Legacy Org",
		Plan:    domain.OrgPlanStarter,
	}))

	changed, err := svc.RescoreAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
}

func TestScorePreview(t *testing.T) {
	svc, repo, captured := newTestService(t)

	record, err := svc.ScorePreview(uniform(10))
	require.NoError(t, err)
	assert.Equal(t, domain.RiskTierChurning, record.RiskTier)

	stored, err := repo.List(context.Background(), domain.HealthFilters{})
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, captured.events)
}
