package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/aegis-admin-api/infrastructure/repository"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
)

func newPOC(id string, status domain.POCStatus, createdAt time.Time) *domain.POC {
	return &domain.POC{
		ID:              id,
		ProspectName:    "Prospect " + id,
		ProspectEmail:   id + "@example.com",
		Market:          domain.MarketUAE,
		Status:          status,
		Owner:           "sarah.jenkins",
		CreatedAt:       createdAt,
		FeaturesEnabled: []domain.Feature{domain.FeatureVaultEncryption},
	}
}

func TestPOCRepositoryPutVersioning(t *testing.T) {
	ctx := context.Background()
	repo := NewPOCRepository()
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	poc := newPOC("poc-a", domain.POCStatusActive, now)
	require.NoError(t, repo.Put(ctx, poc))
	assert.Equal(t, int64(1), poc.Version)

	dup := newPOC("poc-a", domain.POCStatusActive, now)
	err := repo.Put(ctx, dup)
	assert.True(t, errors.Is(err, repository.ErrDuplicateID))

	first, err := repo.Get(ctx, "poc-a")
	require.NoError(t, err)
	second, err := repo.Get(ctx, "poc-a")
	require.NoError(t, err)

	first.DaysRemaining = 10
	require.NoError(t, repo.Put(ctx, first))
	assert.Equal(t, int64(2), first.Version)

	second.DaysRemaining = 20
	err = repo.Put(ctx, second)
	assert.True(t, errors.Is(err, repository.ErrVersionConflict))

	stored, err := repo.Get(ctx, "poc-a")
	require.NoError(t, err)
	assert.Equal(t, 10, stored.DaysRemaining)
}

func TestPOCRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewPOCRepository()

	poc := newPOC("poc-a", domain.POCStatusActive, time.Now())
	require.NoError(t, repo.Put(ctx, poc))

	poc.FeaturesEnabled[0] = domain.FeatureAnonymization
	got, err := repo.Get(ctx, "poc-a")
	require.NoError(t, err)
	assert.Equal(t, domain.FeatureVaultEncryption, got.FeaturesEnabled[0])

	missing, err := repo.Get(ctx, "poc-missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPOCRepositoryListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewPOCRepository()
	base := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Put(ctx, newPOC("poc-a", domain.POCStatusActive, base)))
	require.NoError(t, repo.Put(ctx, newPOC("poc-b", domain.POCStatusExpired, base.Add(time.Hour))))
	other := newPOC("poc-c", domain.POCStatusConverted, base.Add(2*time.Hour))
	other.Owner = "ahmed.al-rashid"
	require.NoError(t, repo.Put(ctx, other))

	tests := []struct {
		name    string
		filters domain.POCFilters
		want    []string
	}{
		{name: "all newest first", filters: domain.POCFilters{}, want: []string{"poc-c", "poc-b", "poc-a"}},
		{name: "by status", filters: domain.POCFilters{Statuses: []domain.POCStatus{domain.POCStatusExpired}}, want: []string{"poc-b"}},
		{name: "by owner", filters: domain.POCFilters{Owner: "ahmed.al-rashid"}, want: []string{"poc-c"}},
		{name: "search email case insensitive", filters: domain.POCFilters{Search: "POC-A@"}, want: []string{"poc-a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pocs, err := repo.List(ctx, tt.filters)
			require.NoError(t, err)

			ids := make([]string, 0, len(pocs))
			for _, p := range pocs {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	removed, err := repo.Delete(ctx, "poc-b")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, "poc-b")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestHealthRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewHealthRepository()
	atRisk := domain.RiskTierAtRisk

	require.NoError(t, repo.Save(ctx, &domain.OrgHealth{
		HealthRecord: domain.HealthRecord{OrgID: "org_1", Score: 92, RiskTier: domain.RiskTierHealthy},
		OrgName:      "Emirates NBD",
		Plan:         domain.OrgPlanEnterprise,
	}))
	require.NoError(t, repo.Save(ctx, &domain.OrgHealth{
		HealthRecord: domain.HealthRecord{
			OrgID:             "org_2",
			Score:             45,
			RiskTier:          domain.RiskTierAtRisk,
			TopRecommendation: &domain.Recommendation{Action: domain.ActionScheduleOnboardingCall},
		},
		OrgName: "Gulf Insurance",
		Plan:    domain.OrgPlanProfessional,
	}))

	got, err := repo.GetByOrgID(ctx, "org_2")
	require.NoError(t, err)
	got.TopRecommendation.Action = domain.ActionEscalateToCSM

	again, err := repo.GetByOrgID(ctx, "org_2")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionScheduleOnboardingCall, again.TopRecommendation.Action)

	list, err := repo.List(ctx, domain.HealthFilters{RiskTier: &atRisk})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "org_2", list[0].OrgID)

	list, err = repo.List(ctx, domain.HealthFilters{Search: "enterprise"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "org_1", list[0].OrgID)
}
