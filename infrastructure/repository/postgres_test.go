package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/aegis-admin-api/infrastructure/database/postgres"
	"github.com/vfg2006/aegis-admin-api/infrastructure/migration"
	"github.com/vfg2006/aegis-admin-api/internal/config"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
)

// testConn conecta ao banco de teste; sem TEST_DATABASE_DSN o teste é pulado
func testConn(t *testing.T) *postgres.Connection {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN não definido")
	}

	ctx := context.Background()
	conn, err := postgres.NewConnection(ctx, config.Database{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, migration.Migrate(ctx, conn))

	return conn
}

func cleanupRow(t *testing.T, conn *postgres.Connection, table, column, id string) {
	t.Helper()
	_, _ = conn.ExecContext(context.Background(), "DELETE FROM "+table+" WHERE "+column+" = $1", id)
	t.Cleanup(func() {
		_, _ = conn.ExecContext(context.Background(), "DELETE FROM "+table+" WHERE "+column+" = $1", id)
	})
}

func TestPostgresPOCRepository(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()
	repo := NewPOCRepository(conn)
	cleanupRow(t, conn, pocsTable, "id", "poc-emirates-health-test0001")

	createdAt := time.Date(2026, 2, 13, 10, 30, 0, 0, time.UTC)
	poc := &domain.POC{
		ID:              "poc-emirates-health-test0001",
		ProspectName:    "Emirates Health Authority",
		ProspectEmail:   "cto@eha.gov.ae",
		Market:          domain.MarketUAE,
		Status:          domain.POCStatusActive,
		DaysRemaining:   30,
		CreatedAt:       createdAt,
		ExpiryAt:        createdAt.Add(30 * 24 * time.Hour),
		LastTickedAt:    createdAt,
		Owner:           "omar.hassan@aegis.ai",
		FeaturesEnabled: []domain.Feature{domain.FeatureVaultEncryption, domain.FeatureDataResidency},
	}

	require.NoError(t, repo.Put(ctx, poc))
	assert.Equal(t, int64(1), poc.Version)

	duplicate := poc.Clone()
	duplicate.Version = 0
	assert.True(t, errors.Is(repo.Put(ctx, duplicate), ErrDuplicateID))

	stored, err := repo.Get(ctx, poc.ID)
	require.NoError(t, err)
	assert.Equal(t, poc, stored)

	stored.DaysRemaining = 6
	stored.Status = domain.POCStatusExpiring
	stored.Usage.APICalls = 120
	require.NoError(t, repo.Put(ctx, stored))
	assert.Equal(t, int64(2), stored.Version)

	// a cópia antiga ainda está na versão 1
	poc.EngagementScore = 50
	assert.True(t, errors.Is(repo.Put(ctx, poc), ErrVersionConflict))

	list, err := repo.List(ctx, domain.POCFilters{
		Statuses: []domain.POCStatus{domain.POCStatusExpiring},
		Search:   "EMIRATES",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(120), list[0].Usage.APICalls)

	list, err = repo.List(ctx, domain.POCFilters{Owner: "ninguem@aegis.ai"})
	require.NoError(t, err)
	assert.Empty(t, list)

	removed, err := repo.Delete(ctx, poc.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, poc.ID)
	require.NoError(t, err)
	assert.False(t, removed)

	missing, err := repo.Get(ctx, poc.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgresHealthRepository(t *testing.T) {
	conn := testConn(t)
	ctx := context.Background()
	repo := NewHealthRepository(conn)
	cleanupRow(t, conn, orgHealthTable, "org_id", "org-test-001")

	computedAt := time.Date(2026, 2, 20, 9, 0, 0, 0, time.UTC)
	health := &domain.OrgHealth{
		HealthRecord: domain.HealthRecord{
			OrgID:    "org-test-001",
			Score:    18,
			RiskTier: domain.RiskTierChurning,
			Breakdown: domain.FactorBreakdown{
				{Name: domain.FactorAPICallFrequency, RawScore: 8, Weight: 0.30},
				{Name: domain.FactorLoginRecency, RawScore: 25, Weight: 0.20},
			},
			TopRecommendation: &domain.Recommendation{
				Action:   domain.ActionEscalateToCSM,
				Title:    "Escalate to Customer Success Manager",
				Priority: domain.PriorityCritical,
			},
		},
		OrgName:    "CryptoLedger",
		Plan:       domain.OrgPlanStarter,
		MAU:        1,
		ComputedAt: computedAt,
	}

	require.NoError(t, repo.Save(ctx, health))

	stored, err := repo.GetByOrgID(ctx, health.OrgID)
	require.NoError(t, err)
	assert.Equal(t, health, stored)

	health.Score = 74
	health.RiskTier = domain.RiskTierHealthy
	health.TopRecommendation = nil
	require.NoError(t, repo.Save(ctx, health))

	stored, err = repo.GetByOrgID(ctx, health.OrgID)
	require.NoError(t, err)
	assert.Equal(t, 74, stored.Score)
	assert.Nil(t, stored.TopRecommendation)

	tier := domain.RiskTierHealthy
	list, err := repo.List(ctx, domain.HealthFilters{RiskTier: &tier, Search: "crypto"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CryptoLedger", list[0].OrgName)

	missing, err := repo.GetByOrgID(ctx, "org-inexistente")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
