package migration

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vfg2006/aegis-admin-api/infrastructure/database/postgres"
)

// statements são idempotentes e aplicados em ordem
var statements = []string{
	`CREATE TABLE IF NOT EXISTS pocs (
		id               VARCHAR(64) PRIMARY KEY,
		prospect_name    TEXT        NOT NULL,
		prospect_email   TEXT        NOT NULL,
		market           VARCHAR(16) NOT NULL,
		status           VARCHAR(16) NOT NULL,
		days_remaining   INTEGER     NOT NULL CHECK (days_remaining >= 0),
		expiry_at        TIMESTAMPTZ NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL,
		last_ticked_at   TIMESTAMPTZ NOT NULL,
		owner            TEXT        NOT NULL,
		features_enabled JSONB       NOT NULL DEFAULT '[]',
		usage            JSONB       NOT NULL DEFAULT '{}',
		engagement_score INTEGER     NOT NULL DEFAULT 0 CHECK (engagement_score BETWEEN 0 AND 100),
		version          BIGINT      NOT NULL DEFAULT 1
	)`,
	`CREATE INDEX IF NOT EXISTS pocs_status_idx ON pocs (status)`,
	`CREATE INDEX IF NOT EXISTS pocs_owner_idx ON pocs (owner)`,
	`CREATE TABLE IF NOT EXISTS org_health (
		org_id             VARCHAR(64) PRIMARY KEY,
		org_name           TEXT        NOT NULL,
		plan               VARCHAR(16) NOT NULL,
		score              INTEGER     NOT NULL CHECK (score BETWEEN 0 AND 100),
		risk_tier          VARCHAR(16) NOT NULL,
		dau                INTEGER     NOT NULL DEFAULT 0,
		mau                INTEGER     NOT NULL DEFAULT 0,
		last_active_at     TIMESTAMPTZ,
		breakdown          JSONB       NOT NULL,
		top_recommendation JSONB,
		computed_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS org_health_risk_tier_idx ON org_health (risk_tier)`,
}

// Migrate cria as tabelas de POCs e de saúde caso ainda não existam
func Migrate(ctx context.Context, conn postgres.Queryer) error {
	for i, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "apply migration statement %d", i+1)
		}
	}
	return nil
}
