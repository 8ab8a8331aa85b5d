package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/vfg2006/aegis-admin-api/infrastructure/database/postgres"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
)

const orgHealthTable = "org_health"

var orgHealthColumns = []string{
	"org_id", "org_name", "plan", "score", "risk_tier", "dau", "mau",
	"last_active_at", "breakdown", "top_recommendation", "computed_at",
}

//go:generate mockgen -source=health.go -destination=mocks/health_mock.go -package=mocks

// HealthRepository guarda o último HealthRecord de cada organização
type HealthRepository interface {
	GetByOrgID(ctx context.Context, orgID string) (*domain.OrgHealth, error)
	Save(ctx context.Context, health *domain.OrgHealth) error
	List(ctx context.Context, filters domain.HealthFilters) ([]*domain.OrgHealth, error)
}

type healthRepository struct {
	conn postgres.Queryer
}

func NewHealthRepository(conn postgres.Queryer) HealthRepository {
	return &healthRepository{
		conn: conn,
	}
}

func (r *healthRepository) GetByOrgID(ctx context.Context, orgID string) (*domain.OrgHealth, error) {
	query, args, err := squirrel.
		Select(orgHealthColumns...).
		From(orgHealthTable).
		Where(squirrel.Eq{"org_id": orgID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build get health query")
	}

	health, err := scanOrgHealth(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get health %s", orgID)
	}

	return health, nil
}

// Save substitui integralmente o registro anterior da organização
func (r *healthRepository) Save(ctx context.Context, health *domain.OrgHealth) error {
	breakdown, err := json.Marshal(health.Breakdown)
	if err != nil {
		return errors.Wrap(err, "marshal breakdown")
	}

	var recommendation any
	if health.TopRecommendation != nil {
		raw, err := json.Marshal(health.TopRecommendation)
		if err != nil {
			return errors.Wrap(err, "marshal recommendation")
		}
		recommendation = string(raw)
	}

	query, args, err := squirrel.
		Insert(orgHealthTable).
		Columns(orgHealthColumns...).
		Values(
			health.OrgID, health.OrgName, health.Plan, health.Score, health.RiskTier, health.DAU, health.MAU,
			health.LastActiveAt, string(breakdown), recommendation, health.ComputedAt,
		).
		Suffix(`ON CONFLICT (org_id) DO UPDATE SET
			org_name = EXCLUDED.org_name,
			plan = EXCLUDED.plan,
			score = EXCLUDED.score,
			risk_tier = EXCLUDED.risk_tier,
			dau = EXCLUDED.dau,
			mau = EXCLUDED.mau,
			last_active_at = EXCLUDED.last_active_at,
			breakdown = EXCLUDED.breakdown,
			top_recommendation = EXCLUDED.top_recommendation,
			computed_at = EXCLUDED.computed_at`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build save health query")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "save health %s", health.OrgID)
	}

	return nil
}

func (r *healthRepository) List(ctx context.Context, filters domain.HealthFilters) ([]*domain.OrgHealth, error) {
	queryBuilder := squirrel.
		Select(orgHealthColumns...).
		From(orgHealthTable).
		OrderBy("org_id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if filters.RiskTier != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"risk_tier": *filters.RiskTier})
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + search + "%"
		queryBuilder = queryBuilder.Where(squirrel.Or{
			squirrel.ILike{"org_name": pattern},
			squirrel.ILike{"plan": pattern},
		})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list health query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list health")
	}
	defer rows.Close()

	records := make([]*domain.OrgHealth, 0)
	for rows.Next() {
		health, err := scanOrgHealth(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan health")
		}
		records = append(records, health)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate health")
	}

	return records, nil
}

func scanOrgHealth(row rowScanner) (*domain.OrgHealth, error) {
	health := &domain.OrgHealth{}
	var lastActive sql.NullTime
	var breakdown, recommendation []byte

	if err := row.Scan(
		&health.OrgID,
		&health.OrgName,
		&health.Plan,
		&health.Score,
		&health.RiskTier,
		&health.DAU,
		&health.MAU,
		&lastActive,
		&breakdown,
		&recommendation,
		&health.ComputedAt,
	); err != nil {
		return nil, err
	}

	if lastActive.Valid {
		t := lastActive.Time.UTC()
		health.LastActiveAt = &t
	}
	health.ComputedAt = health.ComputedAt.UTC()

	if err := json.Unmarshal(breakdown, &health.Breakdown); err != nil {
		return nil, errors.Wrap(err, "unmarshal breakdown")
	}
	if len(recommendation) > 0 {
		health.TopRecommendation = &domain.Recommendation{}
		if err := json.Unmarshal(recommendation, health.TopRecommendation); err != nil {
			return nil, errors.Wrap(err, "unmarshal recommendation")
		}
	}

	return health, nil
}
