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

const pocsTable = "pocs"

var pocColumns = []string{
	"id", "prospect_name", "prospect_email", "market", "status", "days_remaining",
	"expiry_at", "created_at", "last_ticked_at", "owner", "features_enabled",
	"usage", "engagement_score", "version",
}

//go:generate mockgen -source=poc.go -destination=mocks/poc_mock.go -package=mocks

// POCRepository é o Entity Store dos POCs.
// Get devolve (nil, nil) quando o POC não existe. Put insere quando Version == 0 e,
// caso contrário, só grava se a versão persistida ainda for a lida; em ambos os casos
// incrementa Version no valor recebido.
type POCRepository interface {
	Get(ctx context.Context, id string) (*domain.POC, error)
	Put(ctx context.Context, poc *domain.POC) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filters domain.POCFilters) ([]*domain.POC, error)
}

type pocRepository struct {
	conn postgres.Queryer
}

func NewPOCRepository(conn postgres.Queryer) POCRepository {
	return &pocRepository{
		conn: conn,
	}
}

func (r *pocRepository) Get(ctx context.Context, id string) (*domain.POC, error) {
	query, args, err := squirrel.
		Select(pocColumns...).
		From(pocsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build get poc query")
	}

	poc, err := scanPOC(r.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get poc %s", id)
	}

	return poc, nil
}

func (r *pocRepository) Put(ctx context.Context, poc *domain.POC) error {
	features, err := json.Marshal(poc.FeaturesEnabled)
	if err != nil {
		return errors.Wrap(err, "marshal features")
	}
	usage, err := json.Marshal(poc.Usage)
	if err != nil {
		return errors.Wrap(err, "marshal usage")
	}

	if poc.Version == 0 {
		return r.insert(ctx, poc, features, usage)
	}

	query, args, err := squirrel.
		Update(pocsTable).
		Set("prospect_name", poc.ProspectName).
		Set("prospect_email", poc.ProspectEmail).
		Set("market", poc.Market).
		Set("status", poc.Status).
		Set("days_remaining", poc.DaysRemaining).
		Set("expiry_at", poc.ExpiryAt).
		Set("last_ticked_at", poc.LastTickedAt).
		Set("owner", poc.Owner).
		Set("features_enabled", string(features)).
		Set("usage", string(usage)).
		Set("engagement_score", poc.EngagementScore).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": poc.ID, "version": poc.Version}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build update poc query")
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "update poc %s", poc.ID)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "update poc %s", poc.ID)
	}
	if affected == 0 {
		return errors.Wrapf(ErrVersionConflict, "poc %s version %d", poc.ID, poc.Version)
	}

	poc.Version++
	return nil
}

func (r *pocRepository) insert(ctx context.Context, poc *domain.POC, features, usage []byte) error {
	query, args, err := squirrel.
		Insert(pocsTable).
		Columns(pocColumns...).
		Values(
			poc.ID, poc.ProspectName, poc.ProspectEmail, poc.Market, poc.Status, poc.DaysRemaining,
			poc.ExpiryAt, poc.CreatedAt, poc.LastTickedAt, poc.Owner, string(features),
			string(usage), poc.EngagementScore, 1,
		).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build insert poc query")
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return errors.Wrapf(ErrDuplicateID, "poc %s", poc.ID)
		}
		return errors.Wrapf(err, "insert poc %s", poc.ID)
	}

	poc.Version = 1
	return nil
}

func (r *pocRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := squirrel.
		Delete(pocsTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, errors.Wrap(err, "build delete poc query")
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, errors.Wrapf(err, "delete poc %s", id)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "delete poc %s", id)
	}

	return affected > 0, nil
}

func (r *pocRepository) List(ctx context.Context, filters domain.POCFilters) ([]*domain.POC, error) {
	queryBuilder := squirrel.
		Select(pocColumns...).
		From(pocsTable).
		OrderBy("created_at DESC", "id ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(filters.Statuses) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"status": filters.Statuses})
	}
	if filters.Owner != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"owner": filters.Owner})
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := "%" + search + "%"
		queryBuilder = queryBuilder.Where(squirrel.Or{
			squirrel.ILike{"prospect_name": pattern},
			squirrel.ILike{"prospect_email": pattern},
			squirrel.ILike{"id": pattern},
		})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list pocs query")
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list pocs")
	}
	defer rows.Close()

	pocs := make([]*domain.POC, 0)
	for rows.Next() {
		poc, err := scanPOC(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan poc")
		}
		pocs = append(pocs, poc)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate pocs")
	}

	return pocs, nil
}

func scanPOC(row rowScanner) (*domain.POC, error) {
	poc := &domain.POC{}
	var features, usage []byte

	if err := row.Scan(
		&poc.ID,
		&poc.ProspectName,
		&poc.ProspectEmail,
		&poc.Market,
		&poc.Status,
		&poc.DaysRemaining,
		&poc.ExpiryAt,
		&poc.CreatedAt,
		&poc.LastTickedAt,
		&poc.Owner,
		&features,
		&usage,
		&poc.EngagementScore,
		&poc.Version,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(features, &poc.FeaturesEnabled); err != nil {
		return nil, errors.Wrap(err, "unmarshal features")
	}
	if err := json.Unmarshal(usage, &poc.Usage); err != nil {
		return nil, errors.Wrap(err, "unmarshal usage")
	}

	poc.ExpiryAt = poc.ExpiryAt.UTC()
	poc.CreatedAt = poc.CreatedAt.UTC()
	poc.LastTickedAt = poc.LastTickedAt.UTC()

	return poc, nil
}
