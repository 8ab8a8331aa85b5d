package scoring

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/vfg2006/aegis-admin-api/infrastructure/events"
	"github.com/vfg2006/aegis-admin-api/infrastructure/repository"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
	"github.com/vfg2006/aegis-admin-api/pkg/log"
	"github.com/vfg2006/aegis-admin-api/pkg/metrics"
	"github.com/vfg2006/aegis-admin-api/pkg/utils"
)

//go:generate mockgen -source=service.go -destination=mocks/service_mock.go -package=mocks

type HealthService interface {
	RefreshHealth(ctx context.Context, snapshot *domain.OrgSnapshot) (*domain.OrgHealth, error)
	ScorePreview(breakdown domain.FactorBreakdown) (*domain.HealthRecord, error)
	GetHealth(ctx context.Context, orgID string) (*domain.OrgHealth, error)
	ListHealth(ctx context.Context, filters domain.HealthFilters) ([]*domain.OrgHealth, error)
	Summary(ctx context.Context) (*domain.HealthSummary, error)
	RescoreAll(ctx context.Context) (int, error)
}

type Service struct {
	healthRepository repository.HealthRepository
	publisher        events.Publisher
	metrics          *metrics.Metrics
	engine           *Engine
	locker           *utils.KeyedLocker
	now              func() time.Time
}

func NewService(
	healthRepository repository.HealthRepository,
	publisher events.Publisher,
	m *metrics.Metrics,
	engine *Engine,
) HealthService {
	return newService(healthRepository, publisher, m, engine, func() time.Time {
		return time.Now().UTC()
	})
}

func newService(
	healthRepository repository.HealthRepository,
	publisher events.Publisher,
	m *metrics.Metrics,
	engine *Engine,
	now func() time.Time,
) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{
		healthRepository: healthRepository,
		publisher:        publisher,
		metrics:          m,
		engine:           engine,
		locker:           utils.NewKeyedLocker(),
		now:              now,
	}
}

// RefreshHealth recalcula do zero a saúde da organização e substitui o registro anterior
func (s *Service) RefreshHealth(ctx context.Context, snapshot *domain.OrgSnapshot) (*domain.OrgHealth, error) {
	if err := validateSnapshot(snapshot); err != nil {
		return nil, err
	}

	breakdown, err := s.engine.Policy().BreakdownFromScores(snapshot.Scores)
	if err != nil {
		return nil, err
	}

	record, err := s.engine.ComputeHealth(breakdown)
	if err != nil {
		return nil, err
	}
	record.OrgID = snapshot.OrgID

	unlock := s.locker.Lock(snapshot.OrgID)
	defer unlock()

	previous, err := s.healthRepository.GetByOrgID(ctx, snapshot.OrgID)
	if err != nil {
		return nil, s.databaseError(ctx, snapshot.OrgID, err, "Falha ao buscar saúde anterior")
	}

	health := &domain.OrgHealth{
		HealthRecord: *record,
		OrgName:      strings.TrimSpace(snapshot.OrgName),
		Plan:         snapshot.Plan,
		DAU:          snapshot.DAU,
		MAU:          snapshot.MAU,
		LastActiveAt: snapshot.LastActiveAt,
		ComputedAt:   s.now(),
	}

	if err := s.save(ctx, previous, health); err != nil {
		return nil, err
	}

	return health, nil
}

// ScorePreview calcula sem persistir
func (s *Service) ScorePreview(breakdown domain.FactorBreakdown) (*domain.HealthRecord, error) {
	return s.engine.ComputeHealth(breakdown)
}

func (s *Service) GetHealth(ctx context.Context, orgID string) (*domain.OrgHealth, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, NewBreakdownError(ErrOrgIDRequired, apiErrors.ErrMissingRequiredData, "org_id é obrigatório")
	}

	health, err := s.healthRepository.GetByOrgID(ctx, orgID)
	if err != nil {
		return nil, s.databaseError(ctx, orgID, err, "Falha ao buscar saúde")
	}
	if health == nil {
		return nil, NewBreakdownError(ErrHealthNotFound, apiErrors.ErrNotFound, fmt.Sprintf("organização %s sem registro de saúde", orgID))
	}
	return health, nil
}

func (s *Service) ListHealth(ctx context.Context, filters domain.HealthFilters) ([]*domain.OrgHealth, error) {
	if filters.RiskTier != nil && !filters.RiskTier.IsValid() {
		return nil, NewBreakdownError(ErrInvalidSnapshot, apiErrors.ErrInvalidFormat, fmt.Sprintf("risk_tier inválido: %q", *filters.RiskTier))
	}

	less, err := healthLess(filters.SortBy)
	if err != nil {
		return nil, err
	}

	records, err := s.healthRepository.List(ctx, filters)
	if err != nil {
		return nil, s.databaseError(ctx, "", err, "Falha ao listar saúde")
	}

	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if filters.Asc {
			if cmp := less(a, b); cmp != 0 {
				return cmp < 0
			}
		} else {
			if cmp := less(b, a); cmp != 0 {
				return cmp < 0
			}
		}
		return a.OrgID < b.OrgID
	})

	return records, nil
}

func (s *Service) Summary(ctx context.Context) (*domain.HealthSummary, error) {
	records, err := s.healthRepository.List(ctx, domain.HealthFilters{})
	if err != nil {
		return nil, s.databaseError(ctx, "", err, "Falha ao listar saúde")
	}

	summary := &domain.HealthSummary{Total: len(records)}
	for _, r := range records {
		switch r.RiskTier {
		case domain.RiskTierHealthy:
			summary.Healthy++
		case domain.RiskTierAtRisk:
			summary.AtRisk++
		case domain.RiskTierChurning:
			summary.Churning++
		}
	}
	summary.HealthyPct = utils.Percentage(summary.Healthy, summary.Total)

	return summary, nil
}

// RescoreAll reaplica a política atual aos raw scores persistidos e devolve quantos registros mudaram
func (s *Service) RescoreAll(ctx context.Context) (int, error) {
	logger := log.ForContext(ctx)

	records, err := s.healthRepository.List(ctx, domain.HealthFilters{})
	if err != nil {
		return 0, s.databaseError(ctx, "", err, "Falha ao listar saúde")
	}

	changed := 0
	for _, stored := range records {
		if err := ctx.Err(); err != nil {
			return changed, err
		}

		updated, err := s.rescore(ctx, stored.OrgID)
		if err != nil {
			if errors.Is(err, ErrInvalidBreakdown) {
				logger.WithField("org_id", stored.OrgID).WithError(err).Warn("Fatores persistidos incompatíveis com a política atual")
				continue
			}
			return changed, err
		}
		if updated {
			changed++
		}
	}

	logger.Infof("Recálculo de saúde concluído: %d de %d registros alterados", changed, len(records))
	return changed, nil
}

func (s *Service) rescore(ctx context.Context, orgID string) (bool, error) {
	unlock := s.locker.Lock(orgID)
	defer unlock()

	stored, err := s.healthRepository.GetByOrgID(ctx, orgID)
	if err != nil {
		return false, s.databaseError(ctx, orgID, err, "Falha ao buscar saúde")
	}
	if stored == nil {
		return false, nil
	}

	breakdown, err := s.engine.Policy().BreakdownFromScores(stored.Breakdown.Scores())
	if err != nil {
		return false, err
	}

	record, err := s.engine.ComputeHealth(breakdown)
	if err != nil {
		return false, err
	}
	record.OrgID = orgID

	if reflect.DeepEqual(*record, stored.HealthRecord) {
		return false, nil
	}

	health := *stored
	health.HealthRecord = *record
	health.ComputedAt = s.now()

	if err := s.save(ctx, stored, &health); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) save(ctx context.Context, previous, health *domain.OrgHealth) error {
	if err := s.healthRepository.Save(ctx, health); err != nil {
		return s.databaseError(ctx, health.OrgID, err, "Falha ao gravar saúde")
	}

	s.metrics.HealthScored(string(health.RiskTier))

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"org_id":    health.OrgID,
		"risk_tier": health.RiskTier,
	})

	var pending []events.Event
	if previous != nil && previous.RiskTier != health.RiskTier {
		pending = append(pending, s.event(events.TypeHealthTierChange, health, map[string]any{
			"previous_tier": previous.RiskTier,
			"risk_tier":     health.RiskTier,
			"score":         health.Score,
		}))
		logger.Infof("Faixa de risco alterada de %s para %s", previous.RiskTier, health.RiskTier)
	}
	if health.RiskTier == domain.RiskTierChurning {
		pending = append(pending, s.event(events.TypeHealthChurnAlert, health, health.Response()))
	}

	if len(pending) > 0 {
		if err := s.publisher.Publish(ctx, pending...); err != nil {
			logger.WithError(err).Warn("Falha ao publicar eventos de saúde")
		}
	}

	return nil
}

func (s *Service) event(eventType string, health *domain.OrgHealth, data any) events.Event {
	return events.Event{
		Stream:     events.StreamHealth,
		Type:       eventType,
		Key:        health.OrgID,
		OccurredAt: s.now(),
		Data:       data,
	}
}

func (s *Service) databaseError(ctx context.Context, orgID string, err error, details string) error {
	log.ForContext(ctx).WithField("org_id", orgID).WithError(err).Error(details)
	return NewBreakdownError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, details)
}

func validateSnapshot(snapshot *domain.OrgSnapshot) error {
	switch {
	case snapshot == nil:
		return NewBreakdownError(ErrInvalidSnapshot, apiErrors.ErrMissingRequiredData, "snapshot vazio")
	case strings.TrimSpace(snapshot.OrgID) == "":
		return NewBreakdownError(ErrOrgIDRequired, apiErrors.ErrMissingRequiredData, "org_id é obrigatório")
	case strings.TrimSpace(snapshot.OrgName) == "":
		return NewBreakdownError(ErrInvalidSnapshot, apiErrors.ErrMissingRequiredData, "org_name é obrigatório")
	case !snapshot.Plan.IsValid():
		return NewBreakdownError(ErrInvalidSnapshot, apiErrors.ErrInvalidFormat, fmt.Sprintf("plan inválido: %q", snapshot.Plan))
	case snapshot.DAU < 0 || snapshot.MAU < 0:
		return NewBreakdownError(ErrInvalidSnapshot, apiErrors.ErrInvalidFormat, "dau e mau devem ser não negativos")
	case snapshot.DAU > snapshot.MAU:
		return NewBreakdownError(ErrInvalidSnapshot, apiErrors.ErrInvalidFormat, "dau não pode exceder mau")
	}
	return nil
}

// healthLess devolve uma comparação de três vias para o campo de ordenação
func healthLess(field domain.HealthSortField) (func(a, b *domain.OrgHealth) int, error) {
	switch field {
	case domain.HealthSortScore, "":
		return func(a, b *domain.OrgHealth) int { return a.Score - b.Score }, nil
	case domain.HealthSortOrgName:
		return func(a, b *domain.OrgHealth) int {
			return strings.Compare(strings.ToLower(a.OrgName), strings.ToLower(b.OrgName))
		}, nil
	case domain.HealthSortPlan:
		return func(a, b *domain.OrgHealth) int { return a.Plan.Rank() - b.Plan.Rank() }, nil
	case domain.HealthSortLastActive:
		return compareLastActive, nil
	}
	return nil, NewBreakdownError(ErrInvalidSnapshot, apiErrors.ErrInvalidFormat, fmt.Sprintf("sort_by inválido: %q", field))
}

// Nunca ativo conta como o mais antigo possível
func compareLastActive(a, b *domain.OrgHealth) int {
	switch {
	case a.LastActiveAt == nil && b.LastActiveAt == nil:
		return 0
	case a.LastActiveAt == nil:
		return -1
	case b.LastActiveAt == nil:
		return 1
	}
	return a.LastActiveAt.Compare(*b.LastActiveAt)
}
