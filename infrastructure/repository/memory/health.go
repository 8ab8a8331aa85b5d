package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/vfg2006/aegis-admin-api/infrastructure/repository"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
)

type HealthRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.OrgHealth
}

func NewHealthRepository() *HealthRepository {
	return &HealthRepository{
		records: make(map[string]*domain.OrgHealth),
	}
}

var _ repository.HealthRepository = (*HealthRepository)(nil)

func (r *HealthRepository) GetByOrgID(ctx context.Context, orgID string) (*domain.OrgHealth, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneHealth(r.records[orgID]), nil
}

func (r *HealthRepository) Save(ctx context.Context, health *domain.OrgHealth) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[health.OrgID] = cloneHealth(health)
	return nil
}

func (r *HealthRepository) List(ctx context.Context, filters domain.HealthFilters) ([]*domain.OrgHealth, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filters.Search))
	records := make([]*domain.OrgHealth, 0, len(r.records))

	for _, h := range r.records {
		if filters.RiskTier != nil && h.RiskTier != *filters.RiskTier {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(h.OrgName), search) &&
			!strings.Contains(strings.ToLower(string(h.Plan)), search) {
			continue
		}
		records = append(records, cloneHealth(h))
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].OrgID < records[j].OrgID
	})

	return records, nil
}

func cloneHealth(h *domain.OrgHealth) *domain.OrgHealth {
	if h == nil {
		return nil
	}

	clone := *h
	clone.Breakdown = append(domain.FactorBreakdown(nil), h.Breakdown...)
	if h.TopRecommendation != nil {
		rec := *h.TopRecommendation
		clone.TopRecommendation = &rec
	}
	if h.LastActiveAt != nil {
		t := *h.LastActiveAt
		clone.LastActiveAt = &t
	}
	return &clone
}
