package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vfg2006/aegis-admin-api/infrastructure/repository"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
)

// POCRepository guarda cópias dos POCs em memória com a mesma semântica de versão do postgres
type POCRepository struct {
	mu   sync.RWMutex
	pocs map[string]*domain.POC
}

func NewPOCRepository() *POCRepository {
	return &POCRepository{
		pocs: make(map[string]*domain.POC),
	}
}

var _ repository.POCRepository = (*POCRepository)(nil)

func (r *POCRepository) Get(ctx context.Context, id string) (*domain.POC, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.pocs[id].Clone(), nil
}

func (r *POCRepository) Put(ctx context.Context, poc *domain.POC) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.pocs[poc.ID]
	switch {
	case poc.Version == 0 && exists:
		return errors.Wrapf(repository.ErrDuplicateID, "poc %s", poc.ID)
	case poc.Version != 0 && (!exists || current.Version != poc.Version):
		return errors.Wrapf(repository.ErrVersionConflict, "poc %s version %d", poc.ID, poc.Version)
	}

	poc.Version++
	r.pocs[poc.ID] = poc.Clone()
	return nil
}

func (r *POCRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pocs[id]; !exists {
		return false, nil
	}
	delete(r.pocs, id)
	return true, nil
}

func (r *POCRepository) List(ctx context.Context, filters domain.POCFilters) ([]*domain.POC, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filters.Search))
	pocs := make([]*domain.POC, 0, len(r.pocs))

	for _, poc := range r.pocs {
		if len(filters.Statuses) > 0 && !containsStatus(filters.Statuses, poc.Status) {
			continue
		}
		if filters.Owner != "" && poc.Owner != filters.Owner {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(poc.ProspectName), search) &&
			!strings.Contains(strings.ToLower(poc.ProspectEmail), search) &&
			!strings.Contains(strings.ToLower(poc.ID), search) {
			continue
		}
		pocs = append(pocs, poc.Clone())
	}

	sort.Slice(pocs, func(i, j int) bool {
		if !pocs[i].CreatedAt.Equal(pocs[j].CreatedAt) {
			return pocs[i].CreatedAt.After(pocs[j].CreatedAt)
		}
		return pocs[i].ID < pocs[j].ID
	})

	return pocs, nil
}

func containsStatus(statuses []domain.POCStatus, status domain.POCStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
