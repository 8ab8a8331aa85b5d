package trial

import (
	"context"
	"errors"
	"reflect"
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

// maxWriteAttempts limita as releituras quando outra instância grava a mesma versão
const maxWriteAttempts = 3

const (
	transitionCreate     = "create"
	transitionExtend     = "extend"
	transitionConvert    = "convert"
	transitionExpire     = "expire"
	transitionTick       = "tick"
	transitionUsage      = "usage"
	transitionEngagement = "engagement"
	transitionRemove     = "remove"
)

var transitionEvents = map[string]string{
	transitionCreate:     events.TypePOCCreated,
	transitionExtend:     events.TypePOCExtended,
	transitionConvert:    events.TypePOCConverted,
	transitionExpire:     events.TypePOCExpired,
	transitionTick:       events.TypePOCTicked,
	transitionUsage:      events.TypePOCUsage,
	transitionEngagement: events.TypePOCEngagement,
	transitionRemove:     events.TypePOCRemoved,
}

type TrialService interface {
	CreatePOC(ctx context.Context, req *domain.CreatePOCRequest) (*domain.POC, error)
	GetPOC(ctx context.Context, id string) (*domain.POC, error)
	ListPOCs(ctx context.Context, filters domain.POCFilters) ([]*domain.POC, error)
	Stats(ctx context.Context) (*domain.POCStats, error)
	ExtendPOC(ctx context.Context, id string, opts ...MutationOption) (*domain.POC, error)
	ConvertPOC(ctx context.Context, id string, opts ...MutationOption) (*domain.POC, error)
	TickPOC(ctx context.Context, id string, elapsedDays int) (*domain.POC, error)
	TickElapsed(ctx context.Context, id string, now time.Time) (*domain.POC, error)
	RecordUsage(ctx context.Context, id string, req *domain.RecordUsageRequest) (*domain.POC, error)
	RecordEngagement(ctx context.Context, id string, score int) (*domain.POC, error)
	CleanupExpired(ctx context.Context) (int, error)
}

type mutationOptions struct {
	expectedVersion *int64
}

type MutationOption func(*mutationOptions)

// IfVersion faz a operação falhar se o POC não estiver mais na versão informada.
// Permite que o cliente repita uma chamada sem aplicar a mudança duas vezes.
func IfVersion(version int64) MutationOption {
	return func(o *mutationOptions) {
		o.expectedVersion = &version
	}
}

type Service struct {
	pocRepository repository.POCRepository
	publisher     events.Publisher
	metrics       *metrics.Metrics
	policy        Policy
	ids           IDGenerator
	locker        *utils.KeyedLocker
	now           func() time.Time
}

func NewService(
	pocRepository repository.POCRepository,
	publisher events.Publisher,
	m *metrics.Metrics,
	policy Policy,
) TrialService {
	return newService(pocRepository, publisher, m, policy, SlugIDGenerator{}, func() time.Time {
		return time.Now().UTC()
	})
}

func newService(
	pocRepository repository.POCRepository,
	publisher events.Publisher,
	m *metrics.Metrics,
	policy Policy,
	ids IDGenerator,
	now func() time.Time,
) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Service{
		pocRepository: pocRepository,
		publisher:     publisher,
		metrics:       m,
		policy:        policy,
		ids:           ids,
		locker:        utils.NewKeyedLocker(),
		now:           now,
	}
}

func (s *Service) CreatePOC(ctx context.Context, req *domain.CreatePOCRequest) (*domain.POC, error) {
	poc, err := s.policy.New(req, s.now())
	if err != nil {
		return nil, err
	}

	logger := log.ForContext(ctx)

	for attempt := 1; attempt <= s.policy.IDMaxAttempts; attempt++ {
		id, err := s.ids.NewID(poc.ProspectName)
		if err != nil {
			return nil, NewTrialError(ErrIDGeneration, apiErrors.ErrInternalServer, err.Error())
		}

		existing, err := s.pocRepository.Get(ctx, id)
		if err != nil {
			return nil, s.databaseError(ctx, id, err, "Falha ao verificar unicidade do ID")
		}
		if existing != nil {
			logger.WithField("poc_id", id).Warnf("Colisão de ID na tentativa %d, gerando outro", attempt)
			continue
		}

		candidate := poc.Clone()
		candidate.ID = id

		if err := s.pocRepository.Put(ctx, candidate); err != nil {
			if errors.Is(err, repository.ErrDuplicateID) {
				logger.WithField("poc_id", id).Warnf("ID gravado concorrentemente na tentativa %d, gerando outro", attempt)
				continue
			}
			return nil, s.databaseError(ctx, id, err, "Falha ao gravar POC")
		}

		s.afterTransition(ctx, transitionCreate, candidate)
		return candidate, nil
	}

	return nil, NewTrialError(ErrIDGeneration, apiErrors.ErrInternalServer, "limite de tentativas de geração de ID atingido")
}

func (s *Service) GetPOC(ctx context.Context, id string) (*domain.POC, error) {
	poc, err := s.pocRepository.Get(ctx, id)
	if err != nil {
		return nil, s.databaseError(ctx, id, err, "Falha ao buscar POC")
	}
	if poc == nil {
		return nil, notFound(id)
	}
	return poc, nil
}

func (s *Service) ListPOCs(ctx context.Context, filters domain.POCFilters) ([]*domain.POC, error) {
	for _, status := range filters.Statuses {
		if !status.IsValid() {
			return nil, NewTrialError(ErrValidation, apiErrors.ErrInvalidFormat, "status inválido: "+string(status))
		}
	}

	pocs, err := s.pocRepository.List(ctx, filters)
	if err != nil {
		return nil, s.databaseError(ctx, "", err, "Falha ao listar POCs")
	}
	return pocs, nil
}

func (s *Service) Stats(ctx context.Context) (*domain.POCStats, error) {
	pocs, err := s.pocRepository.List(ctx, domain.POCFilters{})
	if err != nil {
		return nil, s.databaseError(ctx, "", err, "Falha ao listar POCs")
	}

	stats := &domain.POCStats{Total: len(pocs)}
	for _, poc := range pocs {
		switch poc.Status {
		case domain.POCStatusActive:
			stats.Active++
		case domain.POCStatusExpiring:
			stats.Expiring++
		case domain.POCStatusExpired:
			stats.Expired++
		case domain.POCStatusConverted:
			stats.Converted++
		}
	}
	return stats, nil
}

func (s *Service) ExtendPOC(ctx context.Context, id string, opts ...MutationOption) (*domain.POC, error) {
	return s.mutate(ctx, id, transitionExtend, opts, s.policy.Extend)
}

func (s *Service) ConvertPOC(ctx context.Context, id string, opts ...MutationOption) (*domain.POC, error) {
	return s.mutate(ctx, id, transitionConvert, opts, s.policy.Convert)
}

func (s *Service) TickPOC(ctx context.Context, id string, elapsedDays int) (*domain.POC, error) {
	if elapsedDays < 0 {
		return nil, NewTrialErrorWithID(ErrValidation, apiErrors.ErrInvalidRequest, id, "elapsed_days negativo")
	}
	return s.mutate(ctx, id, transitionTick, nil, func(poc *domain.POC) (*domain.POC, error) {
		return s.policy.Tick(poc, elapsedDays)
	})
}

// TickElapsed calcula os dias decorridos sob o lock, a partir do last_ticked_at gravado
func (s *Service) TickElapsed(ctx context.Context, id string, now time.Time) (*domain.POC, error) {
	return s.mutate(ctx, id, transitionTick, nil, func(poc *domain.POC) (*domain.POC, error) {
		return s.policy.Tick(poc, s.policy.ElapsedDays(poc, now))
	})
}

func (s *Service) RecordUsage(ctx context.Context, id string, req *domain.RecordUsageRequest) (*domain.POC, error) {
	if req == nil {
		return nil, NewTrialErrorWithID(ErrValidation, apiErrors.ErrMissingRequiredData, id, "requisição vazia")
	}
	return s.mutate(ctx, id, transitionUsage, nil, func(poc *domain.POC) (*domain.POC, error) {
		return s.policy.RecordUsage(poc, req)
	})
}

func (s *Service) RecordEngagement(ctx context.Context, id string, score int) (*domain.POC, error) {
	return s.mutate(ctx, id, transitionEngagement, nil, func(poc *domain.POC) (*domain.POC, error) {
		return s.policy.RecordEngagement(poc, score)
	})
}

// CleanupExpired remove todos os POCs expirados; sem expirados é um no-op
func (s *Service) CleanupExpired(ctx context.Context) (int, error) {
	logger := log.ForContext(ctx)

	expired, err := s.pocRepository.List(ctx, domain.POCFilters{Statuses: []domain.POCStatus{domain.POCStatusExpired}})
	if err != nil {
		return 0, s.databaseError(ctx, "", err, "Falha ao listar POCs expirados")
	}

	removed := 0
	for _, candidate := range expired {
		ok, err := s.removeExpired(ctx, candidate.ID)
		if err != nil {
			return removed, err
		}
		if ok {
			removed++
		}
	}

	s.metrics.POCCleanup(removed)
	logger.Infof("Limpeza concluída: %d POCs expirados removidos", removed)

	return removed, nil
}

func (s *Service) removeExpired(ctx context.Context, id string) (bool, error) {
	unlock := s.locker.Lock(id)
	defer unlock()

	// Relê sob o lock: o POC pode ter sido removido por outra limpeza
	current, err := s.pocRepository.Get(ctx, id)
	if err != nil {
		return false, s.databaseError(ctx, id, err, "Falha ao buscar POC expirado")
	}
	if current == nil || current.Status != domain.POCStatusExpired {
		return false, nil
	}

	deleted, err := s.pocRepository.Delete(ctx, id)
	if err != nil {
		return false, s.databaseError(ctx, id, err, "Falha ao remover POC expirado")
	}
	if deleted {
		s.afterTransition(ctx, transitionRemove, current)
	}
	return deleted, nil
}

// mutate aplica fn ao estado persistido sob o lock do POC e grava com checagem de versão
func (s *Service) mutate(
	ctx context.Context,
	id string,
	transition string,
	opts []MutationOption,
	fn func(*domain.POC) (*domain.POC, error),
) (*domain.POC, error) {
	options := &mutationOptions{}
	for _, opt := range opts {
		opt(options)
	}

	unlock := s.locker.Lock(id)
	defer unlock()

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		current, err := s.pocRepository.Get(ctx, id)
		if err != nil {
			return nil, s.databaseError(ctx, id, err, "Falha ao buscar POC")
		}
		if current == nil {
			return nil, notFound(id)
		}

		if options.expectedVersion != nil && *options.expectedVersion != current.Version {
			return nil, NewTrialErrorWithID(ErrConcurrentUpdate, apiErrors.ErrConcurrentUpdate, id,
				"versão informada não corresponde à versão atual")
		}

		next, err := fn(current)
		if err != nil {
			return nil, err
		}

		if reflect.DeepEqual(current, next) {
			return next, nil
		}

		if err := s.pocRepository.Put(ctx, next); err != nil {
			if errors.Is(err, repository.ErrVersionConflict) {
				log.ForContext(ctx).WithField("poc_id", id).Warnf("Conflito de versão na tentativa %d, relendo", attempt)
				continue
			}
			return nil, s.databaseError(ctx, id, err, "Falha ao gravar POC")
		}

		s.afterTransition(ctx, transition, next)
		if next.Status == domain.POCStatusExpired && current.Status != domain.POCStatusExpired {
			s.afterTransition(ctx, transitionExpire, next)
		}
		return next, nil
	}

	return nil, NewTrialErrorWithID(ErrConcurrentUpdate, apiErrors.ErrConcurrentUpdate, id,
		"limite de tentativas de gravação atingido")
}

func (s *Service) afterTransition(ctx context.Context, transition string, poc *domain.POC) {
	s.metrics.POCTransition(transition)

	eventType := transitionEvents[transition]

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"poc_id":     poc.ID,
		"transition": transition,
	})

	err := s.publisher.Publish(ctx, events.Event{
		Stream:     events.StreamTrial,
		Type:       eventType,
		Key:        poc.ID,
		OccurredAt: s.now(),
		Data:       poc,
	})
	if err != nil {
		logger.WithError(err).Warn("Falha ao publicar evento do POC")
		return
	}

	logger.Debugf("POC %s: %s aplicado (status %s, %d dias)", poc.ID, transition, poc.Status, poc.DaysRemaining)
}

func (s *Service) databaseError(ctx context.Context, id string, err error, details string) error {
	log.ForContext(ctx).WithField("poc_id", id).WithError(err).Error(details)
	return NewTrialErrorWithID(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, id, details)
}

func notFound(id string) error {
	return NewTrialErrorWithID(ErrNotFound, apiErrors.ErrNotFound, id, "POC não encontrado")
}
