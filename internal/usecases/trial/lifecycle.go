package trial

import (
	"fmt"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
)

const day = 24 * time.Hour

// As transições abaixo são puras: recebem o estado atual e devolvem um novo valor,
// sem tocar no POC recebido. Reaplicar sobre o mesmo estado persistido dá o mesmo resultado.

// New valida a requisição e monta um POC ainda sem identificador
func (p Policy) New(req *domain.CreatePOCRequest, now time.Time) (*domain.POC, error) {
	if req == nil {
		return nil, NewTrialError(ErrValidation, apiErrors.ErrMissingRequiredData, "requisição vazia")
	}

	name := strings.TrimSpace(req.ProspectName)
	if name == "" {
		return nil, NewTrialError(ErrValidation, apiErrors.ErrMissingRequiredData, "prospect_name é obrigatório")
	}

	email := strings.TrimSpace(req.ProspectEmail)
	if email == "" {
		return nil, NewTrialError(ErrValidation, apiErrors.ErrMissingRequiredData, "prospect_email é obrigatório")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, NewTrialError(ErrValidation, apiErrors.ErrInvalidFormat, fmt.Sprintf("prospect_email inválido: %q", email))
	}

	if !req.Market.IsValid() {
		return nil, NewTrialError(ErrValidation, apiErrors.ErrInvalidFormat, fmt.Sprintf("market inválido: %q", req.Market))
	}

	if len(req.Features) == 0 {
		return nil, NewTrialError(ErrValidation, apiErrors.ErrMissingRequiredData, "ao menos uma feature deve ser habilitada")
	}
	seen := make(map[domain.Feature]struct{}, len(req.Features))
	for _, f := range req.Features {
		if !f.IsValid() {
			return nil, NewTrialError(ErrValidation, apiErrors.ErrInvalidFormat, fmt.Sprintf("feature desconhecida: %q", f))
		}
		if _, dup := seen[f]; dup {
			return nil, NewTrialError(ErrValidation, apiErrors.ErrInvalidFormat, fmt.Sprintf("feature duplicada: %q", f))
		}
		seen[f] = struct{}{}
	}

	owner := strings.TrimSpace(req.Owner)
	if owner == "" {
		return nil, NewTrialError(ErrValidation, apiErrors.ErrMissingRequiredData, "owner é obrigatório")
	}
	if len(p.SalesEngineers) > 0 {
		if _, ok := p.SalesEngineers[owner]; !ok {
			return nil, NewTrialError(ErrValidation, apiErrors.ErrInvalidRequest, fmt.Sprintf("owner não é um sales engineer conhecido: %q", owner))
		}
	}

	now = now.UTC()
	return &domain.POC{
		ProspectName:    name,
		ProspectEmail:   email,
		Market:          req.Market,
		Status:          p.aliveStatus(p.InitialDays),
		DaysRemaining:   p.InitialDays,
		ExpiryAt:        now.Add(time.Duration(p.InitialDays) * day),
		CreatedAt:       now,
		LastTickedAt:    now,
		Owner:           owner,
		FeaturesEnabled: append([]domain.Feature(nil), req.Features...),
	}, nil
}

// Extend concede ExtensionDays respeitando o teto de MaxDays
func (p Policy) Extend(poc *domain.POC) (*domain.POC, error) {
	if !poc.Status.IsAlive() {
		return nil, p.transitionError(poc, "extend")
	}

	next := poc.Clone()
	// um teto reduzido depois da criação não encurta o trial
	next.DaysRemaining = max(poc.DaysRemaining, min(poc.DaysRemaining+p.ExtensionDays, p.MaxDays))
	next.ExpiryAt = poc.ExpiryAt.Add(time.Duration(p.ExtensionDays) * day)
	if next.DaysRemaining > p.ExpiringThresholdDays {
		next.Status = domain.POCStatusActive
	}
	return next, nil
}

// Convert é terminal: nenhum campo muda depois dele
func (p Policy) Convert(poc *domain.POC) (*domain.POC, error) {
	if !poc.Status.IsAlive() {
		return nil, p.transitionError(poc, "convert")
	}

	next := poc.Clone()
	next.Status = domain.POCStatusConverted
	next.DaysRemaining = 0
	return next, nil
}

func (p Policy) Expire(poc *domain.POC) (*domain.POC, error) {
	if !poc.Status.IsAlive() || poc.DaysRemaining != 0 {
		return nil, p.transitionError(poc, "expire")
	}

	next := poc.Clone()
	next.Status = domain.POCStatusExpired
	return next, nil
}

// Tick consome elapsedDays dias inteiros. Em POC terminal não há efeito.
func (p Policy) Tick(poc *domain.POC, elapsedDays int) (*domain.POC, error) {
	if elapsedDays < 0 {
		return nil, NewTrialErrorWithID(ErrValidation, apiErrors.ErrInvalidRequest, poc.ID,
			fmt.Sprintf("elapsed_days negativo: %d", elapsedDays))
	}

	next := poc.Clone()
	if !poc.Status.IsAlive() || elapsedDays == 0 {
		return next, nil
	}

	next.DaysRemaining = poc.DaysRemaining - min(elapsedDays, poc.DaysRemaining)
	next.LastTickedAt = poc.LastTickedAt.Add(time.Duration(elapsedDays) * day)

	if next.DaysRemaining <= p.ExpiringThresholdDays {
		next.Status = domain.POCStatusExpiring
	}
	if next.DaysRemaining == 0 {
		return p.Expire(next)
	}
	return next, nil
}

// ElapsedDays devolve os dias inteiros decorridos desde o último tick
func (p Policy) ElapsedDays(poc *domain.POC, now time.Time) int {
	if now.Before(poc.LastTickedAt) {
		return 0
	}
	return int(now.Sub(poc.LastTickedAt) / day)
}

// RecordUsage só acumula; deltas negativos violam a monotonicidade do uso
func (p Policy) RecordUsage(poc *domain.POC, req *domain.RecordUsageRequest) (*domain.POC, error) {
	if !poc.Status.IsAlive() {
		return nil, p.frozenError(poc)
	}
	if req.APICallsDelta < 0 || req.FLRoundsDelta < 0 || req.StorageDelta < 0 ||
		math.IsNaN(req.StorageDelta) || math.IsInf(req.StorageDelta, 0) {
		return nil, NewTrialErrorWithID(ErrValidation, apiErrors.ErrInvalidRequest, poc.ID, "deltas de uso devem ser não negativos")
	}

	next := poc.Clone()
	next.Usage.APICalls += req.APICallsDelta
	next.Usage.FLRounds += req.FLRoundsDelta
	next.Usage.StorageUsed += req.StorageDelta
	if next.Usage.APICalls < poc.Usage.APICalls || next.Usage.FLRounds < poc.Usage.FLRounds ||
		math.IsInf(next.Usage.StorageUsed, 0) {
		return nil, NewTrialErrorWithID(ErrValidation, apiErrors.ErrInvalidRequest, poc.ID, "delta de uso excede o limite do contador")
	}
	return next, nil
}

func (p Policy) RecordEngagement(poc *domain.POC, score int) (*domain.POC, error) {
	if !poc.Status.IsAlive() {
		return nil, p.frozenError(poc)
	}
	if score < 0 || score > 100 {
		return nil, NewTrialErrorWithID(ErrValidation, apiErrors.ErrInvalidRequest, poc.ID,
			fmt.Sprintf("engagement_score fora de [0,100]: %d", score))
	}

	next := poc.Clone()
	next.EngagementScore = score
	return next, nil
}

func (p Policy) aliveStatus(days int) domain.POCStatus {
	if days <= p.ExpiringThresholdDays {
		return domain.POCStatusExpiring
	}
	return domain.POCStatusActive
}

func (p Policy) transitionError(poc *domain.POC, transition string) error {
	return NewTrialErrorWithID(ErrInvalidTransition, apiErrors.ErrInvalidTransition, poc.ID,
		fmt.Sprintf("%s não permitido com status %s e %d dias restantes", transition, poc.Status, poc.DaysRemaining))
}

func (p Policy) frozenError(poc *domain.POC) error {
	return NewTrialErrorWithID(ErrFrozenEntity, apiErrors.ErrFrozenEntity, poc.ID,
		fmt.Sprintf("POC com status %s não aceita alterações", poc.Status))
}
