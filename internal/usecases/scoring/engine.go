package scoring

import (
	"fmt"
	"math"

	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
	"github.com/vfg2006/aegis-admin-api/pkg/utils"
)

// scoreNoise absorve apenas o ruído de ponto flutuante da soma ponderada,
// muito abaixo da precisão de qualquer peso aceito
const scoreNoise = 1e-9

// Engine calcula score, faixa de risco e recomendação. Não guarda estado mutável.
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

func (e *Engine) Policy() Policy {
	return e.policy
}

// ComputeHealth é uma função pura: a mesma entrada produz sempre o mesmo HealthRecord
func (e *Engine) ComputeHealth(breakdown domain.FactorBreakdown) (*domain.HealthRecord, error) {
	if err := e.validate(breakdown); err != nil {
		return nil, err
	}

	sum := 0.0
	for _, f := range breakdown {
		sum += f.Weighted()
	}

	score := int(math.Round(utils.RoundToPrecision(sum, scoreNoise)))
	score = max(0, min(100, score))

	tier := e.policy.Classify(score)

	return &domain.HealthRecord{
		Score:             score,
		RiskTier:          tier,
		Breakdown:         append(domain.FactorBreakdown(nil), breakdown...),
		TopRecommendation: e.recommend(tier, breakdown),
	}, nil
}

func (e *Engine) validate(breakdown domain.FactorBreakdown) error {
	if len(breakdown) == 0 {
		return NewBreakdownError(ErrInvalidBreakdown, apiErrors.ErrInvalidBreakdown, "breakdown vazio")
	}

	seen := make(map[string]struct{}, len(breakdown))
	sum := 0.0

	for _, f := range breakdown {
		if f.Name == "" {
			return NewBreakdownError(ErrInvalidBreakdown, apiErrors.ErrInvalidBreakdown, "fator sem nome")
		}
		if _, dup := seen[f.Name]; dup {
			return NewFactorError(ErrInvalidBreakdown, apiErrors.ErrInvalidBreakdown, f.Name, "fator duplicado")
		}
		seen[f.Name] = struct{}{}

		if f.RawScore < 0 || f.RawScore > 100 {
			return NewFactorError(ErrInvalidBreakdown, apiErrors.ErrInvalidBreakdown, f.Name,
				fmt.Sprintf("raw_score fora de [0,100]: %d", f.RawScore))
		}
		if math.IsNaN(f.Weight) || f.Weight <= 0 || f.Weight > 1 {
			return NewFactorError(ErrInvalidBreakdown, apiErrors.ErrInvalidBreakdown, f.Name,
				fmt.Sprintf("peso fora de (0,1]: %g", f.Weight))
		}
		sum += f.Weight
	}

	if math.Abs(sum-1) > e.policy.WeightTolerance {
		return NewBreakdownError(ErrInvalidBreakdown, apiErrors.ErrInvalidBreakdown,
			fmt.Sprintf("pesos somam %.6f, esperado 1", sum))
	}

	return nil
}

func (e *Engine) recommend(tier domain.RiskTier, breakdown domain.FactorBreakdown) *domain.Recommendation {
	switch tier {
	case domain.RiskTierChurning:
		return newRecommendation(e.policy.EscalationAction, domain.PriorityCritical)
	case domain.RiskTierAtRisk:
		weakest := weakestFactor(breakdown)
		action, ok := e.policy.FactorActions[weakest.Name]
		if !ok {
			action = e.policy.DefaultAction
		}
		return newRecommendation(action, domain.PriorityHigh)
	default:
		return nil
	}
}

// weakestFactor escolhe o menor raw_score; empate vai para o maior peso e depois o menor nome
func weakestFactor(breakdown domain.FactorBreakdown) domain.Factor {
	weakest := breakdown[0]
	for _, f := range breakdown[1:] {
		switch {
		case f.RawScore < weakest.RawScore:
			weakest = f
		case f.RawScore > weakest.RawScore:
		case f.Weight > weakest.Weight:
			weakest = f
		case f.Weight == weakest.Weight && f.Name < weakest.Name:
			weakest = f
		}
	}
	return weakest
}

func newRecommendation(action domain.ActionKind, priority domain.Priority) *domain.Recommendation {
	return &domain.Recommendation{
		Action:   action,
		Title:    domain.ActionTitles[action],
		Priority: priority,
	}
}
