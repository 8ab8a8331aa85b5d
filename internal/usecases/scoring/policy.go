package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/vfg2006/aegis-admin-api/internal/config"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
)

// DefaultWeightTolerance é a folga aceita na soma dos pesos de um breakdown
const DefaultWeightTolerance = 1e-6

// Policy concentra os parâmetros ajustáveis do cálculo de saúde
type Policy struct {
	HealthyThreshold int
	AtRiskThreshold  int
	WeightTolerance  float64
	// Weights é o conjunto de pesos usado por BreakdownFromScores
	Weights map[string]float64
	// FactorActions associa o fator de menor nota à ação recomendada em at_risk
	FactorActions    map[string]domain.ActionKind
	DefaultAction    domain.ActionKind
	EscalationAction domain.ActionKind
}

// DefaultPolicy reproduz os limites e pesos observados nos dados de referência
func DefaultPolicy() Policy {
	return Policy{
		HealthyThreshold: 70,
		AtRiskThreshold:  30,
		WeightTolerance:  DefaultWeightTolerance,
		Weights: map[string]float64{
			domain.FactorAPICallFrequency: 0.30,
			domain.FactorFLRoundActivity:  0.25,
			domain.FactorLoginRecency:     0.20,
			domain.FactorFeatureBreadth:   0.15,
			domain.FactorSupportTickets:   0.10,
		},
		FactorActions: map[string]domain.ActionKind{
			domain.FactorLoginRecency:     domain.ActionScheduleOnboardingCall,
			domain.FactorAPICallFrequency: domain.ActionSendReengagementEmail,
			domain.FactorFLRoundActivity:  domain.ActionSendFLTutorial,
			domain.FactorFeatureBreadth:   domain.ActionSendFeatureDigest,
			domain.FactorSupportTickets:   domain.ActionScheduleExecutiveReview,
		},
		DefaultAction:    domain.ActionScheduleExecutiveReview,
		EscalationAction: domain.ActionEscalateToCSM,
	}
}

// NewPolicy monta a política a partir da configuração e a valida
func NewPolicy(cfg config.Health) (Policy, error) {
	policy := DefaultPolicy()
	policy.HealthyThreshold = cfg.HealthyThreshold
	policy.AtRiskThreshold = cfg.AtRiskThreshold

	weights, err := cfg.Weights()
	if err != nil {
		return Policy{}, NewBreakdownError(ErrInvalidPolicy, apiErrors.ErrInvalidFormat, err.Error())
	}
	if len(weights) > 0 {
		policy.Weights = weights
	}

	actions, err := cfg.Actions()
	if err != nil {
		return Policy{}, NewBreakdownError(ErrInvalidPolicy, apiErrors.ErrInvalidFormat, err.Error())
	}
	if len(actions) > 0 {
		policy.FactorActions = make(map[string]domain.ActionKind, len(actions))
		for factor, action := range actions {
			policy.FactorActions[factor] = domain.ActionKind(action)
		}
	}

	if cfg.DefaultAction != "" {
		policy.DefaultAction = domain.ActionKind(cfg.DefaultAction)
	}

	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}

	return policy, nil
}

// Validate garante 0 < at_risk < healthy <= 100, pesos somando 1 e ações conhecidas
func (p Policy) Validate() error {
	if p.AtRiskThreshold <= 0 || p.AtRiskThreshold >= p.HealthyThreshold || p.HealthyThreshold > 100 {
		return NewBreakdownError(ErrInvalidPolicy, apiErrors.ErrInvalidRequest,
			fmt.Sprintf("limites inválidos: healthy=%d at_risk=%d", p.HealthyThreshold, p.AtRiskThreshold))
	}

	if p.WeightTolerance <= 0 || p.WeightTolerance >= 1 {
		return NewBreakdownError(ErrInvalidPolicy, apiErrors.ErrInvalidRequest,
			fmt.Sprintf("tolerância de pesos inválida: %g", p.WeightTolerance))
	}

	if len(p.Weights) == 0 {
		return NewBreakdownError(ErrInvalidPolicy, apiErrors.ErrMissingRequiredData, "nenhum peso configurado")
	}

	sum := 0.0
	for name, weight := range p.Weights {
		if name == "" || math.IsNaN(weight) || weight <= 0 || weight > 1 {
			return NewFactorError(ErrInvalidPolicy, apiErrors.ErrInvalidRequest, name,
				fmt.Sprintf("peso fora do intervalo (0,1]: %g", weight))
		}
		sum += weight
	}
	if math.Abs(sum-1) > p.WeightTolerance {
		return NewBreakdownError(ErrInvalidPolicy, apiErrors.ErrInvalidRequest,
			fmt.Sprintf("pesos somam %.6f, esperado 1", sum))
	}

	for factor, action := range p.FactorActions {
		if _, ok := domain.ActionTitles[action]; !ok {
			return NewFactorError(ErrInvalidPolicy, apiErrors.ErrInvalidRequest, factor,
				fmt.Sprintf("ação desconhecida: %s", action))
		}
	}
	for _, action := range []domain.ActionKind{p.DefaultAction, p.EscalationAction} {
		if _, ok := domain.ActionTitles[action]; !ok {
			return NewBreakdownError(ErrInvalidPolicy, apiErrors.ErrInvalidRequest,
				fmt.Sprintf("ação desconhecida: %s", action))
		}
	}

	return nil
}

// Classify devolve a faixa de risco de um score; função pura do score
func (p Policy) Classify(score int) domain.RiskTier {
	switch {
	case score >= p.HealthyThreshold:
		return domain.RiskTierHealthy
	case score >= p.AtRiskThreshold:
		return domain.RiskTierAtRisk
	default:
		return domain.RiskTierChurning
	}
}

// ClassifyEngagement aplica os mesmos limites ao engagement_score de um POC
func (p Policy) ClassifyEngagement(score int) domain.RiskTier {
	return p.Classify(score)
}

// BreakdownFromScores monta um breakdown com os pesos da política.
// Todo fator com peso precisa estar presente; nomes desconhecidos são rejeitados.
func (p Policy) BreakdownFromScores(scores map[string]int) (domain.FactorBreakdown, error) {
	for name := range scores {
		if _, ok := p.Weights[name]; !ok {
			return nil, NewFactorError(ErrInvalidBreakdown, apiErrors.ErrInvalidBreakdown, name, "fator desconhecido")
		}
	}

	breakdown := make(domain.FactorBreakdown, 0, len(p.Weights))
	for name, weight := range p.Weights {
		raw, ok := scores[name]
		if !ok {
			return nil, NewFactorError(ErrInvalidBreakdown, apiErrors.ErrInvalidBreakdown, name, "fator ausente")
		}
		breakdown = append(breakdown, domain.Factor{Name: name, RawScore: raw, Weight: weight})
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Weight != breakdown[j].Weight {
			return breakdown[i].Weight > breakdown[j].Weight
		}
		return breakdown[i].Name < breakdown[j].Name
	})

	return breakdown, nil
}
