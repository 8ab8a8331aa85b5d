package domain

import (
	"time"
)

// Nomes canônicos dos fatores de engajamento
const (
	FactorAPICallFrequency = "api_call_frequency"
	FactorFLRoundActivity  = "fl_round_activity"
	FactorLoginRecency     = "login_recency"
	FactorFeatureBreadth   = "feature_breadth"
	FactorSupportTickets   = "support_tickets"
)

type RiskTier string

const (
	RiskTierHealthy  RiskTier = "healthy"
	RiskTierAtRisk   RiskTier = "at_risk"
	RiskTierChurning RiskTier = "churning"
)

func (t RiskTier) IsValid() bool {
	switch t {
	case RiskTierHealthy, RiskTierAtRisk, RiskTierChurning:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

type ActionKind string

const (
	ActionScheduleOnboardingCall  ActionKind = "schedule_onboarding_call"
	ActionSendReengagementEmail   ActionKind = "send_reengagement_email"
	ActionSendFLTutorial          ActionKind = "send_fl_tutorial"
	ActionSendFeatureDigest       ActionKind = "send_feature_digest"
	ActionScheduleExecutiveReview ActionKind = "schedule_executive_review"
	ActionEscalateToCSM           ActionKind = "escalate_to_csm"
	ActionOfferTierUpgrade        ActionKind = "offer_tier_upgrade"
)

// ActionTitles contém o rótulo exibido no painel para cada ação conhecida
var ActionTitles = map[ActionKind]string{
	ActionScheduleOnboardingCall:  "Schedule onboarding call",
	ActionSendReengagementEmail:   "Send re-engagement email",
	ActionSendFLTutorial:          "Send federated learning tutorial",
	ActionSendFeatureDigest:       "Send feature digest",
	ActionScheduleExecutiveReview: "Schedule executive business review",
	ActionEscalateToCSM:           "Escalate to Customer Success Manager",
	ActionOfferTierUpgrade:        "Offer tier upgrade",
}

// Factor é um sinal normalizado (0-100) com seu peso na composição do score
type Factor struct {
	Name     string  `json:"name"`
	RawScore int     `json:"raw_score"`
	Weight   float64 `json:"weight"`
}

// Weighted é sempre derivado de RawScore e Weight, nunca persistido como fonte
func (f Factor) Weighted() float64 {
	return float64(f.RawScore) * f.Weight
}

// FactorBreakdown é a lista ordenada de fatores de um cálculo de saúde
type FactorBreakdown []Factor

// Scores devolve os raw scores indexados pelo nome do fator
func (b FactorBreakdown) Scores() map[string]int {
	scores := make(map[string]int, len(b))
	for _, f := range b {
		scores[f.Name] = f.RawScore
	}
	return scores
}

// FactorView é a forma de saída de um fator, incluindo o valor ponderado
type FactorView struct {
	Name     string  `json:"name"`
	RawScore int     `json:"raw_score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

func (b FactorBreakdown) View() []FactorView {
	views := make([]FactorView, 0, len(b))
	for _, f := range b {
		views = append(views, FactorView{
			Name:     f.Name,
			RawScore: f.RawScore,
			Weight:   f.Weight,
			Weighted: f.Weighted(),
		})
	}
	return views
}

// Recommendation é imutável depois de anexada a um HealthRecord
type Recommendation struct {
	Action   ActionKind `json:"action"`
	Title    string     `json:"title"`
	Priority Priority   `json:"priority"`
}

type HealthRecord struct {
	OrgID             string          `json:"org_id"`
	Score             int             `json:"score"`
	RiskTier          RiskTier        `json:"risk_tier"`
	Breakdown         FactorBreakdown `json:"breakdown"`
	TopRecommendation *Recommendation `json:"top_recommendation"`
}

type OrgPlan string

const (
	OrgPlanStarter      OrgPlan = "starter"
	OrgPlanProfessional OrgPlan = "professional"
	OrgPlanEnterprise   OrgPlan = "enterprise"
)

// Rank ordena os planos do menor para o maior
func (p OrgPlan) Rank() int {
	switch p {
	case OrgPlanStarter:
		return 0
	case OrgPlanProfessional:
		return 1
	case OrgPlanEnterprise:
		return 2
	}
	return 0
}

func (p OrgPlan) IsValid() bool {
	switch p {
	case OrgPlanStarter, OrgPlanProfessional, OrgPlanEnterprise:
		return true
	}
	return false
}

// OrgSnapshot é o insumo enviado pela ingestão a cada atualização dos sinais
type OrgSnapshot struct {
	OrgID        string         `json:"org_id"`
	OrgName      string         `json:"org_name"`
	Plan         OrgPlan        `json:"plan"`
	DAU          int            `json:"dau"`
	MAU          int            `json:"mau"`
	LastActiveAt *time.Time     `json:"last_active_at"`
	Scores       map[string]int `json:"scores"`
}

// OrgHealth é o registro persistido de saúde de uma organização
type OrgHealth struct {
	HealthRecord
	OrgName      string     `json:"org_name"`
	Plan         OrgPlan    `json:"plan"`
	DAU          int        `json:"dau"`
	MAU          int        `json:"mau"`
	LastActiveAt *time.Time `json:"last_active_at"`
	ComputedAt   time.Time  `json:"computed_at"`
}

type OrgHealthResponse struct {
	OrgID             string          `json:"org_id"`
	OrgName           string          `json:"org_name"`
	Plan              OrgPlan         `json:"plan"`
	Score             int             `json:"score"`
	RiskTier          RiskTier        `json:"risk_tier"`
	DAU               int             `json:"dau"`
	MAU               int             `json:"mau"`
	LastActiveAt      *time.Time      `json:"last_active_at"`
	TopRecommendation *Recommendation `json:"top_recommendation"`
	Breakdown         []FactorView    `json:"breakdown"`
	ComputedAt        time.Time       `json:"computed_at"`
}

func (h *OrgHealth) Response() *OrgHealthResponse {
	return &OrgHealthResponse{
		OrgID:             h.OrgID,
		OrgName:           h.OrgName,
		Plan:              h.Plan,
		Score:             h.Score,
		RiskTier:          h.RiskTier,
		DAU:               h.DAU,
		MAU:               h.MAU,
		LastActiveAt:      h.LastActiveAt,
		TopRecommendation: h.TopRecommendation,
		Breakdown:         h.Breakdown.View(),
		ComputedAt:        h.ComputedAt,
	}
}

type HealthSortField string

const (
	HealthSortScore      HealthSortField = "score"
	HealthSortOrgName    HealthSortField = "org_name"
	HealthSortPlan       HealthSortField = "plan"
	HealthSortLastActive HealthSortField = "last_active"
)

type HealthFilters struct {
	RiskTier *RiskTier
	Search   string
	SortBy   HealthSortField
	Asc      bool
}

type HealthSummary struct {
	Total      int `json:"total"`
	Healthy    int `json:"healthy"`
	AtRisk     int `json:"at_risk"`
	Churning   int `json:"churning"`
	HealthyPct int `json:"healthy_pct"`
}
