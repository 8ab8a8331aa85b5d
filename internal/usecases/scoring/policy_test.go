package scoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/aegis-admin-api/internal/config"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
)

func defaultHealthConfig() config.Health {
	return config.Health{
		HealthyThreshold: 70,
		AtRiskThreshold:  30,
		FactorWeights: []string{
			"api_call_frequency:0.30", "fl_round_activity:0.25", "login_recency:0.20",
			"feature_breadth:0.15", "support_tickets:0.10",
		},
		FactorActions: []string{"login_recency:schedule_onboarding_call"},
		DefaultAction: "send_feature_digest",
	}
}

func TestNewPolicy(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(cfg *config.Health)
		wantErr  bool
		validate func(t *testing.T, p Policy)
	}{
		{
			name: "valid configuration",
			validate: func(t *testing.T, p Policy) {
				assert.Equal(t, 70, p.HealthyThreshold)
				assert.Len(t, p.Weights, 5)
				assert.Equal(t, map[string]domain.ActionKind{
					domain.FactorLoginRecency: domain.ActionScheduleOnboardingCall,
				}, p.FactorActions)
				assert.Equal(t, domain.ActionSendFeatureDigest, p.DefaultAction)
				assert.Equal(t, domain.ActionEscalateToCSM, p.EscalationAction)
			},
		},
		{
			name: "retuned thresholds",
			mutate: func(cfg *config.Health) {
				cfg.HealthyThreshold = 80
				cfg.AtRiskThreshold = 40
			},
			validate: func(t *testing.T, p Policy) {
				assert.Equal(t, domain.RiskTierAtRisk, p.Classify(79))
				assert.Equal(t, domain.RiskTierHealthy, p.Classify(80))
				assert.Equal(t, domain.RiskTierChurning, p.Classify(39))
			},
		},
		{
			name:   "empty lists keep the default weights and actions",
			mutate: func(cfg *config.Health) { cfg.FactorWeights = nil; cfg.FactorActions = nil },
			validate: func(t *testing.T, p Policy) {
				assert.Equal(t, DefaultPolicy().Weights, p.Weights)
				assert.Equal(t, DefaultPolicy().FactorActions, p.FactorActions)
			},
		},
		{name: "at risk above healthy", mutate: func(cfg *config.Health) { cfg.AtRiskThreshold = 75 }, wantErr: true},
		{name: "at risk zero", mutate: func(cfg *config.Health) { cfg.AtRiskThreshold = 0 }, wantErr: true},
		{name: "healthy above 100", mutate: func(cfg *config.Health) { cfg.HealthyThreshold = 101 }, wantErr: true},
		{name: "weights do not sum to one", mutate: func(cfg *config.Health) { cfg.FactorWeights[4] = "support_tickets:0.05" }, wantErr: true},
		{name: "malformed weight", mutate: func(cfg *config.Health) { cfg.FactorWeights[0] = "api_call_frequency:abc" }, wantErr: true},
		{name: "unknown action", mutate: func(cfg *config.Health) { cfg.FactorActions = []string{"login_recency:call_mom"} }, wantErr: true},
		{name: "unknown default action", mutate: func(cfg *config.Health) { cfg.DefaultAction = "nothing" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultHealthConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			policy, err := NewPolicy(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPolicy))
				return
			}
			require.NoError(t, err)
			tt.validate(t, policy)
		})
	}
}

func TestDefaultPolicyIsValid(t *testing.T) {
	assert.NoError(t, DefaultPolicy().Validate())
}

func TestBreakdownFromScores(t *testing.T) {
	policy := DefaultPolicy()

	t.Run("orders by weight then name", func(t *testing.T) {
		b, err := policy.BreakdownFromScores(map[string]int{
			domain.FactorSupportTickets:   85,
			domain.FactorLoginRecency:     95,
			domain.FactorAPICallFrequency: 92,
			domain.FactorFeatureBreadth:   78,
			domain.FactorFLRoundActivity:  88,
		})
		require.NoError(t, err)

		assert.Equal(t, weighted(92, 88, 95, 78, 85), b)
	})

	t.Run("missing factor", func(t *testing.T) {
		_, err := policy.BreakdownFromScores(map[string]int{domain.FactorAPICallFrequency: 50})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidBreakdown))

		var breakdownErr *BreakdownError
		require.True(t, errors.As(err, &breakdownErr))
		assert.NotEmpty(t, breakdownErr.Factor)
	})

	t.Run("unknown factor", func(t *testing.T) {
		scores := uniform(50).Scores()
		scores["nps"] = 10

		_, err := policy.BreakdownFromScores(scores)
		require.Error(t, err)

		var breakdownErr *BreakdownError
		require.True(t, errors.As(err, &breakdownErr))
		assert.Equal(t, "nps", breakdownErr.Factor)
	})
}

func TestClassifyEngagement(t *testing.T) {
	policy := DefaultPolicy()

	assert.Equal(t, domain.RiskTierHealthy, policy.ClassifyEngagement(85))
	assert.Equal(t, domain.RiskTierAtRisk, policy.ClassifyEngagement(45))
	assert.Equal(t, domain.RiskTierChurning, policy.ClassifyEngagement(12))
}
