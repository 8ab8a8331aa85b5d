package trial

import (
	"fmt"

	"github.com/vfg2006/aegis-admin-api/internal/config"
	"github.com/vfg2006/aegis-admin-api/pkg/apiErrors"
)

// Policy concentra as constantes do ciclo de vida de um trial
type Policy struct {
	InitialDays           int
	ExtensionDays         int
	MaxDays               int
	ExpiringThresholdDays int
	IDMaxAttempts         int
	// SalesEngineers restringe os donos aceitos; vazio aceita qualquer dono
	SalesEngineers map[string]struct{}
}

func DefaultPolicy() Policy {
	return Policy{
		InitialDays:           30,
		ExtensionDays:         14,
		MaxDays:               60,
		ExpiringThresholdDays: 7,
		IDMaxAttempts:         5,
	}
}

func NewPolicy(cfg config.Trial) (Policy, error) {
	policy := Policy{
		InitialDays:           cfg.InitialDays,
		ExtensionDays:         cfg.ExtensionDays,
		MaxDays:               cfg.MaxDays,
		ExpiringThresholdDays: cfg.ExpiringThresholdDays,
		IDMaxAttempts:         cfg.IDMaxAttempts,
	}

	if len(cfg.SalesEngineers) > 0 {
		policy.SalesEngineers = make(map[string]struct{}, len(cfg.SalesEngineers))
		for _, owner := range cfg.SalesEngineers {
			policy.SalesEngineers[owner] = struct{}{}
		}
	}

	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}

	return policy, nil
}

func (p Policy) Validate() error {
	switch {
	case p.InitialDays <= 0:
		return p.invalid("TRIAL_INITIAL_DAYS deve ser positivo: %d", p.InitialDays)
	case p.ExtensionDays <= 0:
		return p.invalid("TRIAL_EXTENSION_DAYS deve ser positivo: %d", p.ExtensionDays)
	case p.MaxDays < p.InitialDays:
		return p.invalid("TRIAL_MAX_DAYS (%d) menor que TRIAL_INITIAL_DAYS (%d)", p.MaxDays, p.InitialDays)
	case p.ExpiringThresholdDays < 0 || p.ExpiringThresholdDays >= p.InitialDays:
		return p.invalid("TRIAL_EXPIRING_THRESHOLD_DAYS fora de [0,%d): %d", p.InitialDays, p.ExpiringThresholdDays)
	case p.IDMaxAttempts < 1:
		return p.invalid("TRIAL_ID_MAX_ATTEMPTS deve ser ao menos 1: %d", p.IDMaxAttempts)
	}
	return nil
}

func (p Policy) invalid(format string, args ...any) error {
	return NewTrialError(ErrValidation, apiErrors.ErrInvalidRequest, fmt.Sprintf(format, args...))
}
