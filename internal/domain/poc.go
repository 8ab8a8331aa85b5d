package domain

import (
	"time"
)

type POCStatus string

const (
	POCStatusActive    POCStatus = "active"
	POCStatusExpiring  POCStatus = "expiring"
	POCStatusExpired   POCStatus = "expired"
	POCStatusConverted POCStatus = "converted"
)

// IsAlive indica se o POC ainda aceita mutações (active ou expiring)
func (s POCStatus) IsAlive() bool {
	return s == POCStatusActive || s == POCStatusExpiring
}

func (s POCStatus) IsValid() bool {
	switch s {
	case POCStatusActive, POCStatusExpiring, POCStatusExpired, POCStatusConverted:
		return true
	}
	return false
}

type Market string

const (
	MarketUAE   Market = "uae"
	MarketUS    Market = "us"
	MarketUK    Market = "uk"
	MarketIndia Market = "india"
)

// MarketLabels contém os mercados atendidos pelos POCs
var MarketLabels = map[Market]string{
	MarketUAE:   "Dubai & UAE",
	MarketUS:    "United States",
	MarketUK:    "United Kingdom",
	MarketIndia: "India",
}

func (m Market) IsValid() bool {
	_, ok := MarketLabels[m]
	return ok
}

type Feature string

const (
	FeatureVaultEncryption     Feature = "vault_encryption"
	FeatureFederatedLearning   Feature = "federated_learning"
	FeatureDifferentialPrivacy Feature = "differential_privacy"
	FeatureComplianceReporting Feature = "compliance_reporting"
	FeatureRoleBasedAccess     Feature = "role_based_access"
	FeatureAuditLogging        Feature = "audit_logging"
	FeatureDataResidency       Feature = "data_residency"
	FeatureKeyRotation         Feature = "key_rotation"
	FeatureMultiPartyCompute   Feature = "multi_party_compute"
	FeatureAnonymization       Feature = "anonymization"
)

var availableFeatures = map[Feature]struct{}{
	FeatureVaultEncryption:     {},
	FeatureFederatedLearning:   {},
	FeatureDifferentialPrivacy: {},
	FeatureComplianceReporting: {},
	FeatureRoleBasedAccess:     {},
	FeatureAuditLogging:        {},
	FeatureDataResidency:       {},
	FeatureKeyRotation:         {},
	FeatureMultiPartyCompute:   {},
	FeatureAnonymization:       {},
}

func (f Feature) IsValid() bool {
	_, ok := availableFeatures[f]
	return ok
}

type UsageStats struct {
	APICalls    int64   `json:"api_calls"`
	FLRounds    int64   `json:"fl_rounds"`
	StorageUsed float64 `json:"storage_used"`
}

type POC struct {
	ID              string     `json:"poc_id"`
	ProspectName    string     `json:"prospect_name"`
	ProspectEmail   string     `json:"prospect_email"`
	Market          Market     `json:"market"`
	Status          POCStatus  `json:"status"`
	DaysRemaining   int        `json:"days_remaining"`
	ExpiryAt        time.Time  `json:"expiry_at"`
	CreatedAt       time.Time  `json:"created_at"`
	LastTickedAt    time.Time  `json:"last_ticked_at"`
	Owner           string     `json:"owner"`
	FeaturesEnabled []Feature  `json:"features_enabled"`
	Usage           UsageStats `json:"usage"`
	EngagementScore int        `json:"engagement_score"`
	Version         int64      `json:"version"`
}

// Clone devolve uma cópia sem compartilhar o slice de features
func (p *POC) Clone() *POC {
	if p == nil {
		return nil
	}
	clone := *p
	clone.FeaturesEnabled = append([]Feature(nil), p.FeaturesEnabled...)
	return &clone
}

type CreatePOCRequest struct {
	ProspectName  string    `json:"prospect_name"`
	ProspectEmail string    `json:"prospect_email"`
	Market        Market    `json:"market"`
	Features      []Feature `json:"features"`
	Owner         string    `json:"owner"`
}

type RecordUsageRequest struct {
	APICallsDelta int64   `json:"api_calls"`
	FLRoundsDelta int64   `json:"fl_rounds"`
	StorageDelta  float64 `json:"storage_used"`
}

type TickRequest struct {
	ElapsedDays int `json:"elapsed_days"`
}

type EngagementRequest struct {
	Score int `json:"score"`
}

type POCFilters struct {
	Statuses []POCStatus
	Owner    string
	Search   string
}

type POCStats struct {
	Active    int `json:"active"`
	Expiring  int `json:"expiring"`
	Expired   int `json:"expired"`
	Converted int `json:"converted"`
	Total     int `json:"total"`
}

type CleanupResponse struct {
	CountRemoved int `json:"count_removed"`
}
