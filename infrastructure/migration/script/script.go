package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/vfg2006/aegis-admin-api/infrastructure/database/postgres"
	"github.com/vfg2006/aegis-admin-api/infrastructure/events"
	"github.com/vfg2006/aegis-admin-api/infrastructure/migration"
	"github.com/vfg2006/aegis-admin-api/infrastructure/repository"
	"github.com/vfg2006/aegis-admin-api/internal/config"
	"github.com/vfg2006/aegis-admin-api/internal/domain"
	"github.com/vfg2006/aegis-admin-api/internal/usecases/scoring"
	"github.com/vfg2006/aegis-admin-api/pkg/log"
)

const day = 24 * time.Hour

type SamplePOC struct {
	ID            string
	ProspectName  string
	ProspectEmail string
	Market        domain.Market
	Status        domain.POCStatus
	DaysRemaining int
	Owner         string
	Features      []domain.Feature
	Usage         domain.UsageStats
	Engagement    int
}

type SampleOrg struct {
	OrgID        string
	OrgName      string
	Plan         domain.OrgPlan
	InactiveDays int
	DAU          int
	MAU          int
	Scores       [5]int // api_call_frequency, fl_round_activity, login_recency, feature_breadth, support_tickets
}

func insertPOCs(ctx context.Context, repo repository.POCRepository, pocs []SamplePOC, initialDays int, now time.Time) {
	log.L.Infof("Iniciando inserção de %d POCs...", len(pocs))
	startTime := time.Now()

	successCount := 0
	errorCount := 0
	skippedCount := 0

	for i, s := range pocs {
		existing, err := repo.Get(ctx, s.ID)
		if err != nil {
			log.L.WithError(err).Warnf("ERRO ao verificar POC [%d/%d] %s", i+1, len(pocs), s.ID)
			errorCount++
			continue
		}
		if existing != nil {
			skippedCount++
			continue
		}

		elapsed := initialDays - s.DaysRemaining
		createdAt := now.Add(-time.Duration(elapsed) * day)

		poc := &domain.POC{
			ID:              s.ID,
			ProspectName:    s.ProspectName,
			ProspectEmail:   s.ProspectEmail,
			Market:          s.Market,
			Status:          s.Status,
			DaysRemaining:   s.DaysRemaining,
			CreatedAt:       createdAt,
			ExpiryAt:        createdAt.Add(time.Duration(initialDays) * day),
			LastTickedAt:    now,
			Owner:           s.Owner,
			FeaturesEnabled: s.Features,
			Usage:           s.Usage,
			EngagementScore: s.Engagement,
		}

		if err := repo.Put(ctx, poc); err != nil {
			log.L.WithError(err).Warnf("ERRO ao inserir POC [%d/%d] %s", i+1, len(pocs), s.ID)
			errorCount++
			continue
		}
		successCount++
	}

	log.L.Infof("Inserção de POCs concluída em %v. Sucesso: %d, Erros: %d, Já existentes: %d",
		time.Since(startTime), successCount, errorCount, skippedCount)
}

func refreshOrgs(ctx context.Context, service scoring.HealthService, orgs []SampleOrg, now time.Time) {
	log.L.Infof("Iniciando cálculo de saúde de %d organizações...", len(orgs))
	startTime := time.Now()

	successCount := 0
	errorCount := 0

	for i, o := range orgs {
		lastActive := now.Add(-time.Duration(o.InactiveDays) * day)

		record, err := service.RefreshHealth(ctx, &domain.OrgSnapshot{
			OrgID:        o.OrgID,
			OrgName:      o.OrgName,
			Plan:         o.Plan,
			DAU:          o.DAU,
			MAU:          o.MAU,
			LastActiveAt: &lastActive,
			Scores: map[string]int{
				domain.FactorAPICallFrequency: o.Scores[0],
				domain.FactorFLRoundActivity:  o.Scores[1],
				domain.FactorLoginRecency:     o.Scores[2],
				domain.FactorFeatureBreadth:   o.Scores[3],
				domain.FactorSupportTickets:   o.Scores[4],
			},
		})
		if err != nil {
			log.L.WithError(err).Warnf("ERRO ao calcular saúde [%d/%d] %s", i+1, len(orgs), o.OrgName)
			errorCount++
			continue
		}

		log.L.WithFields(log.Fields{
			"org_id":    record.OrgID,
			"risk_tier": record.RiskTier,
		}).Infof("%s: score %d", o.OrgName, record.Score)
		successCount++
	}

	log.L.Infof("Cálculo de saúde concluído em %v. Sucesso: %d, Erros: %d", time.Since(startTime), successCount, errorCount)
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.WithError(err).Fatal("ERRO ao carregar configuração")
	}
	log.Setup(cfg.App.LogLevel)
	log.L.Info("Iniciando script de migração...")

	ctx := context.Background()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		log.L.WithError(err).Fatal("ERRO ao conectar ao banco de dados")
	}
	defer conn.Close()
	log.L.Info("Conexão com o banco de dados estabelecida com sucesso")

	if err := migration.Migrate(ctx, conn); err != nil {
		log.L.WithError(err).Fatal("ERRO ao aplicar schema")
	}
	log.L.Info("Schema aplicado com sucesso")

	healthPolicy, err := scoring.NewPolicy(cfg.Health)
	if err != nil {
		log.L.WithError(err).Fatal("ERRO na configuração de saúde")
	}

	pocList := []SamplePOC{
		{"poc-emirates-health-a3f7b2c1", "Emirates Health Authority", "cto@eha.gov.ae", domain.MarketUAE, domain.POCStatusActive, 22, "omar.hassan@aegis.ai",
			[]domain.Feature{domain.FeatureVaultEncryption, domain.FeatureFederatedLearning, domain.FeatureComplianceReporting, domain.FeatureDataResidency},
			domain.UsageStats{APICalls: 12450, FLRounds: 34, StorageUsed: 3.2}, 72},
		{"poc-mayo-clinic-b9c2e4d8", "Mayo Clinic Research", "privacy@mayo.edu", domain.MarketUS, domain.POCStatusActive, 18, "sarah.chen@aegis.ai",
			[]domain.Feature{domain.FeatureVaultEncryption, domain.FeatureFederatedLearning, domain.FeatureDifferentialPrivacy, domain.FeatureComplianceReporting, domain.FeatureAuditLogging},
			domain.UsageStats{APICalls: 28300, FLRounds: 87, StorageUsed: 8.7}, 91},
		{"poc-nhs-digital-c1d3f5a2", "NHS Digital", "partnerships@nhsdigital.nhs.uk", domain.MarketUK, domain.POCStatusExpiring, 4, "emily.wright@aegis.ai",
			[]domain.Feature{domain.FeatureVaultEncryption, domain.FeatureComplianceReporting, domain.FeatureRoleBasedAccess, domain.FeatureAuditLogging},
			domain.UsageStats{APICalls: 8100, FLRounds: 12, StorageUsed: 1.4}, 38},
		{"poc-hdfc-bank-d4e6a7b3", "HDFC Bank", "innovation@hdfc.com", domain.MarketIndia, domain.POCStatusActive, 26, "priya.sharma@aegis.ai",
			[]domain.Feature{domain.FeatureVaultEncryption, domain.FeatureFederatedLearning, domain.FeatureComplianceReporting, domain.FeatureAnonymization},
			domain.UsageStats{APICalls: 5600, FLRounds: 15, StorageUsed: 2.1}, 45},
		{"poc-adnoc-group-e5f8b9c4", "ADNOC Group", "digital@adnoc.ae", domain.MarketUAE, domain.POCStatusConverted, 0, "omar.hassan@aegis.ai",
			[]domain.Feature{domain.FeatureVaultEncryption, domain.FeatureFederatedLearning, domain.FeatureDifferentialPrivacy, domain.FeatureComplianceReporting, domain.FeatureDataResidency, domain.FeatureKeyRotation},
			domain.UsageStats{APICalls: 42100, FLRounds: 156, StorageUsed: 14.3}, 95},
		{"poc-cigna-health-f6a9c0d5", "Cigna Healthcare", "tech@cigna.com", domain.MarketUS, domain.POCStatusExpired, 0, "james.malik@aegis.ai",
			[]domain.Feature{domain.FeatureVaultEncryption, domain.FeatureComplianceReporting},
			domain.UsageStats{APICalls: 1200, FLRounds: 2, StorageUsed: 0.3}, 8},
	}
	log.L.Infof("Total de %d POCs definidos para inserção", len(pocList))

	orgList := []SampleOrg{
		{"org-001", "Acme Corp", domain.OrgPlanEnterprise, 0, 18, 34, [5]int{95, 88, 100, 80, 95}},
		{"org-002", "HealthNet AI", domain.OrgPlanProfessional, 0, 12, 20, [5]int{80, 92, 100, 60, 90}},
		{"org-003", "FinVault Dubai", domain.OrgPlanEnterprise, 1, 6, 15, [5]int{72, 85, 90, 55, 90}},
		{"org-004", "MedTech Solutions", domain.OrgPlanProfessional, 5, 2, 8, [5]int{35, 60, 65, 40, 95}},
		{"org-005", "DataSecure UK", domain.OrgPlanStarter, 8, 1, 4, [5]int{28, 42, 55, 50, 96}},
		{"org-006", "NovaPharma", domain.OrgPlanProfessional, 12, 0, 3, [5]int{20, 30, 45, 65, 88}},
		{"org-007", "CryptoLedger", domain.OrgPlanStarter, 22, 0, 1, [5]int{8, 12, 25, 30, 20}},
		{"org-008", "BioAnalytics", domain.OrgPlanStarter, 29, 0, 0, [5]int{2, 0, 5, 10, 40}},
	}
	log.L.Infof("Total de %d organizações definidas para inserção", len(orgList))

	startTime := time.Now()
	now := startTime.UTC()

	err = conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		insertPOCs(ctx, repository.NewPOCRepository(tx), pocList, cfg.Trial.InitialDays, now)

		healthService := scoring.NewService(repository.NewHealthRepository(tx), events.NoopPublisher{}, nil, scoring.NewEngine(healthPolicy))
		refreshOrgs(ctx, healthService, orgList, now)
		return nil
	})
	if err != nil {
		log.L.WithError(err).Fatal("ERRO ao confirmar transação")
	}

	log.L.Infof("Carga inicial concluída em %v!", time.Since(startTime))
}
