package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	Auth          Auth          `mapstructure:",squash"`
	Health        Health        `mapstructure:",squash"`
	Trial         Trial         `mapstructure:",squash"`
	TrialSweep    TrialSweep    `mapstructure:",squash"`
	HealthRescore HealthRescore `mapstructure:",squash"`
	Events        Events        `mapstructure:",squash"`
	Metrics       Metrics       `mapstructure:",squash"`
}

type App struct {
	LogLevel       string   `mapstructure:"log_level"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN         string `mapstructure:"-"`
	StoreDriver string `mapstructure:"store_driver"`
	Driver      string `mapstructure:"database_driver"`
	Password    string `mapstructure:"database_password"`
	URL         string `mapstructure:"database_url"`
	User        string `mapstructure:"database_user"`
}

type Auth struct {
	Secret    string        `mapstructure:"auth_secret"`
	TokenTTL  time.Duration `mapstructure:"auth_token_ttl"`
	Operators []string      `mapstructure:"auth_operators"`
}

type Health struct {
	HealthyThreshold int      `mapstructure:"health_healthy_threshold"`
	AtRiskThreshold  int      `mapstructure:"health_at_risk_threshold"`
	FactorWeights    []string `mapstructure:"health_factor_weights"`
	FactorActions    []string `mapstructure:"health_factor_actions"`
	DefaultAction    string   `mapstructure:"health_default_action"`
}

type Trial struct {
	InitialDays           int      `mapstructure:"trial_initial_days"`
	ExtensionDays         int      `mapstructure:"trial_extension_days"`
	MaxDays               int      `mapstructure:"trial_max_days"`
	ExpiringThresholdDays int      `mapstructure:"trial_expiring_threshold_days"`
	IDMaxAttempts         int      `mapstructure:"trial_id_max_attempts"`
	SalesEngineers        []string `mapstructure:"trial_sales_engineers"`
}

type TrialSweep struct {
	CronSchedule      string `mapstructure:"trial_sweep_cron"`
	MaxConcurrentJobs int    `mapstructure:"trial_sweep_max_concurrent_jobs"`
	CleanupEnabled    bool   `mapstructure:"trial_sweep_cleanup_enabled"`
	Enabled           bool   `mapstructure:"trial_sweep_enabled"`
}

type HealthRescore struct {
	CronSchedule string `mapstructure:"health_rescore_cron"`
	Enabled      bool   `mapstructure:"health_rescore_enabled"`
}

type Events struct {
	Enabled      bool          `mapstructure:"events_enabled"`
	Brokers      []string      `mapstructure:"events_brokers"`
	TrialTopic   string        `mapstructure:"events_trial_topic"`
	HealthTopic  string        `mapstructure:"events_health_topic"`
	WriteTimeout time.Duration `mapstructure:"events_write_timeout"`
}

type Metrics struct {
	Enabled bool `mapstructure:"metrics_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("STORE_DRIVER", StoreDriverMemory)
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/aegis?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("AUTH_TOKEN_TTL", "12h")
	viper.SetDefault("AUTH_OPERATORS", "")

	// Limites e pesos observados nos dados de referência do painel
	viper.SetDefault("HEALTH_HEALTHY_THRESHOLD", 70)
	viper.SetDefault("HEALTH_AT_RISK_THRESHOLD", 30)
	viper.SetDefault("HEALTH_FACTOR_WEIGHTS", "api_call_frequency:0.30,fl_round_activity:0.25,login_recency:0.20,feature_breadth:0.15,support_tickets:0.10")
	viper.SetDefault("HEALTH_FACTOR_ACTIONS", "login_recency:schedule_onboarding_call,api_call_frequency:send_reengagement_email,fl_round_activity:send_fl_tutorial,feature_breadth:send_feature_digest,support_tickets:schedule_executive_review")
	viper.SetDefault("HEALTH_DEFAULT_ACTION", "schedule_executive_review")

	viper.SetDefault("TRIAL_INITIAL_DAYS", 30)
	viper.SetDefault("TRIAL_EXTENSION_DAYS", 14)
	viper.SetDefault("TRIAL_MAX_DAYS", 60)
	viper.SetDefault("TRIAL_EXPIRING_THRESHOLD_DAYS", 7)
	viper.SetDefault("TRIAL_ID_MAX_ATTEMPTS", 5)
	viper.SetDefault("TRIAL_SALES_ENGINEERS", "")

	viper.SetDefault("TRIAL_SWEEP_CRON", "0 2 * * *")      // Todos os dias às 2h da manhã
	viper.SetDefault("TRIAL_SWEEP_MAX_CONCURRENT_JOBS", 4) // 4 POCs processados em paralelo
	viper.SetDefault("TRIAL_SWEEP_CLEANUP_ENABLED", true)  // Remove expirados ao final da varredura
	viper.SetDefault("TRIAL_SWEEP_ENABLED", false)         // Habilitar varredura de POCs
	viper.SetDefault("HEALTH_RESCORE_CRON", "30 2 * * *")  // Todos os dias às 2h30
	viper.SetDefault("HEALTH_RESCORE_ENABLED", false)      // Habilitar recálculo de saúde

	viper.SetDefault("EVENTS_ENABLED", false)
	viper.SetDefault("EVENTS_BROKERS", "localhost:9092")
	viper.SetDefault("EVENTS_TRIAL_TOPIC", "poc-lifecycle")
	viper.SetDefault("EVENTS_HEALTH_TOPIC", "org-health")
	viper.SetDefault("EVENTS_WRITE_TIMEOUT", "5s")

	viper.SetDefault("METRICS_ENABLED", true)
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.App.AllowedOrigins = compact(config.App.AllowedOrigins)
	config.Auth.Operators = compact(config.Auth.Operators)
	config.Trial.SalesEngineers = compact(config.Trial.SalesEngineers)
	config.Events.Brokers = compact(config.Events.Brokers)

	if config.Database.StoreDriver != StoreDriverMemory && config.Database.StoreDriver != StoreDriverPostgres {
		return nil, fmt.Errorf("STORE_DRIVER inválido: %q", config.Database.StoreDriver)
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Weights interpreta a lista "fator:peso" de HEALTH_FACTOR_WEIGHTS
func (h Health) Weights() (map[string]float64, error) {
	pairs, err := parsePairs(h.FactorWeights)
	if err != nil {
		return nil, fmt.Errorf("HEALTH_FACTOR_WEIGHTS: %w", err)
	}

	weights := make(map[string]float64, len(pairs))
	for name, raw := range pairs {
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("HEALTH_FACTOR_WEIGHTS: peso inválido para %s: %w", name, err)
		}
		weights[name] = weight
	}

	return weights, nil
}

// Actions interpreta a lista "fator:ação" de HEALTH_FACTOR_ACTIONS
func (h Health) Actions() (map[string]string, error) {
	pairs, err := parsePairs(h.FactorActions)
	if err != nil {
		return nil, fmt.Errorf("HEALTH_FACTOR_ACTIONS: %w", err)
	}
	return pairs, nil
}

func parsePairs(entries []string) (map[string]string, error) {
	pairs := make(map[string]string, len(entries))
	for _, entry := range compact(entries) {
		name, value, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("entrada inválida %q, esperado nome:valor", entry)
		}
		if _, exists := pairs[name]; exists {
			return nil, fmt.Errorf("entrada duplicada %q", name)
		}
		pairs[name] = value
	}
	return pairs, nil
}

// compact remove espaços e entradas vazias vindas de listas separadas por vírgula
func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
