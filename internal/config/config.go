package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
	Analysis *analysisConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"analyzer"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	Address  string `envconfig:"MIGRATION_ANALYZER_ADDRESS" default:":3443"`
	BaseUrl  string `envconfig:"MIGRATION_ANALYZER_BASE_URL" default:"https://localhost:3443"`
	LogLevel string `envconfig:"MIGRATION_ANALYZER_LOG_LEVEL" default:"info"`
}

// analysisConfig overrides the business assumptions baked into the analysis
// and cost packages. The defaults mirror analysis.DefaultAssumptions.
type analysisConfig struct {
	NetworkOverheadPercent       float64  `envconfig:"MIGRATION_ANALYZER_NETWORK_OVERHEAD_PERCENT" default:"0.10"`
	ObservabilityOverheadPercent float64  `envconfig:"MIGRATION_ANALYZER_OBSERVABILITY_OVERHEAD_PERCENT" default:"0.05"`
	AnnualGrowthRate             float64  `envconfig:"MIGRATION_ANALYZER_ANNUAL_GROWTH_RATE" default:"0.10"`
	PoweredOffAgeCutoffYears     int      `envconfig:"MIGRATION_ANALYZER_POWERED_OFF_AGE_CUTOFF_YEARS" default:"2"`
	KnownLegacyVMNames           []string `envconfig:"MIGRATION_ANALYZER_KNOWN_LEGACY_VM_NAMES" default:""`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}

// NewDefault returns a config populated from the environment, panicking on
// malformed values. Used by tests.
func NewDefault() *Config {
	cfg := new(Config)
	envconfig.MustProcess("", cfg)
	return cfg
}
