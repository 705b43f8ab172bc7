package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Gitcoin     GitcoinConfig   `mapstructure:"gitcoin"`
	Solana      SolanaConfig    `mapstructure:"solana"`
	Ledger      LedgerConfig    `mapstructure:"ledger"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GitcoinConfig configures the Gitcoin Passport scorer API. An empty APIKey
// or ScorerID disables the datasource entirely; that is a constructor-time
// fact, not a per-request error.
type GitcoinConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key" json:"-" yaml:"-"`
	ScorerID string `mapstructure:"scorer_id"`
	Timeout  int    `mapstructure:"timeout"`
}

// Enabled reports whether the Gitcoin datasource has credentials configured.
func (c GitcoinConfig) Enabled() bool {
	return c.APIKey != "" && c.ScorerID != ""
}

// SolanaConfig configures the chain RPC used by the activity datasource.
type SolanaConfig struct {
	RPCURL             string `mapstructure:"rpc_url"`
	Timeout            int    `mapstructure:"timeout"`
	SignatureLookback  int    `mapstructure:"signature_lookback"`
	TokenProgramID     string `mapstructure:"token_program_id"`
	ExplorerClusterTag string `mapstructure:"explorer_cluster_tag"`
}

// LedgerConfig configures the program gateway that signs and submits
// reputation-program transactions with the authority key.
type LedgerConfig struct {
	ServiceURL string `mapstructure:"service_url"`
	Authority  string `mapstructure:"authority"`
	Timeout    int    `mapstructure:"timeout"`
}

type CacheConfig struct {
	ScoreTTL string `mapstructure:"score_ttl"`
}

// ScoreTTLDuration parses the configured score cache TTL, defaulting to 10s.
func (c CacheConfig) ScoreTTLDuration() time.Duration {
	if c.ScoreTTL == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(c.ScoreTTL)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Credentials come from the environment in every deployment
	if err := viper.BindEnv("gitcoin.api_key", "GITCOIN_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GITCOIN_API_KEY environment variable: %w", err)
	}
	if err := viper.BindEnv("gitcoin.scorer_id", "GITCOIN_SCORER_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind GITCOIN_SCORER_ID environment variable: %w", err)
	}
	if err := viper.BindEnv("ledger.authority", "LEDGER_AUTHORITY"); err != nil {
		return nil, fmt.Errorf("failed to bind LEDGER_AUTHORITY environment variable: %w", err)
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.Cache.ScoreTTL != "" {
		if _, err := time.ParseDuration(config.Cache.ScoreTTL); err != nil {
			return nil, fmt.Errorf("invalid score cache TTL: %w", err)
		}
	}

	// The gateway refuses unsigned updates, so a missing authority only
	// works in development against a local validator.
	if config.Environment != "development" && config.Ledger.Authority == "" {
		return nil, fmt.Errorf("LEDGER_AUTHORITY is required in non-development environments")
	}

	return &config, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "reputesol")
	viper.SetDefault("database.sslmode", "disable")

	// Redis
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Gitcoin Passport scorer
	viper.SetDefault("gitcoin.base_url", "https://api.scorer.gitcoin.co")
	viper.SetDefault("gitcoin.api_key", "")
	viper.SetDefault("gitcoin.scorer_id", "")
	viper.SetDefault("gitcoin.timeout", 15)

	// Solana RPC
	viper.SetDefault("solana.rpc_url", "https://api.devnet.solana.com")
	viper.SetDefault("solana.timeout", 15)
	viper.SetDefault("solana.signature_lookback", 1000)
	viper.SetDefault("solana.token_program_id", "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	viper.SetDefault("solana.explorer_cluster_tag", "devnet")

	// Program gateway
	viper.SetDefault("ledger.service_url", "http://localhost:3001")
	viper.SetDefault("ledger.authority", "")
	viper.SetDefault("ledger.timeout", 30)

	// Cache
	viper.SetDefault("cache.score_ttl", "10s")

	// Telemetry
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.otlp_endpoint", "http://localhost:4318")
	viper.SetDefault("telemetry.service_name", "reputesol-go")
	viper.SetDefault("telemetry.service_version", "1.0.0")
}
