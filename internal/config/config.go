package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config holds all application settings.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Supabase  SupabaseConfig
	Naver     NaverConfig
	Email     EmailConfig
	Reconcile ReconcileConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds unified Redis connection settings.
// Supported modes: single, sentinel, cluster.
type RedisConfig struct {
	// Mode: "single", "sentinel" or "cluster". Defaults to "single".
	Mode string `mapstructure:"mode"`

	// Addrs lists host:port addresses; used by every mode. For "single",
	// the first entry wins when non-empty.
	Addrs []string `mapstructure:"addrs"`

	// Addr is the single-mode address, kept for backward compatibility
	// with older deployment configs.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName is required in sentinel mode.
	MasterName string `mapstructure:"master_name"`
}

// SupabaseConfig holds the session backend credentials. The service-role key
// and the anon key back two separately constructed clients: privileged user
// administration vs. regular auth calls.
type SupabaseConfig struct {
	// AuthURL is the GoTrue base, e.g. https://<project>.supabase.co/auth/v1.
	AuthURL string `mapstructure:"auth_url"`

	ServiceRoleKey string `mapstructure:"service_role_key"`
	AnonKey        string `mapstructure:"anon_key"`

	// JWTSecret verifies backend-issued HS256 access tokens locally.
	JWTSecret string `mapstructure:"jwt_secret"`
}

// NaverConfig holds Naver OAuth settings.
type NaverConfig struct {
	// ProfileURL overrides the Naver profile endpoint; used by tests and
	// left empty in production for the default.
	ProfileURL string `mapstructure:"profile_url"`
}

// EmailConfig holds transactional email settings.
type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// ReconcileConfig tunes the orphaned-credential reconciliation job.
type ReconcileConfig struct {
	// GracePeriodMinutes: auth records younger than this are never treated
	// as orphans, an in-flight login may not have written its profile yet.
	GracePeriodMinutes int `mapstructure:"grace_period_minutes"`
	PageSize           int `mapstructure:"page_size"`
}

// PostgresConnectionString builds the PostgreSQL DSN.
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from the given file and the environment.
// Environment variables are bound explicitly and win over file values.
func Load(configPath string) (*Config, error) {
	vip := viper.New()

	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 15)
	vip.SetDefault("reconcile.grace_period_minutes", 60)
	vip.SetDefault("reconcile.page_size", 100)

	vip.BindEnv("server.port", "SERVER_PORT")

	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("supabase.auth_url", "SUPABASE_AUTH_URL")
	vip.BindEnv("supabase.service_role_key", "SUPABASE_SERVICE_ROLE_KEY")
	vip.BindEnv("supabase.anon_key", "SUPABASE_ANON_KEY")
	vip.BindEnv("supabase.jwt_secret", "SUPABASE_JWT_SECRET")

	vip.BindEnv("naver.profile_url", "NAVER_PROFILE_URL")

	vip.BindEnv("email.enabled", "EMAIL_ENABLED")
	vip.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")

	vip.BindEnv("reconcile.grace_period_minutes", "RECONCILE_GRACE_PERIOD_MINUTES")
	vip.BindEnv("reconcile.page_size", "RECONCILE_PAGE_SIZE")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Config file '%s' not found, relying on environment variables and defaults.", configPath)
			} else {
				log.Printf("Warning: failed to read config file '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Loaded configuration ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s (mode: %s)", cfg.Redis.Addr, cfg.Redis.Mode)
		log.Printf("Supabase Auth URL: %s", cfg.Supabase.AuthURL)
		log.Printf("Supabase Service Role Key Set: %t", cfg.Supabase.ServiceRoleKey != "")
		log.Printf("Supabase Anon Key Set: %t", cfg.Supabase.AnonKey != "")
		log.Printf("Supabase JWT Secret Set: %t", cfg.Supabase.JWTSecret != "")
		log.Printf("Email Enabled: %t", cfg.Email.Enabled)
		log.Printf("----------------------------")
	}

	if cfg.Supabase.AuthURL == "" {
		return nil, fmt.Errorf("supabase auth url is required (check SUPABASE_AUTH_URL env var)")
	}
	if cfg.Supabase.ServiceRoleKey == "" || cfg.Supabase.AnonKey == "" {
		return nil, fmt.Errorf("supabase service role key and anon key are required (check SUPABASE_SERVICE_ROLE_KEY, SUPABASE_ANON_KEY env vars)")
	}
	if cfg.Supabase.JWTSecret == "" {
		return nil, fmt.Errorf("supabase jwt secret is required (check SUPABASE_JWT_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Email.Enabled && (cfg.Email.ResendAPIKey == "" || cfg.Email.From == "") {
		return nil, fmt.Errorf("email is enabled but resend api key or from address is missing (check RESEND_API_KEY, EMAIL_FROM env vars)")
	}

	return &cfg, nil
}
