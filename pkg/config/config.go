package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/autoshop-backend/pkg/enums"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	RateLimit    RateLimitConfig
	Inventory    InventoryConfig
	Reconcile    ReconcileConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := enums.ParseRestorePolicy(cfg.Inventory.RestorePolicy); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvRestorePolicy, err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"AUTOSHOP_APP_ENV" required:"true"`
	Port         string   `envconfig:"AUTOSHOP_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"AUTOSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"AUTOSHOP_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"AUTOSHOP_CORS_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev) || strings.EqualFold(a.Env, "development")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type ServiceConfig struct {
	Kind string `envconfig:"AUTOSHOP_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"AUTOSHOP_DB_DSN"`
	Driver string `envconfig:"AUTOSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AUTOSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"AUTOSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AUTOSHOP_DB_USER"`
	LegacyPassword string `envconfig:"AUTOSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"AUTOSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"AUTOSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AUTOSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUTOSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUTOSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUTOSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the service should run against a local sqlite file.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"AUTOSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AUTOSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"AUTOSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUTOSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUTOSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AUTOSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AUTOSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUTOSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUTOSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate    bool `envconfig:"AUTOSHOP_AUTO_MIGRATE" default:"false"`
	RequireIdemKey bool `envconfig:"AUTOSHOP_REQUIRE_IDEMPOTENCY_KEY" default:"false"`
}

// RateLimitConfig throttles the public tracking lookup per client IP.
type RateLimitConfig struct {
	TrackWindow  time.Duration `envconfig:"AUTOSHOP_RATE_LIMIT_TRACK_WINDOW" default:"1m"`
	TrackIPLimit int           `envconfig:"AUTOSHOP_RATE_LIMIT_TRACK_IP_LIMIT" default:"30"`
}

// InventoryConfig tunes the stock ledger.
type InventoryConfig struct {
	RestorePolicy   string `envconfig:"AUTOSHOP_INVENTORY_RESTORE_POLICY" default:"reactivate_only"`
	TrackCodeLength int    `envconfig:"AUTOSHOP_INVENTORY_TRACK_CODE_LENGTH" default:"8"`
}

// Policy returns the parsed restore policy, falling back to reactivate_only.
func (i InventoryConfig) Policy() enums.RestorePolicy {
	policy, err := enums.ParseRestorePolicy(i.RestorePolicy)
	if err != nil {
		return enums.RestorePolicyReactivateOnly
	}
	return policy
}

type ReconcileConfig struct {
	Interval time.Duration `envconfig:"AUTOSHOP_RECONCILE_INTERVAL" default:"1h"`
	Repair   bool          `envconfig:"AUTOSHOP_RECONCILE_REPAIR" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"AUTOSHOP_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"AUTOSHOP_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"AUTOSHOP_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	InventoryTopic string `envconfig:"AUTOSHOP_PUBSUB_INVENTORY_TOPIC" default:"autoshop-inventory-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"AUTOSHOP_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"AUTOSHOP_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"AUTOSHOP_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = DefaultSQLiteDSN
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
