package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	HTTP         HTTPConfig
	Uploads      UploadsConfig
	Metrics      MetricsConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvTimezone, err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"CAFEPOS_APP_ENV" required:"true"`
	Port            string        `envconfig:"CAFEPOS_APP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"CAFEPOS_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"CAFEPOS_LOG_WARN_STACK" default:"false"`
	Timezone        string        `envconfig:"CAFEPOS_TIMEZONE" default:"UTC"`
	ShutdownTimeout time.Duration `envconfig:"CAFEPOS_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the cafe timezone used for day and month boundaries.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

type DBConfig struct {
	DSN    string `envconfig:"CAFEPOS_DB_DSN"`
	Driver string `envconfig:"CAFEPOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CAFEPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"CAFEPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAFEPOS_DB_USER"`
	LegacyPassword string `envconfig:"CAFEPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAFEPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAFEPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAFEPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAFEPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAFEPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAFEPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

// RedisConfig is optional; an empty URL and address disables idempotency replay.
type RedisConfig struct {
	URL          string        `envconfig:"CAFEPOS_REDIS_URL"`
	Address      string        `envconfig:"CAFEPOS_REDIS_ADDR"`
	Password     string        `envconfig:"CAFEPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAFEPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAFEPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAFEPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAFEPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAFEPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAFEPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type HTTPConfig struct {
	ReadTimeout  time.Duration `envconfig:"CAFEPOS_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"CAFEPOS_HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `envconfig:"CAFEPOS_HTTP_IDLE_TIMEOUT" default:"60s"`
	CORSOrigins  []string      `envconfig:"CAFEPOS_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

type UploadsConfig struct {
	Dir          string `envconfig:"CAFEPOS_UPLOADS_DIR" default:"./uploads"`
	MaxUploadMB  int    `envconfig:"CAFEPOS_MAX_UPLOAD_MB" default:"5"`
	PublicPrefix string `envconfig:"CAFEPOS_UPLOADS_PUBLIC_PREFIX" default:"/uploads"`
}

// MaxBytes is the upload size limit in bytes.
func (u UploadsConfig) MaxBytes() int64 {
	if u.MaxUploadMB <= 0 {
		return 0
	}
	return int64(u.MaxUploadMB) << 20
}

type MetricsConfig struct {
	Enabled bool `envconfig:"CAFEPOS_METRICS_ENABLED" default:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CAFEPOS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverSQLite)
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
