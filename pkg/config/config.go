package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix scopes every environment variable consumed by the platform.
	EnvPrefix = "THREADMARKET"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"THREADMARKET_APP_ENV" required:"true"`
	Port         string `envconfig:"THREADMARKET_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"THREADMARKET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"THREADMARKET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"THREADMARKET_DB_DSN"`
	Driver string `envconfig:"THREADMARKET_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"THREADMARKET_DB_HOST"`
	Port     int    `envconfig:"THREADMARKET_DB_PORT" default:"5432"`
	User     string `envconfig:"THREADMARKET_DB_USER"`
	Password string `envconfig:"THREADMARKET_DB_PASSWORD"`
	Name     string `envconfig:"THREADMARKET_DB_NAME"`
	SSLMode  string `envconfig:"THREADMARKET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"THREADMARKET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"THREADMARKET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"THREADMARKET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"THREADMARKET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"THREADMARKET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"THREADMARKET_REDIS_ADDR"`
	Password     string        `envconfig:"THREADMARKET_REDIS_PASSWORD"`
	DB           int           `envconfig:"THREADMARKET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"THREADMARKET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"THREADMARKET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"THREADMARKET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"THREADMARKET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"THREADMARKET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"THREADMARKET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"THREADMARKET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"THREADMARKET_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token TTL configured in minutes.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"THREADMARKET_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"THREADMARKET_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"THREADMARKET_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"THREADMARKET_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"THREADMARKET_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"THREADMARKET_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"THREADMARKET_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"THREADMARKET_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"THREADMARKET_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"THREADMARKET_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"THREADMARKET_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"THREADMARKET_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"THREADMARKET_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		"THREADMARKET_DB_HOST": db.Host,
		"THREADMARKET_DB_USER": db.User,
		"THREADMARKET_DB_NAME": db.Name,
	}
	for _, key := range []string{"THREADMARKET_DB_HOST", "THREADMARKET_DB_USER", "THREADMARKET_DB_NAME"} {
		if required[key] == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either THREADMARKET_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
