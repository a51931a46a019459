package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the whole process configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Auth      AuthConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Scheduler SchedulerConfig
	Currency  CurrencyConfig
	Storage   StorageConfig
	PDF       PDFConfig
	Swagger   SwaggerConfig
	Telemetry TelemetryConfig
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
	Output string // stdout, stderr or a file path
}

type AppConfig struct {
	Name string
	Env  string
	Port string
}

type DatabaseConfig struct {
	Driver          string // postgres or sqlite
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	SQLitePath      string `mapstructure:"sqlite_path"` // file or ":memory:"
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// RedisConfig with an empty Host leaves Redis out and the in-memory stores
// take its place
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret                 string
	RefreshSecret          string `mapstructure:"refresh_secret"`
	Issuer                 string
	AccessTokenExpiration  time.Duration `mapstructure:"access_token_expiration"`
	RefreshTokenExpiration time.Duration `mapstructure:"refresh_token_expiration"`
}

// AuthConfig is the sign-in lockout policy
type AuthConfig struct {
	MaxLoginAttempts int           `mapstructure:"max_login_attempts"`
	LockDuration     time.Duration `mapstructure:"lock_duration"`
}

type HTTPConfig struct {
	ReadTimeout           time.Duration `mapstructure:"read_timeout"`
	WriteTimeout          time.Duration `mapstructure:"write_timeout"`
	IdleTimeout           time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes        int           `mapstructure:"max_header_bytes"`
	MaxBodySize           int64         `mapstructure:"max_body_size"`
	RateLimitEnabled      bool          `mapstructure:"rate_limit_enabled"`
	RateLimitRequests     int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow       time.Duration `mapstructure:"rate_limit_window"`
	AuthRateLimitEnabled  bool          `mapstructure:"auth_rate_limit_enabled"`
	AuthRateLimitRequests int           `mapstructure:"auth_rate_limit_requests"`
	AuthRateLimitWindow   time.Duration `mapstructure:"auth_rate_limit_window"`
	CORSAllowOrigins      []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods      []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders      []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies        []string      `mapstructure:"trusted_proxies"`
}

// SchedulerConfig drives the background jobs. Schedules are five-field cron
// expressions evaluated in UTC.
type SchedulerConfig struct {
	Enabled               bool
	Workers               int
	JobTimeout            time.Duration `mapstructure:"job_timeout"`
	RetryAttempts         int           `mapstructure:"retry_attempts"`
	RetryDelay            time.Duration `mapstructure:"retry_delay"`
	CheckInterval         time.Duration `mapstructure:"check_interval"`
	RenewalSchedule       string        `mapstructure:"renewal_schedule"`
	ReminderSchedule      string        `mapstructure:"reminder_schedule"`
	SnapshotSchedule      string        `mapstructure:"snapshot_schedule"`
	RateRefreshSchedule   string        `mapstructure:"rate_refresh_schedule"`
	ReminderLookaheadDays int           `mapstructure:"reminder_lookahead_days"`
	BatchSize             int           `mapstructure:"batch_size"`
	ActivityRetention     time.Duration `mapstructure:"activity_retention"`
}

type CurrencyConfig struct {
	BaseCurrency string        `mapstructure:"base_currency"`
	RateFeedURL  string        `mapstructure:"rate_feed_url"` // empty disables the refresh job
	FeedTimeout  time.Duration `mapstructure:"feed_timeout"`
	RateCacheTTL time.Duration `mapstructure:"rate_cache_ttl"`
}

// StorageConfig points at an S3-compatible bucket for exports. An empty
// Bucket keeps exports inline.
type StorageConfig struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKey         string        `mapstructure:"access_key"`
	SecretKey         string        `mapstructure:"secret_key"`
	UseSSL            bool          `mapstructure:"use_ssl"`
	UsePathStyle      bool          `mapstructure:"use_path_style"`
	PresignExpiration time.Duration `mapstructure:"presign_expiration"`
}

// Enabled reports whether a bucket is configured
func (s *StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

// PDFConfig is the headless Chrome used to print statements. Without a
// RemoteURL a local Chrome is launched.
type PDFConfig struct {
	Enabled   bool
	RemoteURL string `mapstructure:"remote_url"`
	Timeout   time.Duration
	NoSandbox bool   `mapstructure:"no_sandbox"`
	PaperSize string `mapstructure:"paper_size"` // A4 or Letter
}

type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool     `mapstructure:"require_auth"`
	AllowedIPs  []string `mapstructure:"allowed_ips"`
}

type TelemetryConfig struct {
	Enabled           bool    // traces
	CollectorEndpoint string  `mapstructure:"collector_endpoint"` // OTLP gRPC host:port
	SamplingRatio     float64 `mapstructure:"sampling_ratio"`
	ServiceName       string  `mapstructure:"service_name"`
	Insecure          bool
	MetricsEnabled    bool          `mapstructure:"metrics_enabled"`
	MetricsInterval   time.Duration `mapstructure:"metrics_interval"`
	LogsEnabled       bool          `mapstructure:"logs_enabled"`
	DBTraceEnabled    bool          `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool          `mapstructure:"db_log_full_sql"`
	DBSlowQueryThresh time.Duration `mapstructure:"db_slow_query_threshold"`
	ProfilingEnabled  bool          `mapstructure:"profiling_enabled"`
	PyroscopeURL      string        `mapstructure:"pyroscope_url"`
}

// defaults registers every key, which is also what lets AutomaticEnv reach
// keys that have no value in the file
var defaults = map[string]any{
	"app.name": "fintrack-backend",
	"app.env":  "development",
	"app.port": "8080",

	"database.driver":             "postgres",
	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "fintrack",
	"database.sslmode":            "disable",
	"database.sqlite_path":        "fintrack.db",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  60,
	"database.conn_max_idle_time": 30,

	"redis.host":     "",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,

	"jwt.secret":                   "",
	"jwt.refresh_secret":           "",
	"jwt.issuer":                   "fintrack-backend",
	"jwt.access_token_expiration":  15 * time.Minute,
	"jwt.refresh_token_expiration": 7 * 24 * time.Hour,

	"auth.max_login_attempts": 5,
	"auth.lock_duration":      15 * time.Minute,

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":             15 * time.Second,
	"http.write_timeout":            30 * time.Second,
	"http.idle_timeout":             time.Minute,
	"http.max_header_bytes":         1 << 20,
	"http.max_body_size":            int64(10 << 20),
	"http.rate_limit_enabled":       false,
	"http.rate_limit_requests":      100,
	"http.rate_limit_window":        time.Minute,
	"http.auth_rate_limit_enabled":  false,
	"http.auth_rate_limit_requests": 5,
	"http.auth_rate_limit_window":   time.Minute,
	// no origins by default: cross-origin requests get no CORS headers
	"http.cors_allow_origins": []string{},
	"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "Authorization", "X-Request-ID"},
	"http.trusted_proxies":    []string{},

	"scheduler.enabled":                 false,
	"scheduler.workers":                 2,
	"scheduler.job_timeout":             10 * time.Minute,
	"scheduler.retry_attempts":          3,
	"scheduler.retry_delay":             time.Minute,
	"scheduler.check_interval":          time.Minute,
	"scheduler.renewal_schedule":        "0 1 * * *",
	"scheduler.reminder_schedule":       "0 8 * * *",
	"scheduler.snapshot_schedule":       "30 23 * * *",
	"scheduler.rate_refresh_schedule":   "0 6 * * *",
	"scheduler.reminder_lookahead_days": 3,
	"scheduler.batch_size":              200,
	"scheduler.activity_retention":      365 * 24 * time.Hour,

	"currency.base_currency":  "USD",
	"currency.rate_feed_url":  "",
	"currency.feed_timeout":   10 * time.Second,
	"currency.rate_cache_ttl": time.Hour,

	"storage.endpoint":           "",
	"storage.region":             "us-east-1",
	"storage.bucket":             "",
	"storage.access_key":         "",
	"storage.secret_key":         "",
	"storage.use_ssl":            false,
	"storage.use_path_style":     false,
	"storage.presign_expiration": 15 * time.Minute,

	"pdf.enabled":    false,
	"pdf.remote_url": "",
	"pdf.timeout":    30 * time.Second,
	"pdf.no_sandbox": false,
	"pdf.paper_size": "A4",

	"swagger.enabled":      false,
	"swagger.require_auth": false,
	"swagger.allowed_ips":  []string{},

	"telemetry.enabled":                 false,
	"telemetry.collector_endpoint":      "localhost:4317",
	"telemetry.sampling_ratio":          1.0,
	"telemetry.service_name":            "fintrack-backend",
	"telemetry.insecure":                false,
	"telemetry.metrics_enabled":         false,
	"telemetry.metrics_interval":        time.Minute,
	"telemetry.logs_enabled":            false,
	"telemetry.db_trace_enabled":        false,
	"telemetry.db_log_full_sql":         false,
	"telemetry.db_slow_query_threshold": 200 * time.Millisecond,
	"telemetry.profiling_enabled":       false,
	"telemetry.pyroscope_url":           "http://localhost:4040",
}

// Load reads config.toml from ".", "./config" or "/app" when present, then
// lets FINTRACK_* environment variables override any key, so
// database.password comes from FINTRACK_DATABASE_PASSWORD.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, dir := range []string{".", "./config", "/app"} {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.SetEnvPrefix("FINTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate reports every problem at once
func (c *Config) validate() error {
	var problems []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	db := c.Database
	check(db.Driver == "postgres" || db.Driver == "sqlite", "database.driver must be postgres or sqlite, got %q", db.Driver)
	check(db.MaxOpenConns > 0, "database.max_open_conns must be positive")
	check(db.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	check(db.MaxIdleConns <= db.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)", db.MaxIdleConns, db.MaxOpenConns)
	check(c.Scheduler.ReminderLookaheadDays >= 0 && c.Scheduler.ReminderLookaheadDays <= 30,
		"scheduler.reminder_lookahead_days must be between 0 and 30")
	check(c.PDF.PaperSize == "A4" || c.PDF.PaperSize == "Letter", "pdf.paper_size must be A4 or Letter, got %q", c.PDF.PaperSize)
	check(len(c.Currency.BaseCurrency) == 3, "currency.base_currency must be a 3-letter ISO code, got %q", c.Currency.BaseCurrency)
	check(c.Telemetry.SamplingRatio >= 0 && c.Telemetry.SamplingRatio <= 1,
		"telemetry.sampling_ratio must be between 0.0 and 1.0, got %g", c.Telemetry.SamplingRatio)

	if c.App.Env == "production" {
		check(len(c.JWT.Secret) >= 32, "jwt.secret must be at least 32 characters in production")
		if db.Driver == "postgres" {
			check(db.Password != "", "database.password is required in production")
			check(db.SSLMode != "disable", "database.sslmode cannot be 'disable' in production")
		}
		check(!slices.Contains(c.HTTP.CORSAllowOrigins, "*"), "http.cors_allow_origins cannot be '*' in production")
		check(!c.Swagger.Enabled || c.Swagger.RequireAuth || len(c.Swagger.AllowedIPs) > 0,
			"swagger endpoint must be disabled, require authentication, or have IP restriction in production")
		check(!c.Telemetry.DBLogFullSQL, "telemetry.db_log_full_sql must be false in production")
	}
	return errors.Join(problems...)
}

// DSN is the postgres URL with user and password escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// Addr is host:port, or "" when Redis is not configured
func (r *RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return net.JoinHostPort(r.Host, strconv.Itoa(r.Port))
}
