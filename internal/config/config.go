package config

import (
	"errors"
	"flag"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type HTTPConfig struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// TrustedProxies lists CIDRs whose forwarding headers name the client.
	// Empty means the socket peer is always the client.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// ProxyPrefixes parses TrustedProxies. Load has already validated them.
func (c HTTPConfig) ProxyPrefixes() []netip.Prefix {
	out := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, s := range c.TrustedProxies {
		if p, err := netip.ParsePrefix(strings.TrimSpace(s)); err == nil {
			out = append(out, p)
		}
	}
	return out
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type AdminConfig struct {
	Username     string        `yaml:"username"`
	PasswordHash string        `yaml:"password_hash"` // bcrypt
	JWTSecret    string        `yaml:"jwt_secret"`
	SessionTTL   time.Duration `yaml:"session_ttl"`
	SecureCookie bool          `yaml:"secure_cookie"`
	LoginLimit   int           `yaml:"login_limit"`  // attempts per window per client
	LoginWindow  time.Duration `yaml:"login_window"` // rate limit window
}

type DatabaseConfig struct {
	URL         string `yaml:"url"`
	MaxConns    int32  `yaml:"max_conns"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables redis
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type IssuanceConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	Timeout        time.Duration `yaml:"timeout"`
	ReservationTTL time.Duration `yaml:"reservation_ttl"`
}

type CapacityConfig struct {
	Interval  time.Duration `yaml:"interval"`
	WarnRatio float64       `yaml:"warn_ratio"`
}

type TelegramConfig struct {
	Token        string  `yaml:"token"` // empty disables bug notifications
	AdminChatIDs []int64 `yaml:"admin_chat_ids"`
	MinSeverity  string  `yaml:"min_severity"`
}

type SeedConfig struct {
	Workers int `yaml:"workers"`
}

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Issuance IssuanceConfig `yaml:"issuance"`
	Capacity CapacityConfig `yaml:"capacity"`
	Telegram TelegramConfig `yaml:"telegram"`
	Seed     SeedConfig     `yaml:"seed"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig parses -config and -dev from the command line and loads the file.
// Binaries register their own flags before calling it.
func LoadConfig() (*Config, error) {
	var configPath string
	var dev bool
	flag.StringVar(&configPath, "config", "config.yaml", "path to config yaml")
	flag.BoolVar(&dev, "dev", false, "development mode")
	flag.Parse()
	return Load(configPath, dev)
}

// Load reads the yaml file at path, applies .env and environment overrides,
// fills defaults and validates.
func Load(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// .env is optional; real environment wins over it.
	_ = godotenv.Load()
	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func applyEnv(cfg *Config) {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	override(&cfg.Database.URL, "DATABASE_URL")
	override(&cfg.Redis.URL, "REDIS_URL")
	override(&cfg.Admin.JWTSecret, "ADMIN_JWT_SECRET")
	override(&cfg.Admin.PasswordHash, "ADMIN_PASSWORD_HASH")
	override(&cfg.Telegram.Token, "TELEGRAM_TOKEN")
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Port <= 0 {
		cfg.HTTP.Port = 8080
	}
	if cfg.HTTP.ReadTimeout <= 0 {
		cfg.HTTP.ReadTimeout = 10 * time.Second
	}
	if cfg.HTTP.WriteTimeout <= 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.RequestTimeout <= 0 {
		cfg.HTTP.RequestTimeout = 10 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = "admin"
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 12 * time.Hour
	}
	if cfg.Admin.LoginLimit <= 0 {
		cfg.Admin.LoginLimit = 5
	}
	if cfg.Admin.LoginWindow <= 0 {
		cfg.Admin.LoginWindow = time.Minute
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Issuance.MaxAttempts <= 0 {
		cfg.Issuance.MaxAttempts = 20
	}
	if cfg.Issuance.Timeout <= 0 {
		cfg.Issuance.Timeout = 5 * time.Second
	}
	if cfg.Issuance.ReservationTTL <= 0 {
		cfg.Issuance.ReservationTTL = 30 * time.Second
	}
	if cfg.Capacity.Interval <= 0 {
		cfg.Capacity.Interval = 10 * time.Minute
	}
	if cfg.Capacity.WarnRatio <= 0 || cfg.Capacity.WarnRatio > 1 {
		cfg.Capacity.WarnRatio = 0.8
	}
	if cfg.Telegram.MinSeverity == "" {
		cfg.Telegram.MinSeverity = "high"
	}
	if cfg.Seed.Workers <= 0 {
		cfg.Seed.Workers = 8
	}
}

func (cfg *Config) validate() error {
	if cfg.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if cfg.Admin.JWTSecret == "" {
		return errors.New("admin.jwt_secret is required")
	}
	for _, p := range cfg.HTTP.TrustedProxies {
		if _, err := netip.ParsePrefix(strings.TrimSpace(p)); err != nil {
			return fmt.Errorf("http.trusted_proxies: %w", err)
		}
	}
	if cfg.Telegram.Token != "" && len(cfg.Telegram.AdminChatIDs) == 0 {
		return errors.New("telegram.admin_chat_ids is required when telegram.token is set")
	}
	return nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
