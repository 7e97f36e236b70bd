package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"
	configPathEnvVar = "CONFIG_PATH"
)

var defaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	AppEnv   string         `koanf:"app_env"`
	HTTP     HTTPConfig     `koanf:"http"`
	Database DatabaseConfig `koanf:"database"`
	JWT      JWTConfig      `koanf:"jwt"`
	Redis    RedisConfig    `koanf:"redis"`
	Log      LogConfig      `koanf:"log"`
	Media    MediaConfig    `koanf:"media"`
}

type HTTPConfig struct {
	Addr               string        `koanf:"addr"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`
	LoginRatePerMinute int           `koanf:"login_rate_per_minute"`
	LoginBurst         int           `koanf:"login_burst"`
}

type DatabaseConfig struct {
	URL string `koanf:"url"`
}

type JWTConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

// RedisConfig: пустой URL отключает кэш.
type RedisConfig struct {
	URL      string        `koanf:"url"`
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type MediaConfig struct {
	Dir string `koanf:"dir"`
	URL string `koanf:"url"`
}

func defaultConfig() *Config {
	return &Config{
		AppEnv: "dev",
		HTTP: HTTPConfig{
			Addr:               ":8080",
			ShutdownTimeout:    10 * time.Second,
			LoginRatePerMinute: 10,
			LoginBurst:         5,
		},
		Database: DatabaseConfig{URL: "foodgram.db"},
		JWT: JWTConfig{
			Secret: defaultJWTSecret,
			TTL:    24 * time.Hour,
		},
		Redis: RedisConfig{CacheTTL: 5 * time.Minute},
		Log:   LogConfig{Level: "info", Format: "json"},
		Media: MediaConfig{Dir: "./media", URL: "/media"},
	}
}

// envKeys maps environment variables onto koanf paths. Anything else is ignored.
var envKeys = map[string]string{
	"APP_ENV":               "app_env",
	"ENV":                   "app_env",
	"HTTP_ADDR":             "http.addr",
	"SHUTDOWN_TIMEOUT":      "http.shutdown_timeout",
	"CORS_ALLOWED_ORIGINS":  "http.cors_allowed_origins",
	"LOGIN_RATE_PER_MINUTE": "http.login_rate_per_minute",
	"LOGIN_BURST":           "http.login_burst",
	"DATABASE_URL":          "database.url",
	"JWT_SECRET":            "jwt.secret",
	"JWT_TTL":               "jwt.ttl",
	"REDIS_URL":             "redis.url",
	"CACHE_TTL":             "redis.cache_ttl",
	"LOG_LEVEL":             "log.level",
	"LOG_FORMAT":            "log.format",
	"MEDIA_DIR":             "media.dir",
	"MEDIA_URL":             "media.url",
}

func envTransform(key string) string {
	return envKeys[strings.ToUpper(key)]
}

// Load: defaults -> config.yaml (или CONFIG_PATH) -> env.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	if err := splitListFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// listPaths arrive from env as comma-separated strings.
var listPaths = []string{"http.cors_allowed_origins"}

func splitListFields(k *koanf.Koanf) error {
	for _, path := range listPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			// YAML already gives a list
			continue
		}

		parts := strings.Split(raw, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				items = append(items, p)
			}
		}
		if err := k.Set(path, items); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

func findConfigFile() string {
	if p := strings.TrimSpace(os.Getenv(configPathEnvVar)); p != "" {
		return p
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) normalize() {
	c.AppEnv = strings.ToLower(strings.TrimSpace(c.AppEnv))
	c.JWT.Secret = strings.TrimSpace(c.JWT.Secret)
	c.Redis.URL = strings.TrimSpace(c.Redis.URL)

	origins := c.HTTP.CORSAllowedOrigins[:0]
	for _, o := range c.HTTP.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.HTTP.CORSAllowedOrigins = origins
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	if c.Redis.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be > 0")
	}
	if c.HTTP.LoginRatePerMinute <= 0 || c.HTTP.LoginBurst <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MINUTE and LOGIN_BURST must be > 0")
	}

	if c.IsProd() {
		if c.JWT.Secret == "" || c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
		}
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}
