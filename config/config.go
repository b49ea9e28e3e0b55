package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "LOAN_PREDICTOR_"

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Model     ModelConfig     `yaml:"model"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
	Rules     RulesConfig     `yaml:"rules"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// ModelConfig selects the classifier. RemoteURL wins over Path when set.
type ModelConfig struct {
	Path      string        `yaml:"path" validate:"required_without=RemoteURL"`
	RemoteURL string        `yaml:"remote_url" validate:"omitempty,url"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
}

type CacheConfig struct {
	Backend   string        `yaml:"backend" validate:"oneof=none memory redis"`
	RedisAddr string        `yaml:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB   int           `yaml:"redis_db" validate:"min=0"`
	TTL       time.Duration `yaml:"ttl" validate:"gte=0"`
}

type RateLimitConfig struct {
	Capacity int           `yaml:"capacity" validate:"gte=0"`
	Window   time.Duration `yaml:"window" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=json text"`
}

// RulesConfig holds the explanation thresholds.
type RulesConfig struct {
	MinCreditScore      int     `yaml:"min_credit_score" validate:"min=300,max=900"`
	MaxLoanToAsset      float64 `yaml:"max_loan_to_asset" validate:"gt=0"`
	MinIncomeToLoan     float64 `yaml:"min_income_to_loan" validate:"gt=0"`
	ReferenceAnnualRate float64 `yaml:"reference_annual_rate" validate:"gte=0,lte=100"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Model: ModelConfig{
			Path:    "model/loan_predictor_model.json",
			Timeout: 5 * time.Second,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     10 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Capacity: 30,
			Window:   time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Rules: RulesConfig{
			MinCreditScore:      550,
			MaxLoanToAsset:      1.0,
			MinIncomeToLoan:     0.2,
			ReferenceAnnualRate: 9.5,
		},
	}
}

// Load reads an optional .env file, the YAML file at path (when non-empty and
// present), then applies LOAN_PREDICTOR_* environment overrides and validates
// the result.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config yaml: %w", err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"ADDR":             &cfg.Server.Addr,
		"MODEL_PATH":       &cfg.Model.Path,
		"MODEL_REMOTE_URL": &cfg.Model.RemoteURL,
		"CACHE_BACKEND":    &cfg.Cache.Backend,
		"REDIS_ADDR":       &cfg.Cache.RedisAddr,
		"LOG_LEVEL":        &cfg.Log.Level,
		"LOG_FORMAT":       &cfg.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"MODEL_TIMEOUT":     &cfg.Model.Timeout,
		"CACHE_TTL":         &cfg.Cache.TTL,
		"RATE_LIMIT_WINDOW": &cfg.RateLimit.Window,
		"SHUTDOWN_TIMEOUT":  &cfg.Server.ShutdownTimeout,
	}
	for key, dst := range durations {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = d
		}
	}

	ints := map[string]*int{
		"REDIS_DB":         &cfg.Cache.RedisDB,
		"RATE_LIMIT":       &cfg.RateLimit.Capacity,
		"MIN_CREDIT_SCORE": &cfg.Rules.MinCreditScore,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = n
		}
	}

	floats := map[string]*float64{
		"MAX_LOAN_TO_ASSET":     &cfg.Rules.MaxLoanToAsset,
		"MIN_INCOME_TO_LOAN":    &cfg.Rules.MinIncomeToLoan,
		"REFERENCE_ANNUAL_RATE": &cfg.Rules.ReferenceAnnualRate,
	}
	for key, dst := range floats {
		if v, ok := lookup(key); ok {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", envPrefix, key, err)
			}
			*dst = f
		}
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
