package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

const envPrefix = "STOREFRONT_"

type Config struct {
	HTTPAddr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	APIBaseURL  string        `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`

	// DataPath is the SQLite file holding the local cart and chat mirrors.
	DataPath string `env:"DATA_PATH" envDefault:"storefront.db"`
	// DatabaseURL enables PostgreSQL order storage for the server when set.
	DatabaseURL string `env:"DATABASE_URL"`

	Currency       string `env:"CURRENCY" envDefault:"ZAR"`
	CurrencySymbol string `env:"CURRENCY_SYMBOL" envDefault:"R"`
	// Language sets digit grouping in displayed amounts, as a BCP 47 tag.
	Language string `env:"LANGUAGE" envDefault:"en"`

	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogDevelopment bool   `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

// Load reads STOREFRONT_ prefixed environment variables.
func Load() (Config, error) {
	return parse(env.Options{Prefix: envPrefix})
}

// LoadFrom reads configuration from the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: envPrefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http addr required")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url required")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive")
	}
	if _, err := c.CurrencyUnit(); err != nil {
		return err
	}
	if _, err := c.LanguageTag(); err != nil {
		return err
	}
	return nil
}

func (c Config) CurrencyUnit() (currency.Unit, error) {
	unit, err := currency.ParseISO(c.Currency)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency[%s] is not valid: %w", c.Currency, err)
	}
	return unit, nil
}

func (c Config) LanguageTag() (language.Tag, error) {
	tag, err := language.Parse(c.Language)
	if err != nil {
		return language.Und, fmt.Errorf("language[%s] is not valid: %w", c.Language, err)
	}
	return tag, nil
}
