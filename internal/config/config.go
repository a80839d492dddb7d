package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"PricePredictor/internal/forecast"
	"PricePredictor/internal/holiday"
	"PricePredictor/internal/presenter"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	FundSource struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"fund_source"`
	Forecast struct {
		Horizon        int             `yaml:"horizon"`
		CutoffYear     int             `yaml:"cutoff_year"`
		HolidayCountry string          `yaml:"holiday_country"`
		HolidayYears   []int           `yaml:"holiday_years"`
		HolidayFile    string          `yaml:"holiday_file"`
		DefaultStock   string          `yaml:"default_stock"`
		DefaultFund    string          `yaml:"default_fund"`
		Model          forecast.Config `yaml:"model"`
	} `yaml:"forecast"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy       string        `yaml:"proxy"`
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides (a .env file in the working directory is loaded first), then
// defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Forecast.Model = forecast.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	_ = godotenv.Load()

	// Environment variable overrides
	cfg.Telegram.BotToken = envStr("TELEGRAM_BOT_TOKEN", cfg.Telegram.BotToken)
	cfg.Telegram.ChatID = envStr("TELEGRAM_CHAT_ID", cfg.Telegram.ChatID)
	cfg.DataSource.BaseURL = envStr("BARS_API_BASE_URL", cfg.DataSource.BaseURL)
	cfg.DataSource.APIKey = envStr("BARS_API_KEY", cfg.DataSource.APIKey)
	cfg.FundSource.BaseURL = envStr("NSE_BASE_URL", cfg.FundSource.BaseURL)
	cfg.Proxy = envStr("HTTPS_PROXY", cfg.Proxy)
	cfg.Database.SQLitePath = envStr("SQLITE_PATH", cfg.Database.SQLitePath)
	cfg.Forecast.Horizon = envInt("FORECAST_HORIZON", cfg.Forecast.Horizon)
	cfg.Forecast.CutoffYear = envInt("FORECAST_CUTOFF_YEAR", cfg.Forecast.CutoffYear)
	cfg.Forecast.HolidayCountry = envStr("HOLIDAY_COUNTRY", cfg.Forecast.HolidayCountry)
	cfg.Forecast.HolidayFile = envStr("HOLIDAY_FILE", cfg.Forecast.HolidayFile)
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}

	// Defaults
	if cfg.Forecast.Horizon == 0 {
		cfg.Forecast.Horizon = forecast.DefaultHorizon
	}
	if cfg.Forecast.CutoffYear == 0 {
		cfg.Forecast.CutoffYear = presenter.DefaultCutoffYear
	}
	if cfg.Forecast.HolidayCountry == "" {
		cfg.Forecast.HolidayCountry = "IN"
	}
	if len(cfg.Forecast.HolidayYears) == 0 {
		cfg.Forecast.HolidayYears = append([]int(nil), holiday.DefaultYears...)
	}
	if cfg.Forecast.DefaultStock == "" {
		cfg.Forecast.DefaultStock = "TCS.NS"
	}
	if cfg.Forecast.DefaultFund == "" {
		cfg.Forecast.DefaultFund = "HDFC.MF"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}

	return cfg, nil
}

// Validate checks the settings every front end depends on.
func (c *Config) Validate() error {
	if c.Forecast.Horizon <= 0 {
		return fmt.Errorf("forecast.horizon must be positive")
	}
	if c.Forecast.CutoffYear < 1900 {
		return fmt.Errorf("forecast.cutoff_year %d is out of range", c.Forecast.CutoffYear)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if err := c.Forecast.Model.Validate(); err != nil {
		return fmt.Errorf("forecast.model: %w", err)
	}
	return nil
}

// ValidateTelegram checks the fields the bot needs on top of Validate.
func (c *Config) ValidateTelegram() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
