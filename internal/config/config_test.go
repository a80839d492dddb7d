package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"PricePredictor/internal/forecast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "BARS_API_BASE_URL", "BARS_API_KEY",
		"NSE_BASE_URL", "HTTPS_PROXY", "SQLITE_PATH", "FORECAST_HORIZON",
		"FORECAST_CUTOFF_YEAR", "HOLIDAY_COUNTRY", "HOLIDAY_FILE", "HTTP_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
	// godotenv.Load reads .env from the working directory; run from an empty one.
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 90, cfg.Forecast.Horizon)
	assert.Equal(t, 2024, cfg.Forecast.CutoffYear)
	assert.Equal(t, "IN", cfg.Forecast.HolidayCountry)
	assert.Equal(t, []int{2021, 2022, 2023, 2024}, cfg.Forecast.HolidayYears)
	assert.Equal(t, "TCS.NS", cfg.Forecast.DefaultStock)
	assert.Equal(t, "HDFC.MF", cfg.Forecast.DefaultFund)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Empty(t, cfg.Database.SQLitePath)
	assert.Equal(t, forecast.DefaultConfig(), cfg.Forecast.Model)
	assert.NoError(t, cfg.Validate())
	assert.Error(t, cfg.ValidateTelegram())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
telegram:
  bot_token: file-token
  chat_id: "42"
forecast:
  horizon: 30
  cutoff_year: 2023
  model:
    seasonality_mode: additive
    weekly_seasonality: false
http_timeout: 5s
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("FORECAST_HORIZON", "60")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.Equal(t, 60, cfg.Forecast.Horizon)
	assert.Equal(t, 2023, cfg.Forecast.CutoffYear)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, forecast.Additive, cfg.Forecast.Model.SeasonalityMode)
	assert.False(t, cfg.Forecast.Model.WeeklySeasonality)
	// Unset model fields keep their defaults.
	assert.True(t, cfg.Forecast.Model.YearlySeasonality)
	assert.Equal(t, 0.05, cfg.Forecast.Model.ChangepointPriorScale)
	assert.NoError(t, cfg.ValidateTelegram())
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("SQLITE_PATH")
	require.NoError(t, os.WriteFile(".env", []byte("SQLITE_PATH=data/runs.db\n"), 0o644))

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, "data/runs.db", cfg.Database.SQLitePath)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "forecast: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("missing.yaml")
	require.NoError(t, err)

	cfg.Forecast.Horizon = -1
	assert.Error(t, cfg.Validate())

	cfg.Forecast.Horizon = 90
	cfg.Forecast.Model.SeasonalityMode = "cubic"
	assert.Error(t, cfg.Validate())
}
