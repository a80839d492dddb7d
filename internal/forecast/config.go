package forecast

import "fmt"

// Seasonality modes.
const (
	Multiplicative = "multiplicative"
	Additive       = "additive"
)

// Config fixes the model hyperparameters.
type Config struct {
	SeasonalityMode       string  `yaml:"seasonality_mode"`
	ChangepointPriorScale float64 `yaml:"changepoint_prior_scale"`
	NChangepoints         int     `yaml:"n_changepoints"`
	ChangepointRange      float64 `yaml:"changepoint_range"`
	YearlySeasonality     bool    `yaml:"yearly_seasonality"`
	WeeklySeasonality     bool    `yaml:"weekly_seasonality"`
	DailySeasonality      bool    `yaml:"daily_seasonality"`
	YearlyOrder           int     `yaml:"yearly_order"`
	WeeklyOrder           int     `yaml:"weekly_order"`
	DailyOrder            int     `yaml:"daily_order"`
	SeasonalityPriorScale float64 `yaml:"seasonality_prior_scale"`
	HolidaysPriorScale    float64 `yaml:"holidays_prior_scale"`
	IntervalWidth         float64 `yaml:"interval_width"`
}

// DefaultConfig is the configuration every forecast request uses.
func DefaultConfig() Config {
	return Config{
		SeasonalityMode:       Multiplicative,
		ChangepointPriorScale: 0.05,
		NChangepoints:         25,
		ChangepointRange:      0.8,
		YearlySeasonality:     true,
		WeeklySeasonality:     true,
		DailySeasonality:      false,
		YearlyOrder:           10,
		WeeklyOrder:           3,
		DailyOrder:            4,
		SeasonalityPriorScale: 10,
		HolidaysPriorScale:    10,
		IntervalWidth:         0.80,
	}
}

// Validate rejects configurations the fit cannot honour.
func (c Config) Validate() error {
	if c.SeasonalityMode != Multiplicative && c.SeasonalityMode != Additive {
		return fmt.Errorf("seasonality_mode must be %q or %q, got %q", Multiplicative, Additive, c.SeasonalityMode)
	}
	if c.ChangepointPriorScale <= 0 {
		return fmt.Errorf("changepoint_prior_scale must be positive")
	}
	if c.NChangepoints < 0 {
		return fmt.Errorf("n_changepoints must not be negative")
	}
	if c.ChangepointRange <= 0 || c.ChangepointRange > 1 {
		return fmt.Errorf("changepoint_range must be in (0, 1]")
	}
	if c.SeasonalityPriorScale <= 0 || c.HolidaysPriorScale <= 0 {
		return fmt.Errorf("seasonality and holiday prior scales must be positive")
	}
	if c.IntervalWidth <= 0 || c.IntervalWidth >= 1 {
		return fmt.Errorf("interval_width must be in (0, 1)")
	}
	for _, o := range []int{c.YearlyOrder, c.WeeklyOrder, c.DailyOrder} {
		if o < 0 {
			return fmt.Errorf("fourier orders must not be negative")
		}
	}
	return nil
}
