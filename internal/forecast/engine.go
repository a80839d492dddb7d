// Package forecast fits the forecasting model on a canonical series and
// extends it over a future horizon.
package forecast

import (
	"fmt"
	"log"
	"time"

	"PricePredictor/internal/holiday"
	"PricePredictor/internal/model"
)

// DefaultHorizon is the number of calendar days forecast past the history.
const DefaultHorizon = 90

// Engine owns the fixed model configuration and the holiday calendar.
type Engine struct {
	cfg Config
	cal *holiday.Calendar
}

// NewEngine validates cfg and binds the holiday calendar. cal may be nil.
func NewEngine(cfg Config, cal *holiday.Calendar) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("forecast config: %w", err)
	}
	return &Engine{cfg: cfg, cal: cal}, nil
}

// Forecast fits a fresh model on s and predicts the history plus horizon
// daily steps after its last date.
func (e *Engine) Forecast(s model.Series, horizon int) (*model.ForecastResult, error) {
	if horizon <= 0 {
		return nil, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	fitted, err := Fit(e.cfg, e.cal, s.Points)
	if err != nil {
		return nil, err
	}

	last := s.Points[len(s.Points)-1].Time
	dates := FutureDates(s.Points, horizon)
	rows, err := fitted.Predict(dates)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] fitted %s on %d points (%s), sigma=%.4f",
		s.Symbol, len(s.Points), fitted.Name(), fitted.Sigma())
	return &model.ForecastResult{
		Rows:       rows,
		Model:      fitted,
		HistoryEnd: last,
		Horizon:    horizon,
	}, nil
}

// FutureDates returns every historical date followed by horizon consecutive
// calendar days after the last one.
func FutureDates(points []model.Point, horizon int) []time.Time {
	dates := make([]time.Time, 0, len(points)+horizon)
	for _, p := range points {
		dates = append(dates, p.Time)
	}
	last := points[len(points)-1].Time
	for i := 1; i <= horizon; i++ {
		dates = append(dates, last.AddDate(0, 0, i))
	}
	return dates
}
