package model

import "time"

// ForecastRow is one dated model output.
type ForecastRow struct {
	Time      time.Time `json:"ds"`
	Yhat      float64   `json:"yhat"`
	YhatLower float64   `json:"yhat_lower"`
	YhatUpper float64   `json:"yhat_upper"`
}

// FittedModel is what a forecast keeps of the model that produced it.
type FittedModel interface {
	Name() string
	// Components reports the per-component contribution at t, keyed by
	// component name ("trend", "yearly", "weekly", "holidays").
	Components(t time.Time) map[string]float64
}

// ForecastResult holds in-sample and future rows in ascending order.
type ForecastResult struct {
	Rows       []ForecastRow
	Model      FittedModel
	HistoryEnd time.Time
	Horizon    int
}

// Future returns the rows strictly after the last historical date.
func (r *ForecastResult) Future() []ForecastRow {
	for i, row := range r.Rows {
		if row.Time.After(r.HistoryEnd) {
			return r.Rows[i:]
		}
	}
	return nil
}

// Chart is the plottable view of a forecast: actuals plus the forecast band.
type Chart struct {
	Symbol     string        `json:"symbol"`
	Actual     []Point       `json:"actual"`
	Forecast   []ForecastRow `json:"forecast"`
	HistoryEnd time.Time     `json:"history_end"`
}

// Request is one user action.
type Request struct {
	Kind       AssetKind
	Identifier string
}

// Report is everything one pipeline run hands to a display surface.
type Report struct {
	Request    Request
	Summary    SeriesSummary
	Rows       []ForecastRow
	Chart      Chart
	CutoffYear int
	Points     int
	FetchedAt  time.Time
	Elapsed    time.Duration
}
