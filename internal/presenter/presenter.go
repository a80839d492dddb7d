// Package presenter narrows a forecast to the display window and shapes it for
// tables and charts.
package presenter

import (
	"fmt"

	"PricePredictor/internal/model"
)

// DefaultCutoffYear is the first calendar year shown to the user.
const DefaultCutoffYear = 2024

// Filter keeps the rows dated in cutoffYear or later, in their original order.
func Filter(res *model.ForecastResult, cutoffYear int) ([]model.ForecastRow, error) {
	if res == nil || len(res.Rows) == 0 {
		return nil, fmt.Errorf("%w: model produced no rows", model.ErrEmptyForecast)
	}
	var out []model.ForecastRow
	for _, r := range res.Rows {
		if r.Time.Year() >= cutoffYear {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no rows on or after %d (forecast ends %s)",
			model.ErrEmptyForecast, cutoffYear, res.Rows[len(res.Rows)-1].Time.Format("2006-01-02"))
	}
	return out, nil
}

// Present filters res and builds the chart over the same window.
func Present(s model.Series, res *model.ForecastResult, cutoffYear int) ([]model.ForecastRow, model.Chart, error) {
	rows, err := Filter(res, cutoffYear)
	if err != nil {
		return nil, model.Chart{}, err
	}

	chart := model.Chart{
		Symbol:     s.Symbol,
		Forecast:   rows,
		HistoryEnd: res.HistoryEnd,
	}
	for _, p := range s.Points {
		if p.Time.Year() >= cutoffYear {
			chart.Actual = append(chart.Actual, p)
		}
	}
	return rows, chart, nil
}
