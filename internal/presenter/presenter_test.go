package presenter

import (
	"testing"
	"time"

	"PricePredictor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsBetween(from, to time.Time) []model.ForecastRow {
	var rows []model.ForecastRow
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		rows = append(rows, model.ForecastRow{Time: d, Yhat: 1, YhatLower: 0, YhatUpper: 2})
	}
	return rows
}

func TestFilter_CutoffYear(t *testing.T) {
	from := time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	res := &model.ForecastResult{Rows: rowsBetween(from, to), HistoryEnd: from}

	rows, err := Filter(res, 2024)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), rows[0].Time)
	assert.Equal(t, to, rows[len(rows)-1].Time)
	assert.Len(t, rows, 31+29+1)
	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i-1].Time.Before(rows[i].Time))
	}
}

func TestFilter_Monotonic(t *testing.T) {
	from := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	res := &model.ForecastResult{Rows: rowsBetween(from, to)}

	prev := len(res.Rows) + 1
	for year := 2018; year <= 2026; year++ {
		rows, err := Filter(res, year)
		n := len(rows)
		if err != nil {
			require.ErrorIs(t, err, model.ErrEmptyForecast)
			n = 0
		}
		assert.LessOrEqual(t, n, prev, "cutoff %d", year)
		prev = n
	}
}

func TestFilter_Empty(t *testing.T) {
	_, err := Filter(&model.ForecastResult{}, 2024)
	require.ErrorIs(t, err, model.ErrEmptyForecast)

	_, err = Filter(nil, 2024)
	require.ErrorIs(t, err, model.ErrEmptyForecast)

	old := &model.ForecastResult{Rows: rowsBetween(
		time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC))}
	_, err = Filter(old, 2024)
	require.ErrorIs(t, err, model.ErrEmptyForecast)
}

func TestPresent_BuildsChart(t *testing.T) {
	s := model.Series{Symbol: "HDFC.MF", Points: []model.Point{
		{Time: time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC), Value: 10},
		{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Value: 11},
	}}
	res := &model.ForecastResult{
		Rows:       rowsBetween(time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
		HistoryEnd: s.Points[1].Time,
	}

	rows, chart, err := Present(s, res, 2024)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.Equal(t, "HDFC.MF", chart.Symbol)
	assert.Equal(t, rows, chart.Forecast)
	require.Len(t, chart.Actual, 1)
	assert.Equal(t, 11.0, chart.Actual[0].Value)
	assert.Equal(t, s.Points[1].Time, chart.HistoryEnd)
}
