package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"PricePredictor/internal/collector"
	"PricePredictor/internal/forecast"
	"PricePredictor/internal/holiday"
	"PricePredictor/internal/model"
	"PricePredictor/internal/notifier"
	"PricePredictor/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	reqs []model.Request
	err  error
}

func (r *recordingRunner) Run(_ context.Context, req model.Request) (*model.Report, error) {
	r.reqs = append(r.reqs, req)
	if r.err != nil {
		return nil, r.err
	}
	return &model.Report{
		Request:    req,
		CutoffYear: 2024,
		Rows: []model.ForecastRow{
			{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Yhat: 10, YhatLower: 9, YhatUpper: 11},
		},
	}, nil
}

func TestHandleCommand_Routing(t *testing.T) {
	tests := []struct {
		command string
		want    model.Request
	}{
		{"/stock RELIANCE.NS", model.Request{Kind: model.KindStock, Identifier: "RELIANCE.NS"}},
		{"/stock", model.Request{Kind: model.KindStock, Identifier: "TCS.NS"}},
		{"/fund", model.Request{Kind: model.KindMutualFund, Identifier: "HDFC.MF"}},
		{"/fund sbi.mf", model.Request{Kind: model.KindMutualFund, Identifier: "SBI.MF"}},
		{"/forecast mf 119551", model.Request{Kind: model.KindMutualFund, Identifier: "119551"}},
		{"/forecast stock", model.Request{Kind: model.KindStock, Identifier: "TCS.NS"}},
		{"/stock@PredictorBot INFY.NS", model.Request{Kind: model.KindStock, Identifier: "INFY.NS"}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			runner := &recordingRunner{}
			d := NewDispatcher(context.Background(), runner, "TCS.NS", "HDFC.MF")

			replies := d.HandleCommand(tt.command)
			require.Len(t, runner.reqs, 1)
			assert.Equal(t, tt.want, runner.reqs[0])
			require.Len(t, replies, 2)
			assert.Contains(t, replies[1], "<pre>")
		})
	}
}

func TestHandleCommand_NonForecast(t *testing.T) {
	runner := &recordingRunner{}
	d := NewDispatcher(context.Background(), runner, "TCS.NS", "HDFC.MF")

	assert.Equal(t, []string{notifier.FormatHelp("TCS.NS", "HDFC.MF")}, d.HandleCommand("/help"))
	assert.Equal(t, []string{notifier.FormatHelp("TCS.NS", "HDFC.MF")}, d.HandleCommand("hello"))
	assert.Equal(t, []string{notifier.FormatAbout()}, d.HandleCommand("/about"))

	replies := d.HandleCommand("/forecast bonds X")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "unknown asset kind")

	replies = d.HandleCommand("/forecast")
	require.Len(t, replies, 1)
	assert.Contains(t, replies[0], "Usage")
	assert.Empty(t, runner.reqs)
}

func TestHandleCommand_ErrorBecomesUserMessage(t *testing.T) {
	runner := &recordingRunner{err: fmt.Errorf("%w: unknown symbol", model.ErrNoData)}
	d := NewDispatcher(context.Background(), runner, "TCS.NS", "HDFC.MF")

	replies := d.HandleCommand("/stock NOPE")
	require.Len(t, replies, 1)
	assert.True(t, strings.HasPrefix(replies[0], "❌ "))
	assert.Contains(t, replies[0], "No data available for &#34;NOPE&#34;")
}

func TestHandleCommand_EndToEnd(t *testing.T) {
	cal, err := holiday.ForCountry("IN", holiday.DefaultYears)
	require.NoError(t, err)
	engine, err := forecast.NewEngine(forecast.DefaultConfig(), cal)
	require.NoError(t, err)

	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	stocks := &collector.StaticFetcher{Records: collector.GenerateRecords(3500, 2*365, end)}
	p := pipeline.New(collector.NewCollector(stocks, &collector.StaticFetcher{}), engine, nil,
		pipeline.Options{Horizon: forecast.DefaultHorizon, CutoffYear: 2024})
	d := NewDispatcher(context.Background(), p, "TCS.NS", "HDFC.MF")

	replies := d.HandleCommand("/stock")
	require.Greater(t, len(replies), 1)
	assert.Contains(t, replies[0], "TCS.NS")
	for _, r := range replies {
		assert.LessOrEqual(t, len(r), notifier.MaxMessageLen)
	}
	assert.Equal(t, 1, stocks.Calls)
}
