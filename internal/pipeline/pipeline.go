// Package pipeline runs one forecast request end to end: collect, summarize,
// forecast, present.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"PricePredictor/internal/calculator"
	"PricePredictor/internal/model"
	"PricePredictor/internal/presenter"
	"PricePredictor/internal/recorder"
)

// SeriesSource yields the canonical series for a request.
type SeriesSource interface {
	Collect(ctx context.Context, req model.Request) (model.Series, error)
}

// Forecaster fits a model on a series and extends it by horizon steps.
type Forecaster interface {
	Forecast(s model.Series, horizon int) (*model.ForecastResult, error)
}

// Options are the per-deployment knobs of a run.
type Options struct {
	Horizon    int
	CutoffYear int
}

// Pipeline wires the components of a forecast request.
type Pipeline struct {
	Source   SeriesSource
	Engine   Forecaster
	Recorder recorder.Recorder
	Options  Options
	now      func() time.Time
}

// New creates a Pipeline. A nil recorder disables recording.
func New(src SeriesSource, engine Forecaster, rec recorder.Recorder, opts Options) *Pipeline {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Pipeline{Source: src, Engine: engine, Recorder: rec, Options: opts, now: time.Now}
}

// Run executes one request synchronously. Every returned error belongs to the
// model error taxonomy or wraps a configuration problem.
func (p *Pipeline) Run(ctx context.Context, req model.Request) (*model.Report, error) {
	started := p.now()
	run := &recorder.RunRecord{Kind: req.Kind, Identifier: req.Identifier, CutoffYear: p.Options.CutoffYear}

	report, err := p.run(ctx, req, run)
	run.Elapsed = p.now().Sub(started)
	if err != nil {
		run.Status = recorder.StatusError
		run.ErrorKind = model.ErrorKind(err)
		run.ErrorMsg = err.Error()
		log.Printf("[ERROR] forecast %s %s failed (%s): %v", req.Kind, req.Identifier, run.ErrorKind, err)
	} else {
		run.Status = recorder.StatusOK
		report.FetchedAt = started
		report.Elapsed = run.Elapsed
		log.Printf("[INFO] forecast %s %s: %d rows in %v", req.Kind, req.Identifier, len(report.Rows), run.Elapsed)
	}

	if recErr := p.Recorder.RecordRun(run); recErr != nil {
		log.Printf("[ERROR] record run: %v", recErr)
	}
	return report, err
}

func (p *Pipeline) run(ctx context.Context, req model.Request, run *recorder.RunRecord) (*model.Report, error) {
	s, err := p.Source.Collect(ctx, req)
	if err != nil {
		return nil, err
	}
	summary := calculator.Summarize(s)
	run.Points = len(s.Points)
	run.LatestPrice = summary.LatestPrice

	res, err := p.Engine.Forecast(s, p.Options.Horizon)
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", s.Symbol, err)
	}

	rows, chart, err := presenter.Present(s, res, p.Options.CutoffYear)
	if err != nil {
		return nil, err
	}
	run.Forecast = rows

	return &model.Report{
		Request:    req,
		Summary:    summary,
		Rows:       rows,
		Chart:      chart,
		CutoffYear: p.Options.CutoffYear,
		Points:     len(s.Points),
	}, nil
}

// UserMessage turns a pipeline error into the one line shown to the user.
func UserMessage(req model.Request, err error) string {
	what := "stock ticker (e.g. TCS.NS, RELIANCE.NS)"
	if req.Kind == model.KindMutualFund {
		what = "mutual fund code (e.g. HDFC.MF, SBI.MF)"
	}

	switch {
	case errors.Is(err, model.ErrNetwork):
		return "The data provider could not be reached. Please try again in a moment."
	case errors.Is(err, model.ErrNoData):
		return fmt.Sprintf("No data available for %q. Please enter a valid %s.", req.Identifier, what)
	case errors.Is(err, model.ErrParse):
		return "The data provider sent a response that could not be read. Please try again later."
	case errors.Is(err, model.ErrInsufficientData):
		return fmt.Sprintf("Not enough data points for prediction of %q.", req.Identifier)
	case errors.Is(err, model.ErrFit):
		return fmt.Sprintf("The forecasting model could not be fitted on %q.", req.Identifier)
	case errors.Is(err, model.ErrEmptyForecast):
		return fmt.Sprintf("The forecast for %q has no dates in the display window.", req.Identifier)
	default:
		return fmt.Sprintf("Error: %v. Please enter a valid %s.", err, what)
	}
}
