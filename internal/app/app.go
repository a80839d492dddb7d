// Package app assembles a forecast pipeline from configuration.
package app

import (
	"fmt"
	"log"
	"time"

	"PricePredictor/internal/collector"
	"PricePredictor/internal/config"
	"PricePredictor/internal/forecast"
	"PricePredictor/internal/holiday"
	"PricePredictor/internal/pipeline"
	"PricePredictor/internal/recorder"
)

// Offline base prices for the generated demo series.
const (
	offlineStockBase = 3500
	offlineFundBase  = 80
	offlineDays      = 3 * 365
)

// Options tweak the assembly.
type Options struct {
	// Offline swaps the providers for generated series ending at OfflineEnd.
	Offline    bool
	OfflineEnd time.Time
}

// App is an assembled pipeline plus the resources it owns.
type App struct {
	Pipeline *pipeline.Pipeline
	Recorder recorder.Recorder
}

// Build wires fetchers, holiday calendar, engine and recorder.
func Build(cfg *config.Config, opts Options) (*App, error) {
	stocks, funds := fetchers(cfg, opts)
	log.Printf("[INFO] data sources: stocks=%s funds=%s", stocks.Name(), funds.Name())

	cal, err := calendar(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] holiday calendar %s: %d holidays", cal.Country, len(cal.Holidays))

	engine, err := forecast.NewEngine(cfg.Forecast.Model, cal)
	if err != nil {
		return nil, fmt.Errorf("init forecast engine: %w", err)
	}

	rec := openRecorder(cfg.Database.SQLitePath)
	p := pipeline.New(collector.NewCollector(stocks, funds), engine, rec, pipeline.Options{
		Horizon:    cfg.Forecast.Horizon,
		CutoffYear: cfg.Forecast.CutoffYear,
	})
	return &App{Pipeline: p, Recorder: rec}, nil
}

// Close releases the recorder.
func (a *App) Close() error {
	return a.Recorder.Close()
}

func fetchers(cfg *config.Config, opts Options) (stocks, funds collector.Fetcher) {
	if opts.Offline {
		end := opts.OfflineEnd
		if end.IsZero() {
			now := time.Now().UTC()
			end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		}
		return &collector.StaticFetcher{Records: collector.GenerateRecords(offlineStockBase, offlineDays, end)},
			&collector.StaticFetcher{Records: collector.GenerateRecords(offlineFundBase, offlineDays, end)}
	}

	if cfg.DataSource.BaseURL != "" {
		stocks = collector.NewBarsAPIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.HTTPTimeout)
	} else {
		stocks = collector.NewYahooFetcher(cfg.Proxy, cfg.HTTPTimeout)
	}
	funds = collector.NewNSEFetcher(cfg.FundSource.BaseURL, cfg.Proxy, cfg.HTTPTimeout)
	return stocks, funds
}

func calendar(cfg *config.Config) (*holiday.Calendar, error) {
	if cfg.Forecast.HolidayFile != "" {
		cal, err := holiday.LoadFile(cfg.Forecast.HolidayFile, cfg.Forecast.HolidayYears)
		if err != nil {
			return nil, fmt.Errorf("load holiday file: %w", err)
		}
		return cal, nil
	}
	cal, err := holiday.ForCountry(cfg.Forecast.HolidayCountry, cfg.Forecast.HolidayYears)
	if err != nil {
		return nil, fmt.Errorf("load holiday calendar: %w", err)
	}
	return cal, nil
}

func openRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}
