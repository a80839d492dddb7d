package collector

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"PricePredictor/internal/model"
	"PricePredictor/internal/series"
)

// StaticFetcher returns fixed records, for development and testing.
type StaticFetcher struct {
	Records []model.RawRecord
	Err     error
	Calls   int
}

func (m *StaticFetcher) Name() string { return "static" }

func (m *StaticFetcher) Fetch(_ context.Context, _ string) ([]model.RawRecord, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Records, nil
}

// GenerateRecords produces count daily records ending on end: a gentle drift
// with a weekly and a yearly cycle around basePrice.
func GenerateRecords(basePrice float64, count int, end time.Time) []model.RawRecord {
	records := make([]model.RawRecord, count)
	for i := 0; i < count; i++ {
		t := end.AddDate(0, 0, -(count - 1 - i))
		p := basePrice * (1 + float64(i-count/2)*0.0004)
		p *= 1 + 0.02*math.Sin(2*math.Pi*float64(t.YearDay())/365.25)
		p *= 1 + 0.005*math.Sin(2*math.Pi*float64(t.Weekday())/7)
		records[i] = model.RawRecord{Date: t.Format("2006-01-02"), Value: formatFloat(math.Round(p*100) / 100)}
	}
	return records
}

// Collector routes a request to the provider for its asset kind and returns
// the normalized series.
type Collector struct {
	Stocks Fetcher
	Funds  Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(stocks, funds Fetcher) *Collector {
	return &Collector{Stocks: stocks, Funds: funds}
}

func (c *Collector) fetcherFor(kind model.AssetKind) (Fetcher, error) {
	switch kind {
	case model.KindStock:
		return c.Stocks, nil
	case model.KindMutualFund:
		return c.Funds, nil
	default:
		return nil, fmt.Errorf("unsupported asset kind %q", kind)
	}
}

// Collect fetches and normalizes the history for one request.
func (c *Collector) Collect(ctx context.Context, req model.Request) (model.Series, error) {
	id := strings.TrimSpace(req.Identifier)
	if id == "" {
		return model.Series{}, fmt.Errorf("%w: empty identifier", model.ErrNoData)
	}
	f, err := c.fetcherFor(req.Kind)
	if err != nil {
		return model.Series{}, err
	}

	records, err := f.Fetch(ctx, id)
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch %s from %s: %w", id, f.Name(), err)
	}
	points, err := series.Normalize(records)
	if err != nil {
		return model.Series{}, fmt.Errorf("normalize %s: %w", id, err)
	}

	log.Printf("[INFO] %s: %d raw records from %s, %d points after cleaning (%s .. %s)",
		id, len(records), f.Name(), len(points),
		points[0].Time.Format("2006-01-02"), points[len(points)-1].Time.Format("2006-01-02"))
	return model.Series{Symbol: id, Kind: req.Kind, Points: points}, nil
}
