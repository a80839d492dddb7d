package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"PricePredictor/internal/model"
)

// stockHistoryDays is the bar count matching StockHistoryRange.
const stockHistoryDays = 5 * 366

// BarsAPIFetcher implements Fetcher using a self-hosted daily bars REST API.
type BarsAPIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewBarsAPIFetcher creates a new fetcher with optional proxy support.
func NewBarsAPIFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *BarsAPIFetcher {
	return &BarsAPIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  NewHTTPClient(proxyURL, timeout),
	}
}

func (f *BarsAPIFetcher) Name() string { return "bars-api" }

// apiBar is the expected JSON shape from the bars API.
type apiBar struct {
	Timestamp int64    `json:"timestamp"`
	Close     *float64 `json:"close"`
}

func (f *BarsAPIFetcher) Fetch(ctx context.Context, symbol string) ([]model.RawRecord, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d",
		f.BaseURL, url.QueryEscape(symbol), stockHistoryDays)

	var header http.Header
	if f.APIKey != "" {
		header = http.Header{"Authorization": []string{"Bearer " + f.APIKey}}
	}
	body, status, err := get(ctx, f.Client, endpoint, header)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: bars api: unknown symbol %q", model.ErrNoData, symbol)
	}
	if status != http.StatusOK {
		return nil, statusError("bars api", status, body)
	}

	var bars []apiBar
	if err := json.Unmarshal(body, &bars); err != nil {
		return nil, fmt.Errorf("%w: decode bars: %v", model.ErrParse, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: bars api returned no bars for %q", model.ErrNoData, symbol)
	}

	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp < bars[j].Timestamp })
	records := make([]model.RawRecord, len(bars))
	for i, b := range bars {
		rec := model.RawRecord{Date: time.Unix(b.Timestamp, 0).UTC().Format("2006-01-02")}
		if b.Close != nil {
			rec.Value = formatFloat(*b.Close)
		}
		records[i] = rec
	}
	return records, nil
}
