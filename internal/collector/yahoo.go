package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"PricePredictor/internal/model"
)

// StockHistoryRange is the window requested for equities.
const StockHistoryRange = "5y"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps user symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: "https://query1.finance.yahoo.com",
		Client:  NewHTTPClient(proxyURL, timeout),
		SymbolMap: map[string]string{
			"NIFTY":     "^NSEI",
			"NIFTY50":   "^NSEI",
			"SENSEX":    "^BSESN",
			"BANKNIFTY": "^NSEBANK",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[strings.ToUpper(symbol)]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				Currency  string `json:"currency"`
				GMTOffset int64  `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []interface{} `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// toValue renders a nullable JSON number as text; null becomes "" and is
// dropped during normalization.
func toValue(v interface{}) string {
	switch n := v.(type) {
	case float64:
		return formatFloat(n)
	case string:
		return n
	default:
		return ""
	}
}

// Fetch returns five years of daily (date, close) records.
func (f *YahooFetcher) Fetch(ctx context.Context, symbol string) ([]model.RawRecord, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), StockHistoryRange)

	body, status, err := get(ctx, f.Client, u, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: yahoo: unknown symbol %q", model.ErrNoData, symbol)
	}
	if status != http.StatusOK {
		return nil, statusError("yahoo", status, body)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("%w: yahoo decode: %v", model.ErrParse, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: yahoo api error: %s", model.ErrNoData, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("%w: yahoo returned an empty series for %q", model.ErrNoData, symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) != len(result.Timestamp) {
		return nil, fmt.Errorf("%w: yahoo: close column does not match %d timestamps", model.ErrParse, len(result.Timestamp))
	}
	closes := result.Indicators.Quote[0].Close

	// Shift into exchange time before taking the date, then drop the zone.
	records := make([]model.RawRecord, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		local := time.Unix(ts+result.Meta.GMTOffset, 0).UTC()
		records = append(records, model.RawRecord{
			Date:  local.Format("2006-01-02"),
			Value: toValue(closes[i]),
		})
	}
	return records, nil
}
