package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"PricePredictor/internal/model"
)

// Fixed NAV history window requested for mutual funds.
const (
	FundFromDate = "20200101"
	FundToDate   = "20231231"
)

// NSEFetcher implements Fetcher for mutual-fund NAV history.
type NSEFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewNSEFetcher creates a fund fetcher. An empty baseURL selects the public
// NSE endpoint.
func NewNSEFetcher(baseURL, proxyURL string, timeout time.Duration) *NSEFetcher {
	if baseURL == "" {
		baseURL = "https://www.nseindia.com"
	}
	return &NSEFetcher{
		BaseURL: baseURL,
		Client:  NewHTTPClient(proxyURL, timeout),
	}
}

func (f *NSEFetcher) Name() string { return "nse" }

type navRow struct {
	Date json.RawMessage `json:"date"`
	NAV  json.RawMessage `json:"nav"`
}

// Fetch returns the (date, nav) records of a scheme.
func (f *NSEFetcher) Fetch(ctx context.Context, code string) ([]model.RawRecord, error) {
	q := url.Values{}
	q.Set("schemeCode", code)
	q.Set("fromDate", FundFromDate)
	q.Set("toDate", FundToDate)
	endpoint := f.BaseURL + "/api/mf/owe/get-historical-data?" + q.Encode()

	body, status, err := get(ctx, f.Client, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("nse fetch: %w", err)
	}
	if status != http.StatusOK {
		return nil, statusError("nse", status, body)
	}

	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: nse decode: %v", model.ErrParse, err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: nse response has no data field", model.ErrParse)
	}
	if bytes.Equal(bytes.TrimSpace(resp.Data), []byte("null")) {
		return nil, fmt.Errorf("%w: no NAV history for scheme %q", model.ErrNoData, code)
	}
	var rows []navRow
	if err := json.Unmarshal(resp.Data, &rows); err != nil {
		return nil, fmt.Errorf("%w: nse data field: %v", model.ErrParse, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no NAV history for scheme %q", model.ErrNoData, code)
	}

	records := make([]model.RawRecord, len(rows))
	for i, row := range rows {
		records[i] = model.RawRecord{Date: rawText(row.Date), Value: rawText(row.NAV)}
	}
	return records, nil
}

// rawText reads a JSON scalar as text: strings are unquoted, numbers kept as
// written, anything else becomes "".
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		s, err := strconv.Unquote(string(raw))
		if err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	default:
		return ""
	}
}
