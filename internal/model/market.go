package model

import (
	"fmt"
	"strings"
	"time"
)

// AssetKind selects which provider serves an identifier.
type AssetKind string

const (
	KindStock      AssetKind = "stock"
	KindMutualFund AssetKind = "mutual_fund"
)

// ParseAssetKind accepts the canonical kinds and the short aliases users type.
func ParseAssetKind(s string) (AssetKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stock", "equity", "s":
		return KindStock, nil
	case "mutual_fund", "mutual-fund", "mf", "fund", "f":
		return KindMutualFund, nil
	default:
		return "", fmt.Errorf("unknown asset kind %q (want stock or mf)", s)
	}
}

// Label is the human name used in replies.
func (k AssetKind) Label() string {
	if k == KindMutualFund {
		return "Mutual Fund"
	}
	return "Stock"
}

// RawRecord is a provider row before normalization. Both fields are kept as
// text so that coercion failures surface in one place.
type RawRecord struct {
	Date  string
	Value string
}

// Point is one observation of a canonical series. Time is a UTC midnight.
type Point struct {
	Time  time.Time `json:"ds"`
	Value float64   `json:"y"`
}

// Series is the cleaned input of the forecast engine.
type Series struct {
	Symbol string
	Kind   AssetKind
	Points []Point
}

// Last returns the most recent point. Callers guarantee a non-empty series.
func (s *Series) Last() Point {
	return s.Points[len(s.Points)-1]
}

// Values extracts the value column.
func (s *Series) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Value
	}
	return vals
}

// SeriesSummary is the context printed above a forecast table.
type SeriesSummary struct {
	LatestPrice float64
	LatestDate  time.Time
	SMA200      float64 // 0 when fewer than 200 points
	High52w     float64
	Low52w      float64
	Position52w float64 // 0.0 ~ 1.0
}
