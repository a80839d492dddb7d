// Package series turns provider records into the canonical series the
// forecast engine consumes.
package series

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"PricePredictor/internal/model"

	"github.com/shopspring/decimal"
)

// MinPoints is the shortest series a forecast can be fitted on.
const MinPoints = 2

// Bounds on a provider value before it is converted to float64. The exponent
// bounds keep the result finite and normal.
const (
	maxValueLen     = 64
	maxDecimalExp10 = 308
	minDecimalExp10 = -307
)

// CanonicalLayout is the date format Records emits.
const CanonicalLayout = "2006-01-02"

var dateLayouts = []string{
	CanonicalLayout,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02-Jan-2006",
	"02-01-2006",
	"2006/01/02",
	"20060102",
}

// Normalize parses, cleans and orders raw records. Rows whose date or value
// cannot be parsed are dropped. When a date appears more than once the last
// occurrence wins.
func Normalize(records []model.RawRecord) ([]model.Point, error) {
	byDate := make(map[time.Time]float64, len(records))
	for _, r := range records {
		t, ok := ParseDate(r.Date)
		if !ok {
			continue
		}
		v, ok := ParseValue(r.Value)
		if !ok {
			continue
		}
		byDate[t] = v
	}

	if len(byDate) < MinPoints {
		return nil, fmt.Errorf("%w: %d valid rows out of %d, need at least %d",
			model.ErrInsufficientData, len(byDate), len(records), MinPoints)
	}

	points := make([]model.Point, 0, len(byDate))
	for t, v := range byDate {
		points = append(points, model.Point{Time: t, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })
	return points, nil
}

// ParseDate reads a provider date and truncates it to a UTC calendar day.
// Any zone information is discarded rather than converted.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// ParseValue coerces a provider value to a float. Thousands separators are
// accepted; NaN, infinities, values outside the float64 range and empty
// strings are not.
func ParseValue(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || len(s) > maxValueLen {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	if d.IsZero() {
		return 0, true
	}
	// Magnitude is about 10^(exponent + digits - 1).
	mag := int64(d.Exponent()) + int64(d.NumDigits()) - 1
	if mag > maxDecimalExp10 || mag < minDecimalExp10 {
		return 0, false
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// Records renders points back to canonical raw records.
func Records(points []model.Point) []model.RawRecord {
	out := make([]model.RawRecord, len(points))
	for i, p := range points {
		out[i] = model.RawRecord{
			Date:  p.Time.Format(CanonicalLayout),
			Value: strconv.FormatFloat(p.Value, 'f', -1, 64),
		}
	}
	return out
}
