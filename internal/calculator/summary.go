package calculator

import (
	"log"

	"PricePredictor/internal/model"
)

// Summarize computes the context shown above a forecast. Failed
// sub-calculations fall back to the latest value and never fail the call.
func Summarize(s model.Series) model.SeriesSummary {
	last := s.Last()
	sum := model.SeriesSummary{LatestPrice: last.Value, LatestDate: last.Time}

	// SMA200
	if ma, err := CalculateSMA200(s.Points); err != nil {
		log.Printf("[WARN] %s: SMA200 unavailable: %v", s.Symbol, err)
	} else {
		sum.SMA200 = ma
	}

	// 52-week range
	if h, l, err := Calculate52WeekRange(s.Points); err != nil {
		log.Printf("[WARN] %s: 52-week range calculation failed: %v", s.Symbol, err)
		sum.High52w = last.Value
		sum.Low52w = last.Value
	} else {
		sum.High52w = h
		sum.Low52w = l
	}

	// 52-week position
	if pos, err := Calculate52WeekPosition(last.Value, sum.High52w, sum.Low52w); err != nil {
		log.Printf("[WARN] %s: 52-week position calculation failed: %v", s.Symbol, err)
		sum.Position52w = 0.5
	} else {
		sum.Position52w = pos
	}
	return sum
}
