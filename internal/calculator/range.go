package calculator

import (
	"errors"
	"math"
	"time"

	"PricePredictor/internal/model"
)

// Calculate52WeekRange returns the high and low over the 52 weeks up to the
// last point.
func Calculate52WeekRange(points []model.Point) (high, low float64, err error) {
	if len(points) == 0 {
		return 0, 0, errors.New("no points provided")
	}
	from := points[len(points)-1].Time.AddDate(0, 0, -364)
	return rangeSince(points, from)
}

func rangeSince(points []model.Point, from time.Time) (high, low float64, err error) {
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range points {
		if p.Time.Before(from) {
			continue
		}
		if p.Value > high {
			high = p.Value
		}
		if p.Value < low {
			low = p.Value
		}
	}
	if math.IsInf(high, 0) {
		return 0, 0, errors.New("no points in range")
	}
	return high, low, nil
}

// Calculate52WeekPosition returns where the current price sits within the 52-week range (0.0~1.0).
func Calculate52WeekPosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
