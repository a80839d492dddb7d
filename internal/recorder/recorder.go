package recorder

import (
	"time"

	"PricePredictor/internal/model"
)

// Run statuses.
const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// RunRecord holds the outcome of one forecast request.
type RunRecord struct {
	Kind        model.AssetKind
	Identifier  string
	Status      string
	ErrorKind   string // taxonomy name, empty on success
	ErrorMsg    string
	Points      int
	LatestPrice float64
	CutoffYear  int
	Elapsed     time.Duration
	Forecast    []model.ForecastRow
}

// Recorder keeps an audit trail of forecast requests.
type Recorder interface {
	RecordRun(run *RunRecord) error
	Close() error
}
