package collector

import (
	"context"

	"PricePredictor/internal/model"
)

// Fetcher retrieves the raw history of one asset from one provider.
type Fetcher interface {
	Fetch(ctx context.Context, identifier string) ([]model.RawRecord, error)
	Name() string
}
