package model

import "errors"

// Pipeline failure taxonomy. Components wrap these with fmt.Errorf("%w: ...").
var (
	ErrNetwork          = errors.New("network error")
	ErrNoData           = errors.New("no data")
	ErrParse            = errors.New("parse error")
	ErrInsufficientData = errors.New("insufficient data")
	ErrFit              = errors.New("fit error")
	ErrEmptyForecast    = errors.New("empty forecast")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrNetwork, "NetworkError"},
	{ErrNoData, "NoDataError"},
	{ErrParse, "ParseError"},
	{ErrInsufficientData, "InsufficientDataError"},
	{ErrFit, "FitError"},
	{ErrEmptyForecast, "EmptyForecastError"},
}

// ErrorKind names the taxonomy member err belongs to, "" for nil and
// "UnknownError" for anything outside the taxonomy.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "UnknownError"
}
