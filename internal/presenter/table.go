package presenter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"PricePredictor/internal/model"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// TableHeader names the forecast columns.
var TableHeader = []string{"ds", "yhat", "yhat_lower", "yhat_upper"}

func rowStrings(r model.ForecastRow) []string {
	return []string{
		r.Time.Format("2006-01-02"),
		fmt.Sprintf("%.2f", r.Yhat),
		fmt.Sprintf("%.2f", r.YhatLower),
		fmt.Sprintf("%.2f", r.YhatUpper),
	}
}

// WriteTable renders rows as a right-aligned text table.
func WriteTable(w io.Writer, rows []model.ForecastRow) error {
	table := tablewriter.NewWriter(w)
	table.Header(TableHeader)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, rowStrings(r))
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteCSV renders rows as CSV with a header line.
func WriteCSV(w io.Writer, rows []model.ForecastRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TableHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(rowStrings(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// jsonReport is the machine-readable shape of a report.
type jsonReport struct {
	Kind        model.AssetKind     `json:"kind"`
	Identifier  string              `json:"identifier"`
	LatestPrice float64             `json:"latest_price"`
	LatestDate  string              `json:"latest_date"`
	CutoffYear  int                 `json:"cutoff_year"`
	Forecast    []model.ForecastRow `json:"forecast"`
	Chart       model.Chart         `json:"chart"`
}

// WriteJSON renders the whole report, chart included.
func WriteJSON(w io.Writer, r *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		Kind:        r.Request.Kind,
		Identifier:  r.Request.Identifier,
		LatestPrice: r.Summary.LatestPrice,
		LatestDate:  r.Summary.LatestDate.Format("2006-01-02"),
		CutoffYear:  r.CutoffYear,
		Forecast:    r.Rows,
		Chart:       r.Chart,
	})
}
