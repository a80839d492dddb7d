package notifier

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"PricePredictor/internal/model"
	"PricePredictor/internal/presenter"
)

// RowsPerPage bounds the table rows in one message so a page stays under
// MaxMessageLen.
const RowsPerPage = 31

// MaxTablePages caps the table messages of one reply to stay inside the
// per-chat rate limit. It holds a default 90-day horizon in full.
const MaxTablePages = 4

// FormatReport renders a forecast report as a header message followed by
// table pages.
func FormatReport(r *model.Report) []string {
	var b strings.Builder
	id := html.EscapeString(r.Request.Identifier)
	kind := r.Request.Kind.Label()

	b.WriteString(fmt.Sprintf("📊 <b>%s forecast | %s</b>\n\n", kind, id))
	b.WriteString(fmt.Sprintf("Live %s price: <b>%s</b> (%s)\n",
		strings.ToLower(kind), presenter.FormatPrice(r.Summary.LatestPrice), r.Summary.LatestDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("52w range: %s to %s (at %.0f%%)\n",
		presenter.FormatPrice(r.Summary.Low52w), presenter.FormatPrice(r.Summary.High52w), r.Summary.Position52w*100))
	if r.Summary.SMA200 > 0 {
		dev := (r.Summary.LatestPrice - r.Summary.SMA200) / r.Summary.SMA200 * 100
		b.WriteString(fmt.Sprintf("SMA200: %s (%+.1f%%)\n", presenter.FormatPrice(r.Summary.SMA200), dev))
	}
	b.WriteString(fmt.Sprintf("\nPredicted prices from %d: %d rows, %d beyond the last close (%d history points).\n",
		r.CutoffYear, len(r.Rows), futureRows(r), r.Points))

	rows := r.Rows
	if limit := MaxTablePages * RowsPerPage; len(rows) > limit {
		rows = rows[len(rows)-limit:]
		b.WriteString(fmt.Sprintf("Showing the last %d of %d rows. Use the forecast CLI with --output csv for the full table.\n",
			limit, len(r.Rows)))
	}

	pages := []string{b.String()}
	for start := 0; start < len(rows); start += RowsPerPage {
		end := start + RowsPerPage
		if end > len(rows) {
			end = len(rows)
		}
		pages = append(pages, formatTablePage(rows[start:end]))
	}
	return pages
}

func futureRows(r *model.Report) int {
	n := 0
	for _, row := range r.Rows {
		if row.Time.After(r.Chart.HistoryEnd) {
			n++
		}
	}
	return n
}

func formatTablePage(rows []model.ForecastRow) string {
	var buf bytes.Buffer
	if err := presenter.WriteTable(&buf, rows); err != nil {
		return fmt.Sprintf("⚠️ table rendering failed: %s", html.EscapeString(err.Error()))
	}
	return "<pre>" + html.EscapeString(buf.String()) + "</pre>"
}

// FormatError renders a pipeline failure message.
func FormatError(msg string) string {
	return "❌ " + html.EscapeString(msg)
}

// FormatHelp lists the bot commands.
func FormatHelp(defaultStock, defaultFund string) string {
	var b strings.Builder
	b.WriteString("📈 <b>Stock &amp; Mutual Fund Price Predictor</b>\n\n")
	b.WriteString("Available commands:\n")
	b.WriteString(fmt.Sprintf("• /stock &lt;ticker&gt; (default %s)\n", html.EscapeString(defaultStock)))
	b.WriteString(fmt.Sprintf("• /fund &lt;code&gt; (default %s)\n", html.EscapeString(defaultFund)))
	b.WriteString("• /forecast &lt;stock|mf&gt; &lt;id&gt;\n")
	b.WriteString("• /about\n")
	return b.String()
}

// FormatAbout is the disclaimer.
func FormatAbout() string {
	return "ℹ️ <b>About</b>\n\n" +
		"Forecasts come from a decomposable time-series model (trend, yearly and weekly seasonality, market holidays) " +
		"fitted on historical prices.\n\n" +
		"• Predictions are based on historical data and may not reflect future outcomes. Past performance is not indicative of future results.\n" +
		"• Stock and mutual fund investments carry inherent risks.\n" +
		"• For informational purposes only. This is not financial advice."
}
