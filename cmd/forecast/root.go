package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"PricePredictor/internal/app"
	"PricePredictor/internal/config"
	"PricePredictor/internal/model"
	"PricePredictor/internal/pipeline"
	"PricePredictor/internal/presenter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Output formats.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	errorColor = color.New(color.FgRed, color.Bold)
	dimColor   = color.New(color.FgHiBlack)
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "forecast <stock|mf> <identifier>",
		Short: "Forecast the price of a stock or mutual fund.",
		Long: `Fetches the price history of a stock ticker (e.g. TCS.NS) or mutual fund
code (e.g. HDFC.MF), fits a seasonal trend model and prints the predicted
prices from the cutoff year onwards.`,
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, args)
		},
	}

	flags := cmd.Flags()
	flags.String("config", "configs/config.yaml", "path to the YAML config file")
	flags.StringP("output", "o", outputTable, "output format: table, json or csv")
	flags.Int("horizon", 0, "days to forecast past the last observation (default from config)")
	flags.Int("cutoff-year", 0, "first calendar year shown (default from config)")
	flags.Bool("offline", false, "use a generated demo series instead of the live providers")

	v.SetEnvPrefix("PREDICTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		log.Fatalf("[FATAL] bind flags: %v", err)
	}
	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper, args []string) error {
	stderr := cmd.ErrOrStderr()

	kind, err := model.ParseAssetKind(args[0])
	if err != nil {
		errorColor.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	req := model.Request{Kind: kind, Identifier: strings.ToUpper(args[1])}

	output := strings.ToLower(v.GetString("output"))
	if output != outputTable && output != outputJSON && output != outputCSV {
		err := fmt.Errorf("unknown output format %q", output)
		errorColor.Fprintf(stderr, "Error: %v\n", err)
		return err
	}

	cfg, err := loadConfig(v)
	if err != nil {
		errorColor.Fprintf(stderr, "Error: %v\n", err)
		return err
	}

	a, err := app.Build(cfg, app.Options{Offline: v.GetBool("offline")})
	if err != nil {
		errorColor.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	defer a.Close()

	report, err := a.Pipeline.Run(context.Background(), req)
	if err != nil {
		errorColor.Fprintln(stderr, pipeline.UserMessage(req, err))
		return err
	}
	return render(cmd.OutOrStdout(), output, report)
}

// loadConfig reads the config file, then lets flags and PREDICTOR_* env vars
// override the forecast window.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.Load(v.GetString("config"))
	if err != nil {
		return nil, err
	}
	if h := v.GetInt("horizon"); h != 0 {
		cfg.Forecast.Horizon = h
	}
	if y := v.GetInt("cutoff-year"); y != 0 {
		cfg.Forecast.CutoffYear = y
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func render(w io.Writer, output string, r *model.Report) error {
	switch output {
	case outputJSON:
		return presenter.WriteJSON(w, r)
	case outputCSV:
		return presenter.WriteCSV(w, r.Rows)
	}

	titleColor.Fprintf(w, "%s forecast | %s\n", r.Request.Kind.Label(), r.Request.Identifier)
	fmt.Fprintf(w, "Live %s price: %s (%s)\n",
		strings.ToLower(r.Request.Kind.Label()), presenter.FormatPrice(r.Summary.LatestPrice), r.Summary.LatestDate.Format("2006-01-02"))
	fmt.Fprintf(w, "52w range: %s - %s\n", presenter.FormatPrice(r.Summary.Low52w), presenter.FormatPrice(r.Summary.High52w))
	if r.Summary.SMA200 > 0 {
		fmt.Fprintf(w, "SMA200: %s\n", presenter.FormatPrice(r.Summary.SMA200))
	}
	fmt.Fprintf(w, "Predicted prices from %d:\n", r.CutoffYear)
	if err := presenter.WriteTable(w, r.Rows); err != nil {
		return err
	}
	dimColor.Fprintf(w, "%d history points, %d rows, computed in %v\n",
		r.Points, len(r.Rows), r.Elapsed.Round(time.Millisecond))
	return nil
}
