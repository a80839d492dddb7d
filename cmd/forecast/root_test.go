package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"PricePredictor/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestForecast_OfflineCSV(t *testing.T) {
	out, _, err := execute(t, "--offline", "--output", "csv", "--horizon", "30", "--cutoff-year", "1900", "stock", "tcs.ns")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"ds", "yhat", "yhat_lower", "yhat_upper"}, records[0])
	// three years of history plus the horizon
	assert.Len(t, records, 1+3*365+30)
}

func TestForecast_OfflineJSON(t *testing.T) {
	out, _, err := execute(t, "--offline", "-o", "json", "--cutoff-year", "1900", "mf", "HDFC.MF")
	require.NoError(t, err)

	var got struct {
		Kind       model.AssetKind     `json:"kind"`
		Identifier string              `json:"identifier"`
		Forecast   []model.ForecastRow `json:"forecast"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, model.KindMutualFund, got.Kind)
	assert.Equal(t, "HDFC.MF", got.Identifier)
	assert.Len(t, got.Forecast, 3*365+90)
}

func TestForecast_OfflineTable(t *testing.T) {
	out, _, err := execute(t, "--offline", "--cutoff-year", "1900", "stock", "TCS.NS")
	require.NoError(t, err)
	assert.Contains(t, out, "Stock forecast | TCS.NS")
	assert.Contains(t, strings.ToLower(out), "yhat")
}

func TestForecast_EmptyWindowIsReported(t *testing.T) {
	_, stderr, err := execute(t, "--offline", "--cutoff-year", "3000", "stock", "TCS.NS")
	require.ErrorIs(t, err, model.ErrEmptyForecast)
	assert.Contains(t, stderr, "no dates in the display window")
}

func TestForecast_BadArguments(t *testing.T) {
	_, stderr, err := execute(t, "bond", "X")
	require.Error(t, err)
	assert.Contains(t, stderr, "unknown asset kind")

	_, _, err = execute(t, "--offline", "-o", "xml", "stock", "X")
	require.Error(t, err)

	_, _, err = execute(t, "stock")
	require.Error(t, err)
}
