package forecast

import (
	"fmt"
	"math"
	"time"

	"PricePredictor/internal/holiday"
	"PricePredictor/internal/model"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const day = 24 * time.Hour

// seasonality is one Fourier-series component.
type seasonality struct {
	name   string
	period float64 // days
	order  int
}

// Model is a fitted decomposable model:
//
//	y(t) = g(t) · (1 + s(t) + h(t))   multiplicative
//	y(t) = g(t) + s(t) + h(t)         additive
//
// where g is a piecewise-linear trend, s the Fourier seasonal terms and h the
// holiday indicators.
type Model struct {
	cfg Config
	cal *holiday.Calendar

	start    time.Time
	spanDays float64
	yScale   float64

	k, m   float64
	cps    []float64 // changepoint locations in scaled time
	deltas []float64

	seasons  []seasonality
	holidays []string
	beta     []float64 // seasonal columns first, then one per holiday

	sigma     float64 // in-sample residual sd, original units
	meanDelta float64 // mean absolute rate change, scaled units
	z         float64
}

// Fit estimates the model on a canonical series.
func Fit(cfg Config, cal *holiday.Calendar, points []model.Point) (*Model, error) {
	n := len(points)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points to fit, got %d", model.ErrInsufficientData, n)
	}

	m := &Model{
		cfg:   cfg,
		cal:   cal,
		start: points[0].Time,
		z:     distuv.UnitNormal.Quantile(0.5 + cfg.IntervalWidth/2),
	}
	m.spanDays = points[n-1].Time.Sub(m.start).Hours() / 24
	if m.spanDays <= 0 {
		return nil, fmt.Errorf("%w: series spans no time", model.ErrFit)
	}

	ts := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range points {
		ts[i] = m.scaledTime(p.Time)
		if a := math.Abs(p.Value); a > m.yScale {
			m.yScale = a
		}
	}
	if m.yScale == 0 {
		m.yScale = 1
	}
	for i, p := range points {
		ys[i] = p.Value / m.yScale
	}

	if err := m.fitTrend(ts, ys); err != nil {
		return nil, err
	}
	if err := m.fitSeasonal(points, ts, ys); err != nil {
		return nil, err
	}

	resid := make([]float64, n)
	for i, p := range points {
		yhat, _, _ := m.predict(p.Time)
		resid[i] = p.Value - yhat
	}
	var ss float64
	for _, r := range resid {
		ss += r * r
	}
	m.sigma = math.Sqrt(ss / math.Max(float64(n-1), 1))
	if !finite(m.sigma) {
		return nil, fmt.Errorf("%w: residual scale is not finite", model.ErrFit)
	}

	if len(m.deltas) > 0 {
		abs := make([]float64, len(m.deltas))
		for i, d := range m.deltas {
			abs[i] = math.Abs(d)
		}
		m.meanDelta = stat.Mean(abs, nil)
	}
	return m, nil
}

// fitTrend solves for the base rate, offset and changepoint deltas.
func (m *Model) fitTrend(ts, ys []float64) error {
	n := len(ts)
	m.cps = changepoints(ts, m.cfg.NChangepoints, m.cfg.ChangepointRange)

	p := 2 + len(m.cps)
	rows := make([][]float64, n)
	for i, t := range ts {
		row := make([]float64, p)
		row[0] = 1
		row[1] = t
		for j, s := range m.cps {
			row[2+j] = math.Max(t-s, 0)
		}
		rows[i] = row
	}

	tau := m.cfg.ChangepointPriorScale
	penalty := make([]float64, p)
	penalty[0] = 1e-9 * float64(n)
	penalty[1] = 1e-9 * float64(n)
	for j := 2; j < p; j++ {
		penalty[j] = 1e-3 * float64(n) / (tau * tau)
	}

	beta, err := ridge(rows, ys, penalty)
	if err != nil {
		return fmt.Errorf("trend: %w", err)
	}
	m.m, m.k, m.deltas = beta[0], beta[1], beta[2:]
	return nil
}

// fitSeasonal regresses what the trend leaves on the seasonal and holiday
// columns.
func (m *Model) fitSeasonal(points []model.Point, ts, ys []float64) error {
	if m.cfg.YearlySeasonality && m.cfg.YearlyOrder > 0 {
		m.seasons = append(m.seasons, seasonality{"yearly", 365.25, m.cfg.YearlyOrder})
	}
	if m.cfg.WeeklySeasonality && m.cfg.WeeklyOrder > 0 {
		m.seasons = append(m.seasons, seasonality{"weekly", 7, m.cfg.WeeklyOrder})
	}
	if m.cfg.DailySeasonality && m.cfg.DailyOrder > 0 {
		m.seasons = append(m.seasons, seasonality{"daily", 1, m.cfg.DailyOrder})
	}

	// Only holidays seen in history can be estimated.
	seen := make(map[string]bool)
	for _, p := range points {
		for _, name := range m.cal.On(p.Time) {
			if !seen[name] {
				seen[name] = true
				m.holidays = append(m.holidays, name)
			}
		}
	}

	nSeason := m.seasonalColumns()
	p := nSeason + len(m.holidays)
	if p == 0 {
		return nil
	}

	n := len(points)
	target := make([]float64, n)
	rows := make([][]float64, n)
	for i, pt := range points {
		g := m.trend(ts[i])
		if m.cfg.SeasonalityMode == Multiplicative {
			if g <= 1e-9 {
				return fmt.Errorf("%w: trend is not positive at %s, multiplicative seasonality is undefined",
					model.ErrFit, pt.Time.Format("2006-01-02"))
			}
			target[i] = ys[i]/g - 1
		} else {
			target[i] = ys[i] - g
		}
		rows[i] = m.features(pt.Time)
	}

	penalty := make([]float64, p)
	sp, hp := m.cfg.SeasonalityPriorScale, m.cfg.HolidaysPriorScale
	for j := range penalty {
		scale := sp
		if j >= nSeason {
			scale = hp
		}
		penalty[j] = 1e-9*float64(n) + 0.01*float64(n)/(scale*scale)
	}

	beta, err := ridge(rows, target, penalty)
	if err != nil {
		return fmt.Errorf("seasonality: %w", err)
	}
	m.beta = beta
	return nil
}

func (m *Model) seasonalColumns() int {
	c := 0
	for _, s := range m.seasons {
		c += 2 * s.order
	}
	return c
}

func (m *Model) scaledTime(t time.Time) float64 {
	return t.Sub(m.start).Hours() / 24 / m.spanDays
}

func (m *Model) trend(ts float64) float64 {
	g := m.m + m.k*ts
	for j, s := range m.cps {
		if ts > s {
			g += m.deltas[j] * (ts - s)
		}
	}
	return g
}

// features builds one row of seasonal and holiday columns for t.
func (m *Model) features(t time.Time) []float64 {
	row := make([]float64, 0, m.seasonalColumns()+len(m.holidays))
	d := float64(t.Unix()) / 86400
	for _, s := range m.seasons {
		for k := 1; k <= s.order; k++ {
			arg := 2 * math.Pi * float64(k) * d / s.period
			row = append(row, math.Sin(arg), math.Cos(arg))
		}
	}
	if len(m.holidays) > 0 {
		on := m.cal.On(t)
		for _, name := range m.holidays {
			v := 0.0
			for _, o := range on {
				if o == name {
					v = 1
					break
				}
			}
			row = append(row, v)
		}
	}
	return row
}

// terms splits the seasonal contribution at t per component name.
func (m *Model) terms(t time.Time) map[string]float64 {
	out := make(map[string]float64, len(m.seasons)+1)
	if len(m.beta) == 0 {
		return out
	}
	f := m.features(t)
	col := 0
	for _, s := range m.seasons {
		var sum float64
		for j := 0; j < 2*s.order; j++ {
			sum += m.beta[col] * f[col]
			col++
		}
		out[s.name] = sum
	}
	if len(m.holidays) > 0 {
		var sum float64
		for ; col < len(f); col++ {
			sum += m.beta[col] * f[col]
		}
		out["holidays"] = sum
	}
	return out
}

// predict returns the point estimate and its interval at t.
func (m *Model) predict(t time.Time) (yhat, lower, upper float64) {
	ts := m.scaledTime(t)
	g := m.trend(ts)
	var extra float64
	for _, v := range m.terms(t) {
		extra += v
	}

	var trendSD float64
	if ts > 1 {
		trendSD = m.meanDelta * (ts - 1)
	}
	if m.cfg.SeasonalityMode == Multiplicative {
		yhat = g * (1 + extra) * m.yScale
		trendSD *= math.Abs(1+extra) * m.yScale
	} else {
		yhat = (g + extra) * m.yScale
		trendSD *= m.yScale
	}

	half := m.z * math.Sqrt(m.sigma*m.sigma+trendSD*trendSD)
	return yhat, yhat - half, yhat + half
}

// Predict evaluates the model on the given dates.
func (m *Model) Predict(dates []time.Time) ([]model.ForecastRow, error) {
	rows := make([]model.ForecastRow, len(dates))
	for i, t := range dates {
		yhat, lo, hi := m.predict(t)
		if !finite(yhat) || !finite(lo) || !finite(hi) {
			return nil, fmt.Errorf("%w: non-finite prediction at %s", model.ErrFit, t.Format("2006-01-02"))
		}
		rows[i] = model.ForecastRow{Time: t, Yhat: yhat, YhatLower: lo, YhatUpper: hi}
	}
	return rows, nil
}

// Name implements model.FittedModel.
func (m *Model) Name() string {
	return fmt.Sprintf("piecewise-linear trend, %s seasonality, %d changepoints, %d holidays",
		m.cfg.SeasonalityMode, len(m.cps), len(m.holidays))
}

// Components implements model.FittedModel. The trend is in series units, the
// other components are fractions of trend in multiplicative mode.
func (m *Model) Components(t time.Time) map[string]float64 {
	out := m.terms(t)
	if m.cfg.SeasonalityMode == Additive {
		for k, v := range out {
			out[k] = v * m.yScale
		}
	}
	out["trend"] = m.trend(m.scaledTime(t)) * m.yScale
	return out
}

// Sigma is the in-sample residual standard deviation.
func (m *Model) Sigma() float64 { return m.sigma }

// changepoints places up to count candidates evenly over the first rng share
// of the history.
func changepoints(ts []float64, count int, rng float64) []float64 {
	hist := int(math.Floor(float64(len(ts)) * rng))
	if count > hist-1 {
		count = hist - 1
	}
	if count <= 0 {
		return nil
	}
	cps := make([]float64, 0, count)
	for i := 1; i <= count; i++ {
		idx := int(math.Round(float64(i) * float64(hist-1) / float64(count)))
		cps = append(cps, ts[idx])
	}
	return cps
}

// ridge solves (XᵀX + diag(penalty))β = Xᵀy by Cholesky factorization.
func ridge(rows [][]float64, y []float64, penalty []float64) ([]float64, error) {
	n, p := len(rows), len(penalty)
	x := mat.NewDense(n, p, nil)
	for i, r := range rows {
		x.SetRow(i, r)
	}

	var xtx mat.SymDense
	xtx.SymOuterK(1, x.T())
	for j := 0; j < p; j++ {
		xtx.SetSym(j, j, xtx.At(j, j)+penalty[j])
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, fmt.Errorf("%w: normal equations are not positive definite", model.ErrFit)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), mat.NewVecDense(n, y))

	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFit, err)
	}

	out := make([]float64, p)
	for j := range out {
		out[j] = beta.AtVec(j)
		if !finite(out[j]) {
			return nil, fmt.Errorf("%w: coefficient %d did not converge", model.ErrFit, j)
		}
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
