package payoff

import (
	"sync"

	"options-strategist/internal/models"
)

// AnalyzerConfig holds tuning for the Analyzer.
type AnalyzerConfig struct {
	// Samples is the even-grid sample count per curve.
	Samples int
	// SpanFactor sizes the base domain as a fraction of spot on each side.
	SpanFactor float64
	// MarginFactor pads the domain by a fraction of the strike range.
	MarginFactor float64
	// ChanceWindow is the spot fraction at which touch chance reaches zero.
	ChanceWindow float64
	// CacheLimit caps the number of memoized curves.
	CacheLimit int
}

// DefaultAnalyzerConfig returns the default analyzer configuration.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Samples:      DefaultSamples,
		SpanFactor:   DefaultSpanFactor,
		MarginFactor: DefaultMarginFactor,
		ChanceWindow: DefaultChanceWindow,
		CacheLimit:   128,
	}
}

// Analyzer runs full strategy analyses and memoizes sampled curves keyed
// by (leg set, domain). Hosts that recompute on every spot tick or hover
// reuse the cached curve and pay only the per-leg evaluation cost for
// point readouts. Safe for concurrent use. Cached curves are shared with
// callers and must be treated as read-only.
type Analyzer struct {
	config    AnalyzerConfig
	estimator ChanceEstimator

	mu    sync.RWMutex
	cache map[curveKey]models.Curve
}

type curveKey struct {
	legs    string
	low     float64
	high    float64
	samples int
}

// NewAnalyzer creates an analyzer with default configuration.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(DefaultAnalyzerConfig())
}

// NewAnalyzerWithConfig creates an analyzer with custom configuration.
// Out-of-range fields fall back to their defaults.
func NewAnalyzerWithConfig(config AnalyzerConfig) *Analyzer {
	if config.Samples < 2 {
		config.Samples = DefaultSamples
	}
	if config.SpanFactor <= 0 {
		config.SpanFactor = DefaultSpanFactor
	}
	if config.MarginFactor < 0 {
		config.MarginFactor = DefaultMarginFactor
	}
	if config.ChanceWindow <= 0 {
		config.ChanceWindow = DefaultChanceWindow
	}
	if config.CacheLimit <= 0 {
		config.CacheLimit = DefaultAnalyzerConfig().CacheLimit
	}
	return &Analyzer{
		config:    config,
		estimator: NewLinearDistance(config.ChanceWindow),
		cache:     make(map[curveKey]models.Curve),
	}
}

// SetEstimator swaps the touch-chance estimator. Call before serving
// readouts.
func (a *Analyzer) SetEstimator(est ChanceEstimator) {
	if est != nil {
		a.estimator = est
	}
}

// Config returns the analyzer's effective configuration.
func (a *Analyzer) Config() AnalyzerConfig {
	return a.config
}

// Analyze computes the full result set for a strategy at a spot price:
// domain, sampled curve, breakevens, extrema, net cost and segments.
func (a *Analyzer) Analyze(ls models.LegSet, spot float64) (*models.Analysis, error) {
	if err := ls.Validate(); err != nil {
		return nil, err
	}

	domain, err := DeriveDomainWith(ls, spot, a.config.SpanFactor, a.config.MarginFactor)
	if err != nil {
		return nil, err
	}

	curve, err := a.curveFor(ls, domain)
	if err != nil {
		return nil, err
	}

	maxProfit, maxLoss := Extrema(ls)

	return &models.Analysis{
		Legs:       ls,
		Spot:       spot,
		Domain:     [2]float64{domain.Low, domain.High},
		Samples:    curve,
		Breakevens: Breakevens(ls, curve),
		MaxProfit:  maxProfit,
		MaxLoss:    maxLoss,
		NetCost:    ls.NetCost(),
		Segments:   SplitSegments(curve),
	}, nil
}

// curveFor returns the memoized curve for the set and domain, sampling it
// on first use.
func (a *Analyzer) curveFor(ls models.LegSet, domain Domain) (models.Curve, error) {
	key := curveKey{
		legs:    ls.Key(),
		low:     domain.Low,
		high:    domain.High,
		samples: a.config.Samples,
	}

	a.mu.RLock()
	curve, ok := a.cache[key]
	a.mu.RUnlock()
	if ok {
		return curve, nil
	}

	curve, err := Sample(ls, domain, a.config.Samples)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	if len(a.cache) >= a.config.CacheLimit {
		// Reset rather than evict; the map stays bounded.
		a.cache = make(map[curveKey]models.Curve)
	}
	a.cache[key] = curve
	a.mu.Unlock()

	return curve, nil
}

// ReadoutAt returns the P&L and touch chance at a single price without
// resampling the curve.
func (a *Analyzer) ReadoutAt(ls models.LegSet, spot, price float64) models.Readout {
	return models.Readout{
		Price:  price,
		PnL:    Evaluate(ls, price),
		Chance: a.estimator.Chance(spot, price),
	}
}

// Chance returns the estimator's touch chance for a price.
func (a *Analyzer) Chance(spot, price float64) float64 {
	return a.estimator.Chance(spot, price)
}

// CachedCurves returns the number of memoized curves.
func (a *Analyzer) CachedCurves() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.cache)
}

// Analyze runs a one-shot analysis with default settings.
func Analyze(ls models.LegSet, spot float64) (*models.Analysis, error) {
	return NewAnalyzer().Analyze(ls, spot)
}
