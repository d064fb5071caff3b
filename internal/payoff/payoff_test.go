package payoff

import (
	"errors"
	"math"
	"testing"

	apperrors "options-strategist/internal/errors"
	"options-strategist/internal/models"
)

const almostEqualTol = 1e-9

func mustLegSet(t *testing.T, legs ...models.Leg) models.LegSet {
	t.Helper()
	ls, err := models.NewLegSet(legs...)
	if err != nil {
		t.Fatalf("building leg set: %v", err)
	}
	return ls
}

func almostEqual(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= almostEqualTol*scale
}

func TestAnalyzeLongCall(t *testing.T) {
	ls := mustLegSet(t, models.NewOptionLeg(models.SideLong, models.InstrumentCall, 220, 37.875, 1))

	a, err := NewAnalyzer().Analyze(ls, 221.09)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !almostEqual(a.NetCost, 3787.5) {
		t.Errorf("NetCost = %v, want 3787.5", a.NetCost)
	}
	if a.IsCredit() {
		t.Error("long call should be a debit strategy")
	}
	if len(a.Breakevens) != 1 || !almostEqual(a.Breakevens[0], 257.875) {
		t.Errorf("Breakevens = %v, want [257.875]", a.Breakevens)
	}
	if !a.MaxProfit.Unbounded {
		t.Errorf("MaxProfit = %v, want unbounded", a.MaxProfit)
	}
	if a.MaxLoss.Unbounded || !almostEqual(a.MaxLoss.Value, 3787.5) {
		t.Errorf("MaxLoss = %v, want 3787.5", a.MaxLoss)
	}

	// Base domain, spot +/- 30%: the strike sits inside it.
	if !almostEqual(a.Domain[0], 221.09*0.7) || !almostEqual(a.Domain[1], 221.09*1.3) {
		t.Errorf("Domain = %v, want [%v, %v]", a.Domain, 221.09*0.7, 221.09*1.3)
	}

	// The strike must be sampled exactly, with the full premium lost there.
	found := false
	for _, pt := range a.Samples {
		if pt.Price == 220 {
			found = true
			if !almostEqual(pt.PnL, -3787.5) {
				t.Errorf("PnL at strike = %v, want -3787.5", pt.PnL)
			}
		}
	}
	if !found {
		t.Error("strike 220 not sampled")
	}
}

func TestAnalyzeBullCallSpread(t *testing.T) {
	ls := mustLegSet(t,
		models.NewOptionLeg(models.SideLong, models.InstrumentCall, 220, 13, 1),
		models.NewOptionLeg(models.SideShort, models.InstrumentCall, 240, 6, 1),
	)

	a, err := NewAnalyzer().Analyze(ls, 225)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !almostEqual(a.NetCost, 700) {
		t.Errorf("NetCost = %v, want 700", a.NetCost)
	}
	if len(a.Breakevens) != 1 || !almostEqual(a.Breakevens[0], 227) {
		t.Errorf("Breakevens = %v, want [227]", a.Breakevens)
	}
	if a.MaxProfit.Unbounded || !almostEqual(a.MaxProfit.Value, 1300) {
		t.Errorf("MaxProfit = %v, want 1300", a.MaxProfit)
	}
	if a.MaxLoss.Unbounded || !almostEqual(a.MaxLoss.Value, 700) {
		t.Errorf("MaxLoss = %v, want 700", a.MaxLoss)
	}

	// Flat beyond the short strike.
	if got := Evaluate(ls, 240); !almostEqual(got, 1300) {
		t.Errorf("Evaluate(240) = %v, want 1300", got)
	}
	if got := Evaluate(ls, 280); !almostEqual(got, 1300) {
		t.Errorf("Evaluate(280) = %v, want 1300", got)
	}

	// One crossing: a loss segment then a profit segment, meeting at the
	// breakeven on the axis.
	if len(a.Segments) != 2 {
		t.Fatalf("Segments = %d, want 2", len(a.Segments))
	}
	if a.Segments[0].Profit || !a.Segments[1].Profit {
		t.Errorf("segment flags = %v/%v, want loss then profit", a.Segments[0].Profit, a.Segments[1].Profit)
	}
	first := a.Segments[0].Points
	second := a.Segments[1].Points
	vertex := first[len(first)-1]
	if vertex != second[0] {
		t.Errorf("segments do not share the vertex: %v vs %v", vertex, second[0])
	}
	if !almostEqual(vertex.Price, 227) || vertex.PnL != 0 {
		t.Errorf("vertex = %v, want (227, 0)", vertex)
	}
}

func TestAnalyzeLongPut(t *testing.T) {
	ls := mustLegSet(t, models.NewOptionLeg(models.SideLong, models.InstrumentPut, 200, 26.5, 1))

	a, err := NewAnalyzer().Analyze(ls, 200)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if len(a.Breakevens) != 1 || !almostEqual(a.Breakevens[0], 173.5) {
		t.Errorf("Breakevens = %v, want [173.5]", a.Breakevens)
	}
	if a.MaxProfit.Unbounded || !almostEqual(a.MaxProfit.Value, 17350) {
		t.Errorf("MaxProfit = %v, want 17350", a.MaxProfit)
	}
	if a.MaxLoss.Unbounded || !almostEqual(a.MaxLoss.Value, 2650) {
		t.Errorf("MaxLoss = %v, want 2650", a.MaxLoss)
	}
	if got := Evaluate(ls, 0); !almostEqual(got, 17350) {
		t.Errorf("Evaluate(0) = %v, want 17350", got)
	}
}

func TestAnalyzeCoveredCall(t *testing.T) {
	ls := mustLegSet(t,
		models.NewStockLeg(models.SideLong, 221.09, 100),
		models.NewOptionLeg(models.SideShort, models.InstrumentCall, 240, 6, 1),
	)

	a, err := NewAnalyzer().Analyze(ls, 221.09)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	// Entering costs the stock basis less the call premium received.
	if !almostEqual(a.NetCost, 221.09*100-600) {
		t.Errorf("NetCost = %v, want %v", a.NetCost, 221.09*100-600)
	}
	if a.IsCredit() {
		t.Error("covered call should report a net debit")
	}

	// Upside capped at the short strike, downside rides the stock to zero.
	if a.MaxProfit.Unbounded || !almostEqual(a.MaxProfit.Value, (240-221.09)*100+600) {
		t.Errorf("MaxProfit = %v, want %v", a.MaxProfit, (240-221.09)*100+600)
	}
	if a.MaxLoss.Unbounded || !almostEqual(a.MaxLoss.Value, 221.09*100-600) {
		t.Errorf("MaxLoss = %v, want %v", a.MaxLoss, 221.09*100-600)
	}

	// Mixed instruments have no closed form; the curve scan still finds the
	// exact crossing because the payoff is linear below the strike.
	if len(a.Breakevens) != 1 || !almostEqual(a.Breakevens[0], 215.09) {
		t.Errorf("Breakevens = %v, want [215.09]", a.Breakevens)
	}
}

func TestAnalyzeIronCondor(t *testing.T) {
	ls := mustLegSet(t,
		models.NewOptionLeg(models.SideLong, models.InstrumentPut, 420, 2.5, 1),
		models.NewOptionLeg(models.SideShort, models.InstrumentPut, 430, 4, 1),
		models.NewOptionLeg(models.SideShort, models.InstrumentCall, 470, 3.5, 1),
		models.NewOptionLeg(models.SideLong, models.InstrumentCall, 480, 2, 1),
	)

	a, err := NewAnalyzer().Analyze(ls, 450)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if !almostEqual(a.NetCost, -300) {
		t.Errorf("NetCost = %v, want -300", a.NetCost)
	}
	if !a.IsCredit() {
		t.Error("iron condor should report a net credit")
	}
	if a.MaxProfit.Unbounded || !almostEqual(a.MaxProfit.Value, 300) {
		t.Errorf("MaxProfit = %v, want 300", a.MaxProfit)
	}
	if a.MaxLoss.Unbounded || !almostEqual(a.MaxLoss.Value, 700) {
		t.Errorf("MaxLoss = %v, want 700", a.MaxLoss)
	}

	if len(a.Breakevens) != 2 {
		t.Fatalf("Breakevens = %v, want two", a.Breakevens)
	}
	if !almostEqual(a.Breakevens[0], 427) || !almostEqual(a.Breakevens[1], 473) {
		t.Errorf("Breakevens = %v, want [427, 473]", a.Breakevens)
	}

	// loss / profit / loss
	if len(a.Segments) != 3 {
		t.Fatalf("Segments = %d, want 3", len(a.Segments))
	}
	wantFlags := []bool{false, true, false}
	for i, seg := range a.Segments {
		if seg.Profit != wantFlags[i] {
			t.Errorf("segment %d profit = %v, want %v", i, seg.Profit, wantFlags[i])
		}
	}
}

func TestAnalyzeRejectsBadInput(t *testing.T) {
	ls := mustLegSet(t, models.NewOptionLeg(models.SideLong, models.InstrumentCall, 220, 13, 1))

	if _, err := NewAnalyzer().Analyze(models.LegSet{}, 100); !errors.Is(err, apperrors.ErrEmptyLegSet) {
		t.Errorf("empty set error = %v, want ErrEmptyLegSet", err)
	}
	if _, err := NewAnalyzer().Analyze(ls, 0); !errors.Is(err, apperrors.ErrInvalidSpot) {
		t.Errorf("zero spot error = %v, want ErrInvalidSpot", err)
	}
	if _, err := NewAnalyzer().Analyze(ls, -5); !errors.Is(err, apperrors.ErrInvalidSpot) {
		t.Errorf("negative spot error = %v, want ErrInvalidSpot", err)
	}
	if _, err := NewAnalyzer().Analyze(ls, math.NaN()); !errors.Is(err, apperrors.ErrInvalidSpot) {
		t.Errorf("NaN spot error = %v, want ErrInvalidSpot", err)
	}
}

func TestDeriveDomain(t *testing.T) {
	t.Run("base span without strikes", func(t *testing.T) {
		ls := mustLegSet(t, models.NewStockLeg(models.SideLong, 100, 100))
		d, err := DeriveDomain(ls, 100)
		if err != nil {
			t.Fatalf("DeriveDomain: %v", err)
		}
		if !almostEqual(d.Low, 70) || !almostEqual(d.High, 130) {
			t.Errorf("domain = %v, want [70, 130]", d)
		}
	})

	t.Run("far strike stretches the window", func(t *testing.T) {
		ls := mustLegSet(t, models.NewOptionLeg(models.SideLong, models.InstrumentCall, 200, 5, 1))
		d, err := DeriveDomain(ls, 100)
		if err != nil {
			t.Fatalf("DeriveDomain: %v", err)
		}
		// Single strike: zero strike range, zero margin.
		if !almostEqual(d.Low, 70) || !almostEqual(d.High, 200) {
			t.Errorf("domain = %v, want [70, 200]", d)
		}
	})

	t.Run("margin pads a strike range", func(t *testing.T) {
		ls := mustLegSet(t,
			models.NewOptionLeg(models.SideLong, models.InstrumentPut, 80, 1, 1),
			models.NewOptionLeg(models.SideLong, models.InstrumentCall, 180, 1, 1),
		)
		d, err := DeriveDomain(ls, 100)
		if err != nil {
			t.Fatalf("DeriveDomain: %v", err)
		}
		// Strike range 100, margin 10 on each stretched side.
		if !almostEqual(d.Low, 70) || !almostEqual(d.High, 190) {
			t.Errorf("domain = %v, want [70, 190]", d)
		}
	})

	t.Run("low edge floors at zero", func(t *testing.T) {
		ls := mustLegSet(t,
			models.NewOptionLeg(models.SideLong, models.InstrumentPut, 1, 0.5, 1),
			models.NewOptionLeg(models.SideLong, models.InstrumentCall, 100, 0.1, 1),
		)
		d, err := DeriveDomain(ls, 10)
		if err != nil {
			t.Fatalf("DeriveDomain: %v", err)
		}
		if d.Low != 0 {
			t.Errorf("low = %v, want 0", d.Low)
		}
	})

	t.Run("invalid spot", func(t *testing.T) {
		ls := mustLegSet(t, models.NewOptionLeg(models.SideLong, models.InstrumentCall, 100, 1, 1))
		if _, err := DeriveDomain(ls, 0); !errors.Is(err, apperrors.ErrInvalidSpot) {
			t.Errorf("error = %v, want ErrInvalidSpot", err)
		}
	})
}

func TestSample(t *testing.T) {
	ls := mustLegSet(t,
		models.NewOptionLeg(models.SideLong, models.InstrumentCall, 220, 13, 1),
		models.NewOptionLeg(models.SideShort, models.InstrumentCall, 240, 6, 1),
	)
	d := Domain{Low: 150, High: 300}

	curve, err := Sample(ls, d, 50)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}

	if curve[0].Price != d.Low || curve[len(curve)-1].Price != d.High {
		t.Errorf("endpoints = %v, %v, want %v, %v", curve[0].Price, curve[len(curve)-1].Price, d.Low, d.High)
	}

	for i := 1; i < len(curve); i++ {
		if curve[i].Price <= curve[i-1].Price {
			t.Fatalf("samples not strictly ascending at %d: %v >= %v", i, curve[i-1].Price, curve[i].Price)
		}
	}

	for _, strike := range []float64{220, 240} {
		found := false
		for _, pt := range curve {
			if pt.Price == strike {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("strike %v not sampled", strike)
		}
	}

	if _, err := Sample(ls, Domain{Low: 100, High: 100}, 50); !errors.Is(err, apperrors.ErrDegenerateDomain) {
		t.Errorf("degenerate domain error = %v, want ErrDegenerateDomain", err)
	}
}

func TestClosedFormBreakevens(t *testing.T) {
	tests := []struct {
		name string
		legs []models.Leg
		want []float64
		ok   bool
	}{
		{
			name: "long call",
			legs: []models.Leg{models.NewOptionLeg(models.SideLong, models.InstrumentCall, 220, 37.875, 1)},
			want: []float64{257.875},
			ok:   true,
		},
		{
			name: "long put",
			legs: []models.Leg{models.NewOptionLeg(models.SideLong, models.InstrumentPut, 200, 26.5, 1)},
			want: []float64{173.5},
			ok:   true,
		},
		{
			name: "put premium above strike clamps at zero",
			legs: []models.Leg{models.NewOptionLeg(models.SideLong, models.InstrumentPut, 5, 7, 1)},
			want: []float64{0},
			ok:   true,
		},
		{
			name: "bull call spread",
			legs: []models.Leg{
				models.NewOptionLeg(models.SideLong, models.InstrumentCall, 220, 13, 1),
				models.NewOptionLeg(models.SideShort, models.InstrumentCall, 240, 6, 1),
			},
			want: []float64{227},
			ok:   true,
		},
		{
			name: "bear call spread",
			legs: []models.Leg{
				models.NewOptionLeg(models.SideShort, models.InstrumentCall, 220, 13, 1),
				models.NewOptionLeg(models.SideLong, models.InstrumentCall, 240, 6, 1),
			},
			want: []float64{227},
			ok:   true,
		},
		{
			name: "bear put spread",
			legs: []models.Leg{
				models.NewOptionLeg(models.SideLong, models.InstrumentPut, 240, 13, 1),
				models.NewOptionLeg(models.SideShort, models.InstrumentPut, 220, 6, 1),
			},
			want: []float64{233},
			ok:   true,
		},
		{
			name: "ratio spread is not closed form",
			legs: []models.Leg{
				models.NewOptionLeg(models.SideLong, models.InstrumentCall, 220, 13, 1),
				models.NewOptionLeg(models.SideShort, models.InstrumentCall, 240, 6, 2),
			},
			ok: false,
		},
		{
			name: "mixed instruments are not closed form",
			legs: []models.Leg{
				models.NewStockLeg(models.SideLong, 221.09, 100),
				models.NewOptionLeg(models.SideShort, models.InstrumentCall, 240, 6, 1),
			},
			ok: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ls := mustLegSet(t, tc.legs...)
			got, ok := ClosedFormBreakevens(ls)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !ok {
				return
			}
			if len(got) != len(tc.want) {
				t.Fatalf("breakevens = %v, want %v", got, tc.want)
			}
			for i := range got {
				if !almostEqual(got[i], tc.want[i]) {
					t.Errorf("breakevens[%d] = %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestCurveBreakevens(t *testing.T) {
	t.Run("interpolated crossing", func(t *testing.T) {
		curve := models.Curve{{Price: 90, PnL: -10}, {Price: 110, PnL: 10}}
		got := CurveBreakevens(curve)
		if len(got) != 1 || !almostEqual(got[0], 100) {
			t.Errorf("breakevens = %v, want [100]", got)
		}
	})

	t.Run("exact zero at boundary counted once", func(t *testing.T) {
		curve := models.Curve{{Price: 90, PnL: -10}, {Price: 100, PnL: 0}, {Price: 110, PnL: 10}}
		got := CurveBreakevens(curve)
		if len(got) != 1 || !almostEqual(got[0], 100) {
			t.Errorf("breakevens = %v, want [100]", got)
		}
	})

	t.Run("flat zero run is not a breakeven", func(t *testing.T) {
		curve := models.Curve{{Price: 90, PnL: 0}, {Price: 100, PnL: 0}, {Price: 110, PnL: 0}}
		if got := CurveBreakevens(curve); len(got) != 0 {
			t.Errorf("breakevens = %v, want none", got)
		}
	})

	t.Run("empty curve", func(t *testing.T) {
		if got := CurveBreakevens(nil); got == nil || len(got) != 0 {
			t.Errorf("breakevens = %#v, want empty non-nil slice", got)
		}
	})
}

func TestSplitSegmentsAllZero(t *testing.T) {
	curve := models.Curve{{Price: 90, PnL: 0}, {Price: 110, PnL: 0}}
	segments := SplitSegments(curve)
	if len(segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(segments))
	}
	if !segments[0].Profit {
		t.Error("all-zero curve should report a single profit segment")
	}
}

func TestLinearDistanceChance(t *testing.T) {
	est := NewLinearDistance(0.5)

	tests := []struct {
		name  string
		spot  float64
		price float64
		want  float64
	}{
		{"at spot", 100, 100, 100},
		{"half window above", 100, 125, 50},
		{"half window below", 100, 75, 50},
		{"window edge", 100, 150, 0},
		{"beyond window", 100, 200, 0},
		{"zero spot", 0, 100, 0},
		{"negative price", 100, -5, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := est.Chance(tc.spot, tc.price); !almostEqual(got, tc.want) {
				t.Errorf("Chance(%v, %v) = %v, want %v", tc.spot, tc.price, got, tc.want)
			}
		})
	}
}

func TestAnalyzerCachesCurves(t *testing.T) {
	analyzer := NewAnalyzer()
	ls := mustLegSet(t, models.NewOptionLeg(models.SideLong, models.InstrumentCall, 220, 13, 1))

	first, err := analyzer.Analyze(ls, 225)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	second, err := analyzer.Analyze(ls, 225)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if analyzer.CachedCurves() != 1 {
		t.Errorf("CachedCurves = %d, want 1", analyzer.CachedCurves())
	}
	// The memoized curve is shared, not recomputed.
	if &first.Samples[0] != &second.Samples[0] {
		t.Error("expected both analyses to share the cached curve")
	}

	// A different spot derives a different domain and misses the cache.
	if _, err := analyzer.Analyze(ls, 300); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analyzer.CachedCurves() != 2 {
		t.Errorf("CachedCurves = %d, want 2", analyzer.CachedCurves())
	}
}

func TestReadoutAt(t *testing.T) {
	analyzer := NewAnalyzer()
	ls := mustLegSet(t, models.NewOptionLeg(models.SideLong, models.InstrumentCall, 220, 13, 1))

	r := analyzer.ReadoutAt(ls, 225, 240)
	if r.Price != 240 {
		t.Errorf("Price = %v, want 240", r.Price)
	}
	if !almostEqual(r.PnL, (240-220-13)*100) {
		t.Errorf("PnL = %v, want %v", r.PnL, (240-220-13)*100)
	}
	if r.Chance <= 0 || r.Chance >= 100 {
		t.Errorf("Chance = %v, want within (0, 100)", r.Chance)
	}
}
