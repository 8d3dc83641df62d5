package calc

import (
	"math"
	"testing"
)

func TestPercentChange_TwoPoints(t *testing.T) {
	pc := PercentChange([]float64{100, 110})
	if len(pc) != 2 {
		t.Fatalf("expected 2 values, got %d", len(pc))
	}
	if !math.IsNaN(pc[0]) {
		t.Errorf("expected NaN for first period, got %f", pc[0])
	}
	if math.Abs(pc[1]-0.10) > 1e-12 {
		t.Errorf("expected 0.10, got %f", pc[1])
	}

	ret := AnnualizedReturn(pc)
	if math.Abs(ret-2520.0) > 1e-9 {
		t.Errorf("expected annual return 2520.0, got %f", ret)
	}
}

func TestComputeReturnStats_SingleRow(t *testing.T) {
	stats := ComputeReturnStats([]float64{42})
	if stats.Observations != 0 {
		t.Errorf("expected no defined percent changes, got %d", stats.Observations)
	}
	if !math.IsNaN(stats.AnnualReturn) {
		t.Errorf("expected NaN annual return, got %f", stats.AnnualReturn)
	}
	if !math.IsNaN(stats.StdDev) {
		t.Errorf("expected NaN volatility, got %f", stats.StdDev)
	}
}

func TestComputeReturnStats_Empty(t *testing.T) {
	stats := ComputeReturnStats(nil)
	if !math.IsNaN(stats.AnnualReturn) || !math.IsNaN(stats.StdDev) || !math.IsNaN(stats.RiskAdjReturn) {
		t.Errorf("expected all NaN for empty series, got %+v", stats)
	}
}

func TestComputeReturnStats_ConstantPrices(t *testing.T) {
	stats := ComputeReturnStats([]float64{50, 50, 50, 50})

	pc := PercentChange([]float64{50, 50, 50, 50})
	for i, v := range pc[1:] {
		if v != 0 {
			t.Errorf("period %d: expected 0 change, got %f", i+1, v)
		}
	}
	if stats.AnnualReturn != 0 {
		t.Errorf("expected 0 annual return, got %f", stats.AnnualReturn)
	}
	if stats.StdDev != 0 {
		t.Errorf("expected 0 volatility, got %f", stats.StdDev)
	}
	if !math.IsNaN(stats.RiskAdjReturn) {
		t.Errorf("expected undefined risk-adjusted return, got %f", stats.RiskAdjReturn)
	}
}

func TestComputeReturnStats_KnownSeries(t *testing.T) {
	// changes: +10%, -10%
	stats := ComputeReturnStats([]float64{100, 110, 99})

	wantMean := 0.0
	wantStd := 0.10 // population std of {0.10, -0.10}
	if math.Abs(stats.AnnualReturn-wantMean*252*100) > 1e-9 {
		t.Errorf("expected annual return %f, got %f", wantMean*252*100, stats.AnnualReturn)
	}
	if math.Abs(stats.StdDev-wantStd*math.Sqrt(252)) > 1e-9 {
		t.Errorf("expected volatility %f, got %f", wantStd*math.Sqrt(252), stats.StdDev)
	}
	if stats.Observations != 2 {
		t.Errorf("expected 2 observations, got %d", stats.Observations)
	}
	if math.Abs(stats.RiskAdjReturn) > 1e-9 {
		t.Errorf("expected risk-adjusted return 0, got %f", stats.RiskAdjReturn)
	}
}

func TestMean_SkipsMissing(t *testing.T) {
	got := Mean([]float64{math.NaN(), 1, math.NaN(), 3})
	if got != 2 {
		t.Errorf("expected 2, got %f", got)
	}
	if !math.IsNaN(Mean([]float64{math.NaN()})) {
		t.Error("expected NaN mean when every value is missing")
	}
}

func TestRiskAdjustedReturn_ZeroVolatility(t *testing.T) {
	if got := RiskAdjustedReturn(5, 0); !math.IsInf(got, 1) {
		t.Errorf("expected +Inf, got %f", got)
	}
}
