package scoregraph

import (
	"math"
	"testing"
)

func TestAverageRule(t *testing.T) {
	rule := AverageRule(DefaultMaxScore)
	tests := []struct {
		name      string
		base      Score
		neighbors []Score
		want      Score
	}{
		{"isolated", 42, nil, 42},
		{"isolated above max", 150, nil, 150},
		{"single neighbor", 10, []Score{80}, 90},
		{"mean of neighbors", 10, []Score{20, 40}, 40},
		{"clamped", 80, []Score{90, 50}, 100},
		{"negative neighbor", 10, []Score{-30}, -20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rule(tt.base, tt.neighbors); got != tt.want {
				t.Errorf("AverageRule(%v, %v) = %v, want %v", tt.base, tt.neighbors, got, tt.want)
			}
		})
	}
}

func TestSumRule(t *testing.T) {
	rule := SumRule(50)
	if got := rule(5, []Score{10, 20}); got != 35 {
		t.Errorf("SumRule = %v, want 35", got)
	}
	if got := rule(5, []Score{40, 20}); got != 50 {
		t.Errorf("SumRule clamp = %v, want 50", got)
	}
	if got := rule(70, nil); got != 70 {
		t.Errorf("SumRule isolated = %v, want 70", got)
	}
}

func TestDampedRule(t *testing.T) {
	rule := DampedRule(0.5)
	if got := rule(10, []Score{20, 40}); got != 25 {
		t.Errorf("DampedRule = %v, want 25", got)
	}
	if got := rule(3, nil); got != 3 {
		t.Errorf("DampedRule isolated = %v, want 3", got)
	}
}

func TestDiffersHonorsTolerance(t *testing.T) {
	f := newTestForest(t, Options{Tolerance: 0.01})
	tests := []struct {
		old, updated Score
		want         bool
	}{
		{1, 1, false},
		{1, 1.005, false},
		{1, 1.02, true},
		{1, math.NaN(), true},
		{math.NaN(), 1, true},
		{math.NaN(), math.NaN(), false},
	}
	for _, tt := range tests {
		if got := f.differs(tt.old, tt.updated); got != tt.want {
			t.Errorf("differs(%v, %v) = %v, want %v", tt.old, tt.updated, got, tt.want)
		}
	}
}
