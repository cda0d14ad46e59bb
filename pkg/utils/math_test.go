package utils

import (
	"math"
	"testing"
)

func TestBufferPoints(t *testing.T) {
	tests := []struct {
		name         string
		thresholdLTV float64
		ltvPct       float64
		want         float64
	}{
		{"comfortable margin", 0.85, 70.0, 15.0},
		{"critical margin", 0.85, 83.0, 2.0},
		{"threshold crossed", 0.85, 90.0, -5.0},
		{"liquidation buffer", 0.91, 83.0, 8.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BufferPoints(tt.thresholdLTV, tt.ltvPct)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("BufferPoints(%v, %v) = %v, want %v", tt.thresholdLTV, tt.ltvPct, got, tt.want)
			}
		})
	}
}

func TestRateSpread(t *testing.T) {
	tests := []struct {
		name  string
		rate1 float64
		rate2 float64
		want  float64
	}{
		{"positive spread", 0.96, 1.5, 0.54},
		{"negative spread", 1.5, 0.96, -0.54},
		{"zero spread", 1.0, 1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RateSpread(tt.rate1, tt.rate2)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("RateSpread(%v, %v) = %v, want %v", tt.rate1, tt.rate2, got, tt.want)
			}
		})
	}
}

func TestDailyProfitEstimate(t *testing.T) {
	got := DailyProfitEstimate(0.5, 1000)
	want := 12000.0
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("DailyProfitEstimate(0.5, 1000) = %v, want %v", got, want)
	}

	// нулевой объем - нулевая выгода
	if got := DailyProfitEstimate(0.5, 0); got != 0 {
		t.Errorf("DailyProfitEstimate(0.5, 0) = %v, want 0", got)
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(3, 7); got != 3 {
		t.Errorf("Min(3, 7) = %v, want 3", got)
	}
	if got := Min(7, 3); got != 3 {
		t.Errorf("Min(7, 3) = %v, want 3", got)
	}
	if got := Max(3, 7); got != 7 {
		t.Errorf("Max(3, 7) = %v, want 7", got)
	}
	if got := Max(-1, -5); got != -1 {
		t.Errorf("Max(-1, -5) = %v, want -1", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		x, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{15, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := Clamp(tt.x, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.x, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		x      float64
		places int
		want   float64
	}{
		{3.14159, 2, 3.14},
		{0.126, 2, 0.13},
		{100.0, 0, 100.0},
		{0.54321, 4, 0.5432},
	}

	for _, tt := range tests {
		got := RoundTo(tt.x, tt.places)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RoundTo(%v, %d) = %v, want %v", tt.x, tt.places, got, tt.want)
		}
	}
}
