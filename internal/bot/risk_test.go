package bot

import (
	"math"
	"testing"

	"loanbot/internal/models"
)

func TestClassifyRisk_Levels(t *testing.T) {
	tests := []struct {
		name       string
		ltvPct     float64
		wantLevel  models.RiskLevel
		wantBuffer float64
	}{
		{"comfortable position", 65.0, models.RiskLow, 20.0},
		{"approaching corridor", 72.0, models.RiskMedium, 13.0},
		{"high risk", 78.0, models.RiskHigh, 7.0},
		{"critical buffer two points", 83.0, models.RiskCritical, 2.0},
		{"past margin call", 87.0, models.RiskCritical, -2.0},
		{"exact medium boundary", 77.0, models.RiskMedium, 8.0},
		{"exact high boundary", 82.0, models.RiskHigh, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Position{LoanID: "loan_1", LTVPercentage: tt.ltvPct}
			ClassifyRisk(&p, 0.85, 0.91)

			if p.RiskLevel != tt.wantLevel {
				t.Errorf("risk level = %q, want %q", p.RiskLevel, tt.wantLevel)
			}
			if math.Abs(p.MarginCallBuffer-tt.wantBuffer) > 1e-9 {
				t.Errorf("margin call buffer = %v, want %v", p.MarginCallBuffer, tt.wantBuffer)
			}
		})
	}
}

func TestClassifyRisk_LiquidationBuffer(t *testing.T) {
	p := models.Position{LTVPercentage: 83.0}
	ClassifyRisk(&p, 0.85, 0.91)

	if math.Abs(p.LiquidationBuffer-8.0) > 1e-9 {
		t.Errorf("liquidation buffer = %v, want 8", p.LiquidationBuffer)
	}
}

func TestBuildRecommendations(t *testing.T) {
	positions := []models.Position{
		{LoanID: "over", LTVPercentage: 80, TotalDebt: 1000, RiskLevel: models.RiskHigh},
		{LoanID: "under", LTVPercentage: 50, CollateralAmount: 2000, RiskLevel: models.RiskLow},
		{LoanID: "in_corridor", LTVPercentage: 70, TotalDebt: 500, RiskLevel: models.RiskLow},
	}

	recs := BuildRecommendations(positions, 0.65, 0.75)

	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}

	reduce := recs[0]
	if reduce.LoanID != "over" || reduce.Action != models.ActionReduce {
		t.Errorf("first rec = %+v, want REDUCE for over", reduce)
	}
	// 10% долга
	if math.Abs(reduce.Amount-100) > 1e-9 {
		t.Errorf("reduce amount = %v, want 100", reduce.Amount)
	}
	if reduce.Priority != "HIGH" {
		t.Errorf("reduce priority = %q, want HIGH", reduce.Priority)
	}

	increase := recs[1]
	if increase.LoanID != "under" || increase.Action != models.ActionIncrease {
		t.Errorf("second rec = %+v, want INCREASE for under", increase)
	}
	if math.Abs(increase.Amount-200) > 1e-9 {
		t.Errorf("increase amount = %v, want 200", increase.Amount)
	}
	if increase.Priority != "LOW" {
		t.Errorf("increase priority = %q, want LOW", increase.Priority)
	}
}

func TestBuildRecommendations_Empty(t *testing.T) {
	recs := BuildRecommendations(nil, 0.65, 0.75)
	if recs == nil {
		t.Fatal("recommendations must be an empty slice, not nil")
	}
	if len(recs) != 0 {
		t.Errorf("expected no recommendations, got %d", len(recs))
	}
}

func TestRecommendationPriority(t *testing.T) {
	tests := []struct {
		level models.RiskLevel
		want  string
	}{
		{models.RiskCritical, "URGENT"},
		{models.RiskHigh, "HIGH"},
		{models.RiskMedium, "MEDIUM"},
		{models.RiskLow, "MEDIUM"},
	}

	for _, tt := range tests {
		if got := recommendationPriority(tt.level); got != tt.want {
			t.Errorf("recommendationPriority(%q) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
