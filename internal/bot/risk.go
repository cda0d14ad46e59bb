package bot

import (
	"fmt"

	"loanbot/internal/models"
	"loanbot/pkg/utils"
)

// Пороги запаса до margin call (в процентных пунктах LTV)
const (
	criticalBuffer = 3.0
	highBuffer     = 8.0
	mediumBuffer   = 15.0
)

// ClassifyRisk вычисляет запасы и уровень риска позиции
//
// Запас до margin call - расстояние в процентных пунктах между текущим
// LTV и порогом margin call. Чем меньше запас, тем выше риск:
//
//	buffer < 3  → CRITICAL
//	buffer < 8  → HIGH
//	buffer < 15 → MEDIUM
//	иначе       → LOW
//
// Запас может быть отрицательным если LTV уже выше порога - позиция
// при этом остается в выдаче, решение за оператором.
func ClassifyRisk(p *models.Position, marginCallLTV, liquidationLTV float64) {
	p.MarginCallBuffer = utils.BufferPoints(marginCallLTV, p.LTVPercentage)
	p.LiquidationBuffer = utils.BufferPoints(liquidationLTV, p.LTVPercentage)

	switch {
	case p.MarginCallBuffer < criticalBuffer:
		p.RiskLevel = models.RiskCritical
	case p.MarginCallBuffer < highBuffer:
		p.RiskLevel = models.RiskHigh
	case p.MarginCallBuffer < mediumBuffer:
		p.RiskLevel = models.RiskMedium
	default:
		p.RiskLevel = models.RiskLow
	}
}

// BuildRecommendations строит рекомендации по ребалансировке
//
// Для каждой позиции вне коридора [minLTV, maxLTV]:
//   - LTV выше max → REDUCE: погасить 10% долга
//   - LTV ниже min → INCREASE: можно довзять займ (10% обеспечения)
//
// Позиции внутри коридора рекомендаций не получают.
func BuildRecommendations(positions []models.Position, minLTV, maxLTV float64) []models.Recommendation {
	recs := make([]models.Recommendation, 0)

	for _, p := range positions {
		switch {
		case p.LTVPercentage > maxLTV*100:
			recs = append(recs, models.Recommendation{
				LoanID:   p.LoanID,
				Action:   models.ActionReduce,
				Amount:   p.TotalDebt * 0.1,
				Reason:   fmt.Sprintf("LTV %.1f%% above max %.1f%%", p.LTVPercentage, maxLTV*100),
				Priority: recommendationPriority(p.RiskLevel),
			})
		case p.LTVPercentage < minLTV*100:
			recs = append(recs, models.Recommendation{
				LoanID:   p.LoanID,
				Action:   models.ActionIncrease,
				Amount:   p.CollateralAmount * 0.1,
				Reason:   fmt.Sprintf("LTV %.1f%% below min %.1f%%, capital underused", p.LTVPercentage, minLTV*100),
				Priority: "LOW",
			})
		}
	}

	return recs
}

// recommendationPriority отображает уровень риска в приоритет рекомендации
func recommendationPriority(level models.RiskLevel) string {
	switch level {
	case models.RiskCritical:
		return "URGENT"
	case models.RiskHigh:
		return "HIGH"
	default:
		return "MEDIUM"
	}
}
