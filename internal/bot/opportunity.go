package bot

import (
	"loanbot/internal/models"
	"loanbot/pkg/utils"
)

// Пороги спреда эффективной часовой ставки (в п.п. за час)
const (
	minSpread      = 0.1 // ниже - возможность не регистрируется
	highConfidence = 0.5 // выше - уверенность HIGH
)

// effectiveHourlyRate возвращает эффективную часовую ставку позиции
//
// Предпочитаем абсолютное начисление (HourlyInterest), если биржа его
// отдает, иначе часовую ставку, иначе ноль - позиция остается в переборе
// и может дать возможность против позиции с известной ставкой.
func effectiveHourlyRate(p *models.Position) float64 {
	if p.HourlyInterest != 0 {
		return p.HourlyInterest
	}
	return p.HourlyRate
}

// AnalyzeOpportunities ищет арбитраж ставок между парами позиций
//
// Перебираются все неупорядоченные пары (i < j); спред считается как
// rate(p2) - rate(p1) и сохраняет знак, чтобы из выдачи было видно
// направление перекладки. Порядок результата повторяет порядок перебора,
// сортировки нет.
func AnalyzeOpportunities(positions []models.Position) []models.Opportunity {
	opportunities := make([]models.Opportunity, 0)

	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			p1, p2 := &positions[i], &positions[j]

			spread := utils.RateSpread(effectiveHourlyRate(p1), effectiveHourlyRate(p2))
			if utils.Abs(spread) <= minSpread {
				continue
			}

			confidence := models.ConfidenceMedium
			if utils.Abs(spread) > highConfidence {
				confidence = models.ConfidenceHigh
			}

			transfer := utils.Min(p1.LoanAmount, p2.CollateralAmount)

			opportunities = append(opportunities, models.Opportunity{
				Type:           models.OpportunityRateArbitrage,
				FromLoanID:     p1.LoanID,
				ToLoanID:       p2.LoanID,
				FromCoin:       p1.LoanCoin,
				ToCoin:         p2.LoanCoin,
				RateSpread:     spread,
				TransferAmount: transfer,
				ExpectedProfit: utils.DailyProfitEstimate(spread, transfer),
				Confidence:     confidence,
			})
		}
	}

	return opportunities
}

// AverageLTV возвращает средний LTV% по позициям, 0 без позиций
func AverageLTV(positions []models.Position) float64 {
	if len(positions) == 0 {
		return 0
	}
	var sum float64
	for _, p := range positions {
		sum += p.LTVPercentage
	}
	return utils.RoundTo(sum/float64(len(positions)), 2)
}

// CountAtRisk возвращает количество позиций с уровнем HIGH или CRITICAL
func CountAtRisk(positions []models.Position) int {
	n := 0
	for _, p := range positions {
		if p.RiskLevel.AtRisk() {
			n++
		}
	}
	return n
}
