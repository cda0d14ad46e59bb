package models

// Opportunity представляет арбитражную возможность между двумя позициями
//
// Эфемерный тип: пересчитывается на каждом цикле обновления из текущего
// набора позиций и нигде не хранится между циклами.
type Opportunity struct {
	Type           string  `json:"type"`
	FromLoanID     string  `json:"from_loan_id"`
	ToLoanID       string  `json:"to_loan_id"`
	FromCoin       string  `json:"from_coin"`
	ToCoin         string  `json:"to_coin"`
	RateSpread     float64 `json:"rate_spread"`     // знаковый: rate(to) - rate(from)
	TransferAmount float64 `json:"transfer_amount"` // min(loan(from), collateral(to))
	ExpectedProfit float64 `json:"expected_profit"` // спред * объем * 24 (оценка за сутки)
	Confidence     string  `json:"confidence"`
}

// Типы возможностей
const (
	OpportunityRateArbitrage = "RATE_ARBITRAGE"
)

// Уровни уверенности
const (
	ConfidenceHigh   = "HIGH"   // |спред| > 0.5
	ConfidenceMedium = "MEDIUM" // |спред| > 0.1
)
