package models

import "time"

// Position представляет займовую позицию с обеспечением
//
// Каноническая форма данных после нормализации на границе exchange.
// Остальные пакеты (bot, api, websocket) никогда не видят сырые
// ответы биржи - только этот тип.
//
// Инвариант: LTVPercentage всегда в процентах (шкала 0-100),
// в той же шкале что и пороги margin call / ликвидации.
type Position struct {
	LoanID           string  `json:"loan_id"`
	LoanCoin         string  `json:"loan_coin"`         // занятый актив (USDT, USDC, ...)
	CollateralCoin   string  `json:"collateral_coin"`   // актив обеспечения (BTC, ETH, ...)
	TotalDebt        float64 `json:"total_debt"`        // долг в loan coin
	LoanAmount       float64 `json:"loan_amount"`       // тело займа (= TotalDebt если биржа не отдает отдельно)
	CollateralAmount float64 `json:"collateral_amount"` // количество обеспечения
	CurrentLTV       float64 `json:"current_ltv"`       // доля 0-1
	LTVPercentage    float64 `json:"ltv_percentage"`    // производное: CurrentLTV * 100

	// Риск-метрики (производные, считаются классификатором)
	MarginCallBuffer  float64   `json:"margin_call_buffer"`  // п.п. до margin call
	LiquidationBuffer float64   `json:"liquidation_buffer"`  // п.п. до ликвидации
	RiskLevel         RiskLevel `json:"risk_level"`

	// Ставки начисления процентов
	HourlyRate     float64 `json:"hourly_rate"`               // часовая ставка по займу
	HourlyInterest float64 `json:"hourly_interest,omitempty"` // абсолютное начисление в час, если биржа отдает

	LastUpdated time.Time `json:"last_updated"`
}

// RiskLevel представляет уровень риска ликвидации позиции
type RiskLevel string

// Уровни риска (по буферу до margin call в процентных пунктах)
const (
	RiskLow      RiskLevel = "LOW"      // буфер >= 15 п.п.
	RiskMedium   RiskLevel = "MEDIUM"   // буфер 8-15 п.п.
	RiskHigh     RiskLevel = "HIGH"     // буфер 3-8 п.п.
	RiskCritical RiskLevel = "CRITICAL" // буфер < 3 п.п.
)

// AtRisk возвращает true, если позиция требует внимания (HIGH или CRITICAL)
func (r RiskLevel) AtRisk() bool {
	return r == RiskHigh || r == RiskCritical
}
