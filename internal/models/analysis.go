package models

// StrategyAnalysis - агрегированный срез стратегии для API
//
// Собирается синхронно из текущего состояния движка:
// арбитражные возможности + управление LTV + статистика.
type StrategyAnalysis struct {
	ArbitrageOpportunities OpportunitySummary `json:"arbitrage_opportunities"`
	LTVManagement          LTVManagement      `json:"ltv_management"`
	Performance            Stats              `json:"performance"`
}

// OpportunitySummary - сводка по арбитражным возможностям
type OpportunitySummary struct {
	Opportunities      []Opportunity `json:"opportunities"`
	TotalOpportunities int           `json:"total_opportunities"`
	EstimatedProfit    float64       `json:"estimated_profit"` // сумма ожидаемых прибылей
}

// LTVManagement - сводка по управлению LTV портфеля
type LTVManagement struct {
	AverageLTV      float64          `json:"average_ltv"`       // средний LTV% по позициям, 0 без позиций
	PositionsAtRisk int              `json:"positions_at_risk"` // HIGH + CRITICAL
	Recommendations []Recommendation `json:"rebalance_recommendations"`
}

// Recommendation - рекомендация по ребалансировке позиции
type Recommendation struct {
	LoanID   string  `json:"loan_id"`
	Action   string  `json:"action"` // REDUCE или INCREASE
	Amount   float64 `json:"amount"`
	Reason   string  `json:"reason"`
	Priority string  `json:"priority"`
}

// Действия рекомендаций
const (
	ActionReduce   = "REDUCE"   // LTV выше max: погасить 10% долга
	ActionIncrease = "INCREASE" // LTV ниже min: можно занять еще (10% обеспечения)
)
