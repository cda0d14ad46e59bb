package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade представляет запись о ручной операции в журнале сделок
//
// Журнал append-only и живет в памяти процесса. Денежные поля
// считаются в decimal, чтобы комиссии и прибыль не плыли на float.
// Реальные ордера не размещаются - статус всегда SIMULATED.
type Trade struct {
	ID        string          `json:"id"`
	Kind      string          `json:"type"`
	FromLoan  string          `json:"from_loan_id,omitempty"`
	ToLoan    string          `json:"to_loan_id,omitempty"`
	LoanID    string          `json:"loan_id,omitempty"`
	Action    string          `json:"action,omitempty"` // increase/reduce для ребаланса; не валидируется здесь
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Profit    decimal.Decimal `json:"profit"`
	Fees      decimal.Decimal `json:"fees"`
}

// Виды ручных операций
const (
	TradeKindArbitrage = "MANUAL_ARBITRAGE"
	TradeKindRebalance = "MANUAL_REBALANCE"
)

// TradeStatusSimulated - единственный статус в текущем дизайне:
// операции учитываются в журнале, но не исполняются на бирже
const TradeStatusSimulated = "SIMULATED"
