package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stats представляет агрегированную статистику работы движка
type Stats struct {
	TotalProfit           decimal.Decimal `json:"total_profit"`
	TotalTrades           int             `json:"total_trades"`
	SuccessfulTrades      int             `json:"successful_trades"`
	FailedTrades          int             `json:"failed_trades"`
	AverageProfitPerTrade decimal.Decimal `json:"average_profit_per_trade"` // 0 при TotalTrades == 0
	StartTime             *time.Time      `json:"start_time"`
	UptimeSeconds         float64         `json:"uptime"` // пересчитывается каждый цикл пока движок запущен
}

// Recalculate обновляет производные поля.
//
// Uptime считается от StartTime до now; средняя прибыль на сделку
// равна нулю пока сделок не было (деление на ноль исключено).
func (s *Stats) Recalculate(now time.Time) {
	if s.StartTime != nil {
		s.UptimeSeconds = now.Sub(*s.StartTime).Seconds()
	}
	if s.TotalTrades > 0 {
		s.AverageProfitPerTrade = s.TotalProfit.Div(decimal.NewFromInt(int64(s.TotalTrades)))
	} else {
		s.AverageProfitPerTrade = decimal.Zero
	}
}
