package bot

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"loanbot/internal/models"
)

// feeRate - комиссия за ручную операцию: 0.1% от объема
var feeRate = decimal.NewFromFloat(0.001)

// Ledger - журнал ручных операций и агрегированная статистика
//
// Append-only журнал в памяти процесса. Потокобезопасен: пишет
// обработчик API, читают цикл обновления и другие обработчики.
type Ledger struct {
	mu     sync.RWMutex
	trades []models.Trade
	stats  models.Stats
	seq    int
}

// NewLedger создает пустой журнал
func NewLedger() *Ledger {
	return &Ledger{
		trades: make([]models.Trade, 0),
	}
}

// RecordArbitrage регистрирует ручную арбитражную перекладку
//
// expectedProfit - оценка выгоды перекладки, заявленная оператором
// (обычно ExpectedProfit найденной возможности). Она записывается в
// сделку как Profit и попадает в totalProfit. Комиссия 0.1% от объема.
func (l *Ledger) RecordArbitrage(fromLoan, toLoan string, amount, expectedProfit decimal.Decimal, now time.Time) models.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	trade := models.Trade{
		ID:        fmt.Sprintf("trade_%d_%d", now.Unix(), l.seq),
		Kind:      models.TradeKindArbitrage,
		FromLoan:  fromLoan,
		ToLoan:    toLoan,
		Amount:    amount,
		Status:    models.TradeStatusSimulated,
		Timestamp: now,
		Profit:    expectedProfit,
		Fees:      amount.Mul(feeRate),
	}

	l.append(trade, now)
	return trade
}

// RecordRebalance регистрирует ручную ребалансировку позиции.
// Ребалансировка не имеет ни прибыли, ни комиссии - только факт операции.
func (l *Ledger) RecordRebalance(loanID, action string, amount decimal.Decimal, now time.Time) models.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	trade := models.Trade{
		ID:        fmt.Sprintf("trade_%d_%d", now.Unix(), l.seq),
		Kind:      models.TradeKindRebalance,
		LoanID:    loanID,
		Action:    action,
		Amount:    amount,
		Status:    models.TradeStatusSimulated,
		Timestamp: now,
		Profit:    decimal.Zero,
		Fees:      decimal.Zero,
	}

	l.append(trade, now)
	return trade
}

// append добавляет сделку и обновляет статистику. Вызывать под mu.
func (l *Ledger) append(trade models.Trade, now time.Time) {
	l.trades = append(l.trades, trade)
	l.stats.TotalTrades++
	l.stats.SuccessfulTrades++
	l.stats.TotalProfit = l.stats.TotalProfit.Add(trade.Profit)
	l.stats.Recalculate(now)
}

// Seed загружает стартовый журнал (используется в симулированном режиме)
func (l *Ledger) Seed(trades []models.Trade, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, t := range trades {
		l.append(t, now)
	}
	l.seq = len(l.trades)
}

// Trades возвращает копию журнала в порядке записи
func (l *Ledger) Trades() []models.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Stats возвращает снапшот статистики с пересчитанным uptime
func (l *Ledger) Stats(now time.Time) models.Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stats.Recalculate(now)
	return l.stats
}

// SetStartTime фиксирует момент запуска движка для расчета uptime
func (l *Ledger) SetStartTime(t time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stats.StartTime = &t
}

// ResetStartTime сбрасывает точку отсчета uptime при остановке
func (l *Ledger) ResetStartTime() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stats.StartTime = nil
	l.stats.UptimeSeconds = 0
}
