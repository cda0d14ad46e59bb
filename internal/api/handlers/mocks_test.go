package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"loanbot/internal/bot"
	"loanbot/internal/models"
)

// mockEngine - настраиваемая реализация Engine для тестов handlers
type mockEngine struct {
	startErr error
	stopErr  error

	status        models.BotStatus
	positions     []models.Position
	products      []models.LoanProduct
	opportunities []models.Opportunity
	analysis      models.StrategyAnalysis
	trades        []models.Trade
	stats         models.Stats

	manualTrade models.Trade
	manualErr   error

	// записанные вызовы
	startCalls int
	stopCalls  int
	lastStart  bot.StartParams
	lastManual struct {
		from, to, loanID, action string
		amount, expectedProfit   float64
	}
}

func (m *mockEngine) Start(ctx context.Context, params bot.StartParams) error {
	m.startCalls++
	m.lastStart = params
	return m.startErr
}

func (m *mockEngine) Stop() error {
	m.stopCalls++
	return m.stopErr
}

func (m *mockEngine) Status() models.BotStatus              { return m.status }
func (m *mockEngine) Positions() []models.Position          { return m.positions }
func (m *mockEngine) AvailableLoans() []models.LoanProduct  { return m.products }
func (m *mockEngine) Opportunities() []models.Opportunity   { return m.opportunities }
func (m *mockEngine) StrategyAnalysis() models.StrategyAnalysis {
	return m.analysis
}
func (m *mockEngine) TradeHistory() []models.Trade { return m.trades }
func (m *mockEngine) Stats() models.Stats          { return m.stats }

func (m *mockEngine) ManualArbitrage(fromLoan, toLoan string, amount, expectedProfit float64) (models.Trade, error) {
	m.lastManual.from, m.lastManual.to = fromLoan, toLoan
	m.lastManual.amount, m.lastManual.expectedProfit = amount, expectedProfit
	if m.manualErr != nil {
		return models.Trade{}, m.manualErr
	}
	return m.manualTrade, nil
}

func (m *mockEngine) ManualRebalance(loanID, action string, amount float64) (models.Trade, error) {
	m.lastManual.loanID, m.lastManual.action, m.lastManual.amount = loanID, action, amount
	if m.manualErr != nil {
		return models.Trade{}, m.manualErr
	}
	return m.manualTrade, nil
}

var errMock = errors.New("mock failure")

// sampleTrade - типовая запись журнала для моков
func sampleTrade() models.Trade {
	return models.Trade{
		ID:        "trade_1",
		Kind:      models.TradeKindArbitrage,
		FromLoan:  "loan_a",
		ToLoan:    "loan_b",
		Amount:    decimal.NewFromInt(1000),
		Status:    models.TradeStatusSimulated,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Profit:    decimal.Zero,
		Fees:      decimal.NewFromInt(1),
	}
}
