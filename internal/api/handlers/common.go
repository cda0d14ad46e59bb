package handlers

import (
	"context"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"loanbot/internal/bot"
	"loanbot/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Engine - операции движка, нужные HTTP слою
//
// Интерфейс объявлен на стороне потребителя; продакшн реализация -
// *bot.Engine, тесты подставляют мок.
type Engine interface {
	Start(ctx context.Context, params bot.StartParams) error
	Stop() error
	Status() models.BotStatus
	Positions() []models.Position
	AvailableLoans() []models.LoanProduct
	Opportunities() []models.Opportunity
	StrategyAnalysis() models.StrategyAnalysis
	TradeHistory() []models.Trade
	Stats() models.Stats
	ManualArbitrage(fromLoan, toLoan string, amount, expectedProfit float64) (models.Trade, error)
	ManualRebalance(loanID, action string, amount float64) (models.Trade, error)
}

// ErrorResponse стандартный формат ответа об ошибке для всех API endpoints
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// respondJSON сериализует payload с указанным статусом
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError возвращает ошибку в стандартном формате
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{
		Success: false,
		Error:   message,
	})
}
