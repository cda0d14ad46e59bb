package handlers

import (
	"net/http"

	"loanbot/pkg/utils"
)

// StrategyHandler обрабатывает запросы к анализу стратегии и журналу.
//
// Endpoints:
// - GET /api/v1/strategy/analysis - полный срез стратегии
// - GET /api/v1/strategy/opportunities - возможности последнего цикла
// - GET /api/v1/strategy/stats - агрегированная статистика
// - GET /api/v1/strategy/trade-history - журнал ручных операций
// - GET /api/v1/strategy/execution-status - состояние исполнения
// - POST /api/v1/strategy/manual-arbitrage - учесть перекладку
// - POST /api/v1/strategy/manual-rebalance - учесть ребалансировку
type StrategyHandler struct {
	engine Engine
}

// NewStrategyHandler создает новый StrategyHandler с внедрением зависимостей.
func NewStrategyHandler(engine Engine) *StrategyHandler {
	return &StrategyHandler{engine: engine}
}

// GetAnalysis возвращает агрегированный срез стратегии.
//
// GET /api/v1/strategy/analysis
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "analysis": {
//	    "arbitrage_opportunities": {"opportunities": [...], "total_opportunities": 1, "estimated_profit": 64.8},
//	    "ltv_management": {"average_ltv": 70.4, "positions_at_risk": 0, "rebalance_recommendations": []},
//	    "performance": {...}
//	  }
//	}
func (h *StrategyHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": h.engine.StrategyAnalysis(),
	})
}

// GetOpportunities возвращает возможности последнего цикла.
//
// GET /api/v1/strategy/opportunities
//
// Response 200 OK:
//
//	{"success": true, "opportunities": [...], "count": 1}
func (h *StrategyHandler) GetOpportunities(w http.ResponseWriter, r *http.Request) {
	opportunities := h.engine.Opportunities()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"opportunities": opportunities,
		"count":         len(opportunities),
	})
}

// GetStats возвращает агрегированную статистику.
//
// GET /api/v1/strategy/stats
//
// Response 200 OK:
//
//	{"success": true, "statistics": {"total_profit": "12.5", "total_trades": 3, "uptime": 3600, ...}}
func (h *StrategyHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"statistics": h.engine.Stats(),
	})
}

// GetTradeHistory возвращает журнал ручных операций.
//
// GET /api/v1/strategy/trade-history
//
// Response 200 OK:
//
//	{"success": true, "trades": [...], "count": 2}
func (h *StrategyHandler) GetTradeHistory(w http.ResponseWriter, r *http.Request) {
	trades := h.engine.TradeHistory()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"trades":  trades,
		"count":   len(trades),
	})
}

// GetExecutionStatus возвращает состояние исполнения стратегии.
//
// GET /api/v1/strategy/execution-status
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "execution": {
//	    "running": true,
//	    "state": "running",
//	    "connectivity_mode": "live",
//	    "last_update": "...",
//	    "opportunities_count": 1,
//	    "trades_count": 3
//	  }
//	}
func (h *StrategyHandler) GetExecutionStatus(w http.ResponseWriter, r *http.Request) {
	status := h.engine.Status()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"execution": map[string]interface{}{
			"running":             status.Running,
			"state":               status.State,
			"connectivity_mode":   status.ConnectivityMode,
			"last_update":         status.LastUpdate,
			"opportunities_count": len(h.engine.Opportunities()),
			"trades_count":        len(h.engine.TradeHistory()),
		},
	})
}

// manualArbitrageRequest - тело POST /strategy/manual-arbitrage
type manualArbitrageRequest struct {
	FromLoan       string  `json:"from_loan"`
	ToLoan         string  `json:"to_loan"`
	Amount         float64 `json:"amount"`
	ExpectedProfit float64 `json:"expected_profit"`
}

// ManualArbitrage регистрирует ручную арбитражную перекладку.
//
// POST /api/v1/strategy/manual-arbitrage
//
// Request:
//
//	{"from_loan": "loan_1", "to_loan": "loan_2", "amount": 1000, "expected_profit": 15.5}
//
// Response 200 OK:
//
//	{"success": true, "trade": {..., "fees": "1", "status": "SIMULATED"}}
//
// Response 400 Bad Request - невалидный JSON или недостающие поля
func (h *StrategyHandler) ManualArbitrage(w http.ResponseWriter, r *http.Request) {
	var req manualArbitrageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var v utils.ValidationErrors
	v.Add(utils.ValidateLoanID(req.FromLoan))
	v.Add(utils.ValidateLoanID(req.ToLoan))
	v.Add(utils.ValidateAmount(req.Amount))
	if err := v.Err(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	trade, err := h.engine.ManualArbitrage(req.FromLoan, req.ToLoan, req.Amount, req.ExpectedProfit)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"trade":   trade,
	})
}

// manualRebalanceRequest - тело POST /strategy/manual-rebalance
type manualRebalanceRequest struct {
	LoanID string  `json:"loan_id"`
	Action string  `json:"action"`
	Amount float64 `json:"amount"`
}

// ManualRebalance регистрирует ручную ребалансировку позиции.
//
// POST /api/v1/strategy/manual-rebalance
//
// Request:
//
//	{"loan_id": "loan_1", "action": "reduce", "amount": 100}
//
// Response 200 OK:
//
//	{"success": true, "trade": {...}}
//
// Response 400 Bad Request - невалидный JSON или недостающие поля
func (h *StrategyHandler) ManualRebalance(w http.ResponseWriter, r *http.Request) {
	var req manualRebalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var v utils.ValidationErrors
	v.Add(utils.ValidateLoanID(req.LoanID))
	v.Add(utils.ValidateRebalanceAction(req.Action))
	v.Add(utils.ValidateAmount(req.Amount))
	if err := v.Err(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	trade, err := h.engine.ManualRebalance(req.LoanID, req.Action, req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"trade":   trade,
	})
}
