package handlers

import (
	"net/http"
)

// LoansHandler обрабатывает запросы к данным займов.
//
// Endpoints:
// - GET /api/v1/loans/positions - текущие позиции с риск-метриками
// - GET /api/v1/loans/available - доступные займовые продукты
// - GET /api/v1/loans/collaterals - сводка по активам обеспечения
type LoansHandler struct {
	engine Engine
}

// NewLoansHandler создает новый LoansHandler с внедрением зависимостей.
func NewLoansHandler(engine Engine) *LoansHandler {
	return &LoansHandler{engine: engine}
}

// GetPositions возвращает снапшот займовых позиций.
//
// GET /api/v1/loans/positions
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "positions": [
//	    {
//	      "loan_id": "...",
//	      "loan_coin": "BTC",
//	      "collateral_coin": "USDT",
//	      "ltv_percentage": 68.5,
//	      "margin_call_buffer": 16.5,
//	      "risk_level": "LOW",
//	      ...
//	    }
//	  ],
//	  "count": 1
//	}
//
// Пустой снапшот отдается как [], не null.
func (h *LoansHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	positions := h.engine.Positions()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"positions": positions,
		"count":     len(positions),
	})
}

// GetAvailableLoans возвращает доступные займовые продукты.
//
// GET /api/v1/loans/available
//
// Response 200 OK:
//
//	{"success": true, "loans": [...], "count": 3}
func (h *LoansHandler) GetAvailableLoans(w http.ResponseWriter, r *http.Request) {
	loans := h.engine.AvailableLoans()

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"loans":   loans,
		"count":   len(loans),
	})
}

// collateralSummary - агрегат по одному активу обеспечения
type collateralSummary struct {
	Asset       string  `json:"asset"`
	TotalAmount float64 `json:"total_amount"`
	Positions   int     `json:"positions"`
}

// GetCollaterals возвращает сводку по обеспечению.
//
// GET /api/v1/loans/collaterals
//
// Агрегирует текущие позиции по активу обеспечения:
//
//	{
//	  "success": true,
//	  "collaterals": [
//	    {"asset": "USDT", "total_amount": 57000, "positions": 2}
//	  ],
//	  "count": 1
//	}
func (h *LoansHandler) GetCollaterals(w http.ResponseWriter, r *http.Request) {
	positions := h.engine.Positions()

	// Порядок стабильный: по первому появлению актива в снапшоте
	order := make([]string, 0)
	byAsset := make(map[string]*collateralSummary)
	for _, p := range positions {
		summary, ok := byAsset[p.CollateralCoin]
		if !ok {
			summary = &collateralSummary{Asset: p.CollateralCoin}
			byAsset[p.CollateralCoin] = summary
			order = append(order, p.CollateralCoin)
		}
		summary.TotalAmount += p.CollateralAmount
		summary.Positions++
	}

	collaterals := make([]collateralSummary, 0, len(order))
	for _, asset := range order {
		collaterals = append(collaterals, *byAsset[asset])
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"collaterals": collaterals,
		"count":       len(collaterals),
	})
}
