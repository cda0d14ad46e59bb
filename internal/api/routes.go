package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"loanbot/internal/api/handlers"
	"loanbot/internal/api/middleware"
	"loanbot/internal/websocket"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	Engine handlers.Engine
	Hub    *websocket.Hub

	// Basic auth на /api/v1; выключено если AuthEnabled == false
	AuthEnabled  bool
	AuthUser     string
	AuthPassHash string
}

// SetupRoutes настраивает все HTTP маршруты приложения
//
// Структура маршрутов:
//
// /api/v1/
//
//	├── /bot/
//	│   ├── POST /start - запустить мониторинг
//	│   ├── POST /stop - остановить мониторинг
//	│   └── GET /status - состояние движка
//	├── /loans/
//	│   ├── GET /positions - позиции с риск-метриками
//	│   ├── GET /available - доступные продукты
//	│   └── GET /collaterals - сводка обеспечения
//	└── /strategy/
//	    ├── GET /analysis - полный срез стратегии
//	    ├── GET /opportunities - возможности последнего цикла
//	    ├── GET /stats - статистика
//	    ├── GET /trade-history - журнал операций
//	    ├── GET /execution-status - состояние исполнения
//	    ├── POST /manual-arbitrage - учесть перекладку
//	    └── POST /manual-rebalance - учесть ребалансировку
//
// /ws/stream - WebSocket для real-time обновлений
// /health - проверка живости (без auth)
// /metrics - Prometheus метрики (без auth)
//
// Middleware применяется в следующем порядке:
//  1. Recovery (для всех маршрутов)
//  2. Logging (для всех маршрутов)
//  3. CORS (для всех маршрутов)
//  4. BasicAuth (только /api/v1, если включен)
func SetupRoutes(deps *Dependencies) *mux.Router {
	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	router.Use(middleware.CORS)

	botHandler := handlers.NewBotHandler(deps.Engine)
	loansHandler := handlers.NewLoansHandler(deps.Engine)
	strategyHandler := handlers.NewStrategyHandler(deps.Engine)

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	if deps.AuthEnabled {
		api.Use(middleware.BasicAuth(deps.AuthUser, deps.AuthPassHash))
	}

	// Bot lifecycle routes
	api.HandleFunc("/bot/start", botHandler.StartBot).Methods("POST")
	api.HandleFunc("/bot/stop", botHandler.StopBot).Methods("POST")
	api.HandleFunc("/bot/status", botHandler.GetStatus).Methods("GET")

	// Loans routes
	api.HandleFunc("/loans/positions", loansHandler.GetPositions).Methods("GET")
	api.HandleFunc("/loans/available", loansHandler.GetAvailableLoans).Methods("GET")
	api.HandleFunc("/loans/collaterals", loansHandler.GetCollaterals).Methods("GET")

	// Strategy routes
	api.HandleFunc("/strategy/analysis", strategyHandler.GetAnalysis).Methods("GET")
	api.HandleFunc("/strategy/opportunities", strategyHandler.GetOpportunities).Methods("GET")
	api.HandleFunc("/strategy/stats", strategyHandler.GetStats).Methods("GET")
	api.HandleFunc("/strategy/trade-history", strategyHandler.GetTradeHistory).Methods("GET")
	api.HandleFunc("/strategy/execution-status", strategyHandler.GetExecutionStatus).Methods("GET")
	api.HandleFunc("/strategy/manual-arbitrage", strategyHandler.ManualArbitrage).Methods("POST")
	api.HandleFunc("/strategy/manual-rebalance", strategyHandler.ManualRebalance).Methods("POST")

	// WebSocket route
	if deps.Hub != nil {
		router.HandleFunc("/ws/stream", func(w http.ResponseWriter, r *http.Request) {
			websocket.ServeWS(deps.Hub, w, r)
		})
	}

	// Prometheus метрики
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
