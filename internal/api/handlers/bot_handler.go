package handlers

import (
	"errors"
	"io"
	"net/http"

	"loanbot/internal/bot"
	"loanbot/pkg/utils"
)

// BotHandler обрабатывает запросы жизненного цикла движка.
//
// Endpoints:
// - POST /api/v1/bot/start - запустить мониторинг
// - POST /api/v1/bot/stop - остановить мониторинг
// - GET /api/v1/bot/status - текущее состояние
type BotHandler struct {
	engine Engine
}

// NewBotHandler создает новый BotHandler с внедрением зависимостей.
func NewBotHandler(engine Engine) *BotHandler {
	return &BotHandler{engine: engine}
}

// StartBot запускает цикл мониторинга.
//
// POST /api/v1/bot/start
//
// Тело запроса опционально: можно передать ключи API и переопределить
// LTV коридор и авторебаланс на эту сессию. Если сессии с биржей еще
// нет, подключение выполняется внутри запуска (с fallback на testnet
// и симулированный режим).
//
// Request body (все поля опциональны):
//
//	{"api_key": "...", "api_secret": "...", "max_ltv": 0.8, "min_ltv": 0.6, "auto_rebalance": true}
//
// Response 200 OK:
//
//	{"success": true, "message": "Bot started", "status": {...}}
//
// Response 400 Bad Request - движок уже запущен или параметры невалидны
// Response 502 Bad Gateway - подключение к бирже не удалось
func (h *BotHandler) StartBot(w http.ResponseWriter, r *http.Request) {
	var params bot.StartParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var v utils.ValidationErrors
	if params.APIKey != "" {
		v.Add(utils.ValidateAPIKey(params.APIKey))
	}
	if params.APISecret != "" {
		v.Add(utils.ValidateAPISecret(params.APISecret))
	}
	if params.MaxLTV != nil {
		v.Add(utils.ValidateLTVRatio(*params.MaxLTV))
	}
	if params.MinLTV != nil {
		v.Add(utils.ValidateLTVRatio(*params.MinLTV))
	}
	if err := v.Err(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engine.Start(r.Context(), params); err != nil {
		switch {
		case errors.Is(err, bot.ErrAlreadyRunning):
			respondError(w, http.StatusBadRequest, "bot is already running")
		case errors.Is(err, bot.ErrInvalidCorridor):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Bot started",
		"status":  h.engine.Status(),
	})
}

// StopBot останавливает цикл мониторинга.
//
// POST /api/v1/bot/stop
//
// Response 200 OK:
//
//	{"success": true, "message": "Bot stopped", "status": {...}}
//
// Response 400 Bad Request - движок не запущен
func (h *BotHandler) StopBot(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Stop(); err != nil {
		if errors.Is(err, bot.ErrNotRunning) {
			respondError(w, http.StatusBadRequest, "bot is not running")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Bot stopped",
		"status":  h.engine.Status(),
	})
}

// GetStatus возвращает текущее состояние движка.
//
// GET /api/v1/bot/status
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "status": {
//	    "running": true,
//	    "state": "running",
//	    "connectivity_mode": "simulated",
//	    "last_update": "2026-08-30T12:00:00Z",
//	    "positions_count": 2,
//	    "configuration": {...}
//	  }
//	}
func (h *BotHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  h.engine.Status(),
	})
}
