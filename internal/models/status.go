package models

import "time"

// ConnectivityMode - режим подключения движка к бирже
type ConnectivityMode string

// Режимы подключения
const (
	ModeDisconnected ConnectivityMode = "disconnected" // сессии нет
	ModeLive         ConnectivityMode = "live"         // рабочая сессия с биржей
	ModeSimulated    ConnectivityMode = "simulated"    // синтетические данные (гео-ограничение)
)

// Состояния жизненного цикла движка
const (
	StateStopped  = "stopped"  // движок не работает
	StateRunning  = "running"  // цикл обновления активен
	StateStopping = "stopping" // остановка запрошена, ждем завершения цикла
)

// BotStatus представляет текущее состояние движка для API
type BotStatus struct {
	Running          bool             `json:"running"`
	State            string           `json:"state"`
	ConnectivityMode ConnectivityMode `json:"connectivity_mode"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	LastUpdate       *time.Time       `json:"last_update"`
	PositionsCount   int              `json:"positions_count"`
	Configuration    BotConfiguration `json:"configuration"`
}

// BotConfiguration - действующие параметры движка, видимые через статус
type BotConfiguration struct {
	MaxLTV          float64 `json:"max_ltv"`
	MinLTV          float64 `json:"min_ltv"`
	TargetLTV       float64 `json:"target_ltv"`
	AutoRebalance   bool    `json:"auto_rebalance"`
	MarginCallLTV   float64 `json:"margin_call_ltv"`
	LiquidationLTV  float64 `json:"liquidation_ltv"`
	RefreshInterval int     `json:"refresh_interval_seconds"`
	UseTestnet      bool    `json:"use_testnet"`
}
