package websocket

import (
	"time"

	"loanbot/internal/models"
)

// MessageType определяет тип WebSocket сообщения
type MessageType string

// Типы WebSocket сообщений
const (
	// MessageTypePositionsUpdate - свежий снапшот позиций
	// Отправляется после каждого цикла обновления
	MessageTypePositionsUpdate MessageType = "positionsUpdate"

	// MessageTypeStatsUpdate - обновление статистики
	// Отправляется после регистрации ручной операции
	MessageTypeStatsUpdate MessageType = "statsUpdate"

	// MessageTypeOpportunityAlert - найдена арбитражная возможность
	// Отправляется для каждой возможности с уверенностью HIGH
	MessageTypeOpportunityAlert MessageType = "opportunityAlert"

	// MessageTypeStateChange - смена состояния движка (start/stop)
	MessageTypeStateChange MessageType = "stateChange"
)

// BaseMessage - базовая структура для всех WebSocket сообщений
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
}

// PositionsUpdateMessage - снапшот позиций после цикла обновления
type PositionsUpdateMessage struct {
	BaseMessage
	Positions []models.Position `json:"positions"`
	AtRisk    int               `json:"positions_at_risk"`
}

// StatsUpdateMessage - сообщение с агрегированной статистикой
type StatsUpdateMessage struct {
	BaseMessage
	Data models.Stats `json:"data"`
}

// OpportunityAlertMessage - уведомление об арбитражной возможности
type OpportunityAlertMessage struct {
	BaseMessage
	Data models.Opportunity `json:"data"`
}

// StateChangeMessage - смена состояния движка
type StateChangeMessage struct {
	BaseMessage
	State string                  `json:"state"`
	Mode  models.ConnectivityMode `json:"connectivity_mode"`
}

// ============ Фабричные функции для создания сообщений ============

// NewPositionsUpdateMessage создает сообщение со снапшотом позиций
func NewPositionsUpdateMessage(positions []models.Position, atRisk int) *PositionsUpdateMessage {
	return &PositionsUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypePositionsUpdate,
			Timestamp: time.Now(),
		},
		Positions: positions,
		AtRisk:    atRisk,
	}
}

// NewStatsUpdateMessage создает сообщение обновления статистики
func NewStatsUpdateMessage(stats models.Stats) *StatsUpdateMessage {
	return &StatsUpdateMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeStatsUpdate,
			Timestamp: time.Now(),
		},
		Data: stats,
	}
}

// NewOpportunityAlertMessage создает уведомление о возможности
func NewOpportunityAlertMessage(opp models.Opportunity) *OpportunityAlertMessage {
	return &OpportunityAlertMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeOpportunityAlert,
			Timestamp: time.Now(),
		},
		Data: opp,
	}
}

// NewStateChangeMessage создает сообщение о смене состояния движка
func NewStateChangeMessage(state string, mode models.ConnectivityMode) *StateChangeMessage {
	return &StateChangeMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeStateChange,
			Timestamp: time.Now(),
		},
		State: state,
		Mode:  mode,
	}
}
