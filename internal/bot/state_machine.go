package bot

import "loanbot/internal/models"

// ValidTransitions определяет допустимые переходы между состояниями
var ValidTransitions = map[string][]string{
	models.StateStopped:  {models.StateRunning},
	models.StateRunning:  {models.StateStopping},
	models.StateStopping: {models.StateStopped},
}

// CanTransition проверяет допустимость перехода
func CanTransition(from, to string) bool {
	allowed, ok := ValidTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// StateInfo возвращает описание состояния для UI
func StateInfo(s string) string {
	switch s {
	case models.StateStopped:
		return "Мониторинг остановлен"
	case models.StateRunning:
		return "Мониторинг позиций запущен"
	case models.StateStopping:
		return "Остановка мониторинга..."
	default:
		return "Неизвестное состояние"
	}
}

// IsActive возвращает true если цикл обновления еще работает
func IsActive(s string) bool {
	return s == models.StateRunning || s == models.StateStopping
}
