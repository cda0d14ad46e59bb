package utils

import (
	"fmt"
	"time"
)

// UnixMillis возвращает время в миллисекундах unix-эпохи
// (формат таймстампов биржевого API).
func UnixMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromUnixMillis восстанавливает время из миллисекунд unix-эпохи
func FromUnixMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// FormatDuration форматирует длительность в человекочитаемый вид:
// "2d 3h 15m", "45m 12s", "8s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}
