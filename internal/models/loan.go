package models

// LoanProduct представляет доступный займовый продукт биржи
//
// Список продуктов, как и позиции, заменяется целиком на каждом
// цикле обновления - инкрементальных мутаций нет.
type LoanProduct struct {
	Asset      string  `json:"asset"`
	MinAmount  float64 `json:"min_amount"`
	MaxAmount  float64 `json:"max_amount"`
	AnnualRate float64 `json:"annual_rate"`
	HourlyRate float64 `json:"hourly_rate"` // производное: AnnualRate / 8760
	Status     string  `json:"status"`
}

// Статусы займовых продуктов
const (
	LoanStatusAvailable   = "AVAILABLE"
	LoanStatusUnavailable = "UNAVAILABLE"
)

// HoursPerYear - количество часов в году для пересчета годовой ставки в часовую
const HoursPerYear = 365 * 24
