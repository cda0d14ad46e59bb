package utils

import "math"

// BufferPoints возвращает запас в процентных пунктах между порогом
// (заданным как доля, например 0.85) и текущим LTV в процентах.
func BufferPoints(thresholdLTV, ltvPct float64) float64 {
	return thresholdLTV*100 - ltvPct
}

// RateSpread возвращает разницу часовых ставок двух позиций
// в процентных пунктах.
func RateSpread(rate1, rate2 float64) float64 {
	return rate2 - rate1
}

// DailyProfitEstimate оценивает суточную выгоду от разницы ставок
// на заданном объеме (24 часовых начисления).
func DailyProfitEstimate(spread, volume float64) float64 {
	return spread * volume * 24
}

// Abs возвращает модуль числа
func Abs(x float64) float64 {
	return math.Abs(x)
}

// Min возвращает меньшее из двух чисел
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max возвращает большее из двух чисел
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Clamp ограничивает значение диапазоном [lo, hi]
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// RoundTo округляет до заданного количества знаков после запятой
func RoundTo(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}
