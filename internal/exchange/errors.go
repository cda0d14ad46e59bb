package exchange

import (
	"errors"
	"strings"
)

// ExchangeError представляет ошибку займового API биржи
//
// Движку важно различать класс "restricted location" (гео-ограничение,
// переход в симулированный режим) от всех остальных, поэтому
// классификация живет здесь, а не размазана строковыми проверками
// по вызывающему коду.
type ExchangeError struct {
	Endpoint   string
	Code       string
	Message    string
	HTTPStatus int
	Original   error
}

func (e *ExchangeError) Error() string {
	if e.Code != "" {
		return e.Endpoint + ": " + e.Code + ": " + e.Message
	}
	return e.Endpoint + ": " + e.Message
}

// Unwrap возвращает оригинальную ошибку для errors.Is() и errors.As()
func (e *ExchangeError) Unwrap() error {
	return e.Original
}

// Коды ошибок биржи, которые классифицируются отдельно
const (
	// codeRestrictedLocation - ответ биржи при запросе из запрещенной юрисдикции
	codeRestrictedLocation = "-71012"

	// codeInvalidAPIKey - неверный API key или подпись
	codeInvalidAPIKey = "-2015"
)

// IsRestrictedLocation возвращает true для ошибок класса "restricted location"
//
// Биржа отдает либо явный код, либо HTTP 451, либо текст с упоминанием
// ограничения - проверяем все три формы.
func IsRestrictedLocation(err error) bool {
	var exchErr *ExchangeError
	if !errors.As(err, &exchErr) {
		return false
	}
	if exchErr.Code == codeRestrictedLocation || exchErr.HTTPStatus == 451 {
		return true
	}
	return strings.Contains(strings.ToLower(exchErr.Message), "restricted location")
}

// IsAuthError возвращает true для ошибок аутентификации (ключ/подпись)
func IsAuthError(err error) bool {
	var exchErr *ExchangeError
	if !errors.As(err, &exchErr) {
		return false
	}
	return exchErr.Code == codeInvalidAPIKey || exchErr.HTTPStatus == 401
}
