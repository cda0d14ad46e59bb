package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// Допустимые действия ребалансировки
var validRebalanceActions = map[string]bool{
	"increase": true,
	"reduce":   true,
}

// assetPattern - тикер актива: 2-10 заглавных букв/цифр (BTC, USDT, 1INCH)
var assetPattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

// ValidateAsset проверяет формат тикера актива
func ValidateAsset(asset string) error {
	if asset == "" {
		return fmt.Errorf("asset cannot be empty")
	}
	if !assetPattern.MatchString(asset) {
		return fmt.Errorf("invalid asset format: %q", asset)
	}
	return nil
}

// NormalizeAsset приводит тикер к каноничному виду
func NormalizeAsset(asset string) string {
	return strings.ToUpper(strings.TrimSpace(asset))
}

// ValidateAmount проверяет объем операции (> 0)
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %v", amount)
	}
	return nil
}

// ValidateLoanID проверяет идентификатор позиции
func ValidateLoanID(loanID string) error {
	if strings.TrimSpace(loanID) == "" {
		return fmt.Errorf("loan id cannot be empty")
	}
	if len(loanID) > 64 {
		return fmt.Errorf("loan id too long: %d characters", len(loanID))
	}
	return nil
}

// ValidateRebalanceAction проверяет действие ребалансировки
func ValidateRebalanceAction(action string) error {
	if action == "" {
		return fmt.Errorf("action cannot be empty")
	}
	if !validRebalanceActions[strings.ToLower(action)] {
		return fmt.Errorf("invalid rebalance action: %q (expected increase or reduce)", action)
	}
	return nil
}

// ValidateLTVRatio проверяет что LTV задан как доля (0, 1]
func ValidateLTVRatio(ltv float64) error {
	if ltv <= 0 || ltv > 1 {
		return fmt.Errorf("ltv ratio must be in (0, 1], got %v", ltv)
	}
	return nil
}

// ValidateAPIKey делает базовую проверку формата API ключа
func ValidateAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("api key cannot be empty")
	}
	if len(apiKey) < 16 {
		return fmt.Errorf("api key too short")
	}
	return nil
}

// ValidateAPISecret делает базовую проверку формата API секрета
func ValidateAPISecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("api secret cannot be empty")
	}
	if len(secret) < 16 {
		return fmt.Errorf("api secret too short")
	}
	return nil
}

// ============================================================
// Накопитель ошибок валидации
// ============================================================

// ValidationErrors собирает несколько ошибок валидации в одну
type ValidationErrors struct {
	errors []string
}

// Add добавляет ошибку если err != nil
func (v *ValidationErrors) Add(err error) {
	if err != nil {
		v.errors = append(v.errors, err.Error())
	}
}

// HasErrors возвращает true если были ошибки
func (v *ValidationErrors) HasErrors() bool {
	return len(v.errors) > 0
}

// Error реализует интерфейс error
func (v *ValidationErrors) Error() string {
	return strings.Join(v.errors, "; ")
}

// Err возвращает nil если ошибок не было
func (v *ValidationErrors) Err() error {
	if v.HasErrors() {
		return v
	}
	return nil
}
