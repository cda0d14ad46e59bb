package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"loanbot/internal/models"
	"loanbot/pkg/utils"
)

// normalize.go - нормализация сырых ответов биржи в канонические типы.
//
// Единственное место, где движок видит гетерогенные ключи и строковые
// числа. Битая запись возвращает ошибку и пропускается вызывающим
// кодом; цикл обновления при этом продолжается с остальными записями.

// Ошибки нормализации
var (
	ErrMissingLoanCoin  = errors.New("position has neither loanCoin nor asset")
	ErrNegativeQuantity = errors.New("negative quantity in position")
	ErrMissingAsset     = errors.New("loan product has neither asset nor assetName")
)

// defaultAnnualRate - ставка по умолчанию, когда биржа не отдает
// flexibleInterestRate для продукта
const defaultAnnualRate = 0.08

// NormalizePosition преобразует сырую позицию в каноническую форму.
//
// Альтернативные ключи схлопываются, LTV приводится к двум шкалам
// (доля и проценты), тело займа берется из loanAmount либо из долга.
// Риск-метрики здесь не заполняются - это работа классификатора.
func NormalizePosition(raw RawPosition, now time.Time) (models.Position, error) {
	loanCoin := utils.NormalizeAsset(raw.LoanCoin)
	if loanCoin == "" {
		loanCoin = utils.NormalizeAsset(raw.Asset)
	}
	if loanCoin == "" {
		return models.Position{}, ErrMissingLoanCoin
	}

	collateralCoin := utils.NormalizeAsset(raw.CollateralCoin)
	if collateralCoin == "" {
		collateralCoin = utils.NormalizeAsset(raw.Asset)
	}

	totalDebt, err := numberOrAlt(raw.TotalDebt, raw.TotalAmount)
	if err != nil {
		return models.Position{}, fmt.Errorf("totalDebt: %w", err)
	}

	collateralAmount, err := parseNumber(raw.CollateralAmount)
	if err != nil {
		return models.Position{}, fmt.Errorf("collateralAmount: %w", err)
	}
	if collateralAmount < 0 || totalDebt < 0 {
		return models.Position{}, ErrNegativeQuantity
	}

	currentLTV, err := parseNumber(raw.CurrentLTV)
	if err != nil {
		return models.Position{}, fmt.Errorf("currentLTV: %w", err)
	}

	// Биржа отдает LTV то долей (0.65), то процентами (65.0).
	// Инвариант канонической формы: LTVPercentage всегда 0-100.
	ltvPercentage := currentLTV
	if currentLTV < 1 {
		ltvPercentage = currentLTV * 100
	}

	loanAmount, err := parseNumber(raw.LoanAmount)
	if err != nil || loanAmount == 0 {
		loanAmount = totalDebt
	}

	// Ставки опциональны: отсутствие не делает запись битой
	hourlyRate, _ := parseNumber(raw.HourlyRate)
	hourlyInterest, _ := parseNumber(raw.HourlyInterest)

	loanID := raw.LoanID
	if loanID == "" {
		loanID = loanCoin + "_" + collateralCoin
	}

	return models.Position{
		LoanID:           loanID,
		LoanCoin:         loanCoin,
		CollateralCoin:   collateralCoin,
		TotalDebt:        totalDebt,
		LoanAmount:       loanAmount,
		CollateralAmount: collateralAmount,
		CurrentLTV:       currentLTV,
		LTVPercentage:    ltvPercentage,
		HourlyRate:       hourlyRate,
		HourlyInterest:   hourlyInterest,
		LastUpdated:      now,
	}, nil
}

// NormalizePositions нормализует список позиций, пропуская битые записи.
//
// Возвращает канонические позиции и количество пропущенных записей
// (вызывающий код логирует, но не прерывает цикл).
func NormalizePositions(raws []RawPosition, now time.Time) ([]models.Position, int) {
	positions := make([]models.Position, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		pos, err := NormalizePosition(raw, now)
		if err != nil {
			skipped++
			continue
		}
		positions = append(positions, pos)
	}
	return positions, skipped
}

// NormalizeProduct преобразует сырой займовый продукт в каноническую форму
func NormalizeProduct(raw RawLoanProduct) (models.LoanProduct, error) {
	asset := utils.NormalizeAsset(raw.Asset)
	if asset == "" {
		asset = utils.NormalizeAsset(raw.AssetName)
	}
	if asset == "" {
		return models.LoanProduct{}, ErrMissingAsset
	}
	if err := utils.ValidateAsset(asset); err != nil {
		return models.LoanProduct{}, err
	}

	minAmount, err := parseNumber(raw.MinAmount)
	if err != nil {
		return models.LoanProduct{}, fmt.Errorf("minLimit: %w", err)
	}
	maxAmount, err := parseNumber(raw.MaxAmount)
	if err != nil {
		return models.LoanProduct{}, fmt.Errorf("maxLimit: %w", err)
	}

	annualRate, err := parseNumber(raw.AnnualRate)
	if err != nil || annualRate == 0 {
		annualRate = defaultAnnualRate
	}

	status := models.LoanStatusAvailable
	if raw.Status != "" && raw.Status != "AVAILABLE" && raw.Status != "available" {
		status = models.LoanStatusUnavailable
	}

	return models.LoanProduct{
		Asset:      asset,
		MinAmount:  minAmount,
		MaxAmount:  maxAmount,
		AnnualRate: annualRate,
		HourlyRate: annualRate / models.HoursPerYear,
		Status:     status,
	}, nil
}

// NormalizeProducts нормализует список продуктов, пропуская битые записи
func NormalizeProducts(raws []RawLoanProduct) ([]models.LoanProduct, int) {
	products := make([]models.LoanProduct, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		product, err := NormalizeProduct(raw)
		if err != nil {
			skipped++
			continue
		}
		products = append(products, product)
	}
	return products, skipped
}

// parseNumber разбирает json.Number; пустое значение - это 0 c ошибкой,
// чтобы вызывающий код сам решал, опционально поле или обязательно
func parseNumber(n json.Number) (float64, error) {
	if n == "" {
		return 0, errors.New("missing value")
	}
	return n.Float64()
}

// numberOrAlt берет первое непустое из двух альтернативных ключей
func numberOrAlt(primary, alt json.Number) (float64, error) {
	if primary != "" {
		return primary.Float64()
	}
	return parseNumber(alt)
}
