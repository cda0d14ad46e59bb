package exchange

import (
	"context"
	"encoding/json"
)

// SimulatedClient - детерминированный клиент для работы без биржи
//
// Используется когда оба endpoint'а недоступны из-за гео-ограничений.
// Отдаёт фиксированный набор позиций и продуктов, никогда не возвращает
// ошибку - мониторинг и анализ продолжают работать на демо-данных.
type SimulatedClient struct{}

// NewSimulatedClient создает клиент с демо-данными
func NewSimulatedClient() *SimulatedClient {
	return &SimulatedClient{}
}

// Name возвращает имя клиента для логов
func (c *SimulatedClient) Name() string {
	return "simulated"
}

// GetAccount возвращает фиктивный аккаунт
func (c *SimulatedClient) GetAccount(ctx context.Context) (*Account, error) {
	return &Account{
		AccountType: "SIMULATED",
		CanTrade:    true,
		CanBorrow:   true,
	}, nil
}

// GetLoanPositions возвращает две демо-позиции
//
// Позиции подобраны так, что разница их эффективных часовых ставок
// (1.5 против 0.96) даёт арбитражную возможность с высокой уверенностью.
func (c *SimulatedClient) GetLoanPositions(ctx context.Context) ([]RawPosition, error) {
	return []RawPosition{
		{
			LoanID:             "SIM_BTC_USDT",
			LoanCoin:           "BTC",
			CollateralCoin:     "USDT",
			TotalDebt:          json.Number("0.5"),
			LoanAmount:         json.Number("0.5"),
			CollateralAmount:   json.Number("25000"),
			CurrentLTV:         json.Number("0.685"),
			HourlyRate:         json.Number("1.5"),
			HourlyInterest:     json.Number("1.5"),
		},
		{
			LoanID:             "SIM_ETH_USDT",
			LoanCoin:           "ETH",
			CollateralCoin:     "USDT",
			TotalDebt:          json.Number("10"),
			LoanAmount:         json.Number("10"),
			CollateralAmount:   json.Number("32000"),
			CurrentLTV:         json.Number("0.723"),
			HourlyRate:         json.Number("0.96"),
			HourlyInterest:     json.Number("0.96"),
		},
	}, nil
}

// GetLoanProducts возвращает три демо-продукта
func (c *SimulatedClient) GetLoanProducts(ctx context.Context) ([]RawLoanProduct, error) {
	return []RawLoanProduct{
		{
			Asset:      "USDT",
			MinAmount:  json.Number("100"),
			MaxAmount:  json.Number("1000000"),
			AnnualRate: json.Number("0.08"),
			Status:     "AVAILABLE",
		},
		{
			Asset:      "USDC",
			MinAmount:  json.Number("100"),
			MaxAmount:  json.Number("500000"),
			AnnualRate: json.Number("0.075"),
			Status:     "AVAILABLE",
		},
		{
			Asset:      "BUSD",
			MinAmount:  json.Number("100"),
			MaxAmount:  json.Number("250000"),
			AnnualRate: json.Number("0.09"),
			Status:     "AVAILABLE",
		},
	}, nil
}

// Close закрывает клиент
func (c *SimulatedClient) Close() error {
	return nil
}
