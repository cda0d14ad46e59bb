package bot

import (
	"context"
	"fmt"
	"sync"

	"loanbot/internal/exchange"
	"loanbot/internal/models"
	"loanbot/pkg/utils"
)

// ClientFactory создает клиента биржи для указанного endpoint
//
// Вынесено в фабрику чтобы тесты могли подставлять фейковые клиенты
// вместо реальных REST соединений.
type ClientFactory func(name, baseURL, apiKey, secretKey string) exchange.Client

// DefaultClientFactory создает настоящий REST клиент
func DefaultClientFactory(name, baseURL, apiKey, secretKey string) exchange.Client {
	return exchange.NewRESTClient(name, baseURL, apiKey, secretKey)
}

// Connector устанавливает сессию с биржей с учетом гео-ограничений
type Connector struct {
	factory    ClientFactory
	logger     *utils.Logger
	useTestnet bool

	mu        sync.Mutex
	apiKey    string
	secretKey string
}

// NewConnector создает Connector с указанной фабрикой клиентов.
// useTestnet направляет подключение сразу на testnet, минуя основной
// endpoint.
func NewConnector(factory ClientFactory, apiKey, secretKey string, useTestnet bool, logger *utils.Logger) *Connector {
	return &Connector{
		factory:    factory,
		apiKey:     apiKey,
		secretKey:  secretKey,
		useTestnet: useTestnet,
		logger:     logger,
	}
}

// SetCredentials заменяет ключи для последующих подключений.
// Пустое значение не затирает текущее - можно заменить только ключ
// или только секрет.
func (c *Connector) SetCredentials(apiKey, secretKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if apiKey != "" {
		c.apiKey = apiKey
	}
	if secretKey != "" {
		c.secretKey = secretKey
	}
}

// Connect пробует установить рабочую сессию
//
// Последовательность:
//  1. Основной endpoint (или сразу testnet при useTestnet). Успешный
//     GetAccount → режим live.
//  2. Гео-ограничение на основном → пробуем testnet. Успех → live.
//  3. Testnet тоже недоступен → симулированный режим: движок работает
//     на демо-данных, ключи сохраняются для будущих переподключений.
//
// Ошибка основного endpoint'а не связанная с гео-ограничением
// (неверные ключи, сеть) - это отказ подключения, fallback не делаем.
func (c *Connector) Connect(ctx context.Context) (exchange.Client, models.ConnectivityMode, error) {
	c.mu.Lock()
	apiKey, secretKey := c.apiKey, c.secretKey
	c.mu.Unlock()

	var v utils.ValidationErrors
	v.Add(utils.ValidateAPIKey(apiKey))
	v.Add(utils.ValidateAPISecret(secretKey))
	if err := v.Err(); err != nil {
		return nil, models.ModeDisconnected, fmt.Errorf("api credentials: %w", err)
	}

	if c.useTestnet {
		return c.connectTestnet(ctx, apiKey, secretKey)
	}

	primary := c.factory("binance", exchange.PrimaryBaseURL, apiKey, secretKey)
	account, err := primary.GetAccount(ctx)
	if err == nil {
		c.logger.Infow("connected to exchange", "endpoint", "primary", "account_type", account.AccountType)
		return primary, models.ModeLive, nil
	}
	_ = primary.Close()

	if exchange.IsAuthError(err) {
		return nil, models.ModeDisconnected, fmt.Errorf("authentication failed: %w", err)
	}
	if !exchange.IsRestrictedLocation(err) {
		return nil, models.ModeDisconnected, fmt.Errorf("exchange connection failed: %w", err)
	}

	c.logger.Warnw("primary endpoint restricted, trying testnet", "error", err)

	testnet := c.factory("binance-testnet", exchange.TestnetBaseURL, apiKey, secretKey)
	account, err = testnet.GetAccount(ctx)
	if err == nil {
		c.logger.Infow("connected to exchange", "endpoint", "testnet", "account_type", account.AccountType)
		return testnet, models.ModeLive, nil
	}
	_ = testnet.Close()

	// Оба endpoint'а недоступны: работаем на синтетических данных.
	// Ключи остаются в Connector - повторный Connect снова попробует live.
	c.logger.Warnw("testnet unavailable, falling back to simulated mode", "error", err)
	return exchange.NewSimulatedClient(), models.ModeSimulated, nil
}

// connectTestnet - укороченная лестница для useTestnet: основной
// endpoint не трогаем, неудача testnet сразу уводит в симуляцию (кроме
// ошибок аутентификации).
func (c *Connector) connectTestnet(ctx context.Context, apiKey, secretKey string) (exchange.Client, models.ConnectivityMode, error) {
	testnet := c.factory("binance-testnet", exchange.TestnetBaseURL, apiKey, secretKey)
	account, err := testnet.GetAccount(ctx)
	if err == nil {
		c.logger.Infow("connected to exchange", "endpoint", "testnet", "account_type", account.AccountType)
		return testnet, models.ModeLive, nil
	}
	_ = testnet.Close()

	if exchange.IsAuthError(err) {
		return nil, models.ModeDisconnected, fmt.Errorf("authentication failed: %w", err)
	}

	c.logger.Warnw("testnet unavailable, falling back to simulated mode", "error", err)
	return exchange.NewSimulatedClient(), models.ModeSimulated, nil
}
