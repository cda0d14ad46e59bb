// Package integration contains integration tests for the loan monitoring bot.
//
// These tests verify the correct interaction between components:
// - API integration tests: full HTTP request cycle through router and engine
// - WebSocket tests: connection, broadcast messaging
//
// The whole stack runs in-process on the simulated exchange client,
// no external services are required.
package integration

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"loanbot/internal/api"
	"loanbot/internal/bot"
	"loanbot/internal/exchange"
	"loanbot/internal/websocket"
	"loanbot/pkg/utils"
)

// restrictedClient эмулирует endpoint за гео-ограничением:
// любой запрос возвращает ошибку "restricted location".
type restrictedClient struct {
	name string
}

func (c *restrictedClient) GetAccount(ctx context.Context) (*exchange.Account, error) {
	return nil, &exchange.ExchangeError{
		Endpoint:   "/api/v3/account",
		Code:       "-71012",
		Message:    "Service unavailable from a restricted location",
		HTTPStatus: 451,
	}
}

func (c *restrictedClient) GetLoanPositions(ctx context.Context) ([]exchange.RawPosition, error) {
	return nil, &exchange.ExchangeError{Endpoint: "/sapi/v2/loan/flexible/ongoing/orders", HTTPStatus: 451}
}

func (c *restrictedClient) GetLoanProducts(ctx context.Context) ([]exchange.RawLoanProduct, error) {
	return nil, &exchange.ExchangeError{Endpoint: "/sapi/v2/loan/flexible/loanable/data", HTTPStatus: 451}
}

func (c *restrictedClient) Name() string { return c.name }
func (c *restrictedClient) Close() error { return nil }

// restrictedFactory подставляется вместо DefaultClientFactory:
// оба endpoint'а "за стеной", Connect уходит в симулированный режим.
func restrictedFactory(name, baseURL, apiKey, secretKey string) exchange.Client {
	return &restrictedClient{name: name}
}

// TestServer объединяет движок, hub и HTTP сервер для теста
type TestServer struct {
	Server *httptest.Server
	Engine *bot.Engine
	Hub    *websocket.Hub
}

// testEngineConfig - конфигурация движка с быстрым циклом обновления
func testEngineConfig() bot.Config {
	return bot.Config{
		MaxLTV:          0.75,
		MinLTV:          0.65,
		TargetLTV:       0.70,
		MarginCallLTV:   0.85,
		LiquidationLTV:  0.91,
		RefreshInterval: 50 * time.Millisecond,
		StopTimeout:     2 * time.Second,
	}
}

// SetupTestServer собирает полный стек на симулированном клиенте
//
// Движок подключен (simulated mode), но не запущен - тесты сами
// решают когда дергать /bot/start.
func SetupTestServer(t *testing.T) *TestServer {
	t.Helper()

	logger := utils.InitLogger(utils.LogConfig{Level: "error", Format: "console"})

	hub := websocket.NewHub()
	go hub.Run()

	connector := bot.NewConnector(restrictedFactory, "test-api-key-0123456789", "test-secret-key-0123456789", false, logger)
	engine := bot.NewEngine(testEngineConfig(), connector, hub, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := engine.Connect(ctx); err != nil {
		t.Fatalf("engine connect: %v", err)
	}

	router := api.SetupRoutes(&api.Dependencies{
		Engine: engine,
		Hub:    hub,
	})
	server := httptest.NewServer(router)

	return &TestServer{
		Server: server,
		Engine: engine,
		Hub:    hub,
	}
}

// Cleanup останавливает движок и сервер
func (ts *TestServer) Cleanup() {
	_ = ts.Engine.Stop() // ErrNotRunning если тест не запускал движок
	ts.Hub.Stop()
	ts.Server.Close()
}
