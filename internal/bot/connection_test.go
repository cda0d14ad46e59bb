package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanbot/internal/exchange"
	"loanbot/internal/models"
	"loanbot/pkg/utils"
)

// fakeClient реализует exchange.Client с заданными ответами
type fakeClient struct {
	name       string
	accountErr error
	closed     bool

	positions []exchange.RawPosition
	products  []exchange.RawLoanProduct

	// с какого по счету вызова GetLoanProducts начинает падать
	// (0 - не падает)
	productsFailFrom int
	productsCalls    int
}

func (c *fakeClient) GetAccount(ctx context.Context) (*exchange.Account, error) {
	if c.accountErr != nil {
		return nil, c.accountErr
	}
	return &exchange.Account{AccountType: "SPOT", CanTrade: true}, nil
}

func (c *fakeClient) GetLoanPositions(ctx context.Context) ([]exchange.RawPosition, error) {
	return c.positions, nil
}

func (c *fakeClient) GetLoanProducts(ctx context.Context) ([]exchange.RawLoanProduct, error) {
	c.productsCalls++
	if c.productsFailFrom > 0 && c.productsCalls >= c.productsFailFrom {
		return nil, errors.New("service unavailable")
	}
	return c.products, nil
}

func (c *fakeClient) Name() string { return c.name }
func (c *fakeClient) Close() error {
	c.closed = true
	return nil
}

// factoryFor строит фабрику, раздающую клиентов по baseURL
func factoryFor(clients map[string]*fakeClient) ClientFactory {
	return func(name, baseURL, apiKey, secretKey string) exchange.Client {
		return clients[baseURL]
	}
}

func restrictedErr() error {
	return &exchange.ExchangeError{
		Endpoint:   "/api/v3/account",
		Code:       "-71012",
		Message:    "Service unavailable from a restricted location",
		HTTPStatus: 451,
	}
}

func testLogger() *utils.Logger {
	return utils.InitLogger(utils.LogConfig{Level: "error", Format: "console"})
}

func TestConnector_PrimarySucceeds(t *testing.T) {
	primary := &fakeClient{name: "binance"}
	factory := factoryFor(map[string]*fakeClient{
		exchange.PrimaryBaseURL: primary,
	})

	c := NewConnector(factory, "key-0123456789abcdef", "secret-0123456789abcdef", false, testLogger())
	client, mode, err := c.Connect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.ModeLive, mode)
	assert.Same(t, primary, client)
}

func TestConnector_EmptyCredentials(t *testing.T) {
	c := NewConnector(DefaultClientFactory, "", "", false, testLogger())

	client, mode, err := c.Connect(context.Background())

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Equal(t, models.ModeDisconnected, mode)
}

func TestConnector_AuthErrorFails(t *testing.T) {
	primary := &fakeClient{
		name:       "binance",
		accountErr: &exchange.ExchangeError{Code: "-2015", Message: "Invalid API-key", HTTPStatus: 401},
	}
	factory := factoryFor(map[string]*fakeClient{
		exchange.PrimaryBaseURL: primary,
	})

	c := NewConnector(factory, "bad-key-0123456789", "bad-secret-0123456789", false, testLogger())
	client, mode, err := c.Connect(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
	assert.Nil(t, client)
	assert.Equal(t, models.ModeDisconnected, mode)
	assert.True(t, primary.closed, "failed client must be closed")
}

func TestConnector_OtherErrorFails(t *testing.T) {
	primary := &fakeClient{
		name:       "binance",
		accountErr: errors.New("connection refused"),
	}
	factory := factoryFor(map[string]*fakeClient{
		exchange.PrimaryBaseURL: primary,
	})

	c := NewConnector(factory, "key-0123456789abcdef", "secret-0123456789abcdef", false, testLogger())
	client, mode, err := c.Connect(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange connection failed")
	assert.Nil(t, client)
	assert.Equal(t, models.ModeDisconnected, mode)
}

func TestConnector_RestrictedFallsBackToTestnet(t *testing.T) {
	primary := &fakeClient{name: "binance", accountErr: restrictedErr()}
	testnet := &fakeClient{name: "binance-testnet"}
	factory := factoryFor(map[string]*fakeClient{
		exchange.PrimaryBaseURL: primary,
		exchange.TestnetBaseURL: testnet,
	})

	c := NewConnector(factory, "key-0123456789abcdef", "secret-0123456789abcdef", false, testLogger())
	client, mode, err := c.Connect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.ModeLive, mode)
	assert.Same(t, testnet, client)
	assert.True(t, primary.closed, "restricted primary must be closed")
}

func TestConnector_RestrictedEverywhereGoesSimulated(t *testing.T) {
	primary := &fakeClient{name: "binance", accountErr: restrictedErr()}
	testnet := &fakeClient{name: "binance-testnet", accountErr: errors.New("dial timeout")}
	factory := factoryFor(map[string]*fakeClient{
		exchange.PrimaryBaseURL: primary,
		exchange.TestnetBaseURL: testnet,
	})

	c := NewConnector(factory, "key-0123456789abcdef", "secret-0123456789abcdef", false, testLogger())
	client, mode, err := c.Connect(context.Background())

	require.NoError(t, err, "simulated fallback is not a connection failure")
	assert.Equal(t, models.ModeSimulated, mode)

	_, ok := client.(*exchange.SimulatedClient)
	assert.True(t, ok, "client should be SimulatedClient, got %T", client)
	assert.True(t, testnet.closed, "failed testnet client must be closed")
}

// Повторный Connect после симулированного режима снова пробует live
func TestConnector_RetainsCredentialsForReconnect(t *testing.T) {
	primary := &fakeClient{name: "binance", accountErr: restrictedErr()}
	testnet := &fakeClient{name: "binance-testnet", accountErr: errors.New("dial timeout")}
	clients := map[string]*fakeClient{
		exchange.PrimaryBaseURL: primary,
		exchange.TestnetBaseURL: testnet,
	}

	c := NewConnector(factoryFor(clients), "key-0123456789abcdef", "secret-0123456789abcdef", false, testLogger())

	_, mode, err := c.Connect(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.ModeSimulated, mode)

	// гео-ограничение снято
	clients[exchange.PrimaryBaseURL] = &fakeClient{name: "binance"}

	_, mode, err = c.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ModeLive, mode)
}

func TestConnector_UseTestnetSkipsPrimary(t *testing.T) {
	primary := &fakeClient{name: "binance"}
	testnet := &fakeClient{name: "binance-testnet"}
	factory := factoryFor(map[string]*fakeClient{
		exchange.PrimaryBaseURL: primary,
		exchange.TestnetBaseURL: testnet,
	})

	c := NewConnector(factory, "key-0123456789abcdef", "secret-0123456789abcdef", true, testLogger())
	client, mode, err := c.Connect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.ModeLive, mode)
	assert.Same(t, testnet, client, "useTestnet must dial testnet directly")
	assert.False(t, primary.closed, "primary endpoint must not be touched")
}

func TestConnector_UseTestnetUnavailableGoesSimulated(t *testing.T) {
	testnet := &fakeClient{name: "binance-testnet", accountErr: errors.New("dial timeout")}
	factory := factoryFor(map[string]*fakeClient{
		exchange.TestnetBaseURL: testnet,
	})

	c := NewConnector(factory, "key-0123456789abcdef", "secret-0123456789abcdef", true, testLogger())
	client, mode, err := c.Connect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.ModeSimulated, mode)
	_, ok := client.(*exchange.SimulatedClient)
	assert.True(t, ok, "client should be SimulatedClient, got %T", client)
}

func TestConnector_SetCredentials(t *testing.T) {
	primary := &fakeClient{name: "binance"}
	var gotKey, gotSecret string
	factory := func(name, baseURL, apiKey, secretKey string) exchange.Client {
		gotKey, gotSecret = apiKey, secretKey
		return primary
	}

	c := NewConnector(factory, "key-0123456789abcdef", "secret-0123456789abcdef", false, testLogger())
	c.SetCredentials("new-key-0123456789abcdef", "new-secret-0123456789abcdef")

	_, _, err := c.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-key-0123456789abcdef", gotKey)
	assert.Equal(t, "new-secret-0123456789abcdef", gotSecret)

	// пустые значения не затирают текущие ключи
	c.SetCredentials("", "")
	_, _, err = c.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-key-0123456789abcdef", gotKey)
	assert.Equal(t, "new-secret-0123456789abcdef", gotSecret)
}
