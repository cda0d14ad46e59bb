package exchange

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"loanbot/pkg/ratelimit"
	"loanbot/pkg/retry"
	"loanbot/pkg/utils"
)

// Endpoints займового API
const (
	// PrimaryBaseURL - основной endpoint биржи
	PrimaryBaseURL = "https://api.binance.com"

	// TestnetBaseURL - резервный (testnet) endpoint, используется
	// при гео-ограничении основного
	TestnetBaseURL = "https://testnet.binance.vision"

	recvWindow = "5000"

	endpointAccount  = "/api/v3/account"
	endpointLoans    = "/sapi/v2/loan/flexible/ongoing/orders"
	endpointProducts = "/sapi/v2/loan/flexible/loanable/data"
)

// RESTClient реализует Client поверх подписанного REST API биржи
//
// Все запросы мониторинга - идемпотентные GET, поэтому транспортные
// ошибки ретраятся с backoff; ошибки уровня API (код в теле ответа)
// постоянные и отдаются наверх сразу.
type RESTClient struct {
	name      string
	baseURL   string
	apiKey    string
	secretKey string

	httpClient *http.Client
	limiter    *ratelimit.RateLimiter
	retryCfg   retry.Config
}

// NewRESTClient создает клиент займового API для указанного endpoint
func NewRESTClient(name, baseURL, apiKey, secretKey string) *RESTClient {
	cfg := retry.NetworkConfig()
	cfg.RetryIf = retry.IsRetryable

	return &RESTClient{
		name:       name,
		baseURL:    baseURL,
		apiKey:     apiKey,
		secretKey:  secretKey,
		httpClient: GetGlobalHTTPClient().GetClient(),
		// Лимит SAPI: держимся сильно ниже квоты биржи,
		// циклу обновления хватает пары запросов в секунду
		limiter:  ratelimit.NewRateLimiter(5, 10),
		retryCfg: cfg,
	}
}

// Name возвращает имя клиента для логов
func (c *RESTClient) Name() string {
	return c.name
}

// GetAccount выполняет легкую проверку сессии
func (c *RESTClient) GetAccount(ctx context.Context) (*Account, error) {
	body, err := c.doSigned(ctx, endpointAccount, nil)
	if err != nil {
		return nil, err
	}

	var account Account
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, &ExchangeError{Endpoint: endpointAccount, Message: "malformed account response", Original: err}
	}
	return &account, nil
}

// GetLoanPositions возвращает текущие займовые позиции
func (c *RESTClient) GetLoanPositions(ctx context.Context) ([]RawPosition, error) {
	body, err := c.doSigned(ctx, endpointLoans, map[string]string{"limit": "100"})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Rows  []RawPosition `json:"rows"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ExchangeError{Endpoint: endpointLoans, Message: "malformed positions response", Original: err}
	}
	return resp.Rows, nil
}

// GetLoanProducts возвращает доступные займовые продукты
func (c *RESTClient) GetLoanProducts(ctx context.Context) ([]RawLoanProduct, error) {
	body, err := c.doSigned(ctx, endpointProducts, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Rows []RawLoanProduct `json:"rows"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ExchangeError{Endpoint: endpointProducts, Message: "malformed products response", Original: err}
	}
	return resp.Rows, nil
}

// Close закрывает клиент. Пул соединений общий для процесса,
// поэтому здесь закрывать нечего.
func (c *RESTClient) Close() error {
	return nil
}

// sign создает HMAC-SHA256 подпись query string
func (c *RESTClient) sign(payload string) string {
	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// doSigned выполняет подписанный GET запрос с rate limiting и retry
func (c *RESTClient) doSigned(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var body []byte
	err := retry.Do(ctx, func() error {
		var reqErr error
		body, reqErr = c.request(ctx, endpoint, params)
		return reqErr
	}, c.retryCfg)

	return body, err
}

// request выполняет один HTTP запрос без retry
func (c *RESTClient) request(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	query.Set("recvWindow", recvWindow)
	query.Set("timestamp", strconv.FormatInt(utils.UnixMillis(time.Now()), 10))

	payload := query.Encode()
	reqURL := c.baseURL + endpoint + "?" + payload + "&signature=" + c.sign(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Транспортная ошибка - временная, retry разрешен
		return nil, retry.Temporary(&ExchangeError{Endpoint: endpoint, Message: "request failed", Original: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, retry.Temporary(&ExchangeError{Endpoint: endpoint, Message: "read response failed", Original: err})
	}

	if resp.StatusCode != http.StatusOK {
		return nil, retry.Permanent(c.apiError(endpoint, resp.StatusCode, body))
	}

	return body, nil
}

// apiError разбирает envelope ошибки биржи {"code": -1022, "msg": "..."}
func (c *RESTClient) apiError(endpoint string, status int, body []byte) error {
	var envelope struct {
		Code int64  `json:"code"`
		Msg  string `json:"msg"`
	}
	exchErr := &ExchangeError{
		Endpoint:   endpoint,
		HTTPStatus: status,
		Message:    fmt.Sprintf("HTTP %d", status),
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Msg != "" {
		exchErr.Code = strconv.FormatInt(envelope.Code, 10)
		exchErr.Message = envelope.Msg
	}
	return exchErr
}
