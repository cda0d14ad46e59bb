package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"loanbot/internal/exchange"
	"loanbot/internal/models"
	"loanbot/pkg/utils"
)

// Ошибки жизненного цикла
var (
	ErrAlreadyRunning  = errors.New("bot is already running")
	ErrNotRunning      = errors.New("bot is not running")
	ErrInvalidCorridor = errors.New("ltv corridor is invalid")
)

// Config - параметры движка
type Config struct {
	MaxLTV         float64
	MinLTV         float64
	TargetLTV      float64
	MarginCallLTV  float64
	LiquidationLTV float64

	RefreshInterval time.Duration
	StopTimeout     time.Duration

	UseTestnet    bool
	AutoRebalance bool
}

// Broadcaster - приемник real-time событий движка
//
// В продакшене это websocket.Hub; тесты подставляют заглушку.
type Broadcaster interface {
	BroadcastPositions(positions []models.Position, atRisk int)
	BroadcastStats(stats models.Stats)
	BroadcastOpportunity(opp models.Opportunity)
	BroadcastStateChange(state string, mode models.ConnectivityMode)
}

// Engine - ядро мониторинга займовых позиций
//
// Владеет всем состоянием процесса: снапшотом позиций, списком
// продуктов, найденными возможностями, журналом операций. Состояние
// заменяется целиком на каждом цикле обновления; читатели (API,
// websocket) получают копии под RLock.
//
// Два мьютекса с разными ролями:
//   - lifecycleMu сериализует Start/Stop (медленные, с ожиданием горутины)
//   - mu защищает данные (короткие секции, не пересекается с ожиданиями)
type Engine struct {
	cfg       Config
	connector *Connector
	hub       Broadcaster
	logger    *utils.Logger
	ledger    *Ledger

	// Источник времени, подменяется в тестах
	now func() time.Time

	// Жизненный цикл
	lifecycleMu sync.Mutex
	state       string
	cancel      context.CancelFunc
	done        chan struct{}

	// Данные цикла обновления
	mu            sync.RWMutex
	mode          models.ConnectivityMode
	client        exchange.Client
	positions     []models.Position
	products      []models.LoanProduct
	opportunities []models.Opportunity
	lastUpdate    *time.Time
	lastError     string
}

// NewEngine создает движок в состоянии stopped/disconnected
func NewEngine(cfg Config, connector *Connector, hub Broadcaster, logger *utils.Logger) *Engine {
	return &Engine{
		cfg:           cfg,
		connector:     connector,
		hub:           hub,
		logger:        logger.WithComponent("engine"),
		ledger:        NewLedger(),
		now:           time.Now,
		state:         models.StateStopped,
		mode:          models.ModeDisconnected,
		positions:     make([]models.Position, 0),
		products:      make([]models.LoanProduct, 0),
		opportunities: make([]models.Opportunity, 0),
	}
}

// Connect устанавливает сессию с биржей
//
// Повторный вызов при живой сессии - no-op. В симулированном режиме
// засеивается стартовый журнал, чтобы статистика не была пустой.
func (e *Engine) Connect(ctx context.Context) error {
	e.mu.Lock()
	if e.client != nil {
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()

	client, mode, err := e.connector.Connect(ctx)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.client = client
	e.mode = mode
	e.mu.Unlock()

	if mode == models.ModeSimulated {
		metricSimulatedMode.Set(1)
		e.seedSimulatedLedger()
	} else {
		metricSimulatedMode.Set(0)
	}

	e.logger.Infow("exchange session established", "mode", string(mode), "client", client.Name())
	return nil
}

// seedSimulatedLedger загружает демо-журнал для симулированного режима
func (e *Engine) seedSimulatedLedger() {
	now := e.now()
	e.ledger.Seed([]models.Trade{
		{
			ID:        "sim_trade_1",
			Kind:      models.TradeKindArbitrage,
			FromLoan:  "SIM_ETH_USDT",
			ToLoan:    "SIM_BTC_USDT",
			Amount:    decimal.NewFromInt(5000),
			Status:    models.TradeStatusSimulated,
			Timestamp: now.Add(-2 * time.Hour),
			Profit:    decimal.NewFromFloat(12.5),
			Fees:      decimal.NewFromInt(5),
		},
		{
			ID:        "sim_trade_2",
			Kind:      models.TradeKindRebalance,
			LoanID:    "SIM_BTC_USDT",
			Action:    "reduce",
			Amount:    decimal.NewFromInt(1500),
			Status:    models.TradeStatusSimulated,
			Timestamp: now.Add(-1 * time.Hour),
			Profit:    decimal.Zero,
			Fees:      decimal.Zero,
		},
	}, now)
}

// StartParams - необязательные переопределения, принимаемые при запуске.
// Указатели отличают "поле не передано" от нулевого значения.
type StartParams struct {
	APIKey        string   `json:"api_key"`
	APISecret     string   `json:"api_secret"`
	MaxLTV        *float64 `json:"max_ltv"`
	MinLTV        *float64 `json:"min_ltv"`
	AutoRebalance *bool    `json:"auto_rebalance"`
}

// applyStartParams вносит переопределения в конфигурацию. Новые ключи
// передаются коннектору, старая сессия при этом закрывается - следующее
// подключение пройдет уже с ними.
func (e *Engine) applyStartParams(p StartParams) error {
	e.mu.Lock()
	maxLTV, minLTV := e.cfg.MaxLTV, e.cfg.MinLTV
	if p.MaxLTV != nil {
		maxLTV = *p.MaxLTV
	}
	if p.MinLTV != nil {
		minLTV = *p.MinLTV
	}
	if minLTV >= maxLTV {
		e.mu.Unlock()
		return fmt.Errorf("%w: min %.2f >= max %.2f", ErrInvalidCorridor, minLTV, maxLTV)
	}
	e.cfg.MaxLTV = maxLTV
	e.cfg.MinLTV = minLTV
	e.cfg.TargetLTV = utils.Clamp(e.cfg.TargetLTV, minLTV, maxLTV)
	if p.AutoRebalance != nil {
		e.cfg.AutoRebalance = *p.AutoRebalance
	}

	rewire := p.APIKey != "" || p.APISecret != ""
	var old exchange.Client
	if rewire {
		old = e.client
		e.client = nil
		e.mode = models.ModeDisconnected
	}
	e.mu.Unlock()

	if rewire {
		if old != nil {
			_ = old.Close()
		}
		e.connector.SetCredentials(p.APIKey, p.APISecret)
	}
	return nil
}

// Start запускает цикл обновления
//
// Принимает необязательные переопределения (ключи, LTV коридор,
// авторебаланс) и при отсутствии сессии подключается сам. Возвращает
// ErrAlreadyRunning если цикл уже работает - запуск не идемпотентен
// намеренно, чтобы клиент API видел фактическое состояние.
func (e *Engine) Start(ctx context.Context, params StartParams) error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	if e.state != models.StateStopped {
		return ErrAlreadyRunning
	}

	if err := e.applyStartParams(params); err != nil {
		return err
	}

	if err := e.Connect(ctx); err != nil {
		return err
	}

	e.mu.RLock()
	mode := e.mode
	e.mu.RUnlock()

	if !CanTransition(e.state, models.StateRunning) {
		return fmt.Errorf("invalid state transition: %s -> %s", e.state, models.StateRunning)
	}
	e.state = models.StateRunning

	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done

	e.ledger.SetStartTime(e.now())
	metricEngineRunning.Set(1)

	go e.run(runCtx, done)

	e.logger.Infow("bot started", "mode", string(mode), "refresh_interval", e.cfg.RefreshInterval.String())
	e.hub.BroadcastStateChange(models.StateRunning, mode)
	return nil
}

// Stop останавливает цикл обновления
//
// Ждет завершения текущего цикла до StopTimeout. Истечение таймаута -
// аномалия (залипший HTTP запрос), логируем и освобождаем клиента,
// горутина завершится при ближайшем чтении контекста.
func (e *Engine) Stop() error {
	e.lifecycleMu.Lock()
	defer e.lifecycleMu.Unlock()

	if e.state != models.StateRunning {
		return ErrNotRunning
	}

	e.state = models.StateStopping
	e.cancel()

	select {
	case <-e.done:
	case <-time.After(e.cfg.StopTimeout):
		e.logger.Errorw("refresh loop did not stop in time", "timeout", e.cfg.StopTimeout.String())
	}

	uptime := time.Duration(e.ledger.Stats(e.now()).UptimeSeconds) * time.Second

	e.state = models.StateStopped
	e.cancel = nil
	e.done = nil
	e.ledger.ResetStartTime()
	metricEngineRunning.Set(0)

	e.mu.RLock()
	mode := e.mode
	e.mu.RUnlock()

	e.logger.Infow("bot stopped", "uptime", utils.FormatDuration(uptime))
	e.hub.BroadcastStateChange(models.StateStopped, mode)
	return nil
}

// run - главный цикл: немедленное обновление, затем по тикеру
func (e *Engine) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	e.refreshOnce(ctx)

	ticker := time.NewTicker(e.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.refreshOnce(ctx)
		}
	}
}

// refreshOnce выполняет один цикл обновления
//
// Любая ошибка цикла записывается в lastError и не роняет движок:
// следующий тик попробует снова. При ошибке живого запроса снапшот
// пострадавшего списка на этот цикл - пустой, а не устаревшие данные.
func (e *Engine) refreshOnce(ctx context.Context) {
	started := e.now()

	e.mu.RLock()
	client := e.client
	cfg := e.cfg
	e.mu.RUnlock()
	if client == nil {
		return
	}

	positions, products, refreshErr := e.fetch(ctx, client, cfg)
	if ctx.Err() != nil {
		return
	}

	opportunities := AnalyzeOpportunities(positions)
	atRisk := CountAtRisk(positions)
	now := e.now()

	e.mu.Lock()
	e.positions = positions
	e.products = products
	e.opportunities = opportunities
	e.lastUpdate = &now
	if refreshErr != nil {
		e.lastError = refreshErr.Error()
	} else {
		e.lastError = ""
	}
	e.mu.Unlock()

	metricRefreshCycles.Inc()
	metricRefreshDuration.Observe(e.now().Sub(started).Seconds())
	metricOpportunities.Set(float64(len(opportunities)))
	observePositions(positions)
	if refreshErr != nil {
		metricRefreshErrors.Inc()
		e.logger.Errorw("refresh cycle failed", "error", refreshErr)
	}

	if cfg.AutoRebalance {
		e.scanForRebalance(positions)
	}

	e.hub.BroadcastPositions(positions, atRisk)
	for _, opp := range opportunities {
		if opp.Confidence == models.ConfidenceHigh {
			e.hub.BroadcastOpportunity(opp)
			e.logger.Infow("arbitrage opportunity found",
				"from", opp.FromLoanID, "to", opp.ToLoanID,
				"spread", opp.RateSpread, "expected_profit", opp.ExpectedProfit)
		}
	}
}

// scanForRebalance ищет позиции, требующие немедленного вмешательства.
// Автоматическое исполнение не выполняется - позиция логируется как
// кандидат, решение остается за оператором.
func (e *Engine) scanForRebalance(positions []models.Position) {
	for _, pos := range positions {
		if pos.RiskLevel != models.RiskCritical {
			continue
		}
		e.logger.Warnw("critical position needs rebalance",
			"loan_id", pos.LoanID,
			"ltv", pos.CurrentLTV,
			"margin_call_buffer", pos.MarginCallBuffer)
	}
}

// fetch загружает и нормализует позиции и продукты
//
// При ошибке запроса пострадавший список возвращается пустым срезом:
// следующий цикл начнет с чистого состояния, без устаревших данных.
func (e *Engine) fetch(ctx context.Context, client exchange.Client, cfg Config) ([]models.Position, []models.LoanProduct, error) {
	rawPositions, err := client.GetLoanPositions(ctx)
	if err != nil {
		return make([]models.Position, 0), make([]models.LoanProduct, 0), fmt.Errorf("fetch positions: %w", err)
	}

	now := e.now()
	positions, skipped := exchange.NormalizePositions(rawPositions, now)
	if skipped > 0 {
		e.logger.Warnw("skipped malformed positions", "count", skipped)
	}
	for i := range positions {
		ClassifyRisk(&positions[i], cfg.MarginCallLTV, cfg.LiquidationLTV)
	}

	rawProducts, err := client.GetLoanProducts(ctx)
	if err != nil {
		// Позиции уже есть - цикл засчитываем, продукты обнуляем
		return positions, make([]models.LoanProduct, 0), fmt.Errorf("fetch products: %w", err)
	}
	products, skipped := exchange.NormalizeProducts(rawProducts)
	if skipped > 0 {
		e.logger.Warnw("skipped malformed products", "count", skipped)
	}

	return positions, products, nil
}

// ============================================================
// Чтение состояния (API)
// ============================================================

// Status возвращает снапшот состояния движка
func (e *Engine) Status() models.BotStatus {
	e.lifecycleMu.Lock()
	state := e.state
	e.lifecycleMu.Unlock()

	e.mu.RLock()
	defer e.mu.RUnlock()

	return models.BotStatus{
		Running:          state == models.StateRunning,
		State:            state,
		ConnectivityMode: e.mode,
		ErrorMessage:     e.lastError,
		LastUpdate:       e.lastUpdate,
		PositionsCount:   len(e.positions),
		Configuration: models.BotConfiguration{
			MaxLTV:          e.cfg.MaxLTV,
			MinLTV:          e.cfg.MinLTV,
			TargetLTV:       e.cfg.TargetLTV,
			AutoRebalance:   e.cfg.AutoRebalance,
			MarginCallLTV:   e.cfg.MarginCallLTV,
			LiquidationLTV:  e.cfg.LiquidationLTV,
			RefreshInterval: int(e.cfg.RefreshInterval.Seconds()),
			UseTestnet:      e.cfg.UseTestnet,
		},
	}
}

// Mode возвращает текущий режим подключения
func (e *Engine) Mode() models.ConnectivityMode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// Positions возвращает копию снапшота позиций
func (e *Engine) Positions() []models.Position {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]models.Position, len(e.positions))
	copy(out, e.positions)
	return out
}

// AvailableLoans возвращает копию списка займовых продуктов
func (e *Engine) AvailableLoans() []models.LoanProduct {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]models.LoanProduct, len(e.products))
	copy(out, e.products)
	return out
}

// Opportunities возвращает возможности последнего цикла
func (e *Engine) Opportunities() []models.Opportunity {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]models.Opportunity, len(e.opportunities))
	copy(out, e.opportunities)
	return out
}

// TradeHistory возвращает журнал ручных операций
func (e *Engine) TradeHistory() []models.Trade {
	return e.ledger.Trades()
}

// Stats возвращает статистику с пересчитанным uptime
func (e *Engine) Stats() models.Stats {
	return e.ledger.Stats(e.now())
}

// StrategyAnalysis собирает агрегированный срез стратегии
//
// Считается синхронно из текущего снапшота, без обращений к бирже.
func (e *Engine) StrategyAnalysis() models.StrategyAnalysis {
	positions := e.Positions()
	opportunities := e.Opportunities()

	e.mu.RLock()
	minLTV, maxLTV := e.cfg.MinLTV, e.cfg.MaxLTV
	e.mu.RUnlock()

	var estimated float64
	for _, opp := range opportunities {
		estimated += opp.ExpectedProfit
	}

	return models.StrategyAnalysis{
		ArbitrageOpportunities: models.OpportunitySummary{
			Opportunities:      opportunities,
			TotalOpportunities: len(opportunities),
			EstimatedProfit:    estimated,
		},
		LTVManagement: models.LTVManagement{
			AverageLTV:      AverageLTV(positions),
			PositionsAtRisk: CountAtRisk(positions),
			Recommendations: BuildRecommendations(positions, minLTV, maxLTV),
		},
		Performance: e.Stats(),
	}
}

// ============================================================
// Ручные операции
// ============================================================

// ManualArbitrage регистрирует ручную арбитражную перекладку
//
// expectedProfit - заявленная оператором оценка выгоды (обычно
// ExpectedProfit найденной возможности), попадает в статистику.
func (e *Engine) ManualArbitrage(fromLoan, toLoan string, amount, expectedProfit float64) (models.Trade, error) {
	if fromLoan == "" || toLoan == "" {
		return models.Trade{}, errors.New("from_loan and to_loan are required")
	}
	if amount <= 0 {
		return models.Trade{}, errors.New("amount must be positive")
	}

	trade := e.ledger.RecordArbitrage(fromLoan, toLoan, decimal.NewFromFloat(amount), decimal.NewFromFloat(expectedProfit), e.now())
	metricManualTrades.WithLabelValues(trade.Kind).Inc()

	e.logger.Infow("manual arbitrage recorded",
		"trade_id", trade.ID, "from", fromLoan, "to", toLoan,
		"amount", amount, "expected_profit", expectedProfit)
	e.hub.BroadcastStats(e.Stats())
	return trade, nil
}

// ManualRebalance регистрирует ручную ребалансировку позиции
func (e *Engine) ManualRebalance(loanID, action string, amount float64) (models.Trade, error) {
	if loanID == "" || action == "" {
		return models.Trade{}, errors.New("loan_id and action are required")
	}
	if amount <= 0 {
		return models.Trade{}, errors.New("amount must be positive")
	}

	trade := e.ledger.RecordRebalance(loanID, action, decimal.NewFromFloat(amount), e.now())
	metricManualTrades.WithLabelValues(trade.Kind).Inc()

	e.logger.Infow("manual rebalance recorded",
		"trade_id", trade.ID, "loan_id", loanID, "action", action, "amount", amount)
	e.hub.BroadcastStats(e.Stats())
	return trade, nil
}
