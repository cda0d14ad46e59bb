package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"loanbot/internal/models"
)

// Метрики движка. Регистрируются в default registry,
// отдаются через /metrics (promhttp).
var (
	metricRefreshCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loanbot_refresh_cycles_total",
		Help: "Total number of completed refresh cycles",
	})

	metricRefreshErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loanbot_refresh_errors_total",
		Help: "Total number of refresh cycles that ended with an error",
	})

	metricRefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "loanbot_refresh_duration_seconds",
		Help:    "Duration of a single refresh cycle",
		Buckets: prometheus.DefBuckets,
	})

	metricPositionsByRisk = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "loanbot_positions",
		Help: "Current number of loan positions by risk level",
	}, []string{"risk_level"})

	metricOpportunities = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "loanbot_opportunities",
		Help: "Number of rate arbitrage opportunities found in the last cycle",
	})

	metricManualTrades = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loanbot_manual_trades_total",
		Help: "Total number of manual trades recorded in the ledger",
	}, []string{"kind"})

	metricEngineRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "loanbot_engine_running",
		Help: "1 while the refresh loop is running",
	})

	metricSimulatedMode = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "loanbot_simulated_mode",
		Help: "1 while the engine operates on simulated data",
	})
)

// observePositions обновляет gauge позиций по уровням риска
//
// Сначала обнуляем все уровни: позиция могла сменить уровень
// и старое значение иначе останется висеть.
func observePositions(positions []models.Position) {
	for _, level := range []models.RiskLevel{
		models.RiskLow, models.RiskMedium, models.RiskHigh, models.RiskCritical,
	} {
		metricPositionsByRisk.WithLabelValues(string(level)).Set(0)
	}
	for _, p := range positions {
		metricPositionsByRisk.WithLabelValues(string(p.RiskLevel)).Inc()
	}
}
