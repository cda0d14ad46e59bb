package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Exchange ExchangeConfig
	Bot      BotConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port     int
	Host     string
	UseHTTPS bool
	CertFile string
	KeyFile  string
}

// ExchangeConfig - ключи и endpoint биржи
type ExchangeConfig struct {
	APIKey     string
	APISecret  string
	UseTestnet bool

	// SkipStartupConnection - не подключаться к бирже при старте
	// процесса; сессия будет установлена при первом POST /bot/start
	SkipStartupConnection bool
}

// BotConfig - параметры мониторинга и стратегии
type BotConfig struct {
	// Коридор LTV: выше max - рекомендация погасить долг,
	// ниже min - капитал простаивает
	MaxLTV    float64
	MinLTV    float64
	TargetLTV float64

	// Пороги биржи
	MarginCallLTV  float64
	LiquidationLTV float64

	// Периодичность цикла обновления
	RefreshInterval time.Duration

	// Таймаут ожидания остановки цикла
	StopTimeout time.Duration

	// AutoStart - запустить мониторинг сразу после старта процесса
	AutoStart bool

	// AutoRebalance отображается в конфигурации статуса;
	// сами ордера не размещаются
	AutoRebalance bool
}

// SecurityConfig - настройки доступа к панели управления
type SecurityConfig struct {
	// AuthEnabled включает basic auth на /api/v1
	AuthEnabled bool

	// DashboardUser + bcrypt-хэш пароля
	DashboardUser         string
	DashboardPasswordHash string
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnvAsInt("SERVER_PORT", 8080),
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			UseHTTPS: getEnvAsBool("USE_HTTPS", false),
			CertFile: getEnv("CERT_FILE", ""),
			KeyFile:  getEnv("KEY_FILE", ""),
		},
		Exchange: ExchangeConfig{
			APIKey:                getEnv("BINANCE_API_KEY", ""),
			APISecret:             getEnv("BINANCE_API_SECRET", ""),
			UseTestnet:            getEnvAsBool("USE_TESTNET", false),
			SkipStartupConnection: getEnvAsBool("SKIP_STARTUP_CONNECTION", false),
		},
		Bot: BotConfig{
			MaxLTV:          getEnvAsFloat("DEFAULT_MAX_LTV", 0.75),
			MinLTV:          getEnvAsFloat("DEFAULT_MIN_LTV", 0.50),
			TargetLTV:       getEnvAsFloat("DEFAULT_TARGET_LTV", 0.65),
			MarginCallLTV:   getEnvAsFloat("MARGIN_CALL_LTV", 0.85),
			LiquidationLTV:  getEnvAsFloat("LIQUIDATION_LTV", 0.91),
			RefreshInterval: getEnvAsDuration("UPDATE_INTERVAL", 60*time.Second),
			StopTimeout:     getEnvAsDuration("STOP_TIMEOUT", 5*time.Second),
			AutoStart:       getEnvAsBool("AUTO_START_BOT", false),
			AutoRebalance:   getEnvAsBool("AUTO_REBALANCE", false),
		},
		Security: SecurityConfig{
			AuthEnabled:           getEnvAsBool("AUTH_ENABLED", false),
			DashboardUser:         getEnv("DASHBOARD_USER", "admin"),
			DashboardPasswordHash: getEnv("DASHBOARD_PASSWORD_HASH", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", ""),
		},
	}

	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}
	if err := cfg.validateSecurity(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateSecurity проверяет параметры доступа
func (c *Config) validateSecurity() error {
	if !c.Security.AuthEnabled {
		return nil
	}

	if c.Security.DashboardUser == "" {
		return fmt.Errorf("DASHBOARD_USER is required when AUTH_ENABLED=true")
	}

	// Храним только bcrypt-хэш, никогда сам пароль
	if c.Security.DashboardPasswordHash == "" {
		return fmt.Errorf("DASHBOARD_PASSWORD_HASH is required when AUTH_ENABLED=true")
	}

	return nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	// Коридор LTV: 0 < min < max < 1
	if c.Bot.MinLTV <= 0 || c.Bot.MinLTV >= 1 {
		return fmt.Errorf("DEFAULT_MIN_LTV must be in (0, 1), got %v", c.Bot.MinLTV)
	}
	if c.Bot.MaxLTV <= 0 || c.Bot.MaxLTV >= 1 {
		return fmt.Errorf("DEFAULT_MAX_LTV must be in (0, 1), got %v", c.Bot.MaxLTV)
	}
	if c.Bot.MinLTV >= c.Bot.MaxLTV {
		return fmt.Errorf("DEFAULT_MIN_LTV (%v) must be less than DEFAULT_MAX_LTV (%v)",
			c.Bot.MinLTV, c.Bot.MaxLTV)
	}
	if c.Bot.TargetLTV < c.Bot.MinLTV || c.Bot.TargetLTV > c.Bot.MaxLTV {
		return fmt.Errorf("DEFAULT_TARGET_LTV (%v) must be inside [%v, %v]",
			c.Bot.TargetLTV, c.Bot.MinLTV, c.Bot.MaxLTV)
	}

	// Пороги биржи: margin call строго ниже ликвидации
	if c.Bot.MarginCallLTV <= 0 || c.Bot.MarginCallLTV >= 1 {
		return fmt.Errorf("MARGIN_CALL_LTV must be in (0, 1), got %v", c.Bot.MarginCallLTV)
	}
	if c.Bot.LiquidationLTV <= 0 || c.Bot.LiquidationLTV > 1 {
		return fmt.Errorf("LIQUIDATION_LTV must be in (0, 1], got %v", c.Bot.LiquidationLTV)
	}
	if c.Bot.MarginCallLTV >= c.Bot.LiquidationLTV {
		return fmt.Errorf("MARGIN_CALL_LTV (%v) must be less than LIQUIDATION_LTV (%v)",
			c.Bot.MarginCallLTV, c.Bot.LiquidationLTV)
	}

	if c.Bot.RefreshInterval <= 0 {
		return fmt.Errorf("UPDATE_INTERVAL must be positive, got %v", c.Bot.RefreshInterval)
	}
	if c.Bot.StopTimeout <= 0 {
		return fmt.Errorf("STOP_TIMEOUT must be positive, got %v", c.Bot.StopTimeout)
	}

	return nil
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration понимает и Go-формат ("90s", "2m"), и голое число секунд
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	if seconds, err := strconv.Atoi(valueStr); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}
