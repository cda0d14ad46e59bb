package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"loanbot/internal/api"
	"loanbot/internal/bot"
	"loanbot/internal/config"
	"loanbot/internal/websocket"
	"loanbot/pkg/utils"
)

func main() {
	// .env удобен для локального запуска; отсутствие файла - не ошибка
	_ = godotenv.Load()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логирования
	logger := utils.InitGlobalLogger(utils.LogConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer logger.Sync()

	// WebSocket hub для real-time обновлений
	hub := websocket.NewHub()
	go hub.Run()

	// Движок мониторинга
	connector := bot.NewConnector(
		bot.DefaultClientFactory,
		cfg.Exchange.APIKey,
		cfg.Exchange.APISecret,
		cfg.Exchange.UseTestnet,
		logger,
	)
	engine := bot.NewEngine(bot.Config{
		MaxLTV:          cfg.Bot.MaxLTV,
		MinLTV:          cfg.Bot.MinLTV,
		TargetLTV:       cfg.Bot.TargetLTV,
		MarginCallLTV:   cfg.Bot.MarginCallLTV,
		LiquidationLTV:  cfg.Bot.LiquidationLTV,
		RefreshInterval: cfg.Bot.RefreshInterval,
		StopTimeout:     cfg.Bot.StopTimeout,
		UseTestnet:      cfg.Exchange.UseTestnet,
		AutoRebalance:   cfg.Bot.AutoRebalance,
	}, connector, hub, logger)

	// Подключение к бирже при старте процесса (если не отложено);
	// неудача не фатальна - сессию можно поднять через POST /bot/start
	if !cfg.Exchange.SkipStartupConnection {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := engine.Connect(ctx); err != nil {
			logger.Warnw("startup exchange connection failed", "error", err)
		}
		cancel()
	}

	// Автозапуск мониторинга
	if cfg.Bot.AutoStart {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := engine.Start(ctx, bot.StartParams{}); err != nil {
			logger.Errorw("auto-start failed", "error", err)
		}
		cancel()
	}

	// Настройка HTTP роутера
	router := api.SetupRoutes(&api.Dependencies{
		Engine:       engine,
		Hub:          hub,
		AuthEnabled:  cfg.Security.AuthEnabled,
		AuthUser:     cfg.Security.DashboardUser,
		AuthPassHash: cfg.Security.DashboardPasswordHash,
	})

	// HTTP сервер
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		logger.Infow("starting server", "addr", server.Addr, "https", cfg.Server.UseHTTPS)
		if cfg.Server.UseHTTPS {
			if err := server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile); err != nil && err != http.ErrServerClosed {
				logger.Fatal("server failed", utils.Err(err))
			}
		} else {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal("server failed", utils.Err(err))
			}
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infow("shutting down server")

	// Останавливаем цикл мониторинга до HTTP сервера
	if err := engine.Stop(); err != nil && err != bot.ErrNotRunning {
		logger.Errorw("error stopping bot", "error", err)
	}
	hub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", utils.Err(err))
	}

	logger.Infow("server exited")
}
