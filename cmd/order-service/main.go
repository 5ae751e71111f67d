package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"app/internal/api"
	"app/internal/binance"
	"app/internal/config"
	"app/internal/kafka"
	"app/internal/logger"
	"app/internal/orders"

	"github.com/adshao/go-binance/v2/futures"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Ошибка чтения конфигурации: ", err)
	}

	fmt.Printf("Загружена конфигурация: kafka=%s http=%s binance=%s\n",
		cfg.KafkaUrl, cfg.HttpAddr, cfg.BinanceUrl)

	// Создание логгера
	logg, err := logger.NewLogger(cfg.LoggerLevel, cfg.LogDir)
	if err != nil {
		panic(err)
	}
	defer logg.Sync()

	if err := cfg.RequireCredentials(); err != nil {
		logg.Error(err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Пинг биржи до старта, чтобы не поднимать сервис с мертвым адресом.
	checkAPIAvailability(ctx, cfg, logg)

	binanceManager := binance.NewBinanceManager(cfg.BinanceUrl, cfg.BinanceApiKey, cfg.BinanceApiSecret, logg)
	orderManager := orders.NewOrderManager(binanceManager, logg)

	intake, err := kafka.NewOrderIntake(cfg.NewOrdersTopic, cfg.ReadyOrdersTopic, cfg.KafkaUrl, orderManager, logg)
	handlerError(logg, err)
	defer intake.Close()

	// Чтение новых ордеров из кафки
	go intake.Run(ctx)

	server := &http.Server{
		Addr:    cfg.HttpAddr,
		Handler: api.NewServer(orderManager, binanceManager, cfg.ApiJwtSecret, logg),
	}

	go func() {
		logg.Info("HTTP API слушает ", cfg.HttpAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("Ошибка HTTP сервера: ", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logg.Info("Завершение работы сервиса")
	server.Shutdown(context.Background())
}

// checkAPIAvailability проверяет доступность API биржи через клиент SDK.
func checkAPIAvailability(ctx context.Context, cfg config.Config, logg logger.Logger) {
	client := futures.NewClient(cfg.BinanceApiKey, cfg.BinanceApiSecret)
	client.BaseURL = cfg.BinanceUrl

	if err := client.NewPingService().Do(ctx); err != nil {
		logg.Error("Ошибка при проверке доступности API: ", err)
		return
	}
	logg.Info("API доступен")
}

func handlerError(logg logger.Logger, err error) {
	if err != nil {
		logg.Error(err)
		panic(err)
	}
}
