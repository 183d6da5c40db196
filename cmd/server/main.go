// @title RBMF Processor API
// @version 1.0
// @description API для обработки квартальной отчетности RBMF: сопоставление файлов с реестром проектов и агрегация в полугодовые отчеты.

// @host localhost:9090
// @BasePath /api
// @schemes http

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rbmfprocessor/internal/config"
	"rbmfprocessor/server"
)

func main() {
	configPath := flag.String("config", "", "путь к JSON-файлу конфигурации (по умолчанию переменные окружения)")
	flag.Parse()

	log.Println("Запуск RBMF Processor...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	log.Printf("Конфигурация загружена. Порт: %s, реестр: %s", cfg.Port, cfg.RegistryPath)

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Ошибка создания сервера: %v", err)
	}

	// Graceful shutdown по SIGINT/SIGTERM
	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		log.Printf("Получен сигнал %v, останавливаем сервер...", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Ошибка остановки сервера: %v", err)
		}
		close(done)
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}

	<-done
	log.Println("Сервер остановлен")
}
