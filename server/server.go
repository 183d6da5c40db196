// Package server HTTP API сервиса обработки отчетности: сопоставление
// строк с реестром проектов, преобразование квартальных книг и
// статистика прогонов.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"rbmfprocessor/database"
	"rbmfprocessor/internal/config"
	"rbmfprocessor/matching"
	"rbmfprocessor/registry"
	"rbmfprocessor/server/handlers"
	"rbmfprocessor/server/middleware"
	"rbmfprocessor/transform"
)

// Server HTTP сервер сервиса
type Server struct {
	config     *config.Config
	index      *registry.Index
	matcher    *matching.Matcher
	db         *database.MappingDB
	httpServer *http.Server
}

// NewServer создает сервер: загружает реестр проектов, открывает базу
// сопоставлений и собирает конвейер преобразования
func NewServer(cfg *config.Config) (*Server, error) {
	index, err := registry.LoadJSONFile(cfg.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load project registry: %w", err)
	}
	log.Printf("Loaded project registry: %d projects", index.Len())

	db, err := database.NewMappingDB(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:  cfg,
		index:   index,
		matcher: matching.NewMatcher(index, cfg.MatchThreshold),
		db:      db,
	}, nil
}

// buildRouter собирает маршруты и middleware
func (s *Server) buildRouter() (*gin.Engine, error) {
	router := gin.New()

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.GinRecoveryMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinRateLimitMiddleware(s.config.RateLimit, s.config.RateLimitBurst))

	valueMappings, err := transform.LoadValueMappings(filepath.Join(s.config.OutputDir, "column_mapping.json"))
	if err != nil {
		return nil, err
	}
	transformer := transform.NewTransformer(valueMappings)

	uploadDir := filepath.Join(os.TempDir(), "rbmf-uploads")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	matchHandler := handlers.NewMatchHandler(s.matcher)
	registryHandler := handlers.NewRegistryHandler(s.index)
	transformHandler := handlers.NewTransformHandler(transformer, uploadDir)
	statsHandler := handlers.NewStatsHandler(s.db)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"projects": s.index.Len(),
		})
	})

	api := router.Group("/api")
	{
		api.POST("/match", matchHandler.HandleMatch)
		api.POST("/match/batch", matchHandler.HandleBatchMatch)

		api.GET("/registry", registryHandler.HandleListProjects)
		api.GET("/registry/:project_id", registryHandler.HandleGetProject)

		api.POST("/transform", transformHandler.HandleTransform)

		api.GET("/stats/runs/:run_id", statsHandler.HandleRunStats)
		api.GET("/stats/folders/:folder", statsHandler.HandleFolderMappings)
	}

	return router, nil
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	router, err := s.buildRouter()
	if err != nil {
		return err
	}

	// WriteTimeout с запасом: преобразование большой книги может
	// занимать десятки секунд
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * s.config.RequestTimeout,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Starting HTTP server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}

	return nil
}

// Shutdown останавливает сервер и закрывает базу сопоставлений
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
	}

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close mapping database: %w", err)
	}

	return nil
}
