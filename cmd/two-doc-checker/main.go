package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"two-doc-checker/internal/api"
	"two-doc-checker/internal/api/handlers"
	"two-doc-checker/internal/service"
	"two-doc-checker/pkg/config"
	"two-doc-checker/pkg/logger"

	"go.uber.org/zap"
)

// @title Two-Doc Checker API
// @version 1.0
// @description Checks an invoice against its governing contract or purchase order

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Two-Doc Checker service",
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("pdf_engine", cfg.Extraction.PDFEngine),
		zap.Bool("ocr_enabled", cfg.OCR.APIKey != ""),
	)

	// Initialize services
	chat, err := service.NewChatCompleter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM provider", zap.Error(err))
	}
	llmService := service.NewLLMService(chat, cfg.LLM.RetryInvalidJSON, appLogger)
	defer llmService.Close()

	validator, err := service.NewReplyValidator()
	if err != nil {
		appLogger.Fatal("Failed to compile reply schemas", zap.Error(err))
	}

	extractService := service.NewExtractService(cfg.Extraction.PDFEngine, appLogger)
	ocrService := service.NewOCRService(&cfg.OCR, appLogger)
	if !ocrService.Enabled() {
		appLogger.Warn("OCR_API_KEY is not set, scanned PDFs will be rejected")
	}
	compareService := service.NewCompareService(extractService, ocrService, llmService, validator, cfg.Limits, appLogger)
	exportService := service.NewExportService(appLogger)

	// Initialize handlers
	compareHandler := handlers.NewCompareHandler(compareService, exportService, cfg.Limits.MaxUploadBytes, appLogger)

	// Setup router
	app := api.SetupRouter(compareHandler, &cfg.Server, cfg.Limits.MaxUploadBytes, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
