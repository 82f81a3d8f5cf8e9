package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"two-doc-checker/internal/dto"
	"two-doc-checker/internal/models"
	"two-doc-checker/internal/service"
	"two-doc-checker/pkg/config"
	"two-doc-checker/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	invoicePath := flag.String("invoice", "", "path to the invoice (.pdf, .docx or .txt)")
	governingPath := flag.String("governing", "", "path to the contract or purchase order")
	force := flag.Bool("force", false, "list discrepancies even when the documents look unrelated")
	exportPath := flag.String("export", "", "also write findings to this .csv or .xlsx file")
	flag.Parse()

	if *invoicePath == "" || *governingPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level, cfg.Logger.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	compareService := service.NewCompareService(
		service.NewExtractService(cfg.Extraction.PDFEngine, appLogger),
		service.NewOCRService(&cfg.OCR, appLogger),
		llmService,
		validator,
		cfg.Limits,
		appLogger,
	)

	invoice, err := loadDocument(*invoicePath)
	if err != nil {
		appLogger.Fatal("Failed to read invoice", zap.Error(err))
	}
	governing, err := loadDocument(*governingPath)
	if err != nil {
		appLogger.Fatal("Failed to read governing document", zap.Error(err))
	}

	resp, err := compareService.Compare(ctx, invoice, governing, *force)
	if err != nil {
		appLogger.Fatal("Comparison failed", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		appLogger.Fatal("Failed to write result", zap.Error(err))
	}

	if *exportPath != "" {
		if err := export(service.NewExportService(appLogger), resp, *exportPath); err != nil {
			appLogger.Fatal("Export failed", zap.Error(err))
		}
		appLogger.Info("Findings exported", zap.String("path", *exportPath))
	}
}

func loadDocument(path string) (models.UploadedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.UploadedDocument{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return models.UploadedDocument{Filename: filepath.Base(path), Data: data}, nil
}

func export(exporter *service.ExportService, resp *dto.ComparisonResponse, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data = exporter.ExportCSV(resp.Findings)
	case ".xlsx":
		data, err = exporter.ExportXLSX(resp)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported export extension %q (use .csv or .xlsx)", filepath.Ext(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
