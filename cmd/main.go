package main

import (
	"log"
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/pdf_ziper/internal/archive"
	"github.com/Vovarama1992/pdf_ziper/internal/config"
	"github.com/Vovarama1992/pdf_ziper/internal/convert"
	"github.com/Vovarama1992/pdf_ziper/internal/delivery"
	"github.com/Vovarama1992/pdf_ziper/internal/fetch"
	"github.com/Vovarama1992/pdf_ziper/internal/infra"
	"github.com/Vovarama1992/pdf_ziper/internal/pdf"
	"github.com/Vovarama1992/pdf_ziper/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {

	// =========================================================================
	// ENV / CONFIG
	// =========================================================================

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	if !cfg.AuthEnabled() {
		zl.Log(logger.LogEntry{
			Level:   "warn",
			Message: "API_KEY is not set, authentication disabled",
			Service: "pdf_ziper",
		})
	}

	// =========================================================================
	// INFRASTRUCTURE
	// =========================================================================

	var store convert.ArchiveStore
	if cfg.S3Endpoint != "" {
		s3Client, err := infra.NewS3Client(cfg)
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
		store = s3Client
	}

	fetcher := fetch.NewService(cfg.MaxFileSize)
	validator := pdf.NewValidator(pdf.NewPdfcpuInspector(), cfg.MaxPages)
	renderer := pdf.NewService(pdf.NewFitzRasterizer(), cfg.ImageDPI, cfg.ImageQuality, zl)
	archiver := archive.NewService()

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	converter := convert.NewService(fetcher, validator, renderer, archiver, store, zl, cfg.ConvertTimeout)
	limiter := ratelimit.New(cfg.RateLimitPerMinute, time.Minute)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
	}))

	h := delivery.NewHandler(converter, cfg, zl)
	delivery.RegisterRoutes(r, h, limiter, cfg)

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + cfg.Port
	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr,
		Service: "pdf_ziper",
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.ConvertTimeout,
		WriteTimeout:      cfg.ConvertTimeout + 30*time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
