package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbook "github.com/outvoice/backend/internal/application/addressbook"
	"github.com/outvoice/backend/internal/application/invoicing"
	"github.com/outvoice/backend/internal/infrastructure/config"
	layoutstore "github.com/outvoice/backend/internal/infrastructure/layout"
	"github.com/outvoice/backend/internal/infrastructure/logger"
	"github.com/outvoice/backend/internal/infrastructure/mail"
	"github.com/outvoice/backend/internal/infrastructure/pdf"
	"github.com/outvoice/backend/internal/infrastructure/persistence"
	"github.com/outvoice/backend/internal/infrastructure/printing"
	"github.com/outvoice/backend/internal/interfaces/http/handler"
	"github.com/outvoice/backend/internal/interfaces/http/middleware"
	"github.com/outvoice/backend/internal/interfaces/http/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// The assembler expects the output directory to exist.
	if err := os.MkdirAll(cfg.Resources.OutputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Database close failed", zap.Error(err))
		}
	}()

	store := layoutstore.NewStore(cfg.Resources.Dir)
	assembler := pdf.NewAssembler(
		filepath.Join(cfg.Resources.Dir, cfg.Resources.TemplateFile),
		cfg.Resources.OutputDir,
		store,
		log,
	)
	printer := printing.NewLpDispatcher(cfg.Printing.Binary, cfg.Printing.Timeout, log)

	var mailer invoicing.Mailer
	if cfg.Mail.Enabled {
		sesMailer, err := mail.NewSESMailer(context.Background(), cfg.Mail.Region,
			filepath.Join(cfg.Resources.Dir, "email"), log)
		if err != nil {
			return fmt.Errorf("creating mailer: %w", err)
		}
		mailer = sesMailer
	} else {
		log.Info("Email delivery disabled")
	}

	clientRepo := persistence.NewGormClientRepository(db.DB)
	invoiceService := invoicing.NewInvoiceService(assembler, mailer, printer, store, clientRepo, log)
	clientService := appbook.NewClientService(clientRepo, log)

	engine := buildEngine(cfg, log, db)
	router.NewRouter(engine).
		Register(handler.NewInvoiceHandler(invoiceService)).
		Register(handler.NewClientHandler(clientService)).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

func buildEngine(cfg *config.Config, log *zap.Logger, db *persistence.Database) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
			MaxAge:       12 * time.Hour,
		}),
	)

	engine.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		dbState := "up"
		if err := db.Ping(); err != nil {
			status = http.StatusServiceUnavailable
			dbState = "down"
		}
		c.JSON(status, gin.H{
			"status":   dbState,
			"app":      cfg.App.Name,
			"database": dbState,
		})
	})

	return engine
}
