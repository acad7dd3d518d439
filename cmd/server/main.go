package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	activityapp "github.com/librarian/backend/internal/application/activity"
	catalogapp "github.com/librarian/backend/internal/application/catalog"
	importerapp "github.com/librarian/backend/internal/application/importer"
	lendingapp "github.com/librarian/backend/internal/application/lending"
	memberapp "github.com/librarian/backend/internal/application/member"
	"github.com/librarian/backend/internal/infrastructure/config"
	"github.com/librarian/backend/internal/infrastructure/event"
	"github.com/librarian/backend/internal/infrastructure/frappe"
	"github.com/librarian/backend/internal/infrastructure/logger"
	"github.com/librarian/backend/internal/infrastructure/migration"
	"github.com/librarian/backend/internal/infrastructure/persistence"
	"github.com/librarian/backend/internal/interfaces/http/handler"
	"github.com/librarian/backend/internal/interfaces/http/middleware"
	"github.com/librarian/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const migrationsPath = "migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting librarian backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Apply pending migrations before accepting traffic
	if _, err := os.Stat(migrationsPath); err == nil {
		migrator, err := migration.New(cfg.Database.URL(), migrationsPath, log)
		if err != nil {
			log.Fatal("Failed to initialize migrator", zap.Error(err))
		}
		if err := migrator.Up(); err != nil {
			log.Fatal("Failed to run migrations", zap.Error(err))
		}
		if err := migrator.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	} else {
		log.Warn("Migrations directory not found, skipping migrations",
			zap.String("path", migrationsPath))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Repositories
	bookRepo := persistence.NewGormBookRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	lendingScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus and consumers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(activityapp.NewActivityLogHandler(log))

	// External book catalog client
	frappeClient := frappe.NewClient(cfg.Import.BaseURL, cfg.Import.Timeout, log)

	// Application services
	bookService := catalogapp.NewBookService(bookRepo, eventBus)
	memberService := memberapp.NewMemberService(memberRepo, eventBus)
	lendingService := lendingapp.NewLendingService(lendingScope, transactionRepo, eventBus)
	importService := importerapp.NewImportService(frappeClient, bookRepo, log)

	// HTTP handlers
	bookHandler := handler.NewBookHandler(bookService)
	memberHandler := handler.NewMemberHandler(memberService)
	transactionHandler := handler.NewTransactionHandler(lendingService)
	importHandler := handler.NewImportHandler(importService)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))

	// Health check outside API versioning
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(bookHandler, memberHandler, transactionHandler, importHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
