package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lumo-assistant-api/internal/cache"
	"lumo-assistant-api/internal/config"
	"lumo-assistant-api/internal/handler"
	"lumo-assistant-api/internal/repository"
	"lumo-assistant-api/internal/router"
	"lumo-assistant-api/internal/service"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// Entity-store TTLs and register caps.
const (
	orderTTL     = 86400   // 24h, the order simulation window
	draftTTL     = 2592000 // 30 days
	scheduledTTL = 2592000 // 30 days
	chatTTL      = 604800  // 7 days

	historyCap   = 50  // user-facing registers (orders, drafts, chat)
	scheduledCap = 100 // scheduled emails keep a longer tail

	orderIdxTTL = 604800  // 7 days
	emailIdxTTL = 2592000 // 30 days
	chatIdxTTL  = 604800  // 7 days

	taskQueryTTL   = 300 // 5 minutes
	eventQueryTTL  = 600 // 10 minutes
	remindQueryTTL = 300 // 5 minutes
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	log := newLogger(cfg)
	defer log.Sync()
	log.Info("starting lumo assistant api",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version))

	// Primary document store. Unlike the cache, this one is required:
	// failure to open it is fatal.
	db, err := repository.OpenSQLite(cfg.Database.Path)
	if err != nil {
		log.Fatal("failed to open primary store", zap.Error(err))
	}
	defer db.Close()

	taskRepo, err := repository.NewSQLiteTaskRepository(db)
	if err != nil {
		log.Fatal("failed to init task repository", zap.Error(err))
	}
	eventRepo, err := repository.NewSQLiteEventRepository(db)
	if err != nil {
		log.Fatal("failed to init event repository", zap.Error(err))
	}
	reminderRepo, err := repository.NewSQLiteReminderRepository(db)
	if err != nil {
		log.Fatal("failed to init reminder repository", zap.Error(err))
	}
	log.Info("sqlite repositories initialized", zap.String("path", cfg.Database.Path))

	// Optional MySQL user directory
	var accountRepo repository.AccountRepository
	if cfg.Accounts.Enabled {
		mysqlDB, err := sql.Open("mysql", cfg.Accounts.DSN())
		if err != nil {
			log.Warn("mysql open failed, /me will degrade", zap.Error(err))
		} else {
			mysqlDB.SetMaxOpenConns(10)
			mysqlDB.SetMaxIdleConns(5)
			mysqlDB.SetConnMaxLifetime(5 * time.Minute)
			if err := mysqlDB.Ping(); err != nil {
				log.Warn("mysql ping failed, /me will degrade", zap.Error(err))
				mysqlDB.Close()
			} else {
				defer mysqlDB.Close()
				accountRepo = repository.NewMySQLAccountRepository(mysqlDB)
				log.Info("mysql account directory initialized")
			}
		}
	}

	// Key-value cache. Deliberately non-fatal: a dead Redis leaves
	// every cache operation returning safe defaults.
	var store cache.Store
	switch cfg.Cache.Type {
	case "memory":
		store = cache.NewMemoryStore()
		log.Info("using in-memory cache store")
	default:
		store = cache.NewRedisStore(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		log.Info("using redis cache store", zap.String("addr", cfg.Cache.RedisAddress()))
	}

	kv := cache.New(store, cache.Options{
		Logger: cache.NewZapLogger(log.Named("cache")),
		Policy: cache.ReconnectPolicy{
			MaxAttempts: cfg.Cache.ReconnectAttempts,
			MaxElapsed:  cfg.Cache.ReconnectElapsed,
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    15 * time.Second,
		},
		ProbeInterval: cfg.Cache.ProbeInterval,
	})
	log.Info("cache initialized", zap.String("state", kv.State().String()))

	// Cache usage patterns
	taskQueries := cache.NewQueryCache(kv, "tasks", taskQueryTTL)
	eventQueries := cache.NewQueryCache(kv, "events", eventQueryTTL)
	reminderQueries := cache.NewQueryCache(kv, "reminders", remindQueryTTL)

	orderStore := cache.NewEntityStore(kv, "order", orderTTL)
	orderIndex := cache.NewIndexList(kv, "orders", historyCap, orderIdxTTL, true)

	draftStore := cache.NewEntityStore(kv, "email", draftTTL)
	draftIndex := cache.NewIndexList(kv, "emails", historyCap, emailIdxTTL, true)
	scheduledStore := cache.NewEntityStore(kv, "scheduled_email", scheduledTTL)
	scheduledIndex := cache.NewIndexList(kv, "scheduled_emails", scheduledCap, emailIdxTTL, false)

	chatStore := cache.NewEntityStore(kv, "chat_message", chatTTL)
	chatIndex := cache.NewIndexList(kv, "chat", historyCap, chatIdxTTL, true)

	emailLimiter := cache.NewRateLimiter(kv, "email", cfg.Limits.EmailPerHour, time.Hour)
	chatLimiter := cache.NewRateLimiter(kv, "chat", cfg.Limits.ChatPerMinute, time.Minute)

	// Services
	taskService := service.NewTaskService(taskRepo, taskQueries, log.Named("tasks"))
	eventService := service.NewEventService(eventRepo, eventQueries, log.Named("events"))
	reminderService := service.NewReminderService(reminderRepo, reminderQueries, log.Named("reminders"))
	orderService := service.NewOrderService(orderStore, orderIndex, log.Named("orders"))
	emailService := service.NewEmailService(draftStore, scheduledStore, draftIndex, scheduledIndex, emailLimiter, log.Named("emails"))
	chatService := service.NewChatService(chatStore, chatIndex, chatLimiter, log.Named("chat"))

	// Router
	r := router.New(router.Config{
		Logger:          log,
		Handler:         handler.New(kv, db, cfg.App.Version),
		TaskHandler:     handler.NewTaskHandler(taskService),
		EventHandler:    handler.NewEventHandler(eventService),
		ReminderHandler: handler.NewReminderHandler(reminderService),
		OrderHandler:    handler.NewOrderHandler(orderService),
		EmailHandler:    handler.NewEmailHandler(emailService),
		ChatHandler:     handler.NewChatHandler(chatService, log.Named("chat")),
		AccountHandler:  handler.NewAccountHandler(accountRepo, log.Named("accounts")),
		AdminHandler:    handler.NewAdminHandler(kv, db),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.Server.Address()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("server shutdown error", zap.Error(err))
	}

	if err := kv.Shutdown(); err != nil {
		log.Warn("cache shutdown error", zap.Error(err))
	}

	log.Info("stopped")
}

func newLogger(cfg *config.Config) *zap.Logger {
	if cfg.App.IsDevelopment() || cfg.App.Debug {
		log, _ := zap.NewDevelopment()
		return log
	}
	log, _ := zap.NewProduction()
	return log
}
