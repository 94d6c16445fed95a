package main

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"prepbuddy/config"
	"prepbuddy/internal/handler"
	"prepbuddy/internal/httpserver"
	"prepbuddy/internal/model"
	"prepbuddy/internal/notify"
	"prepbuddy/internal/persist"
	"prepbuddy/internal/repository"
	"prepbuddy/internal/session"
	"prepbuddy/internal/store"
	"prepbuddy/pkg/db"
	"prepbuddy/pkg/logger"
	"prepbuddy/pkg/mq"
	redisclient "prepbuddy/pkg/redis"
)

func main() {
	cfg := config.Load()

	log := logger.New()
	defer log.Sync()

	var (
		dbConn   *pgxpool.Pool
		sessions *session.Manager
		factory  store.AdapterFactory
	)

	if cfg.DB.Configured() {
		conn, err := db.NewConnection(cfg.DB, log)
		if err != nil {
			log.Fatal("DB initialization failed", zap.Error(err))
		}
		dbConn = conn
		defer dbConn.Close()

		var rdb *redis.Client
		if cfg.Redis.Addr != "" {
			rdb = redisclient.NewClient(cfg.Redis)
			defer rdb.Close()
		}

		userRepo := repository.NewUserRepository(dbConn)
		sessions = session.NewManager(userRepo, rdb, cfg.JWT.Secret, log)

		adapter := persist.NewPostgresAdapter(dbConn, log)
		factory = func(model.Session) persist.Adapter { return adapter }

		log.Info("Running in authenticated mode")
	} else {
		// No durable backend configured: demo mode, fully local.
		sessions = session.NewDemoManager(log)
		factory = func(model.Session) persist.Adapter { return persist.NewMemoryAdapter(log) }

		log.Info("Running in demo mode (no durable backend configured)")
	}

	var publisher *mq.Publisher
	if cfg.MQ.URL != "" {
		p, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			// Notifications are best-effort; the server runs without MQ.
			log.Warn("MQ publisher unavailable", zap.Error(err))
		} else {
			publisher = p
			defer publisher.Close()
		}
	}

	dispatcher := notify.NewDispatcher(cfg.Notify.WebhookURL, cfg.Notify.Token, publisher, log)

	registry := store.NewRegistry(factory, dispatcher, store.ContextConfirmer{}, log)
	sessions.Subscribe(registry.OnSessionChange)

	authHandler := handler.NewAuthHandler(sessions, log)
	taskHandler := handler.NewTaskHandler(registry, log)
	categoryHandler := handler.NewCategoryHandler(registry, log)
	progressHandler := handler.NewProgressHandler(registry, log)
	settingsHandler := handler.NewSettingsHandler(registry, log)

	router := httpserver.NewRouter(
		sessions,
		authHandler,
		taskHandler,
		categoryHandler,
		progressHandler,
		settingsHandler,
		log,
		dbConn,
	)

	if err := router.Run(cfg.Server.Port); err != nil {
		log.Fatal("server start failed", zap.Error(err))
	}
}
