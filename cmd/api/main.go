package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"teamchat/config"
	"teamchat/internal/events"
	"teamchat/internal/handler"
	"teamchat/internal/middleware"
	"teamchat/internal/proxy"
	"teamchat/internal/redis"
	"teamchat/internal/repository"
	"teamchat/internal/repository/memory"
	"teamchat/internal/server"
	"teamchat/internal/services"
	"teamchat/internal/storage"
	"teamchat/internal/websocket"
	"teamchat/pkg/database"
	"teamchat/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, db, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	hub := websocket.NewHub()
	go hub.Run(ctx)

	var (
		notifier    events.Notifier = events.NewPubSubNotifier(hub)
		rateLimiter *redis.RateLimiter
		redisClient *goredis.Client
	)
	if cfg.RedisEnabled {
		redisClient = redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redis.Ping(ctx, redisClient); err != nil {
			l.Warn(ctx, "redis unavailable, falling back to in-process events", zap.Error(err))
			_ = redisClient.Close()
			redisClient = nil
		}
	}
	if redisClient != nil {
		defer redisClient.Close()
		notifier = events.NewPubSubNotifier(redis.NewPublisher(redisClient))

		bridge := websocket.NewRedisBridge(redis.NewSubscriber(redisClient), hub)
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				l.Error(ctx, "redis bridge stopped", zap.Error(err))
			}
		}()

		window := time.Duration(cfg.RateLimitWindowS) * time.Second
		limits := redis.DefaultRateLimitConfig()
		limits.MessageLimit, limits.MessageWindow = cfg.MessageRateLimit, window
		limits.ReactionLimit, limits.ReactionWindow = cfg.ReactionRateLimit, window
		rateLimiter = redis.NewRateLimiter(redisClient, limits)
	}

	var (
		signer services.UploadSigner
		files  services.FileURLResolver
	)
	if cfg.S3Bucket != "" {
		s3Client, err := storage.NewClient(ctx, storage.S3Config{
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Endpoint:     cfg.S3Endpoint,
			PublicBase:   cfg.S3PublicBase,
			UsePathStyle: cfg.S3UsePathStyle,
			PresignTTL:   time.Duration(cfg.PresignTTLMin) * time.Minute,
		})
		if err != nil {
			log.Fatalf("Failed to configure object storage: %v", err)
		}
		signer, files = s3Client, s3Client
		if redisClient != nil {
			cache := redis.NewCacheStore(redisClient, redis.CacheConfig{URLTTL: time.Duration(cfg.URLCacheTTLMin) * time.Minute})
			files = redis.NewCachedURLResolver(cache, s3Client)
		}
	} else {
		l.Warn(ctx, "S3_BUCKET not set, uploads are disabled")
	}

	auth := services.NewAuthService(cfg)
	handlers := &server.Handlers{
		Workspaces:    handler.NewWorkspaceHandler(services.NewWorkspaceService(store, notifier, l)),
		Channels:      handler.NewChannelHandler(services.NewChannelService(store, notifier, l)),
		Members:       handler.NewMemberHandler(services.NewMemberService(store, notifier, l)),
		Conversations: handler.NewConversationHandler(services.NewConversationService(store, notifier, l)),
		Messages: handler.NewMessageHandler(
			services.NewMessageService(store, services.NewHydrator(store, files, l), notifier, l),
			services.NewReactionService(store, notifier, l),
		),
		Uploads: handler.NewUploadHandler(services.NewUploadService(signer)),
		Users:   handler.NewUserHandler(services.NewUserService(store.Users())),
		WebSocket: websocket.NewHandler(
			hub,
			websocket.NewChannelAuthorizer(proxy.NewAccessControl(store.Members())),
			middleware.OriginChecker(cfg.CORSOrigins),
			l,
		),
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(handlers, server.Deps{
		Auth:        auth,
		RateLimiter: rateLimiter,
		Metrics:     middleware.NewMetrics(),
		Health: func(ctx context.Context) error {
			if db != nil {
				if err := database.HealthCheck(ctx, db); err != nil {
					return err
				}
			}
			if redisClient != nil {
				return redis.Ping(ctx, redisClient)
			}
			return nil
		},
	})

	if err := srv.Start(); err != nil {
		l.Errorf("Server exited with error: %v", err)
	}
}

// openStore returns the configured Store. db is nil for the memory driver.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, *sql.DB, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		return memory.New(), nil, nil
	case config.StoreDriverPostgres:
		db, err := database.Connect(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := repository.InitSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repository.NewPostgresStore(db), db, nil
	default:
		return nil, nil, errors.New("unknown STORE_DRIVER " + cfg.StoreDriver)
	}
}
