package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/skillmatch/skillmatch/internal/api/http"
	"github.com/skillmatch/skillmatch/internal/api/http/handlers"
	"github.com/skillmatch/skillmatch/internal/auth"
	"github.com/skillmatch/skillmatch/internal/config"
	"github.com/skillmatch/skillmatch/internal/events"
	"github.com/skillmatch/skillmatch/internal/notify"
	"github.com/skillmatch/skillmatch/internal/observability"
	"github.com/skillmatch/skillmatch/internal/persistence"
	"github.com/skillmatch/skillmatch/internal/realtime"
	"github.com/skillmatch/skillmatch/internal/repository"
	"github.com/skillmatch/skillmatch/internal/service"
	"github.com/skillmatch/skillmatch/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	queryRepo := repository.NewQueryRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)
	connectionRepo := repository.NewConnectionRepository(pool)
	conversationRepo := repository.NewConversationRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	otpRepo := repository.NewOTPRepository(redis.Client)

	mailer := notify.NewMailer(cfg.SMTP, cfg.Notification.EmailFrom, logger)
	dispatcher := events.NewInMemoryDispatcher()
	relay := realtime.NewRedisRelay(redis.Client)
	metrics := observability.NewMetrics()

	hub := realtime.NewHub(logger, metrics)
	topicAuthorizer := realtime.NewAuthorizer(conversationRepo)
	go hub.Run()
	go realtime.RunBridge(ctx, redis.Client, hub, logger)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		OTPRepo:  otpRepo,
		Mailer:   mailer,
		Logger:   logger,
	})
	profileService := service.NewProfileService(userRepo)
	queryService := service.NewQueryService(service.QueryDependencies{
		QueryRepo:  queryRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	requestService := service.NewRequestService(service.RequestDependencies{
		RequestRepo: requestRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	connectionService := service.NewConnectionService(service.ConnectionDependencies{
		ConnectionRepo:   connectionRepo,
		ConversationRepo: conversationRepo,
		UserRepo:         userRepo,
		Relay:            relay,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	chatService := service.NewChatService(service.ChatDependencies{
		ConversationRepo: conversationRepo,
		MessageRepo:      messageRepo,
		Relay:            relay,
		Logger:           logger,
	})
	unreadService := service.NewUnreadService(connectionRepo, messageRepo)
	fanoutService := service.NewFanoutService(service.FanoutDependencies{
		UserRepo:   userRepo,
		Mailer:     mailer,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	worker.StartFanoutWorker(fanoutService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(profileService),
		Queries:        handlers.NewQueriesHandler(queryService),
		Requests:       handlers.NewRequestsHandler(requestService),
		Connections:    handlers.NewConnectionsHandler(connectionService),
		Chat:           handlers.NewChatHandler(chatService),
		Notifications:  handlers.NewNotificationsHandler(unreadService),
		Websocket:      handlers.NewWebsocketHandler(hub, topicAuthorizer, logger),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
