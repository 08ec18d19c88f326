package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/banterhq/banter/internal/archive"
	"github.com/banterhq/banter/internal/config"
	"github.com/banterhq/banter/internal/domain"
	"github.com/banterhq/banter/internal/handler"
	"github.com/banterhq/banter/internal/hub"
	"github.com/banterhq/banter/internal/registry"
	"github.com/banterhq/banter/internal/repository"
	"github.com/banterhq/banter/internal/service"
	"github.com/banterhq/banter/internal/uri"
	"github.com/banterhq/banter/pkg/database"
	"github.com/banterhq/banter/pkg/jwt"
	"github.com/banterhq/banter/pkg/log"
	"github.com/banterhq/banter/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	logger := log.L()
	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting banter api")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.ChatSessionModel{},
		&domain.ChatSessionMemberModel{},
		&domain.ChatSessionMessageModel{},
		&domain.FriendRequestModel{},
		&domain.FriendshipModel{},
	); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	users := repository.NewGormUserRepository(db)
	chats := repository.NewGormChatRepository(db)
	social := repository.NewGormSocialRepository(db)

	wsHub := hub.New()
	publisher := hub.NewPublisher(wsHub)

	var reg registry.Registry
	if cfg.Redis.Address != "" {
		redisReg, err := registry.NewRedisRegistry(cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialise redis room registry")
		}
		defer redisReg.Close()
		if err := redisReg.StartHeartbeat(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start registry heartbeat")
		}
		reg = redisReg
		logger.Info().Str("address", cfg.Redis.Address).Msg("room liveness registry enabled")
	}

	var producer archive.MessageProducer
	if cfg.Kafka.Brokers != "" {
		kp, err := archive.NewConfluentProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Partitions)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialise kafka archive producer")
		}
		defer kp.Close()
		producer = kp
		logger.Info().Str("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("message archive enabled")
	}

	uriGen, err := uri.NewGenerator(cfg.URI.Size, uri.DefaultAlphabet)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid uri generator configuration")
	}

	chatSvc := service.NewChatService(chats, users, uriGen, publisher, producer)
	socialSvc := service.NewSocialService(social, users, chatSvc)

	tokens, err := jwt.NewManager(cfg.Auth.Secret, cfg.Auth.AccessTTL, cfg.Auth.Issuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise token manager")
	}
	authMW := middleware.NewAuthMiddleware(tokens)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.GinMiddleware(logger))

	httpHandler := handler.NewHandler(chatSvc, socialSvc, authMW)
	httpHandler.RegisterRoutes(r)

	wsHandler := handler.NewWSHandler(wsHub, chatSvc, reg, cfg.WebSocket)
	wsHandler.RegisterRoutes(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("api listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("stopped")
}
