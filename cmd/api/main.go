package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skinsewa/api/internal/config"
	"github.com/skinsewa/api/internal/email"
	"github.com/skinsewa/api/internal/gateway/gemini"
	"github.com/skinsewa/api/internal/handler"
	analysisHandler "github.com/skinsewa/api/internal/handler/analysis"
	assistantHandler "github.com/skinsewa/api/internal/handler/assistant"
	blogHandler "github.com/skinsewa/api/internal/handler/blog"
	clinicHandler "github.com/skinsewa/api/internal/handler/clinic"
	communityHandler "github.com/skinsewa/api/internal/handler/community"
	contactHandler "github.com/skinsewa/api/internal/handler/contact"
	"github.com/skinsewa/api/internal/middleware"
	"github.com/skinsewa/api/internal/profile"
	"github.com/skinsewa/api/internal/report"
	"github.com/skinsewa/api/internal/repository/postgres"
	"github.com/skinsewa/api/internal/router"
	analysisService "github.com/skinsewa/api/internal/service/analysis"
	assistantService "github.com/skinsewa/api/internal/service/assistant"
	blogService "github.com/skinsewa/api/internal/service/blog"
	clinicService "github.com/skinsewa/api/internal/service/clinic"
	communityService "github.com/skinsewa/api/internal/service/community"
	"github.com/skinsewa/api/pkg/auth"
	"github.com/skinsewa/api/pkg/logger"
	"github.com/skinsewa/api/pkg/messaging/redis"
	"github.com/skinsewa/api/pkg/metrics"
	"github.com/skinsewa/api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	store, err := profile.NewFileStore(cfg.Profile.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open profile store")
	}

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create Redis broker")
	}
	defer broker.Close()

	// Repositories
	communityRepo := postgres.NewCommunityRepository(db)
	clinicRepo := postgres.NewClinicRepository(db)
	blogRepo := postgres.NewBlogRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	appMetrics := metrics.NewMetrics("skinsewa", "api")
	gatewayClient := gemini.NewClient(cfg.Gemini)
	codec := report.NewCodec()
	analysisSvc := analysisService.NewService(gatewayClient, codec, store, appLogger, appMetrics)
	assistantSvc := assistantService.NewService(gatewayClient, appLogger)
	communitySvc := communityService.NewService(communityRepo, outboxRepo, appLogger)

	hasher := security.NewBcryptHasher(0)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	clinicSvc := clinicService.NewService(clinicRepo, hasher, jwtSvc, appLogger)
	blogSvc := blogService.NewService(blogRepo)
	mailer := email.NewService(cfg.SMTP, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The in-memory feed follows broker notifications.
	feed := communityService.NewFeed(appLogger)
	if posts, err := communityRepo.ListPosts(ctx); err != nil {
		appLogger.Error(err, "failed to warm feed")
	} else {
		feed.Load(posts)
	}
	if err := feed.Start(ctx, broker); err != nil {
		log.Fatal().Err(err).Msg("failed to subscribe feed")
	}

	// Handlers
	h := handler.NewHandler()
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	analysisH := analysisHandler.NewHandler(analysisSvc, store)
	assistantH := assistantHandler.NewHandler(assistantSvc, store)
	communityH := communityHandler.NewHandler(communitySvc, feed)
	clinicH := clinicHandler.NewHandler(clinicSvc, mailer, appLogger)
	blogH := blogHandler.NewHandler(blogSvc)
	contactH := contactHandler.NewHandler(mailer)

	r := router.NewRouter(
		authMiddleware,
		analysisH,
		assistantH,
		communityH,
		clinicH,
		blogH,
		contactH,
		h,
		router.Config{
			RateLimitEnabled: cfg.RateLimit.Enabled,
			RateLimitRPS:     cfg.RateLimit.RequestsPerSecond,
			RateLimitBurst:   cfg.RateLimit.Burst,
			CORSConfig:       middleware.DefaultCORSConfig(),
			MetricsPrefix:    "skinsewa_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLogger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "graceful shutdown failed")
	}
}
