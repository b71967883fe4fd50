package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vnkhanh/wepodcaster-backend/config"
	"github.com/vnkhanh/wepodcaster-backend/controllers"
	"github.com/vnkhanh/wepodcaster-backend/metrics"
	"github.com/vnkhanh/wepodcaster-backend/middleware"
	"github.com/vnkhanh/wepodcaster-backend/playback"
	"github.com/vnkhanh/wepodcaster-backend/repositories"
	"github.com/vnkhanh/wepodcaster-backend/routes"
	"github.com/vnkhanh/wepodcaster-backend/services"
	"github.com/vnkhanh/wepodcaster-backend/utils"
	"github.com/vnkhanh/wepodcaster-backend/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Store
	var (
		users    services.UserRepository
		podcasts services.PodcastRepository
		pinger   controllers.Pinger
		db       *gorm.DB
	)
	switch cfg.StoreDriver {
	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		users = repositories.NewMemoryUserRepository()
		podcasts = repositories.NewMemoryPodcastRepository()
	default:
		var err error
		db, err = config.InitDB(cfg, log)
		if err != nil {
			return err
		}
		defer config.CloseDB(db)
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		pinger = sqlDB
		users = repositories.NewUserRepository(db)
		podcasts = repositories.NewPodcastRepository(db)
	}

	// Dịch vụ ngoài
	storage, err := utils.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket, cfg.SupabaseSignedURLTTL)
	if err != nil {
		return err
	}
	voices, err := services.NewGoogleSynthesizer(ctx, cfg.GoogleCredentialsFile, log)
	if err != nil {
		return err
	}
	defer voices.Close()

	// Gemini là tuỳ chọn, thiếu key thì các endpoint gợi ý prompt trả 502
	var text services.TextGenerator
	if gemini, err := services.NewGeminiClient(ctx, cfg.GeminiAPIKey); err != nil {
		log.Warn("gemini disabled", zap.Error(err))
	} else {
		defer gemini.Close()
		text = gemini
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec := metrics.NewCollector(reg)

	// Realtime
	hub := ws.NewHub(log)
	notifier := ws.NewNotifier(hub)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// Services
	userSvc := services.NewUserService(users, podcasts, log)
	podcastSvc := services.NewPodcastService(podcasts, users, storage, log)
	drafts := services.NewDraftRegistry()
	drafts.StartSweepJob(ctx, 10*time.Minute, cfg.DraftIdleTTL, log)
	generator := services.NewAudioGenerator(voices, storage, notifier, rec, log)
	playbackSvc := services.NewPlaybackService(podcasts, playback.NewRegistry(notifier.Playback), rec, log)
	assistant := services.NewPromptAssistant(text, log)

	limiter := middleware.NewRateLimiter(cfg.GenerateRatePerMinute, cfg.GenerateBurst, log)
	limiter.StartCleanup(5*time.Minute, ctx.Done())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))

	//Bật CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRouter(r, routes.Handlers{
		Tokens:   tokens,
		Limiter:  limiter,
		Gatherer: reg,
		Health:   controllers.NewHealthController(pinger, hub),
		Auth:     controllers.NewAuthController(userSvc, tokens, nil, cfg.GoogleClientID, log),
		Webhook:  controllers.NewWebhookController(userSvc, cfg.IdentityWebhookSecret, log),
		User:     controllers.NewUserController(userSvc),
		Podcast:  controllers.NewPodcastController(podcastSvc, drafts),
		File:     controllers.NewFileController(podcastSvc),
		AI:       controllers.NewAIController(generator, assistant),
		Draft:    controllers.NewDraftController(drafts, generator, notifier),
		Playback: controllers.NewPlaybackController(playbackSvc),
		WS:       ws.NewHandler(hub, tokens, cfg.CORSAllowedOrigins, log),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
