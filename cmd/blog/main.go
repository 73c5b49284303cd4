package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/kechcole/Blog-App/internal/auth/http"
	authrepo "github.com/kechcole/Blog-App/internal/auth/repository"
	authservice "github.com/kechcole/Blog-App/internal/auth/service"
	"github.com/kechcole/Blog-App/internal/common/config"
	commoncrypto "github.com/kechcole/Blog-App/internal/common/crypto"
	"github.com/kechcole/Blog-App/internal/common/db"
	commonhttp "github.com/kechcole/Blog-App/internal/common/http"
	"github.com/kechcole/Blog-App/internal/common/logger"
	srv "github.com/kechcole/Blog-App/internal/common/server"
	"github.com/kechcole/Blog-App/internal/event"
	"github.com/kechcole/Blog-App/internal/feed"
	"github.com/kechcole/Blog-App/internal/image"
	"github.com/kechcole/Blog-App/internal/media"
	posthttp "github.com/kechcole/Blog-App/internal/post/http"
	postrepo "github.com/kechcole/Blog-App/internal/post/repository"
	postservice "github.com/kechcole/Blog-App/internal/post/service"
	profilehttp "github.com/kechcole/Blog-App/internal/profile/http"
	profilerepo "github.com/kechcole/Blog-App/internal/profile/repository"
	profileservice "github.com/kechcole/Blog-App/internal/profile/service"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "blog", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.LoadBlogConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	mediaStore, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		log.Fatalf("failed to initialize media store: %v", err)
	}

	userRepo := authrepo.NewPgRepository(pool)
	profileRepo := profilerepo.NewPgRepository(pool)
	postRepo := postrepo.NewPgRepository(pool)

	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()

	profileService := profileservice.NewProfileService(profileservice.ProfileServiceDeps{
		Repo:       profileRepo,
		Media:      mediaStore,
		Normalizer: image.NewNormalizer(),
		Log:        log,
	})

	// Profile bootstrapping is event-driven: the identity side publishes,
	// the profile side subscribes.
	bus := event.NewBus(log)
	bus.SubscribeUserCreated(profileService.CreateForUser)

	authService := authservice.NewAuthService(authservice.AuthServiceDeps{
		Repo:           userRepo,
		Events:         bus,
		Hasher:         hasher,
		IDGenerator:    idGenerator,
		JWTSecret:      cfg.JWTSecret,
		Log:            log,
		AccessTokenTTL: cfg.AccessTokenTTL,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := feed.NewHub(log)
	go hub.Run(ctx)

	postService := postservice.NewPostService(postRepo, idGenerator, nil, hub, log)

	postHandler := posthttp.NewHandler(postService, cfg.JWTSecret, cfg.RequestTimeout, log)

	mux := http.NewServeMux()
	mux.Handle("/api/auth/", authhttp.NewHandler(authService, cfg.JWTSecret, cfg.RequestTimeout, log))
	mux.Handle("/api/posts", postHandler)
	mux.Handle("/api/posts/", postHandler)
	mux.Handle("/api/profiles/", profilehttp.NewHandler(profileService, cfg.JWTSecret, cfg.RequestTimeout, cfg.MaxUploadSize, log))
	mux.Handle("/api/feed", hub)
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	rateLimiter := commonhttp.NewPathRateLimiter()
	baseHandler := commonhttp.BuildBaseHandler(log, cfg.MaxUploadSize, mux)
	finalHandler := rateLimiter.Middleware(baseHandler)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, finalHandler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("blog service: stopping feed hub")
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdownAndHooks(server, log, "blog", shutdownHooks)
}
