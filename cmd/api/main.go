package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	cloudstore "hotel_listing/internal/adapters/cloudinary"
	server "hotel_listing/internal/adapters/http_server"
	"hotel_listing/internal/adapters/imageapi"
	"hotel_listing/internal/adapters/observability"
	redisad "hotel_listing/internal/adapters/redis"
	"hotel_listing/internal/app"
	"hotel_listing/internal/domain"
	"hotel_listing/internal/form"
	"hotel_listing/internal/location"
	"hotel_listing/internal/shared"
	mysqlrepo "hotel_listing/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
	}

	images, err := imageStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.ImageBackend).Msg("image store setup failed")
	}

	// deps
	repo := mysqlrepo.New(db)
	locs := location.Default()
	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	listings := app.NewListingService(repo, cache)
	drafts := app.NewDraftService(listings, cache, app.DraftConfig{
		Locations:    locs,
		Images:       images,
		LocationMode: form.LocationMode(cfg.LocationOnEdit),
		TTL:          cfg.DraftTTL,
		OnEvent: func(op string, o form.Outcome) {
			observability.ObserveForm(op, string(o))
		},
		OnLiveCache: func(event string) { observability.ObserveCache("ccache", event) },
	})

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:         q,
		Drafts:    drafts,
		Locations: locs,
		Auth:      server.Auth(cfg.JWTSecret, cfg.JWTIssuer),
		MaxUpload: cfg.MaxUploadBytes,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	if err := cache.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close failed")
	}
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Msg("db close failed")
	}
}

func imageStore(cfg shared.Config) (domain.ImageStore, error) {
	switch cfg.ImageBackend {
	case "cloudinary":
		return cloudstore.New(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	default:
		return imageapi.New(cfg.ImageAPIBase, cfg.ImageAPIKey, cfg.ImageAPIRPS)
	}
}
