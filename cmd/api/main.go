package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/joho/godotenv"

	"upo-server/internal/comfy"
	"upo-server/internal/enhance"
	"upo-server/internal/http/handlers"
	httpapi "upo-server/internal/http/httpapi"
	"upo-server/internal/infra"
	"upo-server/internal/infra/geoip"
	"upo-server/internal/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		lookup = resolver.CountryCode
	}

	engine := enhance.NewDefaultEngine()
	responseCache := cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	runner := infra.NewSQLRunner(dbpool, logger)

	app := handlers.NewApp(logger, runner, engine, responseCache, comfy.NewClient(), cfg.ComfyHost)
	router := httpapi.NewRouter(cfg, logger, lookup, app)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
