package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/classmeet/server/internal/adapter/driven/media/msoup"
	repo "github.com/classmeet/server/internal/adapter/driven/persistence/memory"
	handler "github.com/classmeet/server/internal/adapter/driving/http"
	"github.com/classmeet/server/internal/config"
	"github.com/classmeet/server/internal/core/service"
)

func main() {
	// Optional, mirrors the deployment setup.
	_ = godotenv.Load()

	cfg, err := config.Load("config.yml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stdout}
	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Caller().Logger()

	engine, err := msoup.New(msoup.Config{
		ListenIP:         cfg.Media.ListenIP,
		AnnouncedAddress: cfg.Media.AnnouncedAddress,
		RtcMinPort:       cfg.Media.RtcMinPort,
		RtcMaxPort:       cfg.Media.RtcMaxPort,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start media engine")
	}
	defer engine.Close()

	rooms := service.NewRoomRegistry()
	signaling := service.NewSignaling(rooms, engine)
	meetings := service.NewMeetingService(repo.NewMeetingRepository())

	h := handler.NewHandler(signaling, meetings, cfg.HTTP.AllowedOrigins)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: h.NewRouter(),
	}

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
