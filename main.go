package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JosiahBull/tom-bot/internal/adapters/api"
	"github.com/JosiahBull/tom-bot/internal/adapters/discord"
	"github.com/JosiahBull/tom-bot/internal/adapters/handler"
	"github.com/JosiahBull/tom-bot/internal/adapters/maps"
	"github.com/JosiahBull/tom-bot/internal/adapters/store"
	"github.com/JosiahBull/tom-bot/internal/core/domain/commands"
	"github.com/JosiahBull/tom-bot/internal/core/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func main() {
	log.Info().Msg("starting tom-bot...")

	viper.AddConfigPath(".")
	viper.SetConfigType("toml")

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level
	switch viper.GetString("bot.log_level") {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	default:
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	itemStore, err := store.NewSQLite(viper.GetString("store.path"))
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing item store")
	}
	defer itemStore.Close()

	suggester := service.NewSuggester(itemStore)

	registry := &commands.Registry{}
	registry.Register(commands.NewShopHandler(itemStore, suggester, "shop"))

	if viper.IsSet("maps.api_key") {
		google, err := maps.NewGoogle(
			viper.GetString("maps.api_key"),
			viper.GetStringMapString("maps.destinations"))
		if err != nil {
			log.Panic().Err(err).Msg("failed initializing maps provider")
		}
		registry.Register(commands.NewDistanceHandler(google, "distance"))
	}

	handlerTimeout, err := time.ParseDuration(viper.GetString("handler.timeout"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid timeout for handler in config")
	}

	dispatcher := handler.NewInteraction(registry, handlerTimeout)

	client := discord.NewClient(
		viper.GetString("discord.app_id"),
		viper.GetString("discord.bot_token"))

	syncWindow, err := time.ParseDuration(viper.GetString("discord.sync_window"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid sync window in config")
	}

	webhook, err := discord.NewWebhook(
		viper.GetString("discord.public_key"),
		client, dispatcher, syncWindow)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing interaction webhook")
	}

	reconcileInterval, err := time.ParseDuration(viper.GetString("store.reconcile_interval"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid reconcile interval in config")
	}
	go service.NewReconciler(itemStore, reconcileInterval).Run(ctx)

	opsServer := &http.Server{
		Addr:    viper.GetString("api.listen_addr"),
		Handler: api.NewServer().Handler(),
	}
	go func() {
		log.Info().Str("addr", opsServer.Addr).Msg("ops server listening")
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ops server failed")
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("POST /interactions", webhook)
	interactionServer := &http.Server{
		Addr:    viper.GetString("discord.listen_addr"),
		Handler: mux,
	}
	go func() {
		log.Info().Str("addr", interactionServer.Addr).Msg("bot listening")
		if err := interactionServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("interaction server failed")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := interactionServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("interaction server shutdown failed")
	}
	if err := opsServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ops server shutdown failed")
	}
}
