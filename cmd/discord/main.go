package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nereth/stagemind/internal/ai"
	"github.com/nereth/stagemind/internal/config"
	"github.com/nereth/stagemind/internal/discord"
	"github.com/nereth/stagemind/internal/logging"
	"github.com/nereth/stagemind/internal/mind"
	"github.com/nereth/stagemind/internal/storage"
	v "github.com/nereth/stagemind/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if cfg.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is not set")
	}

	log := logging.Setup(cfg.LogLevel, cfg.LogFile)
	log.Info().Str("version", v.Version).Str("persona", cfg.PersonaName).Msgf("starting %s", v.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(ctx, cfg.StoragePath, log)
	if err != nil {
		return err
	}
	// The store's flush goroutine stops on ctx cancel; Close waits for it.
	defer func() {
		cancel()
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("datastore close failed")
		}
	}()

	registry := mind.NewRegistry(store, log)
	engine := mind.NewEngine(registry, mind.EngineConfig{
		PersonaName:      cfg.PersonaName,
		ExpertiseDomains: cfg.ExpertiseDomains,
		Resolver:         mind.ResolverConfig{EmpathyOverride: cfg.EmpathyOverride},
	}, log)

	provider, err := ai.NewProvider(cfg.AIProvider)
	if err != nil {
		return err
	}
	limited := ai.NewLimitedProvider(provider, nil)

	canned := discord.NewCannedResponder(cfg.PersonaName, rand.New(rand.NewSource(time.Now().UnixNano())))
	bot := discord.NewBot(cfg, engine, limited, canned, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Info().Str("signal", s.String()).Msg("shutting down")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("discord bot: %w", err)
		}
	}

	log.Info().Msg("exited cleanly")
	return nil
}
