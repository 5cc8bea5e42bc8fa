package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/The-Expanse-Discord/Protomolecule/internal/adapter/discord"
	"github.com/The-Expanse-Discord/Protomolecule/internal/adapter/httpserver"
	"github.com/The-Expanse-Discord/Protomolecule/internal/notify"
	"github.com/The-Expanse-Discord/Protomolecule/internal/platform/config"
	"github.com/The-Expanse-Discord/Protomolecule/internal/platform/logging"
	"github.com/The-Expanse-Discord/Protomolecule/internal/ratelimit"
	"github.com/The-Expanse-Discord/Protomolecule/internal/roles"
	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupSession(cfg *config.Config) *discordgo.Session {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		slog.Error("Failed to create Discord session", "error", err)
		os.Exit(1)
	}
	return session
}

func runGracefulShutdown(srv *httpserver.Server, session *discordgo.Session) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Ops server shutdown error", "error", err)
		}

		if err := session.Close(); err != nil {
			slog.Error("Gateway close error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	// Already validated by config.Load.
	guildChannels, err := config.ParseGuildChannels(cfg.GuildChannels)
	if err != nil {
		slog.Error("Invalid guild channel mapping", "error", err)
		os.Exit(1)
	}

	session := setupSession(cfg)
	client := discord.NewClient(session)

	limiter := ratelimit.New(cfg.RateLimitInterval, cfg.RateLimitTokens, cfg.RateLimitCapacity, clock)
	notifier := notify.New(client)

	// Bootstrap runs over the REST API before the gateway opens: it seeds
	// the role assignment embeds and builds the read-only registry. Missing
	// emoji are a deployment misconfiguration and abort startup.
	bootstrapCtx, cancel := context.WithTimeout(context.Background(), cfg.BootstrapTimeout)
	registry, err := roles.Bootstrap(bootstrapCtx, client, roles.DefaultCatalog(), guildChannels)
	cancel()
	if err != nil {
		slog.Error("Bootstrap failed", "error", err)
		os.Exit(1)
	}

	coordinator := roles.NewCoordinator(client, registry, limiter, notifier)

	gateway := discord.NewGateway(session, coordinator)
	gateway.Listen()

	if err := session.Open(); err != nil {
		slog.Error("Failed to open gateway connection", "error", err)
		os.Exit(1)
	}

	srv := httpserver.NewServer(cfg.Port, coordinator)
	done := runGracefulShutdown(srv, session)

	slog.Info("Ops server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Ops server error", "error", err)
		os.Exit(1)
	}

	<-done
}
