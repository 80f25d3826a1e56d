package main

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"time"

	"github.com/finchley/moodfm/internal/auth"
	"github.com/finchley/moodfm/internal/moods"
	"github.com/finchley/moodfm/internal/player"
	"github.com/finchley/moodfm/internal/repositories"
	"github.com/finchley/moodfm/internal/services"
	"github.com/finchley/moodfm/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.WithLogger(shared.NewLogger(nil), "run_id", shared.GenerateID())

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var db *sql.DB
	var session *auth.Session
	var client *services.SpotifyClient
	var controller *player.Controller

	table := moods.FromConfig(config.Moods)

	if openedDB, err := shared.NewDatabase(config.Database.Path); err == nil {
		db = openedDB

		repo := repositories.NewCredentialRepository(db)
		if err := repo.Migrate(); err != nil {
			logger.Warn("credential table migration failed", "error", err)
		}

		if s, err := auth.NewSession(auth.SessionOpts{
			ClientID:    config.Credentials.Spotify.ClientID,
			RedirectURI: config.Credentials.Spotify.RedirectURI,
			Scopes:      strings.Fields(config.Credentials.Spotify.Scopes),
			Store:       repo,
			Logger:      logger,
		}); err == nil {
			session = s
		} else {
			logger.Warn("session unavailable", "error", err)
		}
	} else {
		logger.Warn("database unavailable", "error", err)
	}

	if session != nil {
		if c, err := services.NewSpotifyClient(services.ClientOpts{
			Auth:   session,
			Moods:  table,
			Logger: logger,
		}); err == nil {
			client = c

			connector := player.NewSpotifyConnector(player.ConnectOpts{
				Devices:    client,
				DeviceName: config.Player.DeviceName,
				Timeout:    time.Duration(config.Player.ConnectTimeout) * time.Second,
				Logger:     logger,
			})
			controller = player.NewController(client, connector, logger)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		DB:      db,
		Session: session,
		Client:  client,
		Player:  controller,
		Moods:   table,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "moodfm",
		Usage:    "Play Spotify tracks that match your mood",
		Version:  "0.2.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
