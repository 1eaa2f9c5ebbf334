package main

import (
	"fmt"
	"io"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/logger"
	"github.com/gabrielcapilla/songdash/internal/ports"
	"github.com/gabrielcapilla/songdash/internal/search"
	"github.com/gabrielcapilla/songdash/internal/services/api"
	"github.com/gabrielcapilla/songdash/internal/services/auth"
	"github.com/gabrielcapilla/songdash/internal/services/config"
	"github.com/gabrielcapilla/songdash/internal/services/storage"
	"github.com/gabrielcapilla/songdash/internal/session"

	"github.com/spf13/cobra"
)

// app holds the services shared by every command.
type app struct {
	cfg          domain.Config
	store        ports.StorageService
	session      *session.Manager
	auth         ports.AuthService
	results      *search.Store
	orchestrator *search.Orchestrator
	logCloser    io.Closer
}

// newApp loads the configuration, applies flag overrides and builds the
// service graph.
func newApp(cmd *cobra.Command) (*app, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	cfgService := config.NewViperConfigService(configDir)

	overrides := map[string]string{
		"base-url":       "baseURL",
		"response-shape": "search.responseShape",
		"log-level":      "logLevel",
		"db":             "dbPath",
	}
	for flag, key := range overrides {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			cfgService.Set(key, f.Value.String())
		}
	}
	if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		cfgService.Set("timeout", timeout)
	}

	cfg, err := cfgService.Load()
	if err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}

	a := &app{cfg: cfg}

	if closer, err := logger.Init(cfg.LogLevel); err == nil {
		a.logCloser = closer
	}

	store, err := storage.NewBboltStore(cfg.DBPath)
	if err != nil {
		logger.Log.Warn().Err(err).Str("path", cfg.DBPath).Msg("Falling back to in-memory storage; the session will not persist")
		store = storage.NewMemoryStore()
	}
	a.store = store

	a.session = session.NewManager(store)
	a.session.Initialize()

	client := api.NewClient(cfg.BaseURL,
		api.WithTimeout(cfg.Timeout),
		api.WithResponseShape(cfg.Search.ResponseShape),
	)
	a.auth = auth.NewService(client)
	a.results = search.NewStore()
	a.orchestrator = search.NewOrchestrator(client, a.session, a.results, search.WithHistory(store))

	logger.Log.Info().Str("baseURL", cfg.BaseURL).Bool("authenticated", a.session.IsAuthenticated()).Msg("Application started")
	return a, nil
}

func (a *app) Close() {
	a.orchestrator.Wait()
	if err := a.store.Close(); err != nil {
		logger.Log.Error().Err(err).Msg("Error closing storage")
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
}
