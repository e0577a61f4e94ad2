package main

import (
	"log/slog"

	"lectern/internal/config"
	"lectern/internal/courses"
	"lectern/internal/daemon"
	"lectern/internal/library"
	"lectern/internal/services/llm"
)

// buildDaemon wires the daemon's dependencies: the library store, the course
// catalog, and the AI backend client serving both gateways.
func buildDaemon(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	catalog, err := courses.Open(cfg.CatalogPath())
	if err != nil {
		return nil, err
	}

	backendCfg := cfg.GetLLM()
	backend := llm.NewClient(llm.Config{
		APIKey:             backendCfg.APIKey,
		BaseURL:            backendCfg.BaseURL,
		TranscriptionModel: backendCfg.TranscriptionModel,
		NotesModel:         backendCfg.NotesModel,
		Referer:            backendCfg.Referer,
		TimeoutSeconds:     backendCfg.TimeoutSeconds,
	})

	d, err := daemon.New(cfg, library.NewStore(), catalog, backend, backend, logger)
	if err != nil {
		catalog.Close()
		return nil, err
	}
	return d, nil
}
