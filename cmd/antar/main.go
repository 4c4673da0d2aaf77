package main

import (
	"log"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"antar/internal/app"
	"antar/internal/colour"
	"antar/internal/config"
	"antar/internal/storage"
	"antar/internal/ui"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal("Failed to create data directory:", err)
	}

	// The TUI owns stdout, so the log goes to a file.
	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "antar.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatal("Failed to open log file:", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, nil))
	slog.SetDefault(logger)

	backend, err := openBackend(cfg)
	if err != nil {
		log.Fatal("Failed to open storage backend:", err)
	}
	defer backend.Close()

	defaultColour, err := colour.ParseHex(cfg.DefaultPersona.Colour)
	if err != nil {
		logger.Warn("invalid default persona colour in config, using built-in",
			"colour", cfg.DefaultPersona.Colour)
		defaultColour = app.DefaultPersonaColour
	}

	state := app.New(backend,
		app.WithDefaultPersona(cfg.DefaultPersona.Name, defaultColour),
		app.WithLogger(logger),
	)
	state.Load()

	model := ui.NewModel(state)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
}

func openBackend(cfg config.Config) (storage.Backend, error) {
	switch cfg.Storage {
	case config.BackendSQLite:
		return storage.NewSQLiteBackend(filepath.Join(cfg.DataDir, "antar.db"))
	case config.BackendMemory:
		return storage.NewMemoryBackend(), nil
	default:
		return storage.NewBadgerBackend(filepath.Join(cfg.DataDir, "store"))
	}
}
