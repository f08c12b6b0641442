package app

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/flowgrid/internal/model"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer // report
	errW   io.Writer // logs and diagnostics
	logger *slog.Logger
	config *Config
	loader model.Loader
}

// NewApp is the constructor for the main application. It returns an App with
// its own isolated logger writing to errW.
func NewApp(outW, errW io.Writer, cfg *Config, loader model.Loader) *App {
	logger := newLogger(cfg, errW)
	logger.Debug("Logger configured successfully.")
	return &App{
		outW:   outW,
		errW:   errW,
		logger: logger,
		config: cfg,
		loader: loader,
	}
}
