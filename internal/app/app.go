package app

import (
	"io"
	"log/slog"

	"github.com/vk/rdfworkflow/internal/hcl"
	"github.com/vk/rdfworkflow/internal/libcache"
	"github.com/vk/rdfworkflow/internal/operation"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	catalog *operation.Catalog
	loader  *hcl.Loader
	libs    *libcache.Cache
}

// NewApp is the constructor for the main application. Logs and results are
// both written to outW. Each App keeps its own logger and library cache.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	catalog := operation.DefaultCatalog()
	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		catalog: catalog,
		loader:  hcl.NewLoader(catalog),
		libs:    libcache.New(),
	}
}

// Libraries returns the cache of loaded units. This is primarily for testing.
func (a *App) Libraries() *libcache.Cache {
	return a.libs
}
