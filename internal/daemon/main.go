// Package daemon wires the application together: database, settings
// manager and web service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoSettings-Admin/GoSettings-Admin/internal/appsettings"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/config"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/db/dsn"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/db/models"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/settings"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := gorm.Open(dialector(cfg), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Str("engine", cfg.DB.Engine).Msg("failed to connect database")
		return nil
	}

	if err = db.AutoMigrate(&models.Setting{}); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
		return nil
	}

	// populate the application settings from the environment across all
	// bindings; protected values only ever enter through this object, the
	// manager's own environment pass is restricted to allowed names
	app := appsettings.New()
	if err = app.ApplyEnv(nil); err != nil {
		log.Warn().Err(err).Msg("failed to apply some environment variables to application settings")
	}

	manager := settings.New(app)

	if cfg.Settings.DotenvFile != "" {
		manager.SetDotenv(cfg.Settings.DotenvFile, cfg.Settings.DotenvOverride)
	}

	for _, path := range cfg.Settings.ExtensionFiles {
		manager.LoadExtension(path)
	}

	if err = manager.Initialize(db); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize settings manager")
		return nil
	}

	seed(db, manager)

	return &Daemon{
		cfg:        cfg,
		webService: *web.New(cfg, db, manager),
	}
}

// dialector selects the gorm driver for the configured engine.
func dialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.Engine {
	case config.EnginePostgres:
		return gormpostgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		return sqlite.Open(dsn.Create(cfg))
	default:
		return gormmysql.Open(dsn.Create(cfg))
	}
}
