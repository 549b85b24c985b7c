package config

import (
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Settings  Settings
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool   // enable static file browsing (for development purposes only)
	DisableRecover bool   // disable recover middleware
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
}

// Settings configures the settings manager and its HTTP surface.
type Settings struct {
	APIPrefix      string   // route prefix for the settings REST API
	AppRoot        string   // root directory used to resolve relative paths
	DotenvFile     string   // optional .env file with setting defaults
	DotenvOverride bool     // override already loaded dotenv defaults
	ExtensionFiles []string // extension TOML files with extra name lists and defaults
	EnableUI       bool     // serve the HTML settings form
	TemplateName   string   // custom template name for the settings UI
}
