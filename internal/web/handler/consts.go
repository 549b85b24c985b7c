package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// DefaultAPIPrefix is the route prefix used when the configuration
	// does not set one.
	DefaultAPIPrefix = "/api/settings"

	// ErrNilACDFatalLogMsg is used if app, cfg, db or manager var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg, db or manager is nil"
)
