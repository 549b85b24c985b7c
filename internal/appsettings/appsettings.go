// Package appsettings holds the statically-typed application settings
// object the settings manager synchronizes with. Instead of inferring a
// target type from a live attribute value, every setting name is bound
// to a struct field through an explicit schema entry, so the coercion
// rules for a name are declared exactly once.
package appsettings

import (
	"os"
	"strings"
)

// Settings mirrors the application configuration of the host gallery
// application. Field values act as compile-time defaults; the manager
// overwrites them from the database on initialization.
type Settings struct {
	// Paths and directories
	ImageDirectory     string
	ThumbnailDirectory string
	UploadDirectory    string

	// Thumbnails
	ThumbnailSize     string
	ThumbnailSizeType string

	// Supported image formats
	SupportedImageFormats string

	// Albums
	DefaultAlbumID int

	// Application settings
	Environment  string
	FrontendHost string
	APIPrefix    string

	// CORS settings
	BackendCORSOrigins string

	// E-Mail settings
	EmailsEnabled              bool
	EmailResetTokenExpireHours int
	EmailsFromName             string

	// Project name
	ProjectName string

	// Protected values, sourced from the environment only.
	SecretKey              string
	PostgresServer         string
	PostgresUser           string
	PostgresPassword       string
	PostgresDB             string
	SMTPHost               string
	SMTPUser               string
	SMTPPassword           string
	EmailsFromEmail        string
	FirstSuperuser         string
	FirstSuperuserPassword string
	SentryDSN              string

	// schema caches the binding map, built once on first use. Bindings
	// hold field pointers, so the map stays valid for the lifetime of
	// the instance.
	schema map[string]Binding
}

// New returns application settings with their built-in defaults.
func New() *Settings {
	return &Settings{
		ImageDirectory:             "static/images",
		ThumbnailDirectory:         "static/thumbnails",
		UploadDirectory:            "static/uploads",
		ThumbnailSize:              "200,200",
		ThumbnailSizeType:          "absolute",
		DefaultAlbumID:             1,
		Environment:                "local",
		APIPrefix:                  "/api",
		EmailResetTokenExpireHours: 48,
		ProjectName:                "Gallery",
	}
}

// Schema returns the binding for every setting name the application
// settings object exposes. Keys are lowercase setting names.
func (s *Settings) Schema() map[string]Binding {
	if s.schema != nil {
		return s.schema
	}

	s.schema = map[string]Binding{
		"image_directory":                StringBinding(&s.ImageDirectory),
		"thumbnail_directory":            StringBinding(&s.ThumbnailDirectory),
		"upload_directory":               StringBinding(&s.UploadDirectory),
		"thumbnail_size":                 StringBinding(&s.ThumbnailSize),
		"thumbnail_size_type":            StringBinding(&s.ThumbnailSizeType),
		"supported_image_formats":        StringBinding(&s.SupportedImageFormats),
		"default_album_id":               IntBinding(&s.DefaultAlbumID),
		"environment":                    StringBinding(&s.Environment),
		"frontend_host":                  StringBinding(&s.FrontendHost),
		"api_prefix":                     StringBinding(&s.APIPrefix),
		"backend_cors_origins":           StringBinding(&s.BackendCORSOrigins),
		"emails_enabled":                 BoolBinding(&s.EmailsEnabled),
		"email_reset_token_expire_hours": IntBinding(&s.EmailResetTokenExpireHours),
		"emails_from_name":               StringBinding(&s.EmailsFromName),
		"project_name":                   StringBinding(&s.ProjectName),

		"secret_key":               StringBinding(&s.SecretKey),
		"postgres_server":          StringBinding(&s.PostgresServer),
		"postgres_user":            StringBinding(&s.PostgresUser),
		"postgres_password":        StringBinding(&s.PostgresPassword),
		"postgres_db":              StringBinding(&s.PostgresDB),
		"smtp_host":                StringBinding(&s.SMTPHost),
		"smtp_user":                StringBinding(&s.SMTPUser),
		"smtp_password":            StringBinding(&s.SMTPPassword),
		"emails_from_email":        StringBinding(&s.EmailsFromEmail),
		"first_superuser":          StringBinding(&s.FirstSuperuser),
		"first_superuser_password": StringBinding(&s.FirstSuperuserPassword),
		"sentry_dsn":               StringBinding(&s.SentryDSN),
	}

	return s.schema
}

// Has reports whether a binding exists for the given setting name.
func (s *Settings) Has(name string) bool {
	_, ok := s.Schema()[strings.ToLower(name)]
	return ok
}

// Get returns the string form of the bound field value.
func (s *Settings) Get(name string) (string, bool) {
	binding, ok := s.Schema()[strings.ToLower(name)]
	if !ok {
		return "", false
	}

	return binding.Get(), true
}

// SetValue coerces value into the bound field. Unknown names return
// ErrUnknownSetting; coercion failures return the strconv error.
func (s *Settings) SetValue(name, value string) error {
	binding, ok := s.Schema()[strings.ToLower(name)]
	if !ok {
		return ErrUnknownSetting
	}

	return binding.Set(value)
}

// ApplyEnv copies environment variables into bound fields. Setting
// names are matched against their upper-case form, the convention for
// environment variables. Only names accepted by the filter are copied.
func (s *Settings) ApplyEnv(filter func(name string) bool) error {
	var firstErr error

	for name, binding := range s.Schema() {
		if filter != nil && !filter(name) {
			continue
		}

		envValue, ok := os.LookupEnv(strings.ToUpper(name))
		if !ok {
			continue
		}

		if err := binding.Set(envValue); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
