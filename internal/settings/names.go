package settings

// BaseAllowed is the built-in list of setting names editable through
// the public write path and included in bulk listings. Extension files
// can only add to this list, never remove from it.
var BaseAllowed = []string{
	// Paths and directories
	"image_directory",
	"absolute_image_directory",
	"thumbnail_directory",
	"absolute_thumbnail_directory",
	"upload_directory",
	"absolute_upload_directory",

	// Thumbnails
	"thumbnail_size",
	"thumbnail_size_type",

	// Supported image formats (and aliases)
	"supported_image_formats",
	"supported_formats",
	"formats",

	// Albums
	"default_album_id",

	// Application settings
	"environment",
	"frontend_host",
	"api_prefix",

	// CORS settings
	"backend_cors_origins",

	// E-Mail settings
	"email_reset_token_expire_hours",
	"emails_from_name",

	// Project name
	"project_name",
}

// BaseProtected is the built-in list of setting names never stored in
// the database and never editable via the API. Their values come from
// environment variables or the application settings object only.
var BaseProtected = []string{
	"secret_key",
	"postgres_server",
	"postgres_user",
	"postgres_password",
	"postgres_db",
	"smtp_host",
	"smtp_user",
	"smtp_password",
	"emails_from_email",
	"first_superuser",
	"first_superuser_password",
	"sentry_dsn",
}
