// Package settingsui serves the HTML form for viewing and editing settings.
package settingsui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/GoSettings-Admin/GoSettings-Admin/internal/config"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/settings"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/web/handler"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/web/navigation"
)

const (
	// Path is the UI path below the API prefix.
	Path = "/ui"

	// DefaultTemplate is the template rendered when the configuration
	// does not name a custom one.
	DefaultTemplate = "settings/ui"

	defaultThumbnailWidth  = 200
	defaultThumbnailHeight = 200
)

// Service is the settings UI handler service.
type Service struct {
	handler.Service
	cfg        *config.Config
	db         *gorm.DB
	manager    *settings.Manager
	template   string
	formAction string
}

// Handler is the settings UI handler.
var Handler = Service{}

// Init initializes the settings UI handler. It must run before the REST
// API handler so the /ui routes are not captured by its name parameter.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, manager *settings.Manager) error {
	if app == nil || cfg == nil || db == nil || manager == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.manager = manager

	s.template = cfg.Settings.TemplateName
	if s.template == "" {
		s.template = DefaultTemplate
	}

	prefix := cfg.Settings.APIPrefix
	if prefix == "" {
		prefix = handler.DefaultAPIPrefix
	}

	s.formAction = prefix + Path + "/update"

	app.Route(prefix+Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post("/update", s.Post)
	})

	return nil
}

// Get renders the settings form.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.render(c, "", "")
}

// Post handles the settings form submission. Fields with a leading
// underscore, protected names and names outside the allowed set are
// skipped; thumbnail_width and thumbnail_height are recombined into the
// thumbnail_size setting. The form is re-rendered with per-batch
// success and error messages.
func (s *Service) Post(c *fiber.Ctx) error {
	var (
		successCount  int
		failed        []string
		width, height string
	)

	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		name := strings.ToLower(string(key))

		if strings.HasPrefix(name, "_") {
			return
		}

		switch name {
		case "thumbnail_width":
			width = string(value)
			return
		case "thumbnail_height":
			height = string(value)
			return
		}

		if s.manager.IsProtected(name) || !s.manager.IsAllowed(name) {
			return
		}

		if s.manager.Set(name, string(value)) {
			successCount++
		} else {
			failed = append(failed, name)
		}
	})

	if width != "" && height != "" {
		if s.manager.Set("thumbnail_size", width+","+height) {
			successCount++
		} else {
			failed = append(failed, "thumbnail_size")
		}
	}

	var successMessage, errorMessage string

	if successCount > 0 {
		successMessage = fmt.Sprintf("%d setting(s) updated successfully.", successCount)
	}

	if len(failed) > 0 {
		errorMessage = "failed to update the following settings: " + strings.Join(failed, ", ")
	}

	return s.render(c, successMessage, errorMessage)
}

func (s *Service) render(c *fiber.Ctx, successMessage, errorMessage string) error {
	nav := navigation.NewContext("Settings", "settings", "ui").
		AddBreadcrumb("Home", "/", false).
		AddBreadcrumb("Settings", s.formAction, true)

	values := s.manager.All()
	width, height := thumbnailDimensions(values["thumbnail_size"])

	data := fiber.Map{
		"Navigation":      nav,
		"Settings":        values,
		"ThumbnailWidth":  width,
		"ThumbnailHeight": height,
		"FormAction":      s.formAction,
	}

	if successMessage != "" {
		data["Success"] = successMessage
	}

	if errorMessage != "" {
		data["Error"] = errorMessage
	}

	return c.Render(s.template, data, handler.BaseLayout)
}

// thumbnailDimensions splits a "width,height" value for the two form
// fields, falling back to the built-in dimensions.
func thumbnailDimensions(size string) (width, height int) {
	parts := strings.SplitN(size, ",", 2)
	if len(parts) != 2 {
		return defaultThumbnailWidth, defaultThumbnailHeight
	}

	w, errWidth := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errHeight := strconv.Atoi(strings.TrimSpace(parts[1]))

	if errWidth != nil || errHeight != nil {
		return defaultThumbnailWidth, defaultThumbnailHeight
	}

	return w, h
}
