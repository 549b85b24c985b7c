// Package settingsapi implements the settings REST API.
package settingsapi

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoSettings-Admin/GoSettings-Admin/internal/config"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/db/controller/setting"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/settings"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/web/handler"
)

const (
	// SettingNameDefaultAlbum is the setting backing the default album endpoint.
	SettingNameDefaultAlbum = "default_album_id"

	// SettingNameSupportedFormats is the setting reset by the format reset endpoint.
	SettingNameSupportedFormats = "supported_image_formats"

	// absolutePrefix marks setting names whose stored relative path is
	// resolved against the configured application root on read.
	absolutePrefix = "absolute_"
)

// Service is the settings REST API handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	manager   *settings.Manager
	validator *validator.Validate
}

// Handler is the settings REST API handler.
var Handler = Service{}

// Init initializes the settings REST API handler. The named routes are
// registered before the parameterized ones so fiber matches them first.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, manager *settings.Manager) error {
	if app == nil || cfg == nil || db == nil || manager == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.manager = manager
	s.validator = validator.New()

	prefix := cfg.Settings.APIPrefix
	if prefix == "" {
		prefix = handler.DefaultAPIPrefix
	}

	app.Route(prefix, func(router fiber.Router) {
		router.Get(handler.RootPath, s.GetAll)

		router.Get("/"+SettingNameDefaultAlbum, s.GetDefaultAlbum)
		router.Put("/"+SettingNameDefaultAlbum, s.UpdateDefaultAlbum)
		router.Get("/thumbnail_settings", s.GetThumbnailSettings)
		router.Put("/thumbnail_settings", s.UpdateThumbnailSettings)
		router.Post("/reset_supported_formats", s.ResetSupportedFormats)

		router.Get("/:name", s.Get)
		router.Put("/:name", s.Update)
	})

	return nil
}

// detail renders an error response body.
func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}

// Get returns a setting by its name. A setting without a stored row is
// created from its registered default; names that no source resolves
// yield a 404. Settings with the absolute_ prefix return their value
// resolved against the configured application root.
func (s *Service) Get(c *fiber.Ctx) error {
	name := strings.ToLower(c.Params("name"))

	if s.manager.IsProtected(name) {
		return detail(c, fiber.StatusForbidden, fmt.Sprintf("protected setting '%s' cannot be retrieved", name))
	}

	row, err := setting.Get(s.db, name)
	if errors.Is(err, setting.ErrSettingNotFound) {
		defaultValue, ok := s.manager.DefaultValue(name)
		if !ok {
			return detail(c, fiber.StatusNotFound, fmt.Sprintf("setting '%s' not found", name))
		}

		// lazily materialize the default; fails for names outside the
		// allowed set, which stay virtual
		if !s.manager.Set(name, defaultValue) {
			return detail(c, fiber.StatusNotFound,
				fmt.Sprintf("setting '%s' not found after creation attempt", name))
		}

		log.Info().Str("name", name).Str("value", defaultValue).Msg("created setting from default value")

		row, err = setting.Get(s.db, name)
	}

	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to load setting")
		return detail(c, fiber.StatusInternalServerError, fmt.Sprintf("failed to load setting '%s'", name))
	}

	response := responseFromModel(row)

	if strings.HasPrefix(name, absolutePrefix) {
		response.Value = filepath.Clean(filepath.Join(s.cfg.Settings.AppRoot, row.Value))
	}

	return c.JSON(response)
}

// Update writes a setting value. Protected names yield a 403, names
// outside the allowed set or a missing payload yield a 400 and storage
// failures a 500. Optional flag overrides in the payload are applied
// after the value write.
func (s *Service) Update(c *fiber.Ctx) error {
	name := strings.ToLower(c.Params("name"))

	if s.manager.IsProtected(name) {
		return detail(c, fiber.StatusForbidden, fmt.Sprintf("protected setting '%s' cannot be updated", name))
	}

	if !s.manager.IsAllowed(name) {
		return detail(c, fiber.StatusBadRequest, fmt.Sprintf("unknown setting '%s' cannot be updated", name))
	}

	var update SettingUpdate
	if err := c.BodyParser(&update); err != nil {
		return detail(c, fiber.StatusBadRequest, "no setting payload provided")
	}

	if update.Value == nil {
		return detail(c, fiber.StatusBadRequest, "no setting payload provided")
	}

	if !s.manager.Set(name, *update.Value) {
		return detail(c, fiber.StatusInternalServerError, fmt.Sprintf("failed to update setting '%s'", name))
	}

	row, err := setting.Get(s.db, name)
	if err != nil {
		return detail(c, fiber.StatusNotFound,
			fmt.Sprintf("setting '%s' could not be found after update attempt", name))
	}

	if update.IsProtected != nil || update.IsDynamic != nil {
		if update.IsProtected != nil {
			row.IsProtected = update.IsProtected
		}

		if update.IsDynamic != nil {
			row.IsDynamic = update.IsDynamic
		}

		if err = setting.Save(s.db, row); err != nil {
			log.Error().Err(err).Str("name", name).Msg("failed to update setting flags")
			return detail(c, fiber.StatusInternalServerError, fmt.Sprintf("failed to update setting '%s'", name))
		}
	}

	return c.JSON(responseFromModel(row))
}

// GetAll returns all stored settings. Protected settings are not
// included in the response.
func (s *Service) GetAll(c *fiber.Ctx) error {
	rows, err := setting.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")
		return detail(c, fiber.StatusInternalServerError, "failed to load settings")
	}

	responses := make([]SettingResponse, 0, len(rows))

	for i := range rows {
		if s.manager.IsProtected(rows[i].Name) {
			continue
		}

		responses = append(responses, responseFromModel(&rows[i]))
	}

	return c.JSON(responses)
}

// GetDefaultAlbum returns the default album ID.
func (s *Service) GetDefaultAlbum(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"name":  SettingNameDefaultAlbum,
		"value": s.manager.Get(SettingNameDefaultAlbum, ""),
	})
}

// UpdateDefaultAlbum updates the default album ID.
func (s *Service) UpdateDefaultAlbum(c *fiber.Ctx) error {
	var update SettingUpdate
	if err := c.BodyParser(&update); err != nil || update.Value == nil {
		return detail(c, fiber.StatusBadRequest, "no setting payload provided")
	}

	if !s.manager.Set(SettingNameDefaultAlbum, *update.Value) {
		return detail(c, fiber.StatusInternalServerError, "failed to update the default album setting")
	}

	return c.JSON(fiber.Map{
		"name":  SettingNameDefaultAlbum,
		"value": *update.Value,
	})
}

// GetThumbnailSettings returns the current thumbnail settings.
func (s *Service) GetThumbnailSettings(c *fiber.Ctx) error {
	size := s.manager.Get("thumbnail_size", "200,200")
	width, height := parseThumbnailSize(size)

	return c.JSON(fiber.Map{
		"thumbnail_directory": s.manager.Get("thumbnail_directory", ""),
		"thumbnail_size":      size,
		"thumbnail_size_type": s.manager.Get("thumbnail_size_type", ""),
		"thumbnail_width":     width,
		"thumbnail_height":    height,
	})
}

// UpdateThumbnailSettings updates the thumbnail directory and size. The
// payload is accepted in the body or as query parameters.
func (s *Service) UpdateThumbnailSettings(c *fiber.Ctx) error {
	var ts ThumbnailSettings
	if err := c.BodyParser(&ts); err != nil {
		if err = c.QueryParser(&ts); err != nil {
			return detail(c, fiber.StatusBadRequest, "no thumbnail settings payload provided")
		}
	}

	if err := s.validator.Struct(&ts); err != nil {
		var validationErrors validator.ValidationErrors
		errors.As(err, &validationErrors)
		messages := make([]string, len(validationErrors))
		for i, ve := range validationErrors {
			messages[i] = "field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
		}

		log.Warn().Err(err).Msg("validation failed for thumbnail settings")

		return detail(c, fiber.StatusBadRequest, strings.Join(messages, "; "))
	}

	directoryOK := s.manager.Set("thumbnail_directory", ts.ThumbnailDirectory)
	sizeOK := s.manager.Set("thumbnail_size", fmt.Sprintf("%d,%d", ts.ThumbnailWidth, ts.ThumbnailHeight))

	if !directoryOK || !sizeOK {
		return detail(c, fiber.StatusInternalServerError, "failed to update thumbnail settings")
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "thumbnail settings saved successfully",
	})
}

// ResetSupportedFormats resets the supported image formats setting to
// the built-in default.
func (s *Service) ResetSupportedFormats(c *fiber.Ctx) error {
	defaultValue, err := settings.SupportedFormatsDefault()
	if err != nil {
		log.Error().Err(err).Msg("failed to compute supported format default")
		return detail(c, fiber.StatusInternalServerError, "failed to reset supported image formats")
	}

	if !s.manager.Set(SettingNameSupportedFormats, defaultValue) {
		return detail(c, fiber.StatusInternalServerError, "failed to reset supported image formats")
	}

	row, err := setting.Get(s.db, SettingNameSupportedFormats)
	if err != nil {
		return detail(c, fiber.StatusInternalServerError, "failed to reset supported image formats")
	}

	return c.JSON(responseFromModel(row))
}

// parseThumbnailSize splits a "width,height" value, falling back to
// 200x200 when the value is malformed.
func parseThumbnailSize(size string) (width, height int) {
	parts := strings.SplitN(size, ",", 2)
	if len(parts) != 2 {
		return 200, 200
	}

	w, errWidth := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errHeight := strconv.Atoi(strings.TrimSpace(parts[1]))

	if errWidth != nil || errHeight != nil {
		return 200, 200
	}

	return w, h
}
