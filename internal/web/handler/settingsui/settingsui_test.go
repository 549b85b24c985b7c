package settingsui

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoSettings-Admin/GoSettings-Admin/internal/config"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/db/controller/setting"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/db/models"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/settings"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func setupTestHandler(t *testing.T) (*fiber.App, *gorm.DB, *settings.Manager) {
	t.Helper()

	db := setupTestDB(t)

	manager := settings.New(nil)
	require.NoError(t, manager.Initialize(db))

	cfg := &config.Config{
		Settings: config.Settings{
			APIPrefix: "/api/settings",
			EnableUI:  true,
		},
	}

	app := fiber.New(fiber.Config{
		Views: &mockTemplateEngine{},
	})

	service := &Service{}
	require.NoError(t, service.Init(app, cfg, db, manager))

	return app, db, manager
}

func TestService_Get(t *testing.T) {
	app, _, _ := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/settings/ui", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestService_Post_UpdatesAllowedFields(t *testing.T) {
	app, db, manager := setupTestHandler(t)

	formData := "project_name=New+Name&" +
		"thumbnail_width=320&thumbnail_height=240&" +
		"secret_key=evil&" +
		"unknown_field=nope&" +
		"_csrf=token123"

	req := httptest.NewRequest(http.MethodPost, "/api/settings/ui/update", strings.NewReader(formData))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "New Name", manager.Get("project_name", ""))

	// width and height were recombined
	size, err := setting.Get(db, "thumbnail_size")
	require.NoError(t, err)
	assert.Equal(t, "320,240", size.Value)

	// protected, unknown and underscore-prefixed fields are skipped
	_, err = setting.Get(db, "secret_key")
	assert.ErrorIs(t, err, setting.ErrSettingNotFound)
	_, err = setting.Get(db, "unknown_field")
	assert.ErrorIs(t, err, setting.ErrSettingNotFound)
	_, err = setting.Get(db, "_csrf")
	assert.ErrorIs(t, err, setting.ErrSettingNotFound)
}

func TestService_Post_EmptyForm(t *testing.T) {
	app, _, _ := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/settings/ui/update", strings.NewReader(""))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	// nothing to update is not an error, the form is just re-rendered
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// mockTemplateEngine is a simple mock for testing.
type mockTemplateEngine struct{}

func (m *mockTemplateEngine) Load() error {
	return nil
}

func (m *mockTemplateEngine) Render(_ io.Writer, _ string, binding interface{}, _ ...string) error {
	// Check that Settings is in the binding
	if data, ok := binding.(fiber.Map); ok {
		if _, hasSettings := data["Settings"]; hasSettings {
			return nil
		}
	}
	return fiber.ErrInternalServerError
}
