package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExtensionFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "extension.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadExtension(t *testing.T) {
	path := writeExtensionFile(t, `
allowed = ["Custom_Allowed", "watermark_text"]
protected = ["CUSTOM_API_TOKEN"]

[defaults]
new_default = "foo"
Watermark_Text = "(c) gallery"
`)

	m := New(nil)
	m.LoadExtension(path)

	assert.True(t, m.IsAllowed("custom_allowed"))
	assert.True(t, m.IsAllowed("watermark_text"))
	assert.True(t, m.IsProtected("custom_api_token"))

	value, ok := m.DefaultValue("new_default")
	require.True(t, ok)
	assert.Equal(t, "foo", value)

	// default keys are lowercased
	value, ok = m.DefaultValue("watermark_text")
	require.True(t, ok)
	assert.Equal(t, "(c) gallery", value)

	// base lists stay intact
	assert.True(t, m.IsAllowed("project_name"))
	assert.True(t, m.IsProtected("secret_key"))
}

func TestLoadExtensionEnablesWrites(t *testing.T) {
	db := setupTestDB(t)

	path := writeExtensionFile(t, `allowed = ["watermark_text"]`)

	m := New(nil)
	m.LoadExtension(path)
	require.NoError(t, m.Initialize(db))

	assert.True(t, m.Set("watermark_text", "(c) gallery"))
	assert.Equal(t, "(c) gallery", m.Get("watermark_text", ""))
}

func TestLoadExtensionMissingFile(t *testing.T) {
	m := New(nil)
	before := len(m.AllowedNames())

	m.LoadExtension("/does/not/exist/extension.toml")

	assert.Len(t, m.AllowedNames(), before, "missing file must not change the manager")
}

func TestLoadExtensionMalformedFile(t *testing.T) {
	path := writeExtensionFile(t, `allowed = [unclosed`)

	m := New(nil)
	before := len(m.AllowedNames())

	m.LoadExtension(path)

	assert.Len(t, m.AllowedNames(), before, "malformed file must not change the manager")
}

func TestLoadExtensionLastWriteWins(t *testing.T) {
	first := writeExtensionFile(t, `
[defaults]
new_default = "first"
`)
	second := writeExtensionFile(t, `
[defaults]
new_default = "second"
`)

	m := New(nil)
	m.LoadExtension(first)
	m.LoadExtension(second)

	value, ok := m.DefaultValue("new_default")
	require.True(t, ok)
	assert.Equal(t, "second", value)
}
