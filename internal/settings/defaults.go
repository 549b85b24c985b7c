package settings

import (
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultValue is a registry entry for a setting default: either a
// constant or a zero-argument producer evaluated on access.
type DefaultValue struct {
	Constant string
	Producer func() (string, error)
}

// supportedExtensions is the static registry of image file extensions
// the gallery application handles.
var supportedExtensions = []string{
	".bmp",
	".gif",
	".ico",
	".jpeg",
	".jpg",
	".png",
	".tif",
	".tiff",
	".webp",
}

// SupportedFormatsDefault renders the default value for the
// supported_image_formats setting and its aliases.
func SupportedFormatsDefault() (string, error) {
	extensions := make([]string, len(supportedExtensions))
	copy(extensions, supportedExtensions)
	sort.Strings(extensions)

	return strings.Join(extensions, ";"), nil
}

// baseDefaults returns the built-in default registry.
func baseDefaults() map[string]DefaultValue {
	return map[string]DefaultValue{
		"image_directory":              {Constant: "static/images"},
		"absolute_image_directory":     {Constant: "static/images"},
		"thumbnail_directory":          {Constant: "static/thumbnails"},
		"absolute_thumbnail_directory": {Constant: "static/thumbnails"},
		"upload_directory":             {Constant: "static/uploads"},
		"absolute_upload_directory":    {Constant: "static/uploads"},
		"thumbnail_size":               {Constant: "200,200"},
		"thumbnail_size_type":          {Constant: "absolute"},
		"supported_image_formats":      {Producer: SupportedFormatsDefault},
		"supported_formats":            {Producer: SupportedFormatsDefault},
		"formats":                      {Producer: SupportedFormatsDefault},
		"default_album_id":             {Constant: "1"},
	}
}

// RegisterDefault registers a computed default for a setting name.
// The producer is evaluated on access, not at registration time.
func (m *Manager) RegisterDefault(name string, producer func() (string, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.defaults[strings.ToLower(name)] = DefaultValue{Producer: producer}
}

// RegisterDefaultValue registers a constant default for a setting name.
func (m *Manager) RegisterDefaultValue(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.defaults[strings.ToLower(name)] = DefaultValue{Constant: value}
}

// Defaults returns a copy of the default registry. Producers are not
// evaluated; use DefaultValue for that.
func (m *Manager) Defaults() map[string]DefaultValue {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]DefaultValue, len(m.defaults))
	for k, v := range m.defaults {
		out[k] = v
	}

	return out
}

// DefaultValue returns the default for a setting name, evaluating a
// producer if one is registered. A producer failure is logged and
// reported as absence, so callers fall back to their own default.
func (m *Manager) DefaultValue(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.defaultValueLocked(name)
}

func (m *Manager) defaultValueLocked(name string) (string, bool) {
	entry, ok := m.defaults[strings.ToLower(name)]
	if !ok {
		return "", false
	}

	if entry.Producer != nil {
		value, err := entry.Producer()
		if err != nil {
			log.Error().Err(err).Str("name", name).Msg("failed to evaluate default value producer")
			return "", false
		}

		return value, true
	}

	return entry.Constant, true
}
