package settings

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

// extensionFile is the declarative extension format: plain TOML name
// lists and a string default table instead of loadable source files.
type extensionFile struct {
	Allowed   []string          `toml:"allowed"`
	Protected []string          `toml:"protected"`
	Defaults  map[string]string `toml:"defaults"`
}

// LoadExtension merges additional allowed/protected names and default
// values from a TOML extension file into the manager. Keys are
// lowercased; duplicate default keys are last-write-wins. A missing or
// malformed file is logged and treated as a no-op, the manager keeps
// whatever was loaded before.
func (m *Manager) LoadExtension(path string) {
	if _, err := os.Stat(path); err != nil {
		log.Warn().Str("path", path).Msg("extension settings file not found")
		return
	}

	var ext extensionFile
	if _, err := toml.DecodeFile(path, &ext); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to load extension settings file")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, name := range ext.Allowed {
		m.allowed[strings.ToLower(name)] = struct{}{}
	}

	for _, name := range ext.Protected {
		m.protected[strings.ToLower(name)] = struct{}{}
	}

	for name, value := range ext.Defaults {
		m.defaults[strings.ToLower(name)] = DefaultValue{Constant: value}
	}

	log.Info().
		Str("path", path).
		Int("allowed", len(m.allowed)).
		Int("protected", len(m.protected)).
		Int("defaults", len(m.defaults)).
		Msg("loaded extension settings")
}
