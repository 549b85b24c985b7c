package settings

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// LoadDotenv loads setting defaults from a dotenv file. Only names
// already in the allowed set are taken over, keyed lowercase. Values
// loaded by an earlier dotenv load are kept unless override is set.
// A missing or unparsable file is logged and treated as a no-op.
func (m *Manager) LoadDotenv(path string, override bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loadDotenvLocked(path, override)
}

func (m *Manager) loadDotenvLocked(path string, override bool) {
	values, err := godotenv.Read(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("no dotenv defaults loaded")
		return
	}

	loaded := 0

	for name, value := range values {
		key := strings.ToLower(name)

		if _, isAllowed := m.allowed[key]; !isAllowed {
			continue
		}

		if _, fromDotenv := m.fromDotenv[key]; fromDotenv && !override {
			continue
		}

		m.defaults[key] = DefaultValue{Constant: value}
		m.fromDotenv[key] = struct{}{}
		loaded++
	}

	log.Info().Str("path", path).Int("loaded", loaded).Msg("loaded dotenv setting defaults")
}
