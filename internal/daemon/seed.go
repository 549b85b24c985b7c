package daemon

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoSettings-Admin/GoSettings-Admin/internal/db/controller/setting"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/settings"
)

// seed materializes registered defaults that have no stored row yet, so
// a fresh installation starts fully populated instead of creating rows
// lazily on first read.
func seed(db *gorm.DB, m *settings.Manager) {
	created := 0

	for name := range m.Defaults() {
		if !m.IsAllowed(name) || m.IsProtected(name) {
			continue
		}

		if _, err := setting.Get(db, name); err == nil {
			continue
		} else if !errors.Is(err, setting.ErrSettingNotFound) {
			log.Warn().Err(err).Str("name", name).Msg("skipping default setting seed")
			continue
		}

		value, ok := m.DefaultValue(name)
		if !ok {
			continue
		}

		if m.Set(name, value) {
			created++
		} else {
			log.Warn().Str("name", name).Msg("could not seed default setting")
		}
	}

	if created > 0 {
		log.Info().Int("created", created).Msg("seeded default settings")
	}
}
