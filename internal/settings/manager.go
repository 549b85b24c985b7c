// Package settings implements the settings manager: a read-through
// cache over the settings table, guarded by allowed/protected name
// registries and optionally synchronized with the typed application
// settings object.
package settings

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoSettings-Admin/GoSettings-Admin/internal/appsettings"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/db/controller/setting"
	"github.com/GoSettings-Admin/GoSettings-Admin/internal/db/models"
)

// ErrSettingNotAllowed is returned inside the write transaction when a
// row would have to be created for a name outside the allowed set.
var ErrSettingNotAllowed = errors.New("setting name is not in the allowed set")

// Manager orchestrates setting reads and writes across the application
// settings object, the dotenv/default registry and the settings table.
// It is an explicitly constructed component injected into handlers;
// its state is shared across requests and guarded by a mutex.
type Manager struct {
	mu sync.RWMutex

	db  *gorm.DB
	app *appsettings.Settings

	allowed   map[string]struct{}
	protected map[string]struct{}
	defaults  map[string]DefaultValue

	// fromDotenv tracks which default registry keys were loaded from a
	// dotenv file, for the no-overwrite rule on repeated loads.
	fromDotenv map[string]struct{}

	cache       map[string]string
	initialized bool

	dotenvFile     string
	dotenvOverride bool
}

// New creates a manager seeded with the base allowed/protected lists
// and the built-in default registry. app may be nil; without it the
// manager only manages database settings and ignores protected names.
func New(app *appsettings.Settings) *Manager {
	m := &Manager{
		app:        app,
		allowed:    make(map[string]struct{}, len(BaseAllowed)),
		protected:  make(map[string]struct{}, len(BaseProtected)),
		defaults:   baseDefaults(),
		fromDotenv: make(map[string]struct{}),
		cache:      make(map[string]string),
	}

	for _, name := range BaseAllowed {
		m.allowed[strings.ToLower(name)] = struct{}{}
	}

	for _, name := range BaseProtected {
		m.protected[strings.ToLower(name)] = struct{}{}
	}

	return m
}

// SetAppSettings sets or replaces the application settings object.
func (m *Manager) SetAppSettings(app *appsettings.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.app = app
}

// SetDotenv configures the dotenv file Initialize loads defaults from.
// With override enabled a reload replaces previously loaded values.
func (m *Manager) SetDotenv(path string, override bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dotenvFile = path
	m.dotenvOverride = override
}

// Initialized reports whether Initialize has completed once.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.initialized
}

// Initialize binds the database handle and synchronizes settings
// between the application settings object and the database. The first
// successful call transitions the manager to initialized; later calls
// only rebind the handle and are otherwise no-ops.
func (m *Manager) Initialize(db *gorm.DB) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.db = db

	if m.initialized {
		return nil
	}

	if m.dotenvFile != "" {
		m.loadDotenvLocked(m.dotenvFile, m.dotenvOverride)
	}

	if m.app != nil {
		if err := m.app.ApplyEnv(m.envFilterLocked()); err != nil {
			log.Warn().Err(err).Msg("failed to apply some environment variables to application settings")
		}
	}

	if err := m.syncToStoreLocked(); err != nil {
		return err
	}

	if err := m.loadFromStoreLocked(); err != nil {
		return err
	}

	if err := m.reconcileFlagsLocked(); err != nil {
		return err
	}

	m.initialized = true

	return nil
}

// envFilterLocked accepts allowed, non-protected setting names.
func (m *Manager) envFilterLocked() func(name string) bool {
	return func(name string) bool {
		key := strings.ToLower(name)
		if _, isProtected := m.protected[key]; isProtected {
			return false
		}

		_, isAllowed := m.allowed[key]

		return isAllowed
	}
}

// syncToStoreLocked writes application settings values into the store
// for every allowed name without a row yet. Protected names are never
// written to the database.
func (m *Manager) syncToStoreLocked() error {
	if m.db == nil {
		log.Warn().Msg("no database connection available for settings manager")
		return nil
	}

	if m.app == nil {
		// no application settings: nothing to synchronize
		return nil
	}

	for name := range m.allowed {
		value, ok := m.app.Get(name)
		if !ok {
			continue
		}

		_, err := setting.Get(m.db, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, setting.ErrSettingNotFound) {
			return err
		}

		log.Info().Str("name", name).Str("value", value).Msg("creating new setting in database")

		_, isProtected := m.protected[name]
		if _, err = setting.Create(m.db, name, value, models.BoolPtr(isProtected), models.BoolPtr(true)); err != nil &&
			!errors.Is(err, setting.ErrSettingAlreadyExists) {
			return err
		}
	}

	return nil
}

// loadFromStoreLocked loads all rows into the cache and pushes
// non-protected values into the application settings object.
func (m *Manager) loadFromStoreLocked() error {
	if m.db == nil {
		log.Warn().Msg("no database connection available for settings manager")
		return nil
	}

	rows, err := setting.GetAll(m.db)
	if err != nil {
		return err
	}

	m.cache = make(map[string]string, len(rows))
	for _, row := range rows {
		m.cache[row.Name] = row.Value
	}

	if m.app == nil {
		return nil
	}

	for _, row := range rows {
		if _, isProtected := m.protected[strings.ToLower(row.Name)]; isProtected {
			continue
		}

		if !m.app.Has(row.Name) {
			continue
		}

		if err := m.app.SetValue(row.Name, row.Value); err != nil {
			log.Warn().Err(err).Str("name", row.Name).Msg("error while updating application setting")
			continue
		}

		log.Debug().Str("name", row.Name).Str("value", row.Value).Msg("application settings updated")
	}

	return nil
}

// reconcileFlagsLocked applies the classification lists to rows whose
// flag columns are still unset, in a single transaction:
//   - protected names become is_protected=true, is_dynamic=false
//   - allowed names become is_protected=false, is_dynamic=true
func (m *Manager) reconcileFlagsLocked() error {
	if m.db == nil {
		return nil
	}

	return m.db.Transaction(func(tx *gorm.DB) error {
		rows, err := setting.GetAll(tx)
		if err != nil {
			return err
		}

		for i := range rows {
			row := &rows[i]
			if row.IsProtected != nil && row.IsDynamic != nil {
				continue
			}

			key := strings.ToLower(row.Name)

			if _, ok := m.protected[key]; ok {
				row.IsProtected = models.BoolPtr(true)
				row.IsDynamic = models.BoolPtr(false)
			} else if _, ok := m.allowed[key]; ok {
				row.IsProtected = models.BoolPtr(false)
				row.IsDynamic = models.BoolPtr(true)
			} else {
				continue
			}

			if err := setting.Save(tx, row); err != nil {
				return err
			}
		}

		return nil
	})
}

// Get returns the value of a setting. Protected names are read from
// the application settings object only, never from storage or cache.
// Allowed names prefer live application state over cached state over
// stored state over registered defaults.
func (m *Manager) Get(name, defaultValue string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(name)

	if _, isProtected := m.protected[key]; isProtected {
		if m.app == nil {
			return defaultValue
		}
		if value, ok := m.app.Get(name); ok {
			return value
		}

		return defaultValue
	}

	if m.app != nil {
		if value, ok := m.app.Get(name); ok {
			return value
		}
	}

	if value, ok := m.cache[key]; ok {
		return value
	}

	if m.db != nil {
		if row, err := setting.Get(m.db, key); err == nil {
			m.cache[key] = row.Value
			return row.Value
		}
	}

	if value, ok := m.defaultValueLocked(key); ok {
		return value
	}

	return defaultValue
}

// Set writes a setting value to the database, the cache and the
// application settings object. Protected names can not be set; rows
// are only created for allowed names. Returns false on any failure.
func (m *Manager) Set(name, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.db == nil {
		log.Warn().Msg("no database connection available for settings manager")
		return false
	}

	key := strings.ToLower(name)

	if _, isProtected := m.protected[key]; isProtected {
		log.Warn().Str("name", name).Msg("protected setting can not be updated")
		return false
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		_, err := setting.UpdateValue(tx, key, value)
		if !errors.Is(err, setting.ErrSettingNotFound) {
			return err
		}

		if _, isAllowed := m.allowed[key]; !isAllowed {
			return ErrSettingNotAllowed
		}

		_, err = setting.Create(tx, key, value, nil, models.BoolPtr(true))
		if errors.Is(err, setting.ErrSettingAlreadyExists) {
			// lost a create race, the row exists now
			_, err = setting.UpdateValue(tx, key, value)
		}

		return err
	})
	if err != nil {
		if errors.Is(err, ErrSettingNotAllowed) {
			log.Warn().Str("name", name).Msg("unknown setting can not be set or updated")
		} else {
			log.Error().Err(err).Str("name", name).Msg("error occurred while setting value")
		}

		return false
	}

	m.cache[key] = value

	if m.app != nil && m.app.Has(key) {
		if err := m.app.SetValue(key, value); err != nil {
			log.Warn().Err(err).Str("name", name).Msg("could not mirror value into application settings")
		}
	}

	return true
}

// All returns all allowed settings: cached store entries overlaid with
// application settings values. Protected names are never included.
func (m *Manager) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(m.cache))

	for name, value := range m.cache {
		if _, isAllowed := m.allowed[strings.ToLower(name)]; isAllowed {
			result[name] = value
		}
	}

	if m.app != nil {
		for name := range m.app.Schema() {
			if _, isAllowed := m.allowed[name]; !isAllowed {
				continue
			}

			if value, ok := m.app.Get(name); ok {
				result[name] = value
			}
		}
	}

	return result
}

// AllowedNames returns the sorted allowed setting names.
func (m *Manager) AllowedNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return sortedKeys(m.allowed)
}

// ProtectedNames returns the sorted protected setting names.
func (m *Manager) ProtectedNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return sortedKeys(m.protected)
}

// IsAllowed reports whether a name is in the allowed set.
func (m *Manager) IsAllowed(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.allowed[strings.ToLower(name)]

	return ok
}

// IsProtected reports whether a name is in the protected set.
func (m *Manager) IsProtected(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.protected[strings.ToLower(name)]

	return ok
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}

	sort.Strings(out)

	return out
}
