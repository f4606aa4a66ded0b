package config

import (
	"fmt"
	"sync"
)

// Section is one named group of settings.
type Section interface {
	ID() string
	Title() string
	Description() string

	// Data returns the settings as a JSON-friendly map.
	Data() map[string]interface{}

	// SetData applies a map produced by Data or read from disk. Unknown
	// keys are ignored.
	SetData(data map[string]interface{}) error

	Validate() error
	Reset()
}

// Manager owns the registered sections and moves them to and from a Store.
type Manager struct {
	store    Store
	sections []Section
	byID     map[string]Section
	mu       sync.RWMutex
}

// NewManager creates a manager over store.
func NewManager(store Store) *Manager {
	return &Manager{
		store: store,
		byID:  make(map[string]Section),
	}
}

// Store returns the backing store.
func (m *Manager) Store() Store {
	return m.store
}

// RegisterSection adds a section. IDs must be unique.
func (m *Manager) RegisterSection(section Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := section.ID()
	if _, exists := m.byID[id]; exists {
		return fmt.Errorf("section %q already registered", id)
	}
	m.byID[id] = section
	m.sections = append(m.sections, section)
	return nil
}

// GetSection returns the section with the given id.
func (m *Manager) GetSection(id string) (Section, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byID[id]
	return s, ok
}

// GetSections returns the sections in registration order.
func (m *Manager) GetSections() []Section {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Section, len(m.sections))
	copy(out, m.sections)
	return out
}

// LoadAll reloads the store, applies each section's stored data and
// validates the result.
func (m *Manager) LoadAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.store.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	for _, s := range m.sections {
		data, err := m.store.GetSection(s.ID())
		if err != nil {
			return fmt.Errorf("failed to read section %s: %w", s.ID(), err)
		}
		if len(data) == 0 {
			continue
		}
		if err := s.SetData(data); err != nil {
			return fmt.Errorf("failed to apply section %s: %w", s.ID(), err)
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid section %s: %w", s.ID(), err)
		}
	}
	return nil
}

// SaveAll validates every section and writes them to the store.
func (m *Manager) SaveAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sections {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("invalid section %s: %w", s.ID(), err)
		}
		if err := m.store.SetSection(s.ID(), s.Data()); err != nil {
			return fmt.Errorf("failed to store section %s: %w", s.ID(), err)
		}
	}
	if err := m.store.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// ResetAll restores every section's defaults.
func (m *Manager) ResetAll() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sections {
		s.Reset()
	}
}
