package config

import (
	"sync"
)

var (
	globalManager *Manager
	globalMu      sync.Mutex
)

// Initialize creates the global manager, registers the autofill and browser
// sections and loads them from configPath (or the default path).
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	manager, err := NewDefaultManager(store)
	if err != nil {
		return err
	}
	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// NewDefaultManager returns a manager over store with the autofill and
// browser sections registered at their defaults. Nothing is loaded.
func NewDefaultManager(store Store) (*Manager, error) {
	manager := NewManager(store)
	if err := manager.RegisterSection(NewAutofillSection()); err != nil {
		return nil, err
	}
	if err := manager.RegisterSection(NewBrowserSection()); err != nil {
		return nil, err
	}
	return manager, nil
}

// Global returns the global manager. It panics before Initialize.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}
	return globalManager
}

// IsInitialized reports whether Initialize has succeeded.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetAutofill returns the autofill section, or nil before Initialize.
func GetAutofill() *AutofillSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDAutofill)
	if !ok {
		return nil
	}
	s, _ := section.(*AutofillSection)
	return s
}

// GetBrowser returns the browser section, or nil before Initialize.
func GetBrowser() *BrowserSection {
	if !IsInitialized() {
		return nil
	}
	section, ok := Global().GetSection(SectionIDBrowser)
	if !ok {
		return nil
	}
	s, _ := section.(*BrowserSection)
	return s
}
