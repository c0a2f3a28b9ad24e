// Package testutil provides in-memory doubles for the store adapters.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/arthur-debert/prefsync/pkg/types"
)

// MockPreferenceStore is an in-memory types.PreferenceStore. It records
// every call and can be told to fail a given method.
type MockPreferenceStore struct {
	mu     sync.RWMutex
	values map[string]map[string]types.Value
	calls  []string

	// ErrorOn makes the named method fail with ErrorToReturn.
	// "Get:domain:key" scopes the failure to one key.
	ErrorOn       string
	ErrorToReturn error

	// MissingDomains answer false from DomainExists
	MissingDomains map[string]bool
}

// NewMockPreferenceStore creates an empty store
func NewMockPreferenceStore() *MockPreferenceStore {
	return &MockPreferenceStore{
		values:         make(map[string]map[string]types.Value),
		MissingDomains: make(map[string]bool),
	}
}

// Seed sets a value without recording a call
func (m *MockPreferenceStore) Seed(domain, key string, value types.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values[domain] == nil {
		m.values[domain] = make(map[string]types.Value)
	}
	m.values[domain][key] = value
}

// Calls returns the recorded call log
func (m *MockPreferenceStore) Calls() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.calls...)
}

func (m *MockPreferenceStore) failing(method, domain, key string) bool {
	return m.ErrorOn == method || m.ErrorOn == fmt.Sprintf("%s:%s:%s", method, domain, key)
}

// Get implements types.PreferenceStore
func (m *MockPreferenceStore) Get(domain, key string) (types.Value, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf("Get(%s,%s)", domain, key))

	if m.failing("Get", domain, key) {
		return types.Value{}, false, m.ErrorToReturn
	}
	value, ok := m.values[domain][key]
	return value, ok, nil
}

// Set implements types.PreferenceStore
func (m *MockPreferenceStore) Set(domain, key string, value types.Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf("Set(%s,%s,%s)", domain, key, value.String()))

	if m.failing("Set", domain, key) {
		return m.ErrorToReturn
	}
	if m.values[domain] == nil {
		m.values[domain] = make(map[string]types.Value)
	}
	m.values[domain][key] = value
	return nil
}

// Unset implements types.PreferenceStore
func (m *MockPreferenceStore) Unset(domain, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, fmt.Sprintf("Unset(%s,%s)", domain, key))

	if m.failing("Unset", domain, key) {
		return m.ErrorToReturn
	}
	delete(m.values[domain], key)
	return nil
}

// DomainExists implements types.PreferenceStore
func (m *MockPreferenceStore) DomainExists(domain string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.MissingDomains[domain]
}

// ListKeys implements types.PreferenceStore
func (m *MockPreferenceStore) ListKeys(domain string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ErrorOn == "ListKeys" {
		return nil, m.ErrorToReturn
	}
	var keys []string
	for key := range m.values[domain] {
		keys = append(keys, key)
	}
	return keys, nil
}

var _ types.PreferenceStore = (*MockPreferenceStore)(nil)

// MockPackageStore is an in-memory types.PackageStore.
type MockPackageStore struct {
	mu        sync.Mutex
	Installed map[types.PackageKind][]string
	// Dependencies lists formulae hidden by explicitOnly listings
	Dependencies []string

	ErrorOn       string
	ErrorToReturn error
}

// NewMockPackageStore creates an empty package store
func NewMockPackageStore() *MockPackageStore {
	return &MockPackageStore{
		Installed: make(map[types.PackageKind][]string),
	}
}

// ListInstalled implements types.PackageStore
func (m *MockPackageStore) ListInstalled(_ context.Context, kind types.PackageKind, explicitOnly bool) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ErrorOn == "ListInstalled" {
		return nil, m.ErrorToReturn
	}
	installed := append([]string(nil), m.Installed[kind]...)
	if kind == types.PackageFormula && !explicitOnly {
		installed = append(installed, m.Dependencies...)
	}
	return installed, nil
}

// Install implements types.PackageStore
func (m *MockPackageStore) Install(_ context.Context, kind types.PackageKind, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ErrorOn == "Install" {
		return m.ErrorToReturn
	}
	m.Installed[kind] = append(m.Installed[kind], name)
	return nil
}

var _ types.PackageStore = (*MockPackageStore)(nil)
