package checkout

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/erp/checkout-fields/internal/domain/shared"
)

// Extension is a checkout extension hooked into the host pipeline. The host
// invokes RegisterFields once at startup, ValidateSubmission on every
// validation pass and SyncOrder once per order update.
type Extension interface {
	// Name returns the unique identifier for the extension
	Name() string
	// DisplayName returns the human-readable name for the extension
	DisplayName() string
	// RegisterFields declares the extension's checkout fields with the host.
	// Either capability may be nil when the host does not support it.
	RegisterFields(registry FieldRegistry, locales LocaleFilterRegistry) error
	// ValidateSubmission appends field-tagged errors for the submission
	ValidateSubmission(ctx context.Context, sub *Submission, errs ErrorCollector) error
	// SyncOrder copies accepted submission values into the order record
	SyncOrder(ctx context.Context, order *Order, sub *Submission) error
}

// ExtensionManager manages checkout extension registrations
type ExtensionManager struct {
	mu         sync.RWMutex
	extensions map[string]Extension
}

// NewExtensionManager creates a new extension manager
func NewExtensionManager() *ExtensionManager {
	return &ExtensionManager{
		extensions: make(map[string]Extension),
	}
}

// Register registers a checkout extension
func (m *ExtensionManager) Register(ext Extension) error {
	if ext == nil {
		return fmt.Errorf("%w: extension cannot be nil", shared.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	name := ext.Name()
	if name == "" {
		return fmt.Errorf("%w: extension name cannot be empty", shared.ErrInvalidInput)
	}

	if _, exists := m.extensions[name]; exists {
		return fmt.Errorf("%w: extension '%s' already registered", shared.ErrAlreadyExists, name)
	}

	m.extensions[name] = ext
	return nil
}

// Get returns an extension by name
func (m *ExtensionManager) Get(name string) (Extension, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ext, exists := m.extensions[name]
	return ext, exists
}

// List returns all registered extension names
func (m *ExtensionManager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.extensions))
	for name := range m.extensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered extensions in name order
func (m *ExtensionManager) All() []Extension {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.extensions))
	for name := range m.extensions {
		names = append(names, name)
	}
	sort.Strings(names)

	exts := make([]Extension, 0, len(names))
	for _, name := range names {
		exts = append(exts, m.extensions[name])
	}
	return exts
}

// Unregister removes an extension (useful for testing)
func (m *ExtensionManager) Unregister(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.extensions[name]; !exists {
		return fmt.Errorf("%w: extension '%s' not found", shared.ErrNotFound, name)
	}

	delete(m.extensions, name)
	return nil
}

// Count returns the number of registered extensions
func (m *ExtensionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.extensions)
}
