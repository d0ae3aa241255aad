package catalog

// Provider defines the interface for catalog data sources
type Provider interface {
	// Load the complete catalog
	Load() (*Catalog, error)

	// Catalog sources are read-only; this exists so a future writable
	// backend can be slotted in without changing callers.
	IsReadOnly() bool
	Close() error
}

// BuiltinProvider serves the compiled-in default catalog.
type BuiltinProvider struct{}

// NewBuiltinProvider creates a provider backed by the built-in catalog
func NewBuiltinProvider() *BuiltinProvider {
	return &BuiltinProvider{}
}

// Load returns the built-in catalog
func (b *BuiltinProvider) Load() (*Catalog, error) {
	return Default(), nil
}

// IsReadOnly returns true since the built-in catalog is compiled in
func (b *BuiltinProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for the built-in provider
func (b *BuiltinProvider) Close() error {
	return nil
}
