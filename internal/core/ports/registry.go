package ports

// RegistryEntry is one registered environment link: a semi-unique key and
// the path it was registered under. The target may no longer exist if the
// environment was removed out of band.
type RegistryEntry struct {
	Key  string `json:"key"`
	Path string `json:"path"`
}

// EnvironmentRegistry tracks the out-links of built environments so they can
// be enumerated later. Symlinks in a state directory back the registry, so
// entries survive across processes but may grow stale.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type EnvironmentRegistry interface {
	// Register records the environment link at path. Registering the same
	// path twice is a no-op and returns the same key.
	Register(path string) (string, error)

	// Unregister removes the entry for key and returns it. Removing an
	// unknown key is a no-op and returns a nil entry.
	Unregister(key string) (*RegistryEntry, error)

	// Get returns the entry for key, or nil if not registered.
	Get(key string) (*RegistryEntry, error)

	// Entries returns all registered entries, including stale ones.
	Entries() ([]RegistryEntry, error)
}
