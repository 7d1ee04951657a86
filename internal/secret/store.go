// Package secret stores catalog credentials outside the config file.
package secret

// SecretStore holds sensitive values such as the catalog password.
type SecretStore interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns empty slice and nil error if key does not exist.
	Get(key string) ([]byte, error)

	// Delete removes the secret for the given key.
	Delete(key string) error
}

// CatalogPasswordKey is the key of the catalog database password.
const CatalogPasswordKey = "catalog-password"

// Chain reads from each store in order and writes to the first.
type Chain []SecretStore

func (c Chain) Set(key string, value []byte) error {
	if len(c) == 0 {
		return nil
	}
	return c[0].Set(key, value)
}

func (c Chain) Get(key string) ([]byte, error) {
	for _, s := range c {
		v, err := s.Get(key)
		if err != nil {
			return nil, err
		}
		if len(v) > 0 {
			return v, nil
		}
	}
	return nil, nil
}

func (c Chain) Delete(key string) error {
	for _, s := range c {
		if err := s.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// Default writes to the macOS keychain when it is available, otherwise to
// process memory, and falls back to the environment for reads.
func Default() SecretStore {
	if keychainAvailable() {
		return Chain{NewKeychainStore(), EnvStore{}}
	}
	return Chain{NewMemoryStore(), EnvStore{}}
}
