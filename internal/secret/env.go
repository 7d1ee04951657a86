package secret

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// EnvPrefix prefixes the environment variables read by EnvStore.
// CatalogPasswordKey maps to POSTERDESK_CATALOG_PASSWORD.
const EnvPrefix = "POSTERDESK_"

// EnvStore reads secrets from the environment. It is read-only.
type EnvStore struct{}

// EnvName returns the variable EnvStore reads for key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))
}

func (EnvStore) Get(key string) ([]byte, error) {
	if v := os.Getenv(EnvName(key)); v != "" {
		return []byte(v), nil
	}
	return nil, nil
}

func (EnvStore) Set(key string, _ []byte) error {
	return fmt.Errorf("env secrets are read-only; set %s instead", EnvName(key))
}

func (EnvStore) Delete(string) error { return nil }

// MemoryStore keeps secrets for the lifetime of the process.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
