package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Storage is the durable key-value facility the score store writes to.
// This allows for mocking the storage layer during tests.
type Storage interface {
	// Get returns the value stored under key, or nil when there is none.
	Get(key string) ([]byte, error)
	// Put replaces the value stored under key.
	Put(key string, value []byte) error
}

// JSONFileStorage keeps every key in one JSON object on disk.
type JSONFileStorage struct {
	path string
}

// NewJSONFileStorage creates a file storage at path. An empty path
// resolves to the default location under the user's config directory.
func NewJSONFileStorage(path string) (*JSONFileStorage, error) {
	if path == "" {
		p, err := DefaultPath("scores.json")
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &JSONFileStorage{path: path}, nil
}

// DefaultPath returns ~/.config/memory-game/<name>.
func DefaultPath(name string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "memory-game", name), nil
}

// Path returns the backing file.
func (jfs *JSONFileStorage) Path() string {
	return jfs.path
}

// Get reads the value for key from the file.
func (jfs *JSONFileStorage) Get(key string) ([]byte, error) {
	values, err := jfs.readAll()
	if err != nil {
		return nil, err
	}
	v, ok := values[key]
	if !ok {
		return nil, nil
	}
	return []byte(v), nil
}

// Put rewrites the file with key set to value.
func (jfs *JSONFileStorage) Put(key string, value []byte) error {
	values, err := jfs.readAll()
	if err != nil {
		// An unreadable file is replaced rather than blocking new records.
		values = map[string]string{}
	}
	values[key] = string(value)

	// Ensure the directory exists.
	dir := filepath.Dir(jfs.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating scores directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding scores file: %w", err)
	}
	if err := os.WriteFile(jfs.path, data, 0644); err != nil {
		return fmt.Errorf("error writing scores file: %w", err)
	}
	return nil
}

func (jfs *JSONFileStorage) readAll() (map[string]string, error) {
	data, err := os.ReadFile(jfs.path)
	// If the file doesn't exist, it's not an error; return an empty map.
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading scores file: %w", err)
	}
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("error decoding scores file: %w", err)
	}
	return values, nil
}
