package offline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrStorageUnavailable reports that the durable medium rejected a read or
// write. No further progress is possible for the current operation.
var ErrStorageUnavailable = errors.New("storage unavailable")

const (
	keyGames   = "games"
	keyActions = "actions"
	keyCurrent = "current_game"
)

// Medium is the byte-level key-value layer under the Store. Guarantees are
// last-write-wins only.
type Medium interface {
	Read(key string) ([]byte, bool, error)
	Write(key string, data []byte) error
	Delete(key string) error
}

type fileMedium struct {
	dir string
}

// NewFileMedium stores each key as a JSON file inside dir. Writes go through
// a temp file and rename so readers never observe a partial write.
func NewFileMedium(dir string) (Medium, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &fileMedium{dir: dir}, nil
}

func (m *fileMedium) path(key string) string {
	return filepath.Join(m.dir, key+".json")
}

func (m *fileMedium) Read(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(m.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return data, true, nil
}

func (m *fileMedium) Write(key string, data []byte) error {
	target := m.path(key)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (m *fileMedium) Delete(key string) error {
	if err := os.Remove(m.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

type memoryMedium struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryMedium keeps everything in process memory. Used by tests and
// throwaway sessions.
func NewMemoryMedium() Medium {
	return &memoryMedium{data: make(map[string][]byte)}
}

func (m *memoryMedium) Read(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (m *memoryMedium) Write(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	m.data[key] = stored
	return nil
}

func (m *memoryMedium) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
