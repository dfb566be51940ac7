package ranking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the ranking as a JSON object in a single file that is
// rewritten in full on every Record.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

var _ Store = (*FileStore)(nil)

func (fs *FileStore) Load(ctx context.Context) (map[string]int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.load()
}

func (fs *FileStore) Record(ctx context.Context, scores map[string]int) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ranking, err := fs.load()
	if err != nil {
		return err
	}
	return fs.save(Merge(ranking, scores))
}

// A missing file is an empty ranking.
func (fs *FileStore) load() (map[string]int, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]int{}, nil
		}
		return nil, fmt.Errorf("failed to read ranking file: %w", err)
	}

	ranking := make(map[string]int)
	if len(data) == 0 {
		return ranking, nil
	}
	if err := json.Unmarshal(data, &ranking); err != nil {
		return nil, fmt.Errorf("failed to decode ranking file %s: %w", fs.path, err)
	}
	return ranking, nil
}

// Writes to a temp file in the same directory, then renames over the
// old one.
func (fs *FileStore) save(ranking map[string]int) error {
	data, err := json.MarshalIndent(ranking, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fs.path), ".ranking-*.json")
	if err != nil {
		return fmt.Errorf("failed to create ranking temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ranking: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fs.path)
}
