package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore stores the entry in a local JSON file.
type FileStore struct {
	Path string
}

func (s *FileStore) Load(ctx context.Context) (Entry, bool, error) {
	if s == nil || s.Path == "" {
		return Entry{}, false, nil
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("read cache: %w", err)
	}

	entry, err := decode(data)
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

func (s *FileStore) Save(ctx context.Context, entry Entry) error {
	if s == nil || s.Path == "" {
		return nil
	}
	dir := filepath.Dir(s.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}

	data, err := encode(entry)
	if err != nil {
		return err
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache tmp: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename cache: %w", err)
	}
	return nil
}
