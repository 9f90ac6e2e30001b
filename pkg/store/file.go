package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStore keeps one JSON file per scene under a directory. IDs are UUIDs
// assigned on first save; the file name is the ID, so renaming a scene
// never moves its file.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
// The directory is created if it does not exist. Pass "" to use the
// standard location, ~/.local/share/benchray/scenes (or the platform
// equivalent of the user data dir).
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, ".local", "share", "benchray", "scenes")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Save creates or updates a record.
func (s *FileStore) Save(ctx context.Context, rec Record) (Record, error) {
	now := time.Now().UTC()
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if rec.Name != "" {
		others, err := s.List(ctx)
		if err != nil {
			return Record{}, err
		}
		for _, o := range others {
			if o.ID != rec.ID && o.Name == rec.Name {
				return Record{}, ErrDuplicateName
			}
		}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, err
	}
	if err := os.WriteFile(s.path(rec.ID), data, 0644); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Get retrieves a record by ID.
func (s *FileStore) Get(ctx context.Context, id string) (Record, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("corrupt record %s: %w", id, err)
	}
	return rec, nil
}

// List returns all records sorted by name.
func (s *FileStore) List(ctx context.Context) ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var recs []Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		rec, err := s.Get(ctx, strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue // skip unreadable entries rather than failing the listing
		}
		recs = append(recs, rec)
	}
	slices.SortFunc(recs, func(a, b Record) int { return strings.Compare(a.Name, b.Name) })
	return recs, nil
}

// Delete removes a record.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// Close does nothing for the file backend.
func (s *FileStore) Close(ctx context.Context) error { return nil }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

var _ Store = (*FileStore)(nil)
