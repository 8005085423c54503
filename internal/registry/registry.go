package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"photo-library/internal/database"
	"photo-library/internal/logging"
)

// ErrLibraryNotFound is returned when a library id is not registered.
var ErrLibraryNotFound = errors.New("library not found")

// Library is one registered photo library: a root directory plus the
// metadata database colocated with it.
type Library struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Path  string `json:"path"`
}

// configFile is the on-disk shape of the registry.
type configFile struct {
	Libraries       []Library `json:"libraries"`
	SelectedLibrary string    `json:"selected_library,omitempty"`
}

// Registry maps library ids to their root paths. It is constructed once
// at startup and passed by handle to anything that needs path
// resolution; there is no ambient global lookup.
type Registry struct {
	path string

	mu        sync.RWMutex
	libraries []Library
	selected  string
}

// Load reads the registry from configPath. A missing file yields an
// empty registry; it is created on first save.
func Load(configPath string) (*Registry, error) {
	r := &Registry{path: configPath}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		logging.Info("Registry config %s not found, starting empty", configPath)
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry config: %w", err)
	}

	var cfg configFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse registry config %s: %w", configPath, err)
	}

	r.libraries = cfg.Libraries
	r.selected = cfg.SelectedLibrary
	logging.Info("Registry loaded: %d libraries", len(r.libraries))
	return r, nil
}

// List returns all registered libraries.
func (r *Registry) List() []Library {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Library, len(r.libraries))
	copy(out, r.libraries)
	return out
}

// Resolve maps a library id to its root storage path.
func (r *Registry) Resolve(libraryID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, lib := range r.libraries {
		if lib.ID == libraryID {
			return lib.Path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrLibraryNotFound, libraryID)
}

// Create registers a new library at root, creating the directory
// layout (originals/, thumbnails/) and initializing its metadata
// database.
func (r *Registry) Create(ctx context.Context, name, icon, color, root string) (*Library, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create library root: %w", err)
	}
	for _, sub := range []string{"originals", "thumbnails"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	store, err := database.Open(ctx, root)
	if err != nil {
		return nil, err
	}
	if err := store.Close(); err != nil {
		logging.Warn("failed to close library database after creation: %v", err)
	}

	lib := Library{
		ID:    uuid.NewString(),
		Name:  name,
		Icon:  icon,
		Color: color,
		Path:  root,
	}

	r.mu.Lock()
	r.libraries = append(r.libraries, lib)
	err = r.saveLocked()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	logging.Info("Library %q created at %s", name, root)
	return &lib, nil
}

// UpdatePath moves a library's registered root path. The caller is
// responsible for having moved the data itself.
func (r *Registry) UpdatePath(libraryID, newPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.libraries {
		if r.libraries[i].ID == libraryID {
			r.libraries[i].Path = newPath
			return r.saveLocked()
		}
	}
	return fmt.Errorf("%w: %s", ErrLibraryNotFound, libraryID)
}

// Remove unregisters a library. Files on disk are left in place.
func (r *Registry) Remove(libraryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	filtered := r.libraries[:0]
	for _, lib := range r.libraries {
		if lib.ID != libraryID {
			filtered = append(filtered, lib)
		}
	}
	r.libraries = filtered
	if r.selected == libraryID {
		r.selected = ""
	}
	return r.saveLocked()
}

// CheckPath reports whether a library's root and metadata database
// still exist on disk.
func (r *Registry) CheckPath(libraryID string) (bool, error) {
	root, err := r.Resolve(libraryID)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(root); err != nil {
		return false, nil
	}
	if _, err := os.Stat(filepath.Join(root, database.DBFileName)); err != nil {
		return false, nil
	}
	return true, nil
}

// Selected returns the id of the currently selected library ("" if
// none).
func (r *Registry) Selected() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.selected
}

// SetSelected records the currently selected library.
func (r *Registry) SetSelected(libraryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = libraryID
	return r.saveLocked()
}

// saveLocked writes the registry to disk atomically. Callers must hold
// the write lock.
func (r *Registry) saveLocked() error {
	cfg := configFile{
		Libraries:       r.libraries,
		SelectedLibrary: r.selected,
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry config: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace registry config: %w", err)
	}
	return nil
}
