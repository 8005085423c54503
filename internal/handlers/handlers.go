package handlers

import (
	"context"

	"photo-library/internal/database"
	"photo-library/internal/importer"
	"photo-library/internal/registry"
)

type Handlers struct {
	registry *registry.Registry
	importer *importer.Importer
}

func New(reg *registry.Registry, imp *importer.Importer) *Handlers {
	return &Handlers{
		registry: reg,
		importer: imp,
	}
}

// openStore resolves a library id and opens its metadata database.
// Callers must Close the store when done.
func (h *Handlers) openStore(ctx context.Context, libraryID string) (*database.Store, string, error) {
	root, err := h.registry.Resolve(libraryID)
	if err != nil {
		return nil, "", err
	}
	store, err := database.Open(ctx, root)
	if err != nil {
		return nil, "", err
	}
	return store, root, nil
}
