package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"photo-library/internal/importer"
	"photo-library/internal/logging"
)

// ImportRequest is the body for a batch import.
type ImportRequest struct {
	Paths        []string `json:"paths"`
	DeleteSource bool     `json:"delete_source"`
}

// FavoriteRequest marks or unmarks a set of items as favorites.
type FavoriteRequest struct {
	ItemIDs []string `json:"item_ids"`
	Value   bool     `json:"value"`
}

// ListItems returns all items in a library, newest first.
func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["id"]

	store, _, err := h.openStore(r.Context(), libraryID)
	if err != nil {
		writeLibraryError(w, err)
		return
	}
	defer store.Close()

	items, err := store.ListItems(r.Context())
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, items)
}

// ImportItems runs a batch import into a library. The whole batch
// either commits or fails; on failure no metadata is written.
func (h *Handlers) ImportItems(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["id"]

	var req ImportRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Paths) == 0 {
		writeJSONError(w, "paths is required", http.StatusBadRequest)
		return
	}

	items, err := h.importer.ImportBatch(r.Context(), libraryID, req.Paths, req.DeleteSource)
	if err != nil {
		logging.Error("batch import into library %s failed: %v", libraryID, err)
		var itemErr *importer.ItemError
		switch {
		case errors.As(err, &itemErr):
			writeJSONError(w, itemErr.Error(), http.StatusUnprocessableEntity)
		default:
			writeLibraryError(w, err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, items)
}

// GetItem returns one item's metadata.
func (h *Handlers) GetItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	store, _, err := h.openStore(r.Context(), vars["id"])
	if err != nil {
		writeLibraryError(w, err)
		return
	}
	defer store.Close()

	item, err := store.GetItem(r.Context(), vars["itemID"])
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, item)
}

// DeleteItem removes an item's metadata row together with its original
// file and thumbnail. File removal is best effort once the row is gone.
func (h *Handlers) DeleteItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	store, root, err := h.openStore(r.Context(), vars["id"])
	if err != nil {
		writeLibraryError(w, err)
		return
	}
	defer store.Close()

	item, err := store.GetItem(r.Context(), vars["itemID"])
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := store.DeleteItem(r.Context(), item.ID); err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for _, path := range []string{
		importer.OriginalPath(root, item),
		importer.ThumbnailPath(root, item.ID),
	} {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.Warn("failed to remove %s for deleted item %s: %v", path, item.ID, err)
		}
	}

	writeJSONStatus(w, "deleted")
}

// SetFavorite flips the favorite flag for a set of items in one
// transaction.
func (h *Handlers) SetFavorite(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["id"]

	var req FavoriteRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.ItemIDs) == 0 {
		writeJSONError(w, "item_ids is required", http.StatusBadRequest)
		return
	}

	store, _, err := h.openStore(r.Context(), libraryID)
	if err != nil {
		writeLibraryError(w, err)
		return
	}
	defer store.Close()

	if err := store.SetFavorite(r.Context(), req.ItemIDs, req.Value); err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "updated")
}

// GetOriginal serves an item's original file.
func (h *Handlers) GetOriginal(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	store, root, err := h.openStore(r.Context(), vars["id"])
	if err != nil {
		writeLibraryError(w, err)
		return
	}
	defer store.Close()

	item, err := store.GetItem(r.Context(), vars["itemID"])
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, "item not found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", item.FileType)
	http.ServeFile(w, r, importer.OriginalPath(root, item))
}

// GetThumbnail serves an item's WebP thumbnail. Items without one
// (video and other undecodable formats) yield 404.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	root, err := h.registry.Resolve(vars["id"])
	if err != nil {
		writeLibraryError(w, err)
		return
	}

	path := importer.ThumbnailPath(root, vars["itemID"])
	if _, err := os.Stat(path); err != nil {
		writeJSONError(w, "thumbnail not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/webp")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}
