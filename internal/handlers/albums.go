package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// CreateAlbumRequest is the body for creating an album.
type CreateAlbumRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ListAlbums returns all albums in a library.
func (h *Handlers) ListAlbums(w http.ResponseWriter, r *http.Request) {
	store, _, err := h.openStore(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeLibraryError(w, err)
		return
	}
	defer store.Close()

	albums, err := store.ListAlbums(r.Context())
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, albums)
}

// CreateAlbum creates a new album in a library.
func (h *Handlers) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req CreateAlbumRequest
	if err := decodeJSONBody(r, &req); err != nil || req.Name == "" {
		writeJSONError(w, "name is required", http.StatusBadRequest)
		return
	}

	store, _, err := h.openStore(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeLibraryError(w, err)
		return
	}
	defer store.Close()

	album, err := store.CreateAlbum(r.Context(), req.Name, req.Description)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, album)
}

// DeleteAlbum removes an album and its memberships. Items themselves
// are untouched.
func (h *Handlers) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	store, _, err := h.openStore(r.Context(), vars["id"])
	if err != nil {
		writeLibraryError(w, err)
		return
	}
	defer store.Close()

	if err := store.DeleteAlbum(r.Context(), vars["albumID"]); err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "deleted")
}

// ListAlbumItems returns the items belonging to an album, most
// recently added first.
func (h *Handlers) ListAlbumItems(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	store, _, err := h.openStore(r.Context(), vars["id"])
	if err != nil {
		writeLibraryError(w, err)
		return
	}
	defer store.Close()

	items, err := store.ListAlbumItems(r.Context(), vars["albumID"])
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, items)
}

// AddItemToAlbum adds one item to an album. Adding twice is a no-op.
func (h *Handlers) AddItemToAlbum(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	store, _, err := h.openStore(r.Context(), vars["id"])
	if err != nil {
		writeLibraryError(w, err)
		return
	}
	defer store.Close()

	if err := store.AddItemToAlbum(r.Context(), vars["albumID"], vars["itemID"]); err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "added")
}

// RemoveItemFromAlbum removes one item from an album.
func (h *Handlers) RemoveItemFromAlbum(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	store, _, err := h.openStore(r.Context(), vars["id"])
	if err != nil {
		writeLibraryError(w, err)
		return
	}
	defer store.Close()

	if err := store.RemoveItemFromAlbum(r.Context(), vars["albumID"], vars["itemID"]); err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "removed")
}
