package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"photo-library/internal/logging"
)

// CreateLibraryRequest is the body for registering a new library.
type CreateLibraryRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Path  string `json:"path"`
}

// ListLibraries returns all registered libraries.
func (h *Handlers) ListLibraries(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, h.registry.List())
}

// CreateLibrary registers a new library and initializes its directory
// layout and metadata database.
func (h *Handlers) CreateLibrary(w http.ResponseWriter, r *http.Request) {
	var req CreateLibraryRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Path == "" {
		writeJSONError(w, "name and path are required", http.StatusBadRequest)
		return
	}

	lib, err := h.registry.Create(r.Context(), req.Name, req.Icon, req.Color, req.Path)
	if err != nil {
		logging.Error("failed to create library %q: %v", req.Name, err)
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, lib)
}

// RemoveLibrary unregisters a library. Its files stay on disk.
func (h *Handlers) RemoveLibrary(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["id"]

	if err := h.registry.Remove(libraryID); err != nil {
		writeLibraryError(w, err)
		return
	}
	writeJSONStatus(w, "removed")
}

// UpdateLibraryPath points a registered library at a new root path.
func (h *Handlers) UpdateLibraryPath(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["id"]

	var req struct {
		Path string `json:"path"`
	}
	if err := decodeJSONBody(r, &req); err != nil || req.Path == "" {
		writeJSONError(w, "path is required", http.StatusBadRequest)
		return
	}

	if err := h.registry.UpdatePath(libraryID, req.Path); err != nil {
		writeLibraryError(w, err)
		return
	}
	writeJSONStatus(w, "updated")
}

// CheckLibraryPath reports whether a library's root and metadata
// database still exist on disk.
func (h *Handlers) CheckLibraryPath(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["id"]

	ok, err := h.registry.CheckPath(libraryID)
	if err != nil {
		writeLibraryError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]bool{"exists": ok})
}

// GetSelectedLibrary returns the id of the currently selected library.
func (h *Handlers) GetSelectedLibrary(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"selected_library": h.registry.Selected()})
}

// SetSelectedLibrary records the currently selected library.
func (h *Handlers) SetSelectedLibrary(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["id"]

	if _, err := h.registry.Resolve(libraryID); err != nil {
		writeLibraryError(w, err)
		return
	}
	if err := h.registry.SetSelected(libraryID); err != nil {
		writeJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSONStatus(w, "selected")
}
