package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"

	"photo-library/internal/database"
	"photo-library/internal/importer"
	"photo-library/internal/registry"
)

type testEnv struct {
	handlers *Handlers
	registry *registry.Registry
	router   *mux.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	reg, err := registry.Load(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatal(err)
	}

	h := New(reg, importer.New(reg))

	r := mux.NewRouter()
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/libraries", h.ListLibraries).Methods("GET")
	api.HandleFunc("/libraries", h.CreateLibrary).Methods("POST")
	api.HandleFunc("/libraries/selected", h.GetSelectedLibrary).Methods("GET")
	api.HandleFunc("/libraries/{id}", h.RemoveLibrary).Methods("DELETE")
	api.HandleFunc("/libraries/{id}/path", h.UpdateLibraryPath).Methods("PUT")
	api.HandleFunc("/libraries/{id}/check", h.CheckLibraryPath).Methods("GET")
	api.HandleFunc("/libraries/{id}/select", h.SetSelectedLibrary).Methods("POST")
	api.HandleFunc("/libraries/{id}/items", h.ListItems).Methods("GET")
	api.HandleFunc("/libraries/{id}/items", h.ImportItems).Methods("POST")
	api.HandleFunc("/libraries/{id}/items/favorite", h.SetFavorite).Methods("POST")
	api.HandleFunc("/libraries/{id}/items/{itemID}", h.GetItem).Methods("GET")
	api.HandleFunc("/libraries/{id}/items/{itemID}", h.DeleteItem).Methods("DELETE")
	api.HandleFunc("/libraries/{id}/items/{itemID}/original", h.GetOriginal).Methods("GET")
	api.HandleFunc("/libraries/{id}/items/{itemID}/thumbnail", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/libraries/{id}/albums", h.ListAlbums).Methods("GET")
	api.HandleFunc("/libraries/{id}/albums", h.CreateAlbum).Methods("POST")
	api.HandleFunc("/libraries/{id}/albums/{albumID}", h.DeleteAlbum).Methods("DELETE")
	api.HandleFunc("/libraries/{id}/albums/{albumID}/items", h.ListAlbumItems).Methods("GET")
	api.HandleFunc("/libraries/{id}/albums/{albumID}/items/{itemID}", h.AddItemToAlbum).Methods("PUT")
	api.HandleFunc("/libraries/{id}/albums/{albumID}/items/{itemID}", h.RemoveItemFromAlbum).Methods("DELETE")

	return &testEnv{handlers: h, registry: reg, router: r}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) createLibrary(t *testing.T) registry.Library {
	t.Helper()

	rec := e.do(t, "POST", "/api/libraries", CreateLibraryRequest{
		Name: "Test",
		Path: filepath.Join(t.TempDir(), "lib"),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create library status = %d, body = %s", rec.Code, rec.Body)
	}

	var lib registry.Library
	if err := json.Unmarshal(rec.Body.Bytes(), &lib); err != nil {
		t.Fatal(err)
	}
	return lib
}

func (e *testEnv) importPNG(t *testing.T, libraryID string, width, height int) database.Item {
	t.Helper()

	srcPath := filepath.Join(t.TempDir(), "photo.png")
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(srcPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := e.do(t, "POST", "/api/libraries/"+libraryID+"/items", ImportRequest{
		Paths: []string{srcPath},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("import status = %d, body = %s", rec.Code, rec.Body)
	}

	var items []database.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("import returned %d items, want 1", len(items))
	}
	return items[0]
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	for _, path := range []string{"/health", "/livez", "/readyz", "/version"} {
		rec := env.do(t, "GET", path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestLibraryLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	lib := env.createLibrary(t)

	rec := env.do(t, "GET", "/api/libraries", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var libs []registry.Library
	if err := json.Unmarshal(rec.Body.Bytes(), &libs); err != nil {
		t.Fatal(err)
	}
	if len(libs) != 1 || libs[0].ID != lib.ID {
		t.Errorf("list = %v, want the created library", libs)
	}

	rec = env.do(t, "GET", "/api/libraries/"+lib.ID+"/check", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("check status = %d", rec.Code)
	}
	var check map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &check); err != nil {
		t.Fatal(err)
	}
	if !check["exists"] {
		t.Error("check reported missing storage for a fresh library")
	}

	rec = env.do(t, "POST", "/api/libraries/"+lib.ID+"/select", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("select status = %d", rec.Code)
	}
	if got := env.registry.Selected(); got != lib.ID {
		t.Errorf("Selected() = %q, want %q", got, lib.ID)
	}

	rec = env.do(t, "DELETE", "/api/libraries/"+lib.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d", rec.Code)
	}
	if got := len(env.registry.List()); got != 0 {
		t.Errorf("registry has %d libraries after remove, want 0", got)
	}
}

func TestCreateLibraryValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, "POST", "/api/libraries", CreateLibraryRequest{Name: "NoPath"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestUnknownLibraryIs404(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/libraries/nope/items"},
		{"GET", "/api/libraries/nope/albums"},
		{"DELETE", "/api/libraries/nope/items/x"},
		{"GET", "/api/libraries/nope/items/x/thumbnail"},
	} {
		rec := env.do(t, tc.method, tc.path, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s status = %d, want 404", tc.method, tc.path, rec.Code)
		}
	}
}

func TestItemLifecycle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	lib := env.createLibrary(t)
	item := env.importPNG(t, lib.ID, 10, 8)

	if item.Width != 10 || item.Height != 8 {
		t.Errorf("imported dimensions = %dx%d, want 10x8", item.Width, item.Height)
	}

	itemURL := fmt.Sprintf("/api/libraries/%s/items/%s", lib.ID, item.ID)

	rec := env.do(t, "GET", itemURL, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get item status = %d", rec.Code)
	}

	rec = env.do(t, "GET", itemURL+"/original", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get original status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("original Content-Type = %q, want image/png", got)
	}

	rec = env.do(t, "GET", itemURL+"/thumbnail", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get thumbnail status = %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/webp" {
		t.Errorf("thumbnail Content-Type = %q, want image/webp", got)
	}

	// Favorite round trip
	rec = env.do(t, "POST", "/api/libraries/"+lib.ID+"/items/favorite", FavoriteRequest{
		ItemIDs: []string{item.ID},
		Value:   true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("set favorite status = %d", rec.Code)
	}
	rec = env.do(t, "GET", itemURL, nil)
	var got database.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if !got.IsFavorite {
		t.Error("item not favorite after set")
	}

	// Delete removes the row and both files
	rec = env.do(t, "DELETE", itemURL, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = env.do(t, "GET", itemURL, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
	if _, err := os.Stat(importer.OriginalPath(lib.Path, &item)); err == nil {
		t.Error("original file survived delete")
	}
	if _, err := os.Stat(importer.ThumbnailPath(lib.Path, item.ID)); err == nil {
		t.Error("thumbnail file survived delete")
	}
}

func TestImportValidation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	lib := env.createLibrary(t)

	rec := env.do(t, "POST", "/api/libraries/"+lib.ID+"/items", ImportRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty paths status = %d, want 400", rec.Code)
	}

	rec = env.do(t, "POST", "/api/libraries/"+lib.ID+"/items", ImportRequest{
		Paths: []string{filepath.Join(t.TempDir(), "missing.jpg")},
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("missing source status = %d, want 422", rec.Code)
	}
}

func TestAlbumEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	lib := env.createLibrary(t)
	item := env.importPNG(t, lib.ID, 4, 4)

	rec := env.do(t, "POST", "/api/libraries/"+lib.ID+"/albums", CreateAlbumRequest{Name: "Picks"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create album status = %d, body = %s", rec.Code, rec.Body)
	}
	var album database.Album
	if err := json.Unmarshal(rec.Body.Bytes(), &album); err != nil {
		t.Fatal(err)
	}

	base := fmt.Sprintf("/api/libraries/%s/albums/%s", lib.ID, album.ID)

	rec = env.do(t, "PUT", base+"/items/"+item.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("add item status = %d", rec.Code)
	}

	rec = env.do(t, "GET", base+"/items", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list album items status = %d", rec.Code)
	}
	var items []database.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].ID != item.ID {
		t.Errorf("album items = %v, want the imported item", items)
	}

	rec = env.do(t, "DELETE", base+"/items/"+item.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove item status = %d", rec.Code)
	}

	rec = env.do(t, "DELETE", base, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete album status = %d", rec.Code)
	}

	rec = env.do(t, "GET", "/api/libraries/"+lib.ID+"/albums", nil)
	var albums []database.Album
	if err := json.Unmarshal(rec.Body.Bytes(), &albums); err != nil {
		t.Fatal(err)
	}
	if len(albums) != 0 {
		t.Errorf("albums = %v after delete, want none", albums)
	}
}
