package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

func TestListItemsOrder(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	older := testItem("older")
	older.CreatedAt = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	newer := testItem("newer")
	newer.CreatedAt = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	insertTestItems(t, store, older, newer)

	items, err := store.ListItems(context.Background())
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("ListItems() returned %d items, want 2", len(items))
	}
	if items[0].ID != "newer" || items[1].ID != "older" {
		t.Errorf("items not ordered newest first: %s, %s", items[0].ID, items[1].ID)
	}
}

func TestGetItemRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	live := "live-abc"
	want := testItem("round")
	want.IsFavorite = true
	want.IsScreenshot = true
	want.LiveVideo = &live
	want.CreatedAt = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	insertTestItems(t, store, want)

	got, err := store.GetItem(context.Background(), "round")
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}

	if got.OriginalName != want.OriginalName {
		t.Errorf("OriginalName = %q, want %q", got.OriginalName, want.OriginalName)
	}
	if got.FileType != want.FileType {
		t.Errorf("FileType = %q, want %q", got.FileType, want.FileType)
	}
	if got.FileSize != want.FileSize {
		t.Errorf("FileSize = %d, want %d", got.FileSize, want.FileSize)
	}
	if got.Width != want.Width || got.Height != want.Height {
		t.Errorf("dimensions = %dx%d, want %dx%d", got.Width, got.Height, want.Width, want.Height)
	}
	if got.Checksum != want.Checksum {
		t.Errorf("Checksum = %q, want %q", got.Checksum, want.Checksum)
	}
	if !got.IsFavorite || !got.IsScreenshot || got.IsScreenRecording {
		t.Errorf("flags = %v/%v/%v, want true/true/false",
			got.IsFavorite, got.IsScreenshot, got.IsScreenRecording)
	}
	if got.LiveVideo == nil || *got.LiveVideo != live {
		t.Errorf("LiveVideo = %v, want %q", got.LiveVideo, live)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

func TestGetItemMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, err := store.GetItem(context.Background(), "no-such-item")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetItem() error = %v, want sql.ErrNoRows", err)
	}
}

func TestDeleteItem(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	insertTestItems(t, store, testItem("gone"))

	if err := store.DeleteItem(context.Background(), "gone"); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}

	if _, err := store.GetItem(context.Background(), "gone"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("GetItem() after delete error = %v, want sql.ErrNoRows", err)
	}
}

func TestSetFavorite(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	insertTestItems(t, store, testItem("a"), testItem("b"), testItem("c"))

	if err := store.SetFavorite(context.Background(), []string{"a", "c"}, true); err != nil {
		t.Fatalf("SetFavorite() error = %v", err)
	}

	items, err := store.ListItems(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	favorites := map[string]bool{}
	for _, item := range items {
		favorites[item.ID] = item.IsFavorite
	}
	if !favorites["a"] || favorites["b"] || !favorites["c"] {
		t.Errorf("favorites = %v, want a and c only", favorites)
	}

	// Unset is the same operation with value false
	if err := store.SetFavorite(context.Background(), []string{"a"}, false); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetItem(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.IsFavorite {
		t.Error("item a still favorite after unset")
	}
}

func TestSetFavoriteEmpty(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := store.SetFavorite(context.Background(), nil, true); err != nil {
		t.Errorf("SetFavorite() with no ids error = %v", err)
	}
}
