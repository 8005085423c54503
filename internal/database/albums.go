package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateAlbum inserts a new album and returns it.
func (s *Store) CreateAlbum(ctx context.Context, name string, description *string) (*Album, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("create_album", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	album := &Album{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO album (id, name, description, cover_item_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		album.ID,
		album.Name,
		album.Description,
		album.CoverItemID,
		album.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}
	return album, nil
}

// ListAlbums returns all albums, newest first.
func (s *Store) ListAlbums(ctx context.Context) ([]Album, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_albums", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, cover_item_id, created_at
		 FROM album ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums: %w", err)
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		var album Album
		var createdAt string
		if err = rows.Scan(&album.ID, &album.Name, &album.Description, &album.CoverItemID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan album row: %w", err)
		}
		t, parseErr := time.Parse(time.RFC3339, createdAt)
		if parseErr != nil {
			err = fmt.Errorf("invalid created_at for album %s: %w", album.ID, parseErr)
			return nil, err
		}
		album.CreatedAt = t.UTC()
		albums = append(albums, album)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read album rows: %w", err)
	}
	return albums, nil
}

// DeleteAlbum removes an album; memberships cascade.
func (s *Store) DeleteAlbum(ctx context.Context, albumID string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_album", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, "DELETE FROM album WHERE id = ?", albumID)
	if err != nil {
		return fmt.Errorf("failed to delete album %s: %w", albumID, err)
	}
	return nil
}

// AddItemToAlbum records membership; re-adding is a no-op.
func (s *Store) AddItemToAlbum(ctx context.Context, albumID, itemID string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("add_album_item", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO album_item (album_id, item_id, added_at) VALUES (?, ?, ?)`,
		albumID, itemID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to add item %s to album %s: %w", itemID, albumID, err)
	}
	return nil
}

// RemoveItemFromAlbum removes a membership record.
func (s *Store) RemoveItemFromAlbum(ctx context.Context, albumID, itemID string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("remove_album_item", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx,
		"DELETE FROM album_item WHERE album_id = ? AND item_id = ?", albumID, itemID)
	if err != nil {
		return fmt.Errorf("failed to remove item %s from album %s: %w", itemID, albumID, err)
	}
	return nil
}

// ListAlbumItems returns an album's items, most recently added first.
func (s *Store) ListAlbumItems(ctx context.Context, albumID string) ([]Item, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_album_items", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.original_name, i.file_type, i.file_size, i.width, i.height, i.checksum,
			i.is_favorite, i.is_screenshot, i.is_screen_recording, i.live_video, i.created_at
		 FROM item i
		 INNER JOIN album_item ai ON i.id = ai.item_id
		 WHERE ai.album_id = ?
		 ORDER BY ai.added_at DESC`, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to query album items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}
