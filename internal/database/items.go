package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const itemColumns = `id, original_name, file_type, file_size, width, height, checksum,
	is_favorite, is_screenshot, is_screen_recording, live_video, created_at`

const insertItemSQL = `
	INSERT INTO item (
		id,
		original_name,
		file_type,
		file_size,
		width,
		height,
		checksum,
		is_favorite,
		is_screenshot,
		is_screen_recording,
		live_video,
		created_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// PrepareItemInsert prepares the single insert statement a batch import
// executes once per item inside its transaction.
func (s *Store) PrepareItemInsert(tx *sql.Tx) (*sql.Stmt, error) {
	stmt, err := tx.Prepare(insertItemSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare item insert: %w", err)
	}
	return stmt, nil
}

// ExecItemInsert inserts one item through a statement prepared by
// PrepareItemInsert.
func ExecItemInsert(stmt *sql.Stmt, item *Item) error {
	_, err := stmt.Exec(
		item.ID,
		item.OriginalName,
		item.FileType,
		item.FileSize,
		item.Width,
		item.Height,
		item.Checksum,
		boolToInt(item.IsFavorite),
		boolToInt(item.IsScreenshot),
		boolToInt(item.IsScreenRecording),
		item.LiveVideo,
		item.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert item %s: %w", item.ID, err)
	}
	return nil
}

// ListItems returns all items, newest first.
func (s *Store) ListItems(ctx context.Context) ([]Item, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_items", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM item ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// GetItem returns a single item by id, or sql.ErrNoRows if absent.
func (s *Store) GetItem(ctx context.Context, id string) (*Item, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_item", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM item WHERE id = ?`, id)

	var item Item
	err = scanItemRow(row.Scan, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem removes an item's metadata row. Callers are responsible
// for removing the original and thumbnail files alongside it.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_item", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, "DELETE FROM item WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	return nil
}

// SetFavorite sets the favorite flag on a set of items in one
// transaction.
func (s *Store) SetFavorite(ctx context.Context, itemIDs []string, value bool) error {
	if len(itemIDs) == 0 {
		return nil
	}

	start := time.Now()
	var err error
	defer func() { recordQuery("set_favorite", start, err) }()

	tx, err := s.BeginBatch()
	if err != nil {
		return err
	}

	for _, id := range itemIDs {
		if _, execErr := tx.Exec(
			"UPDATE item SET is_favorite = ? WHERE id = ?",
			boolToInt(value), id,
		); execErr != nil {
			err = fmt.Errorf("failed to update favorite state of %s: %w", id, execErr)
			break
		}
	}

	return s.EndBatch(tx, err)
}

// CountItems returns the number of item rows.
func (s *Store) CountItems(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM item").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var item Item
		if err := scanItemRow(rows.Scan, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read item rows: %w", err)
	}
	return items, nil
}

func scanItemRow(scan func(dest ...any) error, item *Item) error {
	var favorite, screenshot, screenRecording int
	var createdAt string

	if err := scan(
		&item.ID,
		&item.OriginalName,
		&item.FileType,
		&item.FileSize,
		&item.Width,
		&item.Height,
		&item.Checksum,
		&favorite,
		&screenshot,
		&screenRecording,
		&item.LiveVideo,
		&createdAt,
	); err != nil {
		return err
	}

	item.IsFavorite = favorite != 0
	item.IsScreenshot = screenshot != 0
	item.IsScreenRecording = screenRecording != 0

	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return fmt.Errorf("invalid created_at for item %s: %w", item.ID, err)
	}
	item.CreatedAt = t.UTC()
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
