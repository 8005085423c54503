package database

import "time"

// Item is one ingested media asset and its metadata row.
//
// ID is assigned at ingestion time, before any side effect, and is the
// filename stem for both the original copy and the thumbnail. Checksum
// is an MD5 digest of the raw source bytes kept for display and audit;
// it is not a uniqueness constraint, so re-importing identical bytes
// produces a new Item with the same checksum.
type Item struct {
	ID                string    `json:"id"`
	OriginalName      string    `json:"originalName"`
	FileType          string    `json:"fileType"`
	FileSize          int64     `json:"fileSize"`
	Width             int       `json:"width"`
	Height            int       `json:"height"`
	Checksum          string    `json:"checksum"`
	IsFavorite        bool      `json:"isFavorite"`
	IsScreenshot      bool      `json:"isScreenshot"`
	IsScreenRecording bool      `json:"isScreenRecording"`
	LiveVideo         *string   `json:"liveVideo"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Album groups items. Membership lives in the album_item table.
type Album struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CoverItemID *string   `json:"coverItemId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AlbumItem is one album membership record.
type AlbumItem struct {
	AlbumID string    `json:"albumId"`
	ItemID  string    `json:"itemId"`
	AddedAt time.Time `json:"addedAt"`
}
