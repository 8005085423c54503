// Package database manages the per-library SQLite metadata store
// (lib.db in the library root): items, albums, and album membership.
package database
