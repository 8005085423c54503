// Package handlers implements the HTTP API: library registry
// management, batch imports, item and album operations, and media file
// serving.
package handlers
