// Package importer implements the batch media ingestion pipeline:
// concurrent per-file preparation (checksum, decode, orientation,
// thumbnail, placement) and all-or-nothing metadata persistence.
package importer
