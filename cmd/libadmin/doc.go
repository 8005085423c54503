// Command libadmin provides a CLI utility for managing the photo
// library registry without a running server.
//
// It supports the following operations:
//   - list: List registered libraries, marking the selected one
//   - create: Register a new library and initialize its storage
//   - check: Verify each library's root and metadata database exist
//
// Usage:
//
//	libadmin <command> [args]
//
// Environment:
//
//	CONFIG_DIR - Path to config directory (default: /config)
package main
