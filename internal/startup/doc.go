// Package startup handles configuration loading, build information,
// and structured startup/shutdown logging.
package startup
