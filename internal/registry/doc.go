// Package registry maps library ids to their root storage paths,
// persisted as a JSON config file.
package registry
