// Package workers sizes worker pools based on available CPUs and
// environment overrides.
package workers
