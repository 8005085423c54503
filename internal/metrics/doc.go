// Package metrics defines the Prometheus metrics exported by the
// photo library service.
package metrics
