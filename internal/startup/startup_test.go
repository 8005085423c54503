package startup

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("STARTUP_TEST_VAR", "set")

	if got := getEnv("STARTUP_TEST_VAR", "default"); got != "set" {
		t.Errorf("getEnv() = %q, want %q", got, "set")
	}
	if got := getEnv("STARTUP_TEST_UNSET", "default"); got != "default" {
		t.Errorf("getEnv() = %q, want %q", got, "default")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"false", true, false},
		{"1", false, true},
		{"0", true, false},
		{"bogus", true, true},
		{"bogus", false, false},
	}

	for _, tt := range tests {
		t.Setenv("STARTUP_TEST_BOOL", tt.value)
		if got := getEnvBool("STARTUP_TEST_BOOL", tt.defaultValue); got != tt.want {
			t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
		}
	}
}

func TestEnsureDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// Creates missing directories
	target := filepath.Join(dir, "nested", "config")
	if err := ensureDirectory(target, "config"); err != nil {
		t.Fatalf("ensureDirectory() error = %v", err)
	}
	if info, err := os.Stat(target); err != nil || !info.IsDir() {
		t.Errorf("directory not created: %v", err)
	}

	// Accepts existing directories
	if err := ensureDirectory(target, "config"); err != nil {
		t.Errorf("ensureDirectory() on existing dir error = %v", err)
	}

	// Rejects files
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ensureDirectory(file, "config"); err == nil {
		t.Error("ensureDirectory() should reject a plain file")
	}
}

func TestTestWriteAccess(t *testing.T) {
	t.Parallel()

	if err := testWriteAccess(t.TempDir()); err != nil {
		t.Errorf("testWriteAccess() error = %v", err)
	}
	if err := testWriteAccess(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("testWriteAccess() should fail for a missing directory")
	}
}

func TestGetRouteGroup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"/health", "health"},
		{"/api/libraries", "api/libraries"},
		{"/api/libraries/{id}/items", "api/libraries"},
		{"/", ""},
	}

	for _, tt := range tests {
		if got := getRouteGroup(tt.path); got != tt.want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestGetBuildInfo(t *testing.T) {
	t.Parallel()

	info := GetBuildInfo()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if info.OS != runtime.GOOS || info.Arch != runtime.GOARCH {
		t.Errorf("OS/Arch = %s/%s, want %s/%s", info.OS, info.Arch, runtime.GOOS, runtime.GOARCH)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	t.Setenv("PORT", "")
	t.Setenv("METRICS_PORT", "")
	t.Setenv("METRICS_ENABLED", "")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Port != "8080" {
		t.Errorf("Port = %q, want 8080", config.Port)
	}
	if config.MetricsPort != "9090" {
		t.Errorf("MetricsPort = %q, want 9090", config.MetricsPort)
	}
	if !config.MetricsEnabled {
		t.Error("MetricsEnabled should default to true")
	}
	if config.RegistryPath != filepath.Join(dir, "config.json") {
		t.Errorf("RegistryPath = %q", config.RegistryPath)
	}
}
