package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"photo-library/internal/database"
	"photo-library/internal/registry"
)

const (
	// Default timeout for database operations
	defaultTimeout = 30 * time.Second
	// Default config directory path
	defaultConfigDir = "/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	// Create a context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = defaultConfigDir
	}
	configPath := filepath.Join(configDir, "config.json")

	reg, err := registry.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to load library registry: %v\n", err)
		fmt.Fprintf(os.Stderr, "Make sure CONFIG_DIR is set correctly (current: %s)\n", configDir)
		os.Exit(1)
	}

	switch command {
	case "list":
		listLibraries(reg)
	case "create":
		if !createLibrary(ctx, reg, os.Args[2:]) {
			os.Exit(1)
		}
	case "check":
		if !checkLibraries(ctx, reg) {
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitizeCommand(command))
		printUsage()
		os.Exit(1)
	}
}

// sanitizeCommand returns a safe representation of a command string for display.
// It uses an allowlist approach, replacing any character that is not alphanumeric,
// a hyphen, or an underscore with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage() {
	fmt.Println("Photo Library Registry Management")
	fmt.Println("")
	fmt.Println("Usage: libadmin <command> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                 - List registered libraries")
	fmt.Println("  create <name> <path> - Register a new library at <path>")
	fmt.Println("  check                - Verify each library's storage exists")
	fmt.Println("")
	fmt.Println("Environment:")
	fmt.Printf("  CONFIG_DIR - Path to config directory (default: %s)\n", defaultConfigDir)
}

func listLibraries(reg *registry.Registry) {
	libs := reg.List()
	if len(libs) == 0 {
		fmt.Println("No libraries registered.")
		return
	}

	selected := reg.Selected()
	for _, lib := range libs {
		marker := " "
		if lib.ID == selected {
			marker = "*"
		}
		fmt.Printf("%s %s  %-20s %s\n", marker, lib.ID, lib.Name, lib.Path)
	}
}

func createLibrary(ctx context.Context, reg *registry.Registry, args []string) bool {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Error: create requires <name> and <path>")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	lib, err := reg.Create(ctx, args[0], "", "", args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to create library: %v\n", err)
		return false
	}

	fmt.Printf("Library created: %s (%s)\n", lib.Name, lib.ID)
	return true
}

func checkLibraries(ctx context.Context, reg *registry.Registry) bool {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ok := true
	for _, lib := range reg.List() {
		exists, err := reg.CheckPath(lib.ID)
		switch {
		case err != nil:
			fmt.Printf("%s  %-20s ERROR: %v\n", lib.ID, lib.Name, err)
			ok = false
		case !exists:
			fmt.Printf("%s  %-20s MISSING (%s)\n", lib.ID, lib.Name, lib.Path)
			ok = false
		default:
			store, err := database.Open(ctx, lib.Path)
			if err != nil {
				fmt.Printf("%s  %-20s UNREADABLE: %v\n", lib.ID, lib.Name, err)
				ok = false
				continue
			}
			count, err := store.CountItems(ctx)
			if closeErr := store.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", closeErr)
			}
			if err != nil {
				fmt.Printf("%s  %-20s UNREADABLE: %v\n", lib.ID, lib.Name, err)
				ok = false
				continue
			}
			fmt.Printf("%s  %-20s OK (%d items)\n", lib.ID, lib.Name, count)
		}
	}
	return ok
}
