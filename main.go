package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"photo-library/internal/handlers"
	"photo-library/internal/importer"
	"photo-library/internal/logging"
	"photo-library/internal/media"
	"photo-library/internal/middleware"
	"photo-library/internal/registry"
	"photo-library/internal/startup"
	"photo-library/internal/workers"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize the image pipeline
	media.InitVips()

	// Load the library registry
	regStart := time.Now()
	reg, err := registry.Load(config.RegistryPath)
	if err != nil {
		startup.LogFatal("Failed to load library registry: %v", err)
	}
	startup.LogRegistryInit(len(reg.List()), time.Since(regStart))

	// Initialize the batch importer
	startup.LogImporterInit(workers.ForCPU(0))
	imp := importer.New(reg)

	// Initialize handlers
	h := handlers.New(reg, imp)

	// Setup router
	router := setupRouter(h)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	// Apply metrics middleware
	handler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics server on its own port
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      metricsMux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Library registry
	api.HandleFunc("/libraries", h.ListLibraries).Methods("GET")
	api.HandleFunc("/libraries", h.CreateLibrary).Methods("POST")
	api.HandleFunc("/libraries/selected", h.GetSelectedLibrary).Methods("GET")
	api.HandleFunc("/libraries/{id}", h.RemoveLibrary).Methods("DELETE")
	api.HandleFunc("/libraries/{id}/path", h.UpdateLibraryPath).Methods("PUT")
	api.HandleFunc("/libraries/{id}/check", h.CheckLibraryPath).Methods("GET")
	api.HandleFunc("/libraries/{id}/select", h.SetSelectedLibrary).Methods("POST")

	// Items
	api.HandleFunc("/libraries/{id}/items", h.ListItems).Methods("GET")
	api.HandleFunc("/libraries/{id}/items", h.ImportItems).Methods("POST")
	api.HandleFunc("/libraries/{id}/items/favorite", h.SetFavorite).Methods("POST")
	api.HandleFunc("/libraries/{id}/items/{itemID}", h.GetItem).Methods("GET")
	api.HandleFunc("/libraries/{id}/items/{itemID}", h.DeleteItem).Methods("DELETE")
	api.HandleFunc("/libraries/{id}/items/{itemID}/original", h.GetOriginal).Methods("GET")
	api.HandleFunc("/libraries/{id}/items/{itemID}/thumbnail", h.GetThumbnail).Methods("GET")

	// Albums
	api.HandleFunc("/libraries/{id}/albums", h.ListAlbums).Methods("GET")
	api.HandleFunc("/libraries/{id}/albums", h.CreateAlbum).Methods("POST")
	api.HandleFunc("/libraries/{id}/albums/{albumID}", h.DeleteAlbum).Methods("DELETE")
	api.HandleFunc("/libraries/{id}/albums/{albumID}/items", h.ListAlbumItems).Methods("GET")
	api.HandleFunc("/libraries/{id}/albums/{albumID}/items/{itemID}", h.AddItemToAlbum).Methods("PUT")
	api.HandleFunc("/libraries/{id}/albums/{albumID}/items/{itemID}", h.RemoveItemFromAlbum).Methods("DELETE")

	return r
}

func handleShutdown(srv, metricsSrv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down image pipeline")
	media.ShutdownVips()
	startup.LogShutdownStepComplete("Image pipeline stopped")

	startup.LogShutdownComplete()
}
