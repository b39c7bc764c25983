package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"harmonic/config"
	"harmonic/handlers"
	"harmonic/middleware"
	"harmonic/services"
	"harmonic/watcher"
	"harmonic/websocket"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

// Dependencies are the services the router is built on
type Dependencies struct {
	Library services.LibraryService
	Hub     websocket.Hub
}

// StartWebServer starts the web server
func StartWebServer(port int) {
	// Set production mode if not specified
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize services
	hub := websocket.NewHub()
	go hub.Run()

	library := services.NewLibraryService(nil)

	if config.WatchEnabled() {
		startWatcher(ctx, config.GetLibraryLocation(), hub)
	}

	r := SetupRouter(Dependencies{
		Library: library,
		Hub:     hub,
	})

	srv := &http.Server{
		Addr:    ":" + config.GetServerPort(port),
		Handler: r,
	}

	go func() {
		log.Infof("Harmonic web server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down web server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown failed: %v", err)
	}
}

// startWatcher publishes library changes to the hub until ctx is done
func startWatcher(ctx context.Context, dir string, hub websocket.Hub) {
	w, err := watcher.New(dir, hub, watcher.Options{})
	if err != nil {
		log.Warnf("Library watcher disabled for %s: %v", dir, err)
		return
	}

	go func() {
		if err := w.Run(ctx); err != nil {
			log.Errorf("Library watcher stopped: %v", err)
		}
	}()
	log.Infof("Watching %s for library changes", dir)
}

// SetupRouter builds the gin engine with middleware and routes
func SetupRouter(deps Dependencies) *gin.Engine {
	fileHandler := handlers.NewFileHandler(deps.Library)
	lyricsHandler := handlers.NewLyricsHandler(deps.Library)
	windowHandler := handlers.NewWindowHandler(deps.Hub)
	healthHandler := handlers.NewHealthHandler()
	settingsHandler := handlers.NewSettingsHandler(deps.Hub)

	r := gin.New()
	r.Use(gin.Recovery())

	// Apply middleware
	r.Use(middleware.CORS())
	r.Use(middleware.Logging())
	r.Use(middleware.Security())

	// Health check endpoint
	r.GET("/health", healthHandler.HealthCheck)

	// API routes group
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/status", healthHandler.APIStatus)

		// File discovery, metadata and streaming endpoints
		filesGroup := apiGroup.Group("/files")
		{
			filesGroup.GET("", fileHandler.ListFiles)
			filesGroup.GET("/metadata", fileHandler.GetMetadata)
			filesGroup.GET("/base64", fileHandler.GetBase64)
			filesGroup.GET("/stream/*filepath", fileHandler.StreamFile)
		}

		apiGroup.GET("/lyrics", lyricsHandler.GetLyrics)

		// Desktop window control
		apiGroup.POST("/windows/:label/ignore-cursor-events", windowHandler.SetIgnoreCursorEvents)

		wsGroup := apiGroup.Group("/ws")
		{
			wsGroup.GET("/windows/:label", windowHandler.HandleWebSocketConnection)
		}

		// Settings endpoints
		apiGroup.GET("/settings", settingsHandler.GetSettings)
		apiGroup.POST("/settings", settingsHandler.UpdateSettings)
	}

	return r
}
