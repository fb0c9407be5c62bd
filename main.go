package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lab1702/artillery-web/server"
)

//go:embed static/*
var staticFiles embed.FS

func main() {
	port := flag.String("port", "", "Server port (overrides the config file)")
	configPath := flag.String("config", "", "YAML match configuration")
	debug := flag.Bool("debug", false, "Log engine and turn debug output")
	flag.Parse()

	cfg := server.DefaultConfig()
	if *configPath != "" {
		loaded, err := server.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Config error: %v", err)
		}
		cfg = loaded
		log.Printf("Loaded match configuration from %s", *configPath)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *debug {
		cfg.Debug = true
		server.DebugTurns = true
	}

	log.Printf("Starting Artillery Web Server on port %s", cfg.Port)

	// Create game server
	gameServer, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create game server: %v", err)
	}
	go gameServer.Run()

	// Serve static files from the static subdirectory
	fsys, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}
	http.Handle("/", http.FileServer(http.FS(fsys)))

	// WebSocket endpoint
	http.HandleFunc("/ws", gameServer.HandleWebSocket)

	// Round and standings endpoint
	http.HandleFunc("/api/scores", gameServer.HandleScores)

	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Server running at http://localhost:%s", cfg.Port)

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal from OS
	sig := <-sigChan
	log.Printf("Shutting down server (signal: %v)...", sig)

	// Create a context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Signal game server to stop background goroutines
	gameServer.Shutdown()

	// Shutdown the HTTP server gracefully
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	os.Exit(0)
}
