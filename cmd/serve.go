package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kozaktomas/attendance-marker/internal/attendance"
	"github.com/kozaktomas/attendance-marker/internal/config"
	"github.com/kozaktomas/attendance-marker/internal/database"
	"github.com/kozaktomas/attendance-marker/internal/facerec"
	"github.com/kozaktomas/attendance-marker/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Attendance Marker web server.
The server exposes endpoints for enrolling students from face photo
archives, marking attendance from classroom photo archives and managing
the stored roster and attendance records.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "Port to listen on (overrides WEB_PORT)")
	serveCmd.Flags().String("host", "", "Host to bind to (overrides WEB_HOST)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if port := mustGetInt(cmd, "port"); port != 0 {
		cfg.Web.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Web.Host = host
	}

	store, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()
	fmt.Printf("Using SQLite database at %s\n", cfg.Database.Path)

	detector := facerec.NewClient(cfg.FaceAPI.URL, cfg.FaceAPI.Model,
		time.Duration(cfg.Matching.DetectTimeoutSeconds)*time.Second)
	fmt.Printf("Using embedding service at %s (model %s)\n", cfg.FaceAPI.URL, cfg.FaceAPI.Model)

	service := attendance.NewService(cfg, store, detector)
	server := web.NewServer(cfg, store, service)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Attendance Marker on http://%s:%d\n", cfg.Web.Host, cfg.Web.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
