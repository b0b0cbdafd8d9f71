package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/logger"
	"github.com/kozaktomas/face-attendance/internal/metrics"
	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the attendance API server",
	Long: `Start the Face Attendance API server.
The server exposes registration, verification, and attendance endpoints
backed by AWS Rekognition, DynamoDB, and S3.`,
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
		cfg.Server.Port = port
	}
	if host := mustGetString(cmd, "host"); host != "" {
		cfg.Server.Host = host
	}

	log := logger.Setup(os.Stdout)
	collector := metrics.NewCollector()

	ctx := context.Background()
	clients, err := newAWSClients(ctx, cfg)
	if err != nil {
		return err
	}

	// An absent collection would fail every enroll and search, so make
	// sure it exists before taking traffic.
	gateway := recognition.NewRekognitionGateway(
		clients.rekognition,
		cfg.Recognition.CollectionID,
		cfg.Recognition.SimilarityPercent,
		cfg.Recognition.MaxSearchFaces,
	)
	if err := gateway.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("ensure collection %q: %w", cfg.Recognition.CollectionID, err)
	}

	services := buildServices(cfg, clients, collector, log)
	server := web.NewServer(cfg, services, collector, log)

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

	fmt.Printf("Starting Face Attendance API on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
