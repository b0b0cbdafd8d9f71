package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/logger"
	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/registration"
	"github.com/kozaktomas/face-attendance/internal/store"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove registered identities and their recognition data",
	Long: `Remove identities together with their collection faces and stored
images. Attendance records are an audit log and are never deleted.

Select what to remove:
  --face-id <id>   one identity
  --unindexed      identities whose enrollment never completed
  --all            every identity, then reset the collection

Deletes are idempotent: removing something that is already gone succeeds,
so the command can be re-run after a partial failure.`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().String("face-id", "", "Remove a single identity by face id")
	cleanupCmd.Flags().Bool("unindexed", false, "Remove identities that were never indexed")
	cleanupCmd.Flags().Bool("all", false, "Remove every identity and reset the collection")
	cleanupCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
}

func confirmAction(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func runCleanup(cmd *cobra.Command, args []string) error {
	faceID := mustGetString(cmd, "face-id")
	unindexedOnly := mustGetBool(cmd, "unindexed")
	all := mustGetBool(cmd, "all")
	skipConfirm := mustGetBool(cmd, "yes")

	selected := 0
	for _, on := range []bool{faceID != "", unindexedOnly, all} {
		if on {
			selected++
		}
	}
	if selected != 1 {
		return errors.New("specify exactly one of --face-id, --unindexed, or --all")
	}

	cfg := config.Load()
	log := logger.Setup(os.Stderr)

	ctx := context.Background()
	clients, err := newAWSClients(ctx, cfg)
	if err != nil {
		return err
	}
	registrationService := buildServices(cfg, clients, nil, log).Registration

	if faceID != "" {
		return cleanupOne(ctx, registrationService, faceID)
	}

	var identities []store.Identity
	if unindexedOnly {
		identities, err = registrationService.Unindexed(ctx)
	} else {
		identities, err = registrationService.List(ctx)
	}
	if err != nil {
		return fmt.Errorf("list identities: %w", err)
	}

	if len(identities) == 0 {
		fmt.Println("No matching identities found. Nothing to do.")
	} else {
		fmt.Printf("Identities to remove: %d\n", len(identities))
		if !skipConfirm && !confirmAction(fmt.Sprintf("\nRemove %d identit(ies)? [y/N]: ", len(identities))) {
			fmt.Println("Cancelled.")
			return nil
		}
		if err := cleanupMany(ctx, registrationService, identities, log); err != nil {
			return err
		}
	}

	// A full cleanup also resets the collection so faces without an
	// identity row do not linger and match against future captures.
	if all {
		gateway := recognition.NewRekognitionGateway(
			clients.rekognition,
			cfg.Recognition.CollectionID,
			cfg.Recognition.SimilarityPercent,
			cfg.Recognition.MaxSearchFaces,
		)
		fmt.Printf("Resetting collection '%s'...\n", cfg.Recognition.CollectionID)
		if err := gateway.Reset(ctx); err != nil {
			return fmt.Errorf("reset collection: %w", err)
		}
	}

	fmt.Println("Done!")
	return nil
}

func cleanupOne(ctx context.Context, service *registration.Service, faceID string) error {
	if err := service.Delete(ctx, faceID); err != nil {
		return fmt.Errorf("remove identity %s: %w", faceID, err)
	}
	fmt.Printf("Done! Removed identity '%s'\n", faceID)
	return nil
}

func cleanupMany(ctx context.Context, service *registration.Service, identities []store.Identity, log *slog.Logger) error {
	bar := progressbar.NewOptions(len(identities),
		progressbar.OptionSetDescription("Removing identities"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
	)

	var failed int
	for i := range identities {
		if err := service.Delete(ctx, identities[i].FaceID); err != nil {
			failed++
			log.Warn("cleanup failed", "face_id", identities[i].FaceID, "error", err)
		}
		_ = bar.Add(1)
	}
	fmt.Println()

	if failed > 0 {
		return fmt.Errorf("%d identit(ies) could not be removed, re-run to retry", failed)
	}
	return nil
}
