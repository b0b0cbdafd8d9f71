package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/logger"
)

var remediateCmd = &cobra.Command{
	Use:   "remediate",
	Short: "Re-enroll identities whose face indexing failed",
	Long: `Find identities that were registered but never indexed in the
recognition collection, and retry the enrollment from the stored image.

A registration survives a Rekognition outage with status 'unindexed';
this command brings those identities back into the searchable set. It is
idempotent: identities that are already indexed are not touched.`,
	RunE: runRemediate,
}

func init() {
	rootCmd.AddCommand(remediateCmd)
}

func runRemediate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.Setup(os.Stderr)

	ctx := context.Background()
	clients, err := newAWSClients(ctx, cfg)
	if err != nil {
		return err
	}
	registrationService := buildServices(cfg, clients, nil, log).Registration

	unindexed, err := registrationService.Unindexed(ctx)
	if err != nil {
		return fmt.Errorf("list unindexed identities: %w", err)
	}
	if len(unindexed) == 0 {
		fmt.Println("No unindexed identities found. Nothing to do.")
		return nil
	}

	fmt.Printf("Found %d unindexed identit(ies)\n", len(unindexed))

	bar := progressbar.NewOptions(len(unindexed),
		progressbar.OptionSetDescription("Re-enrolling faces"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)

	var fixed, failed int
	for i := range unindexed {
		identity := &unindexed[i]
		if err := registrationService.Reenroll(ctx, identity); err != nil {
			failed++
			log.Warn("re-enrollment failed", "face_id", identity.FaceID, "error", err)
		} else {
			fixed++
		}
		_ = bar.Add(1)
	}
	fmt.Println()

	fmt.Printf("Done! Re-enrolled %d identit(ies), %d failed\n", fixed, failed)
	if failed > 0 {
		return fmt.Errorf("%d identit(ies) could not be re-enrolled", failed)
	}
	return nil
}
