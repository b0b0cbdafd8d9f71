package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/recognition"
	storedynamo "github.com/kozaktomas/face-attendance/internal/store/dynamo"
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create the AWS resources the server needs",
	Long: `Create the DynamoDB tables, the S3 image bucket, and the Rekognition
collection. Resources that already exist are left untouched, so the
command is safe to run repeatedly and from automation.`,
	RunE: runProvision,
}

func init() {
	rootCmd.AddCommand(provisionCmd)
}

func runProvision(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	ctx := context.Background()
	clients, err := newAWSClients(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Creating identity table '%s'...\n", cfg.Storage.IdentityTable)
	if err := storedynamo.ProvisionIdentityTable(ctx, clients.dynamo, cfg.Storage.IdentityTable); err != nil {
		return fmt.Errorf("provision identity table: %w", err)
	}

	fmt.Printf("Creating attendance table '%s'...\n", cfg.Storage.AttendanceTable)
	if err := storedynamo.ProvisionAttendanceTable(ctx, clients.dynamo, cfg.Storage.AttendanceTable); err != nil {
		return fmt.Errorf("provision attendance table: %w", err)
	}

	fmt.Printf("Creating image bucket '%s'...\n", cfg.Storage.ImageBucket)
	if err := provisionBucket(ctx, clients.s3, cfg.Storage.ImageBucket, cfg.AWS.Region); err != nil {
		return fmt.Errorf("provision image bucket: %w", err)
	}

	fmt.Printf("Creating collection '%s'...\n", cfg.Recognition.CollectionID)
	gateway := recognition.NewRekognitionGateway(
		clients.rekognition,
		cfg.Recognition.CollectionID,
		cfg.Recognition.SimilarityPercent,
		cfg.Recognition.MaxSearchFaces,
	)
	if err := gateway.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("provision collection: %w", err)
	}

	fmt.Println("Done! All resources are ready.")
	return nil
}

// provisionBucket creates the bucket and tolerates it already existing
// under the same account.
func provisionBucket(ctx context.Context, client *s3.Client, bucket, region string) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	}
	// us-east-1 rejects an explicit location constraint.
	if region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(region),
		}
	}

	_, err := client.CreateBucket(ctx, input)
	var owned *s3types.BucketAlreadyOwnedByYou
	if errors.As(err, &owned) {
		return nil
	}
	return err
}
