package cmd

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kozaktomas/face-attendance/internal/attendance"
	"github.com/kozaktomas/face-attendance/internal/blob"
	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/metrics"
	"github.com/kozaktomas/face-attendance/internal/recognition"
	"github.com/kozaktomas/face-attendance/internal/registration"
	storedynamo "github.com/kozaktomas/face-attendance/internal/store/dynamo"
	"github.com/kozaktomas/face-attendance/internal/verification"
	"github.com/kozaktomas/face-attendance/internal/web"
)

// awsClients bundles the AWS service clients the commands share.
type awsClients struct {
	dynamo      *dynamodb.Client
	s3          *s3.Client
	rekognition *rekognition.Client
}

func newAWSClients(ctx context.Context, cfg *config.Config) (*awsClients, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &awsClients{
		dynamo:      dynamodb.NewFromConfig(awsCfg),
		s3:          s3.NewFromConfig(awsCfg),
		rekognition: rekognition.NewFromConfig(awsCfg),
	}, nil
}

// buildServices wires the domain services on top of the AWS clients.
func buildServices(cfg *config.Config, clients *awsClients, rec metrics.Recorder, logger *slog.Logger) web.Services {
	identities := storedynamo.NewIdentityRepository(clients.dynamo, cfg.Storage.IdentityTable)
	log := storedynamo.NewAttendanceRepository(clients.dynamo, cfg.Storage.AttendanceTable)
	blobs := blob.NewS3Store(clients.s3, cfg.Storage.ImageBucket)
	gateway := recognition.NewRekognitionGateway(
		clients.rekognition,
		cfg.Recognition.CollectionID,
		cfg.Recognition.SimilarityPercent,
		cfg.Recognition.MaxSearchFaces,
	)

	return web.Services{
		Registration: registration.NewService(identities, blobs, gateway, rec, logger),
		Verification: verification.NewService(identities, gateway, rec, logger),
		Attendance:   attendance.NewService(log, rec, logger),
	}
}
