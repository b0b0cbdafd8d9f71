package recognition

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionAPI is the subset of the AWS Rekognition client the gateway uses.
type RekognitionAPI interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
	IndexFaces(ctx context.Context, params *rekognition.IndexFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.IndexFacesOutput, error)
	SearchFacesByImage(ctx context.Context, params *rekognition.SearchFacesByImageInput, optFns ...func(*rekognition.Options)) (*rekognition.SearchFacesByImageOutput, error)
	DescribeCollection(ctx context.Context, params *rekognition.DescribeCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.DescribeCollectionOutput, error)
	CreateCollection(ctx context.Context, params *rekognition.CreateCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.CreateCollectionOutput, error)
	DeleteCollection(ctx context.Context, params *rekognition.DeleteCollectionInput, optFns ...func(*rekognition.Options)) (*rekognition.DeleteCollectionOutput, error)
	ListFaces(ctx context.Context, params *rekognition.ListFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.ListFacesOutput, error)
	DeleteFaces(ctx context.Context, params *rekognition.DeleteFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DeleteFacesOutput, error)
}

// RekognitionGateway implements Gateway on AWS Rekognition.
type RekognitionGateway struct {
	client       RekognitionAPI
	collectionID string
	threshold    float64
	maxFaces     int32
}

var _ Gateway = &RekognitionGateway{}

// NewRekognitionGateway creates a gateway against one face collection.
// threshold is the minimum similarity percentage for Search matches.
func NewRekognitionGateway(client RekognitionAPI, collectionID string, threshold float64, maxFaces int32) *RekognitionGateway {
	if maxFaces <= 0 {
		maxFaces = 1
	}
	return &RekognitionGateway{
		client:       client,
		collectionID: collectionID,
		threshold:    threshold,
		maxFaces:     maxFaces,
	}
}

// Enroll detects a face in the image and indexes it under externalID.
// Detection runs first so a faceless image fails fast with
// ErrNoFaceDetected instead of being silently dropped by the indexer.
func (g *RekognitionGateway) Enroll(ctx context.Context, image []byte, externalID string) (string, error) {
	detected, err := g.client.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image: &types.Image{Bytes: image},
	})
	if err != nil {
		return "", fmt.Errorf("detect faces: %w", err)
	}
	if len(detected.FaceDetails) == 0 {
		return "", ErrNoFaceDetected
	}

	indexed, err := g.client.IndexFaces(ctx, &rekognition.IndexFacesInput{
		CollectionId:    aws.String(g.collectionID),
		Image:           &types.Image{Bytes: image},
		ExternalImageId: aws.String(externalID),
		MaxFaces:        aws.Int32(1),
		QualityFilter:   types.QualityFilterAuto,
	})
	if err != nil {
		// Detection already succeeded, so any indexing failure is an
		// enrollment failure the caller can recover from later.
		return "", fmt.Errorf("%w: index face: %v", ErrEnrollmentFailed, err)
	}
	if len(indexed.FaceRecords) == 0 || indexed.FaceRecords[0].Face == nil || indexed.FaceRecords[0].Face.FaceId == nil {
		return "", ErrEnrollmentFailed
	}
	return *indexed.FaceRecords[0].Face.FaceId, nil
}

// Search looks up the most similar enrolled face.
func (g *RekognitionGateway) Search(ctx context.Context, image []byte) (*Match, error) {
	out, err := g.client.SearchFacesByImage(ctx, &rekognition.SearchFacesByImageInput{
		CollectionId:       aws.String(g.collectionID),
		Image:              &types.Image{Bytes: image},
		MaxFaces:           aws.Int32(g.maxFaces),
		FaceMatchThreshold: aws.Float32(float32(g.threshold)),
	})
	if err != nil {
		// Rekognition reports a faceless probe image as a parameter error.
		var invalid *types.InvalidParameterException
		if errors.As(err, &invalid) {
			return nil, ErrNoFaceDetected
		}
		return nil, fmt.Errorf("search faces by image: %w", err)
	}
	if len(out.FaceMatches) == 0 {
		return nil, ErrNoMatch
	}

	best := out.FaceMatches[0]
	if best.Face == nil || best.Face.FaceId == nil {
		return nil, ErrNoMatch
	}
	match := &Match{FaceID: *best.Face.FaceId}
	if best.Similarity != nil {
		match.Similarity = float64(*best.Similarity)
	}
	return match, nil
}

// EnsureCollection creates the collection if it does not already exist.
func (g *RekognitionGateway) EnsureCollection(ctx context.Context) error {
	_, err := g.client.DescribeCollection(ctx, &rekognition.DescribeCollectionInput{
		CollectionId: aws.String(g.collectionID),
	})
	if err == nil {
		return nil
	}
	var notFound *types.ResourceNotFoundException
	if !errors.As(err, &notFound) {
		return fmt.Errorf("describe collection %s: %w", g.collectionID, err)
	}

	_, err = g.client.CreateCollection(ctx, &rekognition.CreateCollectionInput{
		CollectionId: aws.String(g.collectionID),
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", g.collectionID, err)
	}
	return nil
}

// ListFaces returns every enrolled face in the collection.
func (g *RekognitionGateway) ListFaces(ctx context.Context) ([]Face, error) {
	var faces []Face
	var next *string
	for {
		out, err := g.client.ListFaces(ctx, &rekognition.ListFacesInput{
			CollectionId: aws.String(g.collectionID),
			NextToken:    next,
		})
		if err != nil {
			return nil, fmt.Errorf("list faces: %w", err)
		}
		for _, f := range out.Faces {
			face := Face{}
			if f.FaceId != nil {
				face.FaceID = *f.FaceId
			}
			if f.ExternalImageId != nil {
				face.ExternalImageID = *f.ExternalImageId
			}
			faces = append(faces, face)
		}
		if out.NextToken == nil {
			break
		}
		next = out.NextToken
	}
	return faces, nil
}

// DeleteFaces removes the given face ids from the collection.
func (g *RekognitionGateway) DeleteFaces(ctx context.Context, faceIDs []string) error {
	if len(faceIDs) == 0 {
		return nil
	}
	_, err := g.client.DeleteFaces(ctx, &rekognition.DeleteFacesInput{
		CollectionId: aws.String(g.collectionID),
		FaceIds:      faceIDs,
	})
	if err != nil {
		return fmt.Errorf("delete faces: %w", err)
	}
	return nil
}

// Reset drops and recreates the collection.
func (g *RekognitionGateway) Reset(ctx context.Context) error {
	_, err := g.client.DeleteCollection(ctx, &rekognition.DeleteCollectionInput{
		CollectionId: aws.String(g.collectionID),
	})
	if err != nil {
		var notFound *types.ResourceNotFoundException
		if !errors.As(err, &notFound) {
			return fmt.Errorf("delete collection %s: %w", g.collectionID, err)
		}
	}
	_, err = g.client.CreateCollection(ctx, &rekognition.CreateCollectionInput{
		CollectionId: aws.String(g.collectionID),
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", g.collectionID, err)
	}
	return nil
}
