package config

import (
	"os"
	"strconv"
)

type Config struct {
	AWS         AWSConfig
	Recognition RecognitionConfig
	Storage     StorageConfig
	Server      ServerConfig
}

type AWSConfig struct {
	Region string // defaults to us-east-1
}

type RecognitionConfig struct {
	CollectionID      string  // Rekognition collection holding enrolled faces
	SimilarityPercent float64 // match threshold for SearchFacesByImage (default 80)
	MaxSearchFaces    int32   // candidates requested per search (default 1)
}

type StorageConfig struct {
	IdentityTable   string // DynamoDB table for registered identities
	AttendanceTable string // DynamoDB table for attendance records
	ImageBucket     string // S3 bucket for uploaded face images
}

type ServerConfig struct {
	Host           string
	Port           int
	RateLimitRPS   int // per-client requests per second on mutating endpoints
	RateLimitBurst int
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envString reads an environment variable with a fallback default.
func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		AWS: AWSConfig{
			Region: envString("AWS_REGION", "us-east-1"),
		},
		Recognition: RecognitionConfig{
			CollectionID:      envString("REKOGNITION_COLLECTION_ID", "face-collection"),
			SimilarityPercent: envFloat("FACE_MATCH_THRESHOLD", 80),
			MaxSearchFaces:    int32(envInt("FACE_MATCH_MAX_FACES", 1)),
		},
		Storage: StorageConfig{
			IdentityTable:   envString("IDENTITY_TABLE", "face-metadata"),
			AttendanceTable: envString("ATTENDANCE_TABLE", "attendance-records"),
			ImageBucket:     envString("IMAGE_BUCKET", "facial-recognition-data-bucket"),
		},
		Server: ServerConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", 8080),
			RateLimitRPS:   envInt("RATE_LIMIT_RPS", 10),
			RateLimitBurst: envInt("RATE_LIMIT_BURST", 20),
		},
	}
}
