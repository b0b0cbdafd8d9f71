package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-attendance",
	Short: "A facial recognition attendance tracker",
	Long: `Face Attendance is a server and toolbox for tracking attendance with
facial recognition. People register once with a photo; after that a single
camera capture checks them in or out. Face matching is delegated to AWS
Rekognition, identities and attendance records live in DynamoDB, and face
images are kept in S3.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
