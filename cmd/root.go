package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "attendance-marker",
	Short: "A face-recognition attendance backend for classrooms",
	Long: `Attendance Marker enrolls students from folders of face photos,
matches faces found in classroom photos against the enrolled students
and logs attendance records in SQLite. Face detection and embedding
extraction are delegated to an external embedding service.`,
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
