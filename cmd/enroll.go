package cmd

import (
	"fmt"
	"os"

	"github.com/kozaktomas/attendance-marker/internal/attendance"
	"github.com/kozaktomas/attendance-marker/internal/config"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <directory>",
	Short: "Enroll students from a directory of face photo folders",
	Long: `Enroll students from a local directory containing one folder per
student, named <roll_no>_<student_name>. Every image inside a folder
contributes one face embedding; the student is stored with the mean
embedding over all their photos.`,
	Args: cobra.ExactArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("class", "", "Class name (required)")
	enrollCmd.Flags().String("section", "", "Section (required)")
	enrollCmd.Flags().String("subject", "", "Subject (optional)")
	enrollCmd.Flags().Bool("json", false, "Output result as JSON")
	_ = enrollCmd.MarkFlagRequired("class")
	_ = enrollCmd.MarkFlagRequired("section")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	jsonOutput := mustGetBool(cmd, "json")

	service, store, err := newLocalService(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	dir := args[0]
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	folderCount := 0
	for _, entry := range entries {
		if entry.IsDir() {
			folderCount++
		}
	}

	var bar *progressbar.ProgressBar
	if !jsonOutput {
		fmt.Printf("Found %d student folders in %s\n\n", folderCount, dir)
		bar = progressbar.NewOptions(folderCount,
			progressbar.OptionSetDescription("Enrolling"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("students"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
		)
	}

	result, err := service.Enroll(cmd.Context(), attendance.EnrollParams{
		Dir:       dir,
		ClassName: mustGetString(cmd, "class"),
		Section:   mustGetString(cmd, "section"),
		Subject:   mustGetString(cmd, "subject"),
		OnFolder: func(string) {
			if bar != nil {
				_ = bar.Add(1)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("enrollment failed: %w", err)
	}

	if jsonOutput {
		return outputJSON(result)
	}

	fmt.Printf("\n\nEnrolled %d students\n", len(result.Enrolled))
	for _, s := range result.Enrolled {
		fmt.Printf("  %s  %s (%d images)\n", s.RollNo, s.Name, s.ImagesProcessed)
	}
	if len(result.Skipped) > 0 {
		fmt.Printf("\nSkipped %d folders\n", len(result.Skipped))
		for _, sk := range result.Skipped {
			fmt.Printf("  %s: %s\n", sk.Folder, sk.Reason)
		}
	}
	return nil
}
