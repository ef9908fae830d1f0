package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/kozaktomas/attendance-marker/internal/attendance"
	"github.com/kozaktomas/attendance-marker/internal/config"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var markCmd = &cobra.Command{
	Use:   "mark <directory>",
	Short: "Mark attendance from a directory of classroom photos",
	Long: `Run the matching pipeline over a local directory of classroom
photos. Every detected face is matched against the enrolled students of
the given class; the best match at or above the threshold marks that
student present, at most once per run.`,
	Args: cobra.ExactArgs(1),
	RunE: runMark,
}

func init() {
	rootCmd.AddCommand(markCmd)

	markCmd.Flags().String("class", "", "Class name (required)")
	markCmd.Flags().String("section", "", "Section (required)")
	markCmd.Flags().String("subject", "", "Subject (optional)")
	markCmd.Flags().Float64("threshold", 0.3, "Similarity threshold for accepting a match")
	markCmd.Flags().Bool("json", false, "Output result as JSON")
	_ = markCmd.MarkFlagRequired("class")
	_ = markCmd.MarkFlagRequired("section")
}

// countImages walks dir and counts image files so the progress bar has a
// total before the run starts.
func countImages(dir string, extensions []string) int {
	count := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		for _, allowed := range extensions {
			if ext == allowed {
				count++
				break
			}
		}
		return nil
	})
	return count
}

func runMark(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	jsonOutput := mustGetBool(cmd, "json")

	threshold := cfg.Matching.DefaultThreshold
	if cmd.Flags().Changed("threshold") {
		threshold = mustGetFloat64(cmd, "threshold")
	}

	service, store, err := newLocalService(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	dir := args[0]
	var bar *progressbar.ProgressBar
	if !jsonOutput {
		total := countImages(dir, cfg.Matching.ImageExtensions)
		fmt.Printf("Matching %d photos with threshold %.2f\n\n", total, threshold)
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Matching"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("photos"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
		)
	}

	result, err := service.Mark(cmd.Context(), attendance.MarkParams{
		Dir:       dir,
		ClassName: mustGetString(cmd, "class"),
		Section:   mustGetString(cmd, "section"),
		Subject:   mustGetString(cmd, "subject"),
		Threshold: threshold,
		OnPhoto: func(string) {
			if bar != nil {
				_ = bar.Add(1)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("matching run failed: %w", err)
	}

	if jsonOutput {
		return outputJSON(result)
	}

	fmt.Printf("\n\nMarked %d students present\n", len(result.Marked))
	for _, m := range result.Marked {
		fmt.Printf("  %s  %s (similarity %.4f)\n", m.RollNo, m.Name, m.Similarity)
	}
	return nil
}
