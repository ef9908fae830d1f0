package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kozaktomas/attendance-marker/internal/config"
	"github.com/kozaktomas/attendance-marker/internal/database"
	"github.com/spf13/cobra"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "List logged attendance records",
	Long:  `Retrieves and displays attendance records, newest first, optionally filtered by class and section.`,
	RunE:  runAttendance,
}

func init() {
	rootCmd.AddCommand(attendanceCmd)

	attendanceCmd.Flags().String("class", "", "Filter by class name")
	attendanceCmd.Flags().String("section", "", "Filter by section")
	attendanceCmd.Flags().Bool("json", false, "Output result as JSON")
}

func runAttendance(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	store, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	records, err := store.ListAttendance(cmd.Context(),
		mustGetString(cmd, "class"), mustGetString(cmd, "section"))
	if err != nil {
		return fmt.Errorf("failed to list attendance records: %w", err)
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(records)
	}

	if len(records) == 0 {
		fmt.Println("No attendance records found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTIME\tROLL NO\tNAME\tCLASS\tSECTION\tSUBJECT\tSCORE")
	fmt.Fprintln(w, "----\t----\t-------\t----\t-----\t-------\t-------\t-----")

	for i := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.4f\n",
			records[i].Date, records[i].Time, records[i].RollNo, records[i].StudentName,
			records[i].ClassName, records[i].Section, records[i].Subject, records[i].SimilarityScore)
	}

	w.Flush()

	fmt.Printf("\nTotal: %d records\n", len(records))

	return nil
}
