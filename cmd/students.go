package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kozaktomas/attendance-marker/internal/config"
	"github.com/kozaktomas/attendance-marker/internal/database"
	"github.com/spf13/cobra"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List enrolled students",
	Long:  `Retrieves and displays enrolled students, optionally filtered by class, section and subject.`,
	RunE:  runStudents,
}

func init() {
	rootCmd.AddCommand(studentsCmd)

	studentsCmd.Flags().String("class", "", "Filter by class name")
	studentsCmd.Flags().String("section", "", "Filter by section")
	studentsCmd.Flags().String("subject", "", "Filter by subject")
	studentsCmd.Flags().Bool("json", false, "Output result as JSON")
}

func runStudents(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	store, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	students, err := store.ListStudents(cmd.Context(),
		mustGetString(cmd, "class"), mustGetString(cmd, "section"), mustGetString(cmd, "subject"))
	if err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}

	if mustGetBool(cmd, "json") {
		return outputJSON(students)
	}

	if len(students) == 0 {
		fmt.Println("No students found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROLL NO\tNAME\tCLASS\tSECTION\tSUBJECT")
	fmt.Fprintln(w, "-------\t----\t-----\t-------\t-------")

	for i := range students {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			students[i].RollNo, students[i].Name, students[i].ClassName, students[i].Section, students[i].Subject)
	}

	w.Flush()

	fmt.Printf("\nTotal: %d students\n", len(students))

	return nil
}
