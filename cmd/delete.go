package cmd

import (
	"errors"
	"fmt"

	"github.com/kozaktomas/attendance-marker/internal/config"
	"github.com/kozaktomas/attendance-marker/internal/database"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete enrolled students and their attendance records",
}

var deleteStudentCmd = &cobra.Command{
	Use:   "student <roll_no>",
	Short: "Delete one student and their attendance history",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeleteStudent,
}

var deleteClassCmd = &cobra.Command{
	Use:   "class <class_name>",
	Short: "Delete all students and attendance for a class",
	Long: `Delete all students and attendance records for a class, optionally
narrowed by section and then subject. A subject filter requires a section.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeleteClass,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
	deleteCmd.AddCommand(deleteStudentCmd)
	deleteCmd.AddCommand(deleteClassCmd)

	deleteClassCmd.Flags().String("section", "", "Limit deletion to one section")
	deleteClassCmd.Flags().String("subject", "", "Limit deletion to one subject (requires --section)")
}

func runDeleteStudent(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	store, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	rollNo := args[0]
	deleted, err := store.DeleteStudent(cmd.Context(), rollNo)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if !deleted {
		return fmt.Errorf("student %s not found", rollNo)
	}

	fmt.Printf("Deleted student %s and their attendance history\n", rollNo)
	return nil
}

func runDeleteClass(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	section := mustGetString(cmd, "section")
	subject := mustGetString(cmd, "subject")
	if subject != "" && section == "" {
		return errors.New("--subject requires --section")
	}

	store, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	className := args[0]
	deleted, err := store.DeleteClassData(cmd.Context(), className, section, subject)
	if err != nil {
		return fmt.Errorf("failed to delete class data: %w", err)
	}
	if !deleted {
		return errors.New("no matching data found to delete")
	}

	fmt.Printf("Deleted all data for class %s\n", className)
	return nil
}
