package cmd

import (
	"errors"
	"fmt"

	"github.com/kozaktomas/attendance-marker/internal/config"
	"github.com/kozaktomas/attendance-marker/internal/database"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database maintenance",
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate all tables",
	Long: `Drop and recreate the students and attendance tables. All enrolled
students and attendance records are lost.`,
	RunE: runDBReset,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbResetCmd)

	dbResetCmd.Flags().Bool("force", false, "Skip confirmation")
}

func runDBReset(cmd *cobra.Command, args []string) error {
	if !mustGetBool(cmd, "force") {
		return errors.New("refusing to reset the database without --force")
	}

	cfg := config.Load()
	store, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if err := store.Reset(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}

	fmt.Printf("Database %s reset\n", cfg.Database.Path)
	return nil
}
