package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brandassets/dam/pkg/configuration"
)

// NewUtilityCommands builds the operational commands exposed by the cli
// binary.
func NewUtilityCommands() []*cobra.Command {
	return []*cobra.Command{
		newMigrateCmd(),
		newSeedSuperadminCmd(),
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Migrate(cmd.Context(), configuration.Use().MigrationsDir)
		},
	}
}

func newSeedSuperadminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed_superadmin <email> <password>",
		Short: "Create a user and add them to the system-admin registry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := SeedSuperadmin(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("system admin %s ready\n", args[0])
			return nil
		},
	}
	return cmd
}
