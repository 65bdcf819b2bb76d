package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/semak-karangan-api/internal/database"
)

func newMigrateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the result and credit tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := app.database()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}

			app.Logger.Info().Msg("database migrated")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "migrasi selesai")
			return err
		},
	}
}
