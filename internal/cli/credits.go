package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newCreditsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Inspect and top up credit accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "balance <uid>",
		Short: "Show the balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			credits, err := app.creditService()
			if err != nil {
				return err
			}

			balance, err := credits.Balance(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			return printBalance(cmd, balance.UID, balance.Balance)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "grant <uid> <amount>",
		Short: "Add credits to an account, creating it if needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid := strings.TrimSpace(args[0])
			if uid == "" {
				return fmt.Errorf("uid must not be empty")
			}
			amount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("amount must be a whole number: %w", err)
			}

			credits, err := app.creditService()
			if err != nil {
				return err
			}

			balance, err := credits.Credit(cmd.Context(), uid, amount)
			if err != nil {
				return err
			}
			return printBalance(cmd, uid, balance)
		},
	})

	return cmd
}

func printBalance(cmd *cobra.Command, uid string, balance int) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"UID", "Baki"})
	t.AppendRow(table.Row{uid, balance})
	_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return err
}
