package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect or reset unlock state",
}

var ledgerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the unlock state of every category",
	Args:  cobra.NoArgs,
	RunE:  runLedgerShow,
}

var ledgerResetForce bool

var ledgerResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all unlock state",
	Long: `Clears every category's unlock state and the first-launch flag. The next
time categories are loaded they are seeded again as on a fresh install.`,
	Args: cobra.NoArgs,
	RunE: runLedgerReset,
}

func init() {
	ledgerResetCmd.Flags().BoolVarP(&ledgerResetForce, "force", "f", false, "skip confirmation")
	ledgerCmd.AddCommand(ledgerShowCmd)
	ledgerCmd.AddCommand(ledgerResetCmd)
	rootCmd.AddCommand(ledgerCmd)
}

func runLedgerShow(cmd *cobra.Command, _ []string) error {
	if ledgerService == nil || catalogueService == nil {
		return errors.New("ledger service not configured")
	}

	categories, err := catalogueService.LoadCategories(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}

	for i := range categories {
		state := ledgerService.State(categories[i].Name)
		status := "unlocked"
		if state.Locked {
			status = "locked"
		}
		cmd.Printf("  %-40s %-9s ads=%d\n", categories[i].Name, status, state.AdsWatched)
	}
	return nil
}

func runLedgerReset(cmd *cobra.Command, _ []string) error {
	if ledgerService == nil {
		return errors.New("ledger service not configured")
	}

	if !ledgerResetForce {
		cmd.Print("This clears all unlock progress. Continue? [y/N]: ")
		var answer string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
		if answer != "y" && answer != "Y" {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := ledgerService.Reset(); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	cmd.Println("Unlock state cleared.")
	return nil
}
