package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/architips/internal/core/domain"
)

var categoriesJSON bool

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories and their lock state",
	Long: `Lists every category in content order with its lock state and the number
of ads watched towards unlocking it.`,
	Args: cobra.NoArgs,
	RunE: runCategories,
}

var rulesCmd = &cobra.Command{
	Use:   "rules [category]",
	Short: "Show the rules of a category",
	Long: `Shows the rules of a category. The name is matched ignoring case.
Locked categories must be unlocked first.`,
	Args: cobra.ExactArgs(1),
	RunE: runRules,
}

var unlockCmd = &cobra.Command{
	Use:   "unlock [category]",
	Short: "Record a watched ad for a category",
	Long: `Records one rewarded ad view for a category. A category unlocks once
two ads have been watched.`,
	Args: cobra.ExactArgs(1),
	RunE: runUnlock,
}

var rulesAll bool

func init() {
	categoriesCmd.Flags().BoolVar(&categoriesJSON, "json", false, "output categories as JSON")
	rulesCmd.Flags().BoolVar(&rulesAll, "all", false, "show rules even if the category is locked")
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(unlockCmd)
}

func runCategories(cmd *cobra.Command, _ []string) error {
	if catalogueService == nil {
		return errors.New("catalogue service not configured")
	}

	categories, err := catalogueService.LoadCategories(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}

	if categoriesJSON {
		data, err := json.MarshalIndent(categories, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal categories: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(categories) == 0 {
		cmd.Println("No categories available.")
		return nil
	}

	for i := range categories {
		cmd.Printf("  %-40s %s\n", categories[i].Name, lockLabel(categories[i]))
	}
	return nil
}

func lockLabel(c domain.Category) string {
	if !c.Locked {
		return fmt.Sprintf("unlocked  %d rules", len(c.Rules))
	}
	return fmt.Sprintf("locked    %d/%d ads", c.AdsWatched, c.AdsRequiredToUnlock)
}

func runRules(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errors.New("catalogue service not configured")
	}
	ctx := commandContext(cmd)
	name := args[0]

	category, ok, err := findCategory(cmd, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("category %q: %w", name, domain.ErrNotFound)
	}
	if category.Locked && !rulesAll {
		cmd.Printf("%s is locked (%d/%d ads watched). Run 'architips unlock %q'.\n",
			category.Name, category.AdsWatched, category.AdsRequiredToUnlock, category.Name)
		return nil
	}

	rules := catalogueService.RulesFor(ctx, name)
	cmd.Printf("%s\n\n", category.Name)
	if len(rules) == 0 {
		cmd.Println("  No rules.")
		return nil
	}
	for i, r := range rules {
		cmd.Printf("  %d. %s%s\n", i+1, r.Text, favoriteMark(r))
	}
	return nil
}

func favoriteMark(r domain.Rule) string {
	if r.IsFavorite {
		return " ★"
	}
	return ""
}

// findCategory returns the first category matching name ignoring case.
func findCategory(cmd *cobra.Command, name string) (domain.Category, bool, error) {
	categories, err := catalogueService.LoadCategories(commandContext(cmd))
	if err != nil {
		return domain.Category{}, false, fmt.Errorf("loading categories: %w", err)
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			return categories[i], true, nil
		}
	}
	return domain.Category{}, false, nil
}

func runUnlock(cmd *cobra.Command, args []string) error {
	if catalogueService == nil {
		return errors.New("catalogue service not configured")
	}

	category, err := catalogueService.UnlockWithAd(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("unlock failed: %w", err)
	}

	if category.Locked {
		cmd.Printf("%s: %d/%d ads watched.\n", category.Name, category.AdsWatched, category.AdsRequiredToUnlock)
		return nil
	}
	cmd.Printf("%s is unlocked.\n", category.Name)
	return nil
}
