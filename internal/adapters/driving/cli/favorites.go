package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/architips/internal/core/domain"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage favourite rules",
	RunE:    runFavoritesList,
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favourite rules",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add [category] [rule]",
	Short: "Mark a rule as favourite",
	Long: `Marks a rule as favourite. The rule is given by its text or by its
1-based number as shown by 'architips rules'.`,
	Args: cobra.ExactArgs(2),
	RunE: runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove [category] [rule]",
	Short: "Remove a rule from favourites",
	Args:  cobra.ExactArgs(2),
	RunE:  runFavoritesRemove,
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle [category] [rule]",
	Short: "Toggle a rule's favourite status",
	Args:  cobra.ExactArgs(2),
	RunE:  runFavoritesToggle,
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesToggleCmd)
	rootCmd.AddCommand(favoritesCmd)
}

func runFavoritesList(cmd *cobra.Command, _ []string) error {
	if favoritesService == nil {
		return errors.New("favorites service not configured")
	}

	favorites, err := favoritesService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("listing favorites: %w", err)
	}
	if len(favorites) == 0 {
		cmd.Println("No favourites yet.")
		return nil
	}

	current := ""
	for _, f := range favorites {
		if f.Category != current {
			cmd.Printf("%s\n", f.Category)
			current = f.Category
		}
		cmd.Printf("  - %s\n", f.Text)
	}
	return nil
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	key, err := resolveRule(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	if err := favoritesService.Add(commandContext(cmd), key); err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}
	cmd.Printf("Added to favourites: %s\n", key.Text)
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	key, err := resolveRule(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	if err := favoritesService.Remove(commandContext(cmd), key); err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}
	cmd.Printf("Removed from favourites: %s\n", key.Text)
	return nil
}

func runFavoritesToggle(cmd *cobra.Command, args []string) error {
	key, err := resolveRule(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	on, err := favoritesService.Toggle(commandContext(cmd), key)
	if err != nil {
		return fmt.Errorf("toggling favorite: %w", err)
	}
	if on {
		cmd.Printf("Added to favourites: %s\n", key.Text)
	} else {
		cmd.Printf("Removed from favourites: %s\n", key.Text)
	}
	return nil
}

// resolveRule maps a category name and a rule text or number onto a
// favourites key using the category's canonical name.
func resolveRule(cmd *cobra.Command, category, rule string) (domain.FavoriteKey, error) {
	if favoritesService == nil || catalogueService == nil {
		return domain.FavoriteKey{}, errors.New("favorites service not configured")
	}

	rules := catalogueService.RulesFor(commandContext(cmd), category)
	if len(rules) == 0 {
		return domain.FavoriteKey{}, fmt.Errorf("category %q has no rules: %w", category, domain.ErrNotFound)
	}

	if n, err := strconv.Atoi(rule); err == nil {
		if n < 1 || n > len(rules) {
			return domain.FavoriteKey{}, fmt.Errorf("%w: rule number must be between 1 and %d",
				domain.ErrInvalidInput, len(rules))
		}
		return rules[n-1].Key(), nil
	}

	for _, r := range rules {
		if r.Text == rule {
			return r.Key(), nil
		}
	}
	return domain.FavoriteKey{}, fmt.Errorf("rule %q in %q: %w", rule, category, domain.ErrNotFound)
}
