package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/services"
)

var (
	searchJSON        bool
	searchInteractive bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search categories and rules",
	Long: `Searches category names and rule texts for the query, ignoring case.
A category is listed when its name or any of its rules match; only the
matching rules are shown.

With --interactive, each line read from stdin replaces the previous query.
Queries run after a short pause and only the latest one is printed.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if searchInteractive {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "read queries line by line from stdin")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}
	if searchInteractive {
		return runInteractiveSearch(cmd, cmd.InOrStdin())
	}

	query := args[0]
	results, err := searchService.Search(commandContext(cmd), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printSearchResults(cmd.OutOrStdout(), query, results)
	return nil
}

func printSearchResults(w io.Writer, query string, results []domain.Category) {
	fmt.Fprintln(w, domain.SearchBanner(query, results))
	for i := range results {
		fmt.Fprintf(w, "\n  %s\n", results[i].Name)
		for _, r := range results[i].Rules {
			fmt.Fprintf(w, "    - %s%s\n", r.Text, favoriteMark(r))
		}
	}
}

func runInteractiveSearch(cmd *cobra.Command, in io.Reader) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	var latest, published atomic.Uint64
	signal := make(chan struct{}, 1)

	session := services.NewSearchSession(ctx, searchService, services.DefaultSearchDebounce,
		func(r services.SearchResult) {
			switch {
			case r.Err != nil:
				fmt.Fprintf(out, "search failed: %v\n", r.Err)
			case r.Query != "":
				printSearchResults(out, r.Query, r.Categories)
			}
			published.Store(r.Generation)
			select {
			case signal <- struct{}{}:
			default:
			}
		})
	defer session.Close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		latest.Store(session.Submit(strings.TrimSpace(scanner.Text())))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading queries: %w", err)
	}

	if latest.Load() == 0 {
		return nil
	}
	for published.Load() != latest.Load() {
		select {
		case <-signal:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
