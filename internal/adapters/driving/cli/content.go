package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage the local content file",
}

var contentStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which content is in use",
	Args:  cobra.NoArgs,
	RunE:  runContentStatus,
}

var contentRevertCmd = &cobra.Command{
	Use:   "revert",
	Short: "Discard downloaded content and use the bundled copy",
	Args:  cobra.NoArgs,
	RunE:  runContentRevert,
}

var contentImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the local content with a file",
	Long: `Validates a content file and installs it as the local override, exactly as
a successful download would.`,
	Args: cobra.ExactArgs(1),
	RunE: runContentImport,
}

var (
	sortOrderFile string
	sortOutFile   string
)

var contentSortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Reorder categories",
	Long: `Writes the current content with categories reordered. The order file lists
one category name per line; categories it does not mention keep their
relative order after the listed ones.`,
	Args: cobra.NoArgs,
	RunE: runContentSort,
}

func init() {
	contentSortCmd.Flags().StringVar(&sortOrderFile, "order-file", "", "file with one category name per line")
	contentSortCmd.Flags().StringVarP(&sortOutFile, "out", "o", "", "output file (default stdout)")
	_ = contentSortCmd.MarkFlagRequired("order-file")

	contentCmd.AddCommand(contentStatusCmd)
	contentCmd.AddCommand(contentRevertCmd)
	contentCmd.AddCommand(contentImportCmd)
	contentCmd.AddCommand(contentSortCmd)
	rootCmd.AddCommand(contentCmd)
}

func runContentStatus(cmd *cobra.Command, _ []string) error {
	if contentService == nil {
		return errors.New("content service not configured")
	}

	source := "bundled"
	if contentService.HasOverride() {
		source = "downloaded"
	}
	categories := contentService.Categories(commandContext(cmd))
	rules := 0
	for _, c := range categories {
		rules += len(c.Rules)
	}
	cmd.Printf("Source: %s\n", source)
	cmd.Printf("Categories: %d\n", len(categories))
	cmd.Printf("Rules: %d\n", rules)
	return nil
}

func runContentRevert(cmd *cobra.Command, _ []string) error {
	if contentService == nil {
		return errors.New("content service not configured")
	}
	if !contentService.HasOverride() {
		cmd.Println("Already using bundled content.")
		return nil
	}
	if err := contentService.Revert(commandContext(cmd)); err != nil {
		return fmt.Errorf("revert failed: %w", err)
	}
	cmd.Println("Reverted to bundled content.")
	return nil
}

func runContentImport(cmd *cobra.Command, args []string) error {
	if contentService == nil {
		return errors.New("content service not configured")
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	n, err := contentService.Import(commandContext(cmd), data)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	cmd.Printf("Imported %d categories.\n", n)
	return nil
}

func runContentSort(cmd *cobra.Command, _ []string) error {
	if contentService == nil {
		return errors.New("content service not configured")
	}

	order, err := readOrderFile(sortOrderFile)
	if err != nil {
		return err
	}
	out, err := contentService.Sorted(commandContext(cmd), order)
	if err != nil {
		return fmt.Errorf("sort failed: %w", err)
	}

	if sortOutFile == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(sortOutFile, out, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", sortOutFile, err)
	}
	cmd.Printf("Wrote %s\n", sortOutFile)
	return nil
}

// readOrderFile returns the non-blank lines of path, trimmed.
func readOrderFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading order file: %w", err)
	}

	var order []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			order = append(order, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading order file: %w", err)
	}
	return order, nil
}
