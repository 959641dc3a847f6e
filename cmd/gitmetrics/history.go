package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoughtful-solutions/metrics/internal/output"
	"github.com/thoughtful-solutions/metrics/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and inspect stored truck factor runs",
	Long: `Work with runs recorded by 'truckfactor --save'. Without a subcommand,
lists them newest first. Run IDs may be abbreviated to any unique
prefix, such as the eight characters the listing shows.

Examples:
  gitmetrics history
  gitmetrics history show 4f8c02aa
  gitmetrics history delete 4f8c02aa`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one stored run with its simulated removals",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Delete a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum runs listed (0 = all)")
	historyCmd.Flags().String("format", "table", "output format: table, json, csv")
	historyShowCmd.Flags().String("format", "table", "output format: table, json, csv")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	limit, _ := cmd.Flags().GetInt("limit")
	formatFlag, _ := cmd.Flags().GetString("format")

	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	return output.NewHistoryFormatter(format).FormatList(os.Stdout, runs)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := output.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := resolveRunID(ctx, store, args[0])
	if err != nil {
		return err
	}
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}

	return output.NewHistoryFormatter(format).FormatRun(os.Stdout, run)
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := resolveRunID(ctx, store, args[0])
	if err != nil {
		return err
	}
	if err := store.DeleteRun(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s\n", id)
	return nil
}

// resolveRunID expands an abbreviated run ID to the full one. Exact IDs
// pass through without a listing round trip.
func resolveRunID(ctx context.Context, store storage.Store, id string) (string, error) {
	if _, err := store.GetRun(ctx, id); err == nil {
		return id, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, run := range runs {
		if strings.HasPrefix(run.ID, id) {
			matches = append(matches, run.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("run %q: %w", id, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("run ID %q is ambiguous (%d matches)", id, len(matches))
	}
}
