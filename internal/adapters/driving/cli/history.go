package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

var (
	historyLimit int
	historyFlags domain.Settings
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List past runs or show the records of one run",
	Long: `Without arguments, lists stored runs, most recent first.
With a run ID (or a unique prefix of one), prints the records that run wrote.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list (0 for all)")
	historyCmd.Flags().StringVar(&historyFlags.Output.DataDir, "data-dir", "",
		"Directory of the run history database (default ~/.ghharvest/data)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if services.OpenHistory == nil {
		return errors.New("history service not configured")
	}

	settings, err := resolveSettings(cmd, historyFlags)
	if err != nil {
		return err
	}

	history, err := services.OpenHistory(settings)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer history.Close()

	ctx := cmd.Context()

	if len(args) == 1 {
		records, err := history.RunRecords(ctx, args[0])
		if err != nil {
			return err
		}
		if len(records) == 0 {
			cmd.Println("No records stored for this run.")
			return nil
		}
		t := newTable()
		t.AppendHeader(table.Row{"User", "Email", "Source", "Repository", "Commit"})
		for _, r := range records {
			t.AppendRow(table.Row{r.Username, r.Email, r.Source, r.Repository, r.CommitSHA})
		}
		cmd.Println(t.Render())
		return nil
	}

	runs, err := history.ListRuns(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"Run", "Started", "Records", "Query"})
	for _, run := range runs {
		t.AppendRow(table.Row{run.ID, run.StartedAt.Local().Format(time.DateTime), run.Records, run.Query})
	}
	cmd.Println(styles.Title.Render("Runs"))
	cmd.Println(t.Render())
	return nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

