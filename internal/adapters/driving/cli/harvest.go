package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driving"
)

var harvestFlags struct {
	location     string
	languages    string
	minFollowers int
	created      string
	repos        string
	askToken     bool
	dryRun       bool
	settings     domain.Settings
}

var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Search for users and collect their public contact addresses",
	Long: `Searches GitHub users by location and language, then visits each
account in turn: profile, homepage, owned repositories and the account's
own commits. At least one of --location or --languages is required.

Results are written to emails.txt, emails.csv, emails.json and
by_category/ in the output directory. Records already written by an
earlier run are skipped.`,
	Example: `  ghharvest harvest --location "Berlin" --languages go,rust --max-results 50
  ghharvest harvest --languages python --min-followers 100 --dry-run`,
	Args: cobra.NoArgs,
	RunE: runHarvest,
}

func init() {
	f := harvestCmd.Flags()
	f.StringVar(&harvestFlags.location, "location", "", "Location filter, e.g. \"San Francisco\"")
	f.StringVar(&harvestFlags.languages, "languages", "", "Comma-separated language filter, e.g. go,rust")
	f.IntVar(&harvestFlags.minFollowers, "min-followers", 0, "Minimum follower count")
	f.StringVar(&harvestFlags.created, "created", "", "Account creation filter, e.g. >2020-01-01")
	f.StringVar(&harvestFlags.repos, "repo", "", "Public repository count filter, e.g. >10")
	f.IntVar(&harvestFlags.settings.Harvest.MaxResults, "max-results", domain.DefaultMaxResults,
		"Maximum number of accounts to process")
	f.StringVar(&harvestFlags.settings.GitHub.Token, "token", "", "GitHub token (default $GITHUB_TOKEN)")
	f.BoolVar(&harvestFlags.askToken, "ask-token", false, "Prompt for the GitHub token")
	f.StringVar(&harvestFlags.settings.GitHub.APIURL, "api-url", "",
		"GitHub API base URL (default $GITHUB_API_URL or https://api.github.com/)")
	f.StringVarP(&harvestFlags.settings.Output.Dir, "output", "o", domain.DefaultOutputDir, "Output directory")
	f.StringVar(&harvestFlags.settings.Output.DataDir, "data-dir", "",
		"Directory of the run history database (default ~/.ghharvest/data)")
	f.StringVar(&harvestFlags.settings.Output.Formats, "formats", "",
		"Comma-separated output formats: txt, json, csv, category (default all)")
	f.BoolVar(&harvestFlags.dryRun, "dry-run", false,
		"Harvest without writing files or history; an existing history is still read")
	f.IntVar(&harvestFlags.settings.Harvest.RequestsPerMinute, "rate", domain.DefaultRequestsPerMinute,
		"Maximum requests per minute")
	f.IntVar(&harvestFlags.settings.Harvest.Budget, "budget", domain.DefaultBudget,
		"Stop an account after this many addresses (0 for no limit)")
	f.IntVar(&harvestFlags.settings.Harvest.MaxRepositories, "max-repos", domain.DefaultMaxRepositories,
		"Repositories examined per account")
	f.IntVar(&harvestFlags.settings.Harvest.MaxCommits, "max-commits", domain.DefaultMaxCommits,
		"Commits examined per repository")

	rootCmd.AddCommand(harvestCmd)
}

func runHarvest(cmd *cobra.Command, _ []string) error {
	criteria := domain.Criteria{
		Location:     strings.TrimSpace(harvestFlags.location),
		Languages:    domain.ParseLanguages(harvestFlags.languages),
		MinFollowers: harvestFlags.minFollowers,
		Created:      strings.TrimSpace(harvestFlags.created),
		Repos:        strings.TrimSpace(harvestFlags.repos),
	}
	if err := criteria.Validate(); err != nil {
		return err
	}

	if services.NewRunner == nil {
		return errors.New("harvest service not configured")
	}

	settings, err := resolveSettings(cmd, harvestFlags.settings)
	if err != nil {
		return err
	}
	if harvestFlags.askToken {
		cmd.Print("GitHub token: ")
		settings.GitHub.Token = readPassword(cmd.InOrStdin())
		cmd.Println()
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := newProgressPrinter(cmd)
	runner, closeRunner, err := services.NewRunner(settings, harvestFlags.dryRun, progress)
	if err != nil {
		return fmt.Errorf("setting up harvest: %w", err)
	}
	defer closeRunner() //nolint:errcheck

	printHeader(cmd, criteria, settings)

	summary, _, err := runner.Run(ctx, driving.RunOptions{
		Criteria:    criteria,
		MaxAccounts: settings.Harvest.MaxResults,
		DryRun:      harvestFlags.dryRun,
	})
	if summary != nil {
		printSummary(cmd, summary, settings, harvestFlags.dryRun)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errInterrupted
		}
		return err
	}
	return nil
}

func printHeader(cmd *cobra.Command, criteria domain.Criteria, settings domain.Settings) {
	auth := "unauthenticated"
	if settings.GitHub.Token != "" {
		auth = "token"
	}

	cmd.Println(styles.Title.Render("GitHub email harvest"))
	cmd.Println(row("Query", criteria.Query()))
	cmd.Println(row("Max accounts", strconv.Itoa(settings.Harvest.MaxResults)))
	cmd.Println(row("Rate", fmt.Sprintf("%d req/min", settings.Harvest.RequestsPerMinute)))
	cmd.Println(row("Auth", auth))
	if settings.GitHub.Token == "" {
		cmd.Println(styles.Warning.Render("No token set: the anonymous search quota is very low."))
	}
	cmd.Println()
}

func printSummary(cmd *cobra.Command, summary *domain.RunSummary, settings domain.Settings, dryRun bool) {
	lines := []string{
		styles.Title.Render("Summary"),
		row("Run", summary.RunID),
		row("Users processed", strconv.Itoa(summary.AccountsProcessed)),
		row("Users failed", strconv.Itoa(summary.AccountsFailed)),
		row("Records", strconv.Itoa(summary.Records)),
		row("New records", strconv.Itoa(summary.NewRecords)),
		row("Unique emails found", strconv.Itoa(summary.UniqueEmails)),
	}

	switch {
	case dryRun:
		lines = append(lines, styles.Muted.Render(
			fmt.Sprintf("Dry run: would write %d record(s)", summary.NewRecords)))
	default:
		lines = append(lines, row("Output", settings.Output.Dir))
	}
	if summary.Interrupted {
		lines = append(lines, styles.Warning.Render("Interrupted: results cover completed accounts only"))
	}

	cmd.Println()
	cmd.Println(styles.Box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
}
