package cli

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change stored settings",
	Long: `Settings are read from ~/.ghharvest/config.toml (or --config), then
overridden by the .env file, the GITHUB_TOKEN and GITHUB_API_URL environment
variables, and finally command-line flags.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored settings merged with defaults",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store a GitHub token in the config file",
	Long:  `Reads a GitHub token from the terminal without echo and stores it in the config file.`,
	Args:  cobra.NoArgs,
	RunE:  runSettingsSetToken,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsTokenCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return err
	}

	apiURL := settings.GitHub.APIURL
	if apiURL == "" {
		apiURL = "https://api.github.com/ (default)"
	}
	dataDir := settings.Output.DataDir
	if dataDir == "" {
		dataDir = "~/.ghharvest/data (default)"
	}
	formats := settings.Output.Formats
	if formats == "" {
		formats = "all (default)"
	}

	cmd.Println(styles.Title.Render("Settings"))
	cmd.Println(row("Config file", svc.Path()))
	cmd.Println(row("Token", maskToken(settings.GitHub.Token)))
	cmd.Println(row("API URL", apiURL))
	cmd.Println(row("Rate", strconv.Itoa(settings.Harvest.RequestsPerMinute)+" req/min"))
	cmd.Println(row("Max results", strconv.Itoa(settings.Harvest.MaxResults)))
	cmd.Println(row("Budget", strconv.Itoa(settings.Harvest.Budget)))
	cmd.Println(row("Max repositories", strconv.Itoa(settings.Harvest.MaxRepositories)))
	cmd.Println(row("Max commits", strconv.Itoa(settings.Harvest.MaxCommits)))
	cmd.Println(row("Output", settings.Output.Dir))
	cmd.Println(row("Data directory", dataDir))
	cmd.Println(row("Formats", formats))
	return nil
}

func runSettingsSetToken(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}

	cmd.Print("GitHub token: ")
	token := readPassword(cmd.InOrStdin())
	cmd.Println()
	if token == "" {
		return errors.New("token is required")
	}

	if err := svc.SetToken(token); err != nil {
		return err
	}
	cmd.Printf("Token saved to %s\n", svc.Path())
	return nil
}
