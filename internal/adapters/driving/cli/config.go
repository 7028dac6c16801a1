package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driving"
	"github.com/custodia-labs/ghharvest/internal/logger"
)

// Environment variables read on top of the config file.
//
//nolint:gosec // G101: variable names, not credentials.
const (
	envToken  = "GITHUB_TOKEN"
	envAPIURL = "GITHUB_API_URL"
)

// settingsService opens the configured settings service.
func settingsService() (driving.SettingsService, error) {
	if services.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return services.Settings(configPath)
}

// resolveSettings layers the built-in defaults, the config file, the
// environment file, the process environment and finally explicitly set
// flags, later layers winning.
func resolveSettings(cmd *cobra.Command, flags domain.Settings) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	if services.Settings != nil {
		svc, err := settingsService()
		if err != nil {
			return domain.Settings{}, err
		}
		stored, err := svc.Get()
		if err != nil {
			return domain.Settings{}, err
		}
		settings = settings.Merge(stored)
	}

	if err := loadEnvFile(envFile); err != nil {
		return domain.Settings{}, err
	}
	settings = settings.Merge(fromEnv())

	applyChanged(cmd, &settings, flags)
	return settings, nil
}

// loadEnvFile loads path into the environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	logger.Debug("Loaded environment from %s", path)
	return nil
}

func fromEnv() domain.Settings {
	return domain.Settings{
		GitHub: domain.GitHubSettings{
			Token:  strings.TrimSpace(os.Getenv(envToken)),
			APIURL: strings.TrimSpace(os.Getenv(envAPIURL)),
		},
	}
}

// applyChanged copies the flag values the user actually set onto
// settings. Flag defaults never mask the config file or environment, while
// an explicit zero (e.g. --budget 0) still wins.
func applyChanged(cmd *cobra.Command, settings *domain.Settings, flags domain.Settings) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("token") {
		settings.GitHub.Token = flags.GitHub.Token
	}
	if changed("api-url") {
		settings.GitHub.APIURL = flags.GitHub.APIURL
	}
	if changed("rate") {
		settings.Harvest.RequestsPerMinute = flags.Harvest.RequestsPerMinute
	}
	if changed("max-results") {
		settings.Harvest.MaxResults = flags.Harvest.MaxResults
	}
	if changed("budget") {
		settings.Harvest.Budget = flags.Harvest.Budget
	}
	if changed("max-repos") {
		settings.Harvest.MaxRepositories = flags.Harvest.MaxRepositories
	}
	if changed("max-commits") {
		settings.Harvest.MaxCommits = flags.Harvest.MaxCommits
	}
	if changed("output") {
		settings.Output.Dir = flags.Output.Dir
	}
	if changed("data-dir") {
		settings.Output.DataDir = flags.Output.DataDir
	}
	if changed("formats") {
		settings.Output.Formats = flags.Output.Formats
	}
}

// readPassword reads a line from in without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
