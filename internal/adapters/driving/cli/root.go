package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghharvest/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	quiet      bool
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "ghharvest",
	Short: "Collect public contact addresses of GitHub users",
	Long: `ghharvest searches GitHub for users matching location and language
filters and collects the contact addresses they publish: the profile email,
addresses in the bio or homepage, repository homepages, and the author and
committer identities of their own commits.

Private addresses are never requested and GitHub noreply addresses are
discarded. All requests respect the configured rate and GitHub's quota.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		logger.SetQuiet(quiet)
		logger.SetOutput(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress warnings")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default ~/.ghharvest/config.toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file to load if present")
}

// errInterrupted is returned when the run was stopped by a signal.
var errInterrupted = errors.New("interrupted")

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		return 1
	}
	return 0
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
