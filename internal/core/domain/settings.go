package domain

import "fmt"

// Settings is the persisted application configuration.
// Zero values mean "use the built-in default".
type Settings struct {
	GitHub  GitHubSettings  `toml:"github"`
	Harvest HarvestSettings `toml:"harvest"`
	Output  OutputSettings  `toml:"output"`
}

// GitHubSettings configures API access.
type GitHubSettings struct {
	Token  string `toml:"token,omitempty"`
	APIURL string `toml:"api_url,omitempty"`
}

// HarvestSettings configures run limits.
type HarvestSettings struct {
	RequestsPerMinute int `toml:"rate,omitempty"`
	MaxResults        int `toml:"max_results,omitempty"`
	Budget            int `toml:"budget,omitempty"`
	MaxRepositories   int `toml:"max_repositories,omitempty"`
	MaxCommits        int `toml:"max_commits,omitempty"`
}

// OutputSettings configures where results go.
type OutputSettings struct {
	Dir     string `toml:"dir,omitempty"`
	DataDir string `toml:"data_dir,omitempty"`

	// Formats is a comma-separated list of output formats.
	// Empty selects every format.
	Formats string `toml:"formats,omitempty"`
}

// Merge returns s with every non-zero field of other applied on top.
func (s Settings) Merge(other Settings) Settings {
	s.GitHub.Token = pick(s.GitHub.Token, other.GitHub.Token)
	s.GitHub.APIURL = pick(s.GitHub.APIURL, other.GitHub.APIURL)
	s.Harvest.RequestsPerMinute = pick(s.Harvest.RequestsPerMinute, other.Harvest.RequestsPerMinute)
	s.Harvest.MaxResults = pick(s.Harvest.MaxResults, other.Harvest.MaxResults)
	s.Harvest.Budget = pick(s.Harvest.Budget, other.Harvest.Budget)
	s.Harvest.MaxRepositories = pick(s.Harvest.MaxRepositories, other.Harvest.MaxRepositories)
	s.Harvest.MaxCommits = pick(s.Harvest.MaxCommits, other.Harvest.MaxCommits)
	s.Output.Dir = pick(s.Output.Dir, other.Output.Dir)
	s.Output.DataDir = pick(s.Output.DataDir, other.Output.DataDir)
	s.Output.Formats = pick(s.Output.Formats, other.Output.Formats)
	return s
}

func pick[T comparable](base, override T) T {
	var zero T
	if override != zero {
		return override
	}
	return base
}

// Built-in defaults.
const (
	DefaultRequestsPerMinute = 30
	DefaultMaxResults        = 100
	DefaultBudget            = 5
	DefaultMaxRepositories   = 10
	DefaultMaxCommits        = 10
	DefaultOutputDir         = "./output"
)

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Harvest: HarvestSettings{
			RequestsPerMinute: DefaultRequestsPerMinute,
			MaxResults:        DefaultMaxResults,
			Budget:            DefaultBudget,
			MaxRepositories:   DefaultMaxRepositories,
			MaxCommits:        DefaultMaxCommits,
		},
		Output: OutputSettings{
			Dir: DefaultOutputDir,
		},
	}
}

// Validate checks that the harvest limits are usable.
func (s Settings) Validate() error {
	switch {
	case s.Harvest.RequestsPerMinute <= 0:
		return fmt.Errorf("%w: rate must be positive, got %d", ErrInvalidInput, s.Harvest.RequestsPerMinute)
	case s.Harvest.MaxResults <= 0:
		return fmt.Errorf("%w: max results must be positive, got %d", ErrInvalidInput, s.Harvest.MaxResults)
	case s.Harvest.Budget < 0:
		return fmt.Errorf("%w: budget must not be negative, got %d", ErrInvalidInput, s.Harvest.Budget)
	case s.Harvest.MaxRepositories < 0, s.Harvest.MaxCommits < 0:
		return fmt.Errorf("%w: repository and commit caps must not be negative", ErrInvalidInput)
	}
	return nil
}
