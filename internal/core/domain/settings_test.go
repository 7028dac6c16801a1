package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettings_Merge(t *testing.T) {
	base := Settings{
		GitHub:  GitHubSettings{Token: "file-token", APIURL: "https://ghe.example.com/api/v3/"},
		Harvest: HarvestSettings{RequestsPerMinute: 30, MaxResults: 100, Budget: 5},
		Output:  OutputSettings{Dir: "./output"},
	}
	override := Settings{
		GitHub:  GitHubSettings{Token: "env-token"},
		Harvest: HarvestSettings{Budget: 3},
		Output:  OutputSettings{Formats: "csv,json"},
	}

	merged := base.Merge(override)

	assert.Equal(t, "env-token", merged.GitHub.Token)
	assert.Equal(t, "https://ghe.example.com/api/v3/", merged.GitHub.APIURL)
	assert.Equal(t, 30, merged.Harvest.RequestsPerMinute)
	assert.Equal(t, 100, merged.Harvest.MaxResults)
	assert.Equal(t, 3, merged.Harvest.Budget)
	assert.Equal(t, "./output", merged.Output.Dir)
	assert.Equal(t, "csv,json", merged.Output.Formats)
}

func TestSettings_Merge_ZeroOverrideKeepsBase(t *testing.T) {
	base := Settings{Harvest: HarvestSettings{MaxCommits: 10}}
	assert.Equal(t, base, base.Merge(Settings{}))
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 30, s.Harvest.RequestsPerMinute)
	assert.Equal(t, 100, s.Harvest.MaxResults)
	assert.Equal(t, 5, s.Harvest.Budget)
	assert.Equal(t, 10, s.Harvest.MaxRepositories)
	assert.Equal(t, 10, s.Harvest.MaxCommits)
	assert.Equal(t, "./output", s.Output.Dir)
	assert.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"zero rate", func(s *Settings) { s.Harvest.RequestsPerMinute = 0 }},
		{"negative max results", func(s *Settings) { s.Harvest.MaxResults = -1 }},
		{"negative budget", func(s *Settings) { s.Harvest.Budget = -1 }},
		{"negative commits", func(s *Settings) { s.Harvest.MaxCommits = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}
