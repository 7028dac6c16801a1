package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
)

func TestSettingsCmd_Show(t *testing.T) {
	ts := setupServices(t)
	ts.settings.stored = domain.Settings{
		GitHub:  domain.GitHubSettings{Token: "ghp_abcdefghijkl"},
		Harvest: domain.HarvestSettings{Budget: 7},
	}

	out, err := execute(t, "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "/home/test/.ghharvest/config.toml")
	assert.Contains(t, out, "ghp_...ijkl")
	assert.NotContains(t, out, "ghp_abcdefghijkl")
	assert.Contains(t, out, "7")
	assert.Contains(t, out, "https://api.github.com/ (default)")
}

func TestSettingsCmd_SetToken(t *testing.T) {
	ts := setupServices(t)
	rootCmd.SetIn(strings.NewReader("ghp_new\n"))

	out, err := execute(t, "settings", "set-token")
	require.NoError(t, err)

	assert.Equal(t, "ghp_new", ts.settings.token)
	assert.Contains(t, out, "Token saved to")
}

func TestSettingsCmd_SetToken_Empty(t *testing.T) {
	setupServices(t)
	rootCmd.SetIn(strings.NewReader("\n"))

	_, err := execute(t, "settings", "set-token")
	assert.Error(t, err)
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "(not set)", maskToken(""))
	assert.Equal(t, "****", maskToken("short"))
	assert.Equal(t, "ghp_...5678", maskToken("ghp_12345678"))
}

func TestReadPassword_NonTerminal(t *testing.T) {
	assert.Equal(t, "secret", readPassword(strings.NewReader("  secret \nnext line")))
}
