package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driving"
)

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	stored domain.Settings
	token  string
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return domain.DefaultSettings().Merge(m.stored), nil
}

func (m *mockSettingsService) Save(settings domain.Settings) error {
	m.stored = settings
	return nil
}

func (m *mockSettingsService) SetToken(token string) error {
	m.token = token
	return nil
}

func (m *mockSettingsService) Path() string { return "/home/test/.ghharvest/config.toml" }

// mockRunner implements driving.Runner for testing.
type mockRunner struct {
	progress driving.RunProgress
	summary  *domain.RunSummary
	records  []domain.Record
	err      error
	opts     driving.RunOptions
	calls    int
}

func (m *mockRunner) Run(_ context.Context, opts driving.RunOptions) (*domain.RunSummary, []domain.Record, error) {
	m.calls++
	m.opts = opts
	m.progress.AccountsFound(len(m.records))
	for i, r := range m.records {
		m.progress.AccountStarted(i+1, len(m.records), r.Username)
		m.progress.RecordAdded(r)
	}
	return m.summary, m.records, m.err
}

// mockHistory implements driving.HistoryService for testing.
type mockHistory struct {
	runs    []domain.RunInfo
	records map[string][]domain.Record
	closed  bool
}

func (m *mockHistory) ListRuns(_ context.Context, limit int) ([]domain.RunInfo, error) {
	if limit > 0 && len(m.runs) > limit {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockHistory) RunRecords(_ context.Context, runID string) ([]domain.Record, error) {
	records, ok := m.records[runID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return records, nil
}

func (m *mockHistory) Close() error {
	m.closed = true
	return nil
}

// testServices captures what the commands hand to the core.
type testServices struct {
	settings *mockSettingsService
	runner   *mockRunner
	history  *mockHistory

	gotSettings domain.Settings
	gotDryRun   bool
	gotConfig   string
}

func setupServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		settings: &mockSettingsService{},
		runner: &mockRunner{
			summary: &domain.RunSummary{RunID: "run-1234", AccountsProcessed: 2, UniqueEmails: 1},
		},
		history: &mockHistory{records: map[string][]domain.Record{}},
	}

	old := services
	SetServices(Services{
		Settings: func(path string) (driving.SettingsService, error) {
			ts.gotConfig = path
			return ts.settings, nil
		},
		NewRunner: func(s domain.Settings, dryRun bool, progress driving.RunProgress) (driving.Runner, func() error, error) {
			ts.gotSettings = s
			ts.gotDryRun = dryRun
			ts.runner.progress = progress
			return ts.runner, func() error { return nil }, nil
		},
		OpenHistory: func(s domain.Settings) (driving.HistoryService, error) {
			ts.gotSettings = s
			return ts.history, nil
		},
	})

	t.Setenv(envToken, "")
	t.Setenv(envAPIURL, "")

	t.Cleanup(func() {
		services = old
	})
	return ts
}

// resetFlags restores every flag to its default so tests do not leak
// values into each other through the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
