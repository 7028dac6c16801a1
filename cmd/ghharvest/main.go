// Command ghharvest collects the public contact addresses of GitHub users.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/ghharvest/internal/adapters/driven/auth"
	"github.com/custodia-labs/ghharvest/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ghharvest/internal/adapters/driven/output"
	"github.com/custodia-labs/ghharvest/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ghharvest/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ghharvest/internal/adapters/driving/cli"
	"github.com/custodia-labs/ghharvest/internal/connectors/github"
	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driving"
	"github.com/custodia-labs/ghharvest/internal/core/services"
	"github.com/custodia-labs/ghharvest/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Settings:    openSettings,
		NewRunner:   newRunner,
		OpenHistory: openHistory,
	})
	os.Exit(cli.Execute())
}

func openSettings(configPath string) (driving.SettingsService, error) {
	if configPath != "" {
		return services.NewSettingsService(file.NewConfigStoreAt(configPath)), nil
	}
	store, err := file.NewConfigStore("")
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store), nil
}

func newRunner(
	settings domain.Settings,
	dryRun bool,
	progress driving.RunProgress,
) (driving.Runner, func() error, error) {
	client, err := github.NewClient(context.Background(), auth.NewTokenProvider(settings.GitHub.Token), github.Options{
		BaseURL:           settings.GitHub.APIURL,
		RequestsPerMinute: settings.Harvest.RequestsPerMinute,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating GitHub client: %w", err)
	}

	harvester := services.NewHarvester(client, services.HarvestOptions{
		Budget:          settings.Harvest.Budget,
		MaxRepositories: settings.Harvest.MaxRepositories,
		MaxCommits:      settings.Harvest.MaxCommits,
	})

	formats, err := output.ParseFormats(settings.Output.Formats)
	if err != nil {
		return nil, nil, err
	}

	// A dry run filters against an existing history but never creates or
	// writes to one.
	var store interface {
		driven.FindingStore
		Close() error
	}
	if dryRun {
		store = memory.NewFindingStore()
		persisted, err := sqlite.OpenExisting(settings.Output.DataDir)
		switch {
		case err == nil:
			store = persisted
		case errors.Is(err, domain.ErrNotFound):
			logger.Debug("No run history yet: %v", err)
		default:
			logger.Warn("Run history unavailable, not filtering known records: %v", err)
		}
	} else {
		store, err = sqlite.NewStore(settings.Output.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening run history: %w", err)
		}
	}

	var writers []driven.RecordWriter
	if !dryRun {
		writers, err = output.NewWriters(settings.Output.Dir, formats)
		if err != nil {
			store.Close()
			return nil, nil, err
		}
	}

	runner := services.NewRunOrchestrator(client, harvester, store, writers,
		services.AccountPause(settings.Harvest.RequestsPerMinute))
	runner.SetProgress(progress)

	closeRunner := func() error {
		stats := client.Stats()
		logger.Debug("GitHub requests: %d, failed attempts: %d, quota waits: %d, secondary waits: %d",
			stats.Requests, stats.FailedAttempts, stats.QuotaWaits, stats.SecondaryWaits)
		if limiter := client.RateLimiter(); limiter.Remaining() >= 0 {
			logger.Info("GitHub quota: %d/%d remaining, resets at %s",
				limiter.Remaining(), limiter.Limit(), limiter.ResetTime().Local().Format(time.Kitchen))
		}
		return store.Close()
	}
	return runner, closeRunner, nil
}

func openHistory(settings domain.Settings) (driving.HistoryService, error) {
	store, err := sqlite.NewStore(settings.Output.DataDir)
	if err != nil {
		return nil, err
	}
	return services.NewHistoryService(store), nil
}
