package services

import (
	"context"
	"errors"

	"github.com/custodia-labs/ghharvest/internal/contact"
	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driven"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driving"
	"github.com/custodia-labs/ghharvest/internal/logger"
)

// Ensure Harvester implements the interface.
var _ driving.Harvester = (*Harvester)(nil)

// Default harvest limits.
const (
	DefaultBudget          = domain.DefaultBudget
	DefaultMaxRepositories = domain.DefaultMaxRepositories
	DefaultMaxCommits      = domain.DefaultMaxCommits
)

// HarvestOptions bounds the work done for a single account.
type HarvestOptions struct {
	// Budget is the number of findings after which the harvest stops.
	// Zero or negative means no budget.
	Budget int

	// MaxRepositories caps the repositories enumerated per account.
	MaxRepositories int

	// MaxCommits caps the commits listed per repository.
	MaxCommits int
}

// DefaultHarvestOptions returns the default harvest limits.
func DefaultHarvestOptions() HarvestOptions {
	return HarvestOptions{
		Budget:          DefaultBudget,
		MaxRepositories: DefaultMaxRepositories,
		MaxCommits:      DefaultMaxCommits,
	}
}

func (o HarvestOptions) withDefaults() HarvestOptions {
	if o.MaxRepositories <= 0 {
		o.MaxRepositories = DefaultMaxRepositories
	}
	if o.MaxCommits <= 0 {
		o.MaxCommits = DefaultMaxCommits
	}
	return o
}

// Harvester collects contact addresses for one account at a time.
// Sources are consulted in a fixed order: profile, blog, then each owned
// repository's homepage followed by its commits.
type Harvester struct {
	source driven.AccountSource
	opts   HarvestOptions
}

// NewHarvester creates a harvester reading from source.
func NewHarvester(source driven.AccountSource, opts HarvestOptions) *Harvester {
	return &Harvester{
		source: source,
		opts:   opts.withDefaults(),
	}
}

// Harvest collects findings for login.
// Unavailable sources are skipped. Only context cancellation and a
// rejected token are returned as errors.
func (h *Harvester) Harvest(ctx context.Context, login string) (*domain.HarvestResult, error) {
	result := &domain.HarvestResult{
		Login:       login,
		DisplayName: login,
	}

	account, err := h.source.GetAccount(ctx, login)
	if err != nil {
		if err := stopError(ctx, err); err != nil {
			return nil, err
		}
		logger.Warn("harvest %s: profile unavailable: %v", login, err)
		return result, nil
	}
	result.DisplayName = account.DisplayName()
	result.Location = account.Location

	c := newCollector(h.opts.Budget)
	err = h.harvest(ctx, c, login, account)
	result.Findings = c.findings
	if err != nil {
		return nil, err
	}

	logger.Debug("harvest %s: %d finding(s)", login, len(result.Findings))
	return result, nil
}

func (h *Harvester) harvest(ctx context.Context, c *collector, login string, account *domain.Account) error {
	if email, ok := contact.Accept(account.Email); ok {
		if c.add(domain.Finding{Email: email, Source: domain.SourceProfile}) {
			return nil
		}
	}
	if c.addText(account.Bio, domain.SourceProfile, "") {
		return nil
	}
	if c.addText(account.Blog, domain.SourceHomepage, "") {
		return nil
	}

	repos, err := h.source.ListRepositories(ctx, login, h.opts.MaxRepositories)
	if err != nil {
		if err := stopError(ctx, err); err != nil {
			return err
		}
		logger.Warn("harvest %s: repositories unavailable: %v", login, err)
	}

	for _, repo := range repos {
		if !repo.OwnedBy(login) {
			logger.Debug("harvest %s: skipping %s, not owned", login, repo.FullName())
			continue
		}

		full, err := h.harvestRepository(ctx, c, login, repo)
		if err != nil {
			return err
		}
		if full {
			return nil
		}
	}

	return nil
}

// harvestRepository scans one owned repository and reports whether the budget was reached.
func (h *Harvester) harvestRepository(
	ctx context.Context,
	c *collector,
	login string,
	repo domain.Repository,
) (bool, error) {
	name := repo.FullName()
	if c.addText(repo.Homepage, domain.SourceHomepage, name) {
		return true, nil
	}

	commits, err := h.source.ListCommits(ctx, repo.Owner, repo.Name, login, h.opts.MaxCommits)
	if err != nil {
		if err := stopError(ctx, err); err != nil {
			return false, err
		}
		logger.Warn("harvest %s: commits for %s unavailable: %v", login, name, err)
		return false, nil
	}

	for _, commit := range commits {
		// The author filter is applied by the server; both identities are
		// checked again so that another contributor's address is never kept.
		for _, identity := range []domain.Identity{commit.Author, commit.Committer} {
			if !identity.Is(login) {
				continue
			}
			email, ok := contact.Accept(identity.Email)
			if !ok {
				continue
			}
			finding := domain.Finding{
				Email:      email,
				Source:     domain.SourceCommit,
				Repository: name,
				CommitSHA:  commit.ShortSHA(),
			}
			if c.add(finding) {
				return true, nil
			}
		}
	}

	return false, nil
}

// stopError returns the error that must end the harvest instead of skipping
// the source: cancellation, or a token the API rejected.
func stopError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return err
	}
	return nil
}

// collector accumulates findings for one account, keeping the first
// occurrence of each address.
type collector struct {
	budget   int
	seen     map[string]struct{}
	findings []domain.Finding
}

func newCollector(budget int) *collector {
	return &collector{
		budget: budget,
		seen:   make(map[string]struct{}),
	}
}

// add records f unless its address was already found and reports whether the budget is reached.
func (c *collector) add(f domain.Finding) bool {
	if _, ok := c.seen[f.Email]; !ok {
		c.seen[f.Email] = struct{}{}
		c.findings = append(c.findings, f)
	}
	return c.full()
}

// addText records every address found in text.
func (c *collector) addText(text string, source domain.SourceKind, repo string) bool {
	if text == "" {
		return c.full()
	}
	for _, email := range contact.ExtractSorted(text) {
		if c.add(domain.Finding{Email: email, Source: source, Repository: repo}) {
			return true
		}
	}
	return c.full()
}

func (c *collector) full() bool {
	return c.budget > 0 && len(c.findings) >= c.budget
}
