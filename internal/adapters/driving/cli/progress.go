package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ghharvest/internal/core/domain"
	"github.com/custodia-labs/ghharvest/internal/core/ports/driving"
)

// progressPrinter reports run progress on the command output.
type progressPrinter struct {
	cmd *cobra.Command
}

var _ driving.RunProgress = (*progressPrinter)(nil)

func newProgressPrinter(cmd *cobra.Command) *progressPrinter {
	return &progressPrinter{cmd: cmd}
}

func (p *progressPrinter) AccountsFound(n int) {
	p.cmd.Printf("Found %d account(s)\n", n)
}

func (p *progressPrinter) AccountStarted(index, total int, login string) {
	p.cmd.Printf("[%d/%d] %s\n", index, total, login)
}

func (p *progressPrinter) RecordAdded(r domain.Record) {
	line := "  " + styles.Success.Render("✓") + " " + r.Email + " (" + string(r.Source)
	if r.Repository != "" {
		line += ", " + r.Repository
	}
	p.cmd.Println(line + ")")
}

func (p *progressPrinter) AccountFailed(login string, err error) {
	p.cmd.Printf("  %s %s: %v\n", styles.Error.Render("✗"), login, err)
}
