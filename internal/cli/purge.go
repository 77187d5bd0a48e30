package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/babarot/trashcan/internal/trash"
	"github.com/babarot/trashcan/internal/ui"
	"github.com/babarot/trashcan/internal/utils/duration"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// ErrPurgeIncomplete is returned when some entries could not be purged
var ErrPurgeIncomplete = errors.New("some entries could not be purged")

type purgeCommand struct {
	cli *CLI

	Force bool `short:"f" long:"force" description:"Do not ask for confirmation"`

	Args struct {
		Retention string `positional-arg-name:"retention" description:"Only purge entries older than this (e.g. 7, 2w, 36h)"`
	} `positional-args:"yes"`
}

func (cmd *purgeCommand) Execute(_ []string) error {
	c := cmd.cli
	slog.Debug("cli.purge started", "retention", cmd.Args.Retention)
	defer slog.Debug("cli.purge finished")

	var (
		report trash.Report
		err    error
	)
	if cmd.Args.Retention == "" {
		if !cmd.confirmed() {
			fmt.Fprintln(c.stdout, "Purge canceled.")
			return nil
		}
		report, err = c.manager.PurgeAll()
	} else {
		retention, perr := duration.Parse(cmd.Args.Retention)
		if perr != nil {
			return fmt.Errorf("invalid retention %q: %w", cmd.Args.Retention, perr)
		}
		report, err = c.manager.Expire(retention)
	}
	if err != nil {
		return err
	}

	c.printReport(report)
	if report.Err() != nil {
		slog.Error("purge incomplete", "error", report.Err())
		return ErrPurgeIncomplete
	}
	return nil
}

// confirmed asks before a full purge when a human is at the terminal
func (cmd *purgeCommand) confirmed() bool {
	c := cmd.cli
	if cmd.Force || !c.config.Core.Purge.Confirm || !c.isTerminal() {
		return true
	}

	entries, err := c.manager.List()
	if err != nil || len(entries) == 0 {
		// Nothing to lose; let the purge report the state
		return true
	}
	return c.confirm(fmt.Sprintf("Permanently remove all %d %s in the trash?",
		len(entries), plural(len(entries), "entry", "entries")))
}

func (c *CLI) askTerminal(prompt string) bool {
	return ui.Confirm(c.stdin, c.stdout, prompt)
}

func (c *CLI) printReport(r trash.Report) {
	for _, e := range r.Purged {
		fmt.Fprintf(c.stdout, "purged '%s' (deleted %s)\n", e.Name(), e.DeletedAt.Local().Format(c.timeFormat()))
	}
	for _, a := range r.Anomalies() {
		c.warn(a)
	}
	fmt.Fprintf(c.stdout, "purged %d, skipped %d, freed %s\n",
		len(r.Purged), len(r.Skipped), humanize.Bytes(uint64(r.Freed)))
}

func (c *CLI) warn(a trash.Anomaly) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(c.stderr, "%s %v\n", yellow("warning:"), a)
}
