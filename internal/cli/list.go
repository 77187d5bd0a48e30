package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/babarot/trashcan/internal/core/types"
	"github.com/babarot/trashcan/internal/trash"
	"github.com/babarot/trashcan/internal/utils/duration"
	fsutil "github.com/babarot/trashcan/internal/utils/fs"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
)

type listCommand struct {
	cli *CLI

	Long   bool     `short:"l" long:"long" description:"Show a table with size and age"`
	Globs  []string `short:"g" long:"glob" description:"Only show entries whose original name matches the glob (repeatable)" value-name:"GLOB"`
	Regex  []string `long:"regex" description:"Only show entries whose original name matches the regular expression (repeatable)" value-name:"REGEX"`
	Within string   `short:"w" long:"within" description:"Only show entries deleted within the period (e.g. 3d, 12h)" value-name:"PERIOD"`
}

func (cmd *listCommand) Execute(_ []string) error {
	c := cmd.cli
	slog.Debug("cli.list started")
	defer slog.Debug("cli.list finished")

	opts := trash.FilterOptions{
		Globs:    cmd.Globs,
		Patterns: cmd.Regex,
	}
	if cmd.Within != "" {
		d, err := duration.Parse(cmd.Within)
		if err != nil {
			return fmt.Errorf("invalid --within value %q: %w", cmd.Within, err)
		}
		opts.Within = d
	}

	entries, err := c.manager.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.stdout, "Trash is empty.")
		return nil
	}

	filtered, err := trash.Filter(entries, opts)
	if err != nil {
		return err
	}
	if len(filtered) == 0 {
		fmt.Fprintln(c.stdout, "No entries match.")
		return nil
	}

	if cmd.Long {
		c.printTable(filtered)
		return nil
	}
	for _, e := range filtered {
		fmt.Fprintln(c.stdout, formatEntry(e, c.timeFormat()))
	}
	return nil
}

func (c *CLI) timeFormat() string {
	if f := c.config.Core.List.TimeFormat; f != "" {
		return f
	}
	return time.RFC3339
}

func formatEntry(e types.Entry, layout string) string {
	return fmt.Sprintf("%d -> %s (deleted %s)", e.ID, e.OriginalPath, e.DeletedAt.Local().Format(layout))
}

func (c *CLI) printTable(entries []types.Entry) {
	renderTable(c.stdout, entries, time.Now())
}

func renderTable(w io.Writer, entries []types.Entry, now time.Time) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Original Path", "Size", "Deleted"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	for _, e := range entries {
		size := "-"
		if n, err := fsutil.DirSize(e.TrashedPath); err == nil {
			size = humanize.Bytes(uint64(n))
		}
		table.Append([]string{
			strconv.FormatUint(e.ID, 10),
			e.Name(),
			e.OriginalPath,
			size,
			humanize.RelTime(e.DeletedAt, now, "ago", "from now"),
		})
	}
	table.Render()
}
