package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/babarot/trashcan/internal/core/types"
)

type restoreCommand struct {
	cli *CLI

	Args struct {
		IDs []string `positional-arg-name:"id" required:"1"`
	} `positional-args:"yes" required:"yes"`
}

// parseID accepts "12" as well as "#12" as printed in warnings
func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q: run 'list' to see the identifiers", s)
	}
	return id, nil
}

func (cmd *restoreCommand) Execute(_ []string) error {
	c := cmd.cli
	slog.Debug("cli.restore started", "ids", cmd.Args.IDs)
	defer slog.Debug("cli.restore finished")

	var errs []error
	for _, arg := range cmd.Args.IDs {
		id, err := parseID(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		entry, err := c.manager.Restore(id)
		switch {
		case err == nil:
			if c.config.Core.Restore.Verbose {
				fmt.Fprintf(c.stdout, "restored '%s'\n", entry.OriginalPath)
			}
		case types.IsNotFound(err):
			errs = append(errs, fmt.Errorf("no entry with id %d in trash", id))
		case types.IsInconsistent(err):
			errs = append(errs, fmt.Errorf("entry %d had lost its trashed file and was removed: %w", id, err))
		default:
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
