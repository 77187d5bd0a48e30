package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/babarot/trashcan/internal/core/atomic"
)

type deleteCommand struct {
	cli *CLI

	Args struct {
		Paths []string `positional-arg-name:"path" required:"1"`
	} `positional-args:"yes" required:"yes"`
}

// Execute trashes every path. A failing path does not stop the others.
func (cmd *deleteCommand) Execute(_ []string) error {
	c := cmd.cli
	slog.Debug("cli.delete started", "paths", cmd.Args.Paths)
	defer slog.Debug("cli.delete finished")

	var errs []error
	for _, path := range cmd.Args.Paths {
		entry, err := c.manager.Delete(path)
		if err != nil {
			if atomic.IsCrossDevice(err) {
				err = fmt.Errorf("%w (set core.cross_device to true to allow copying)", err)
			}
			errs = append(errs, err)
			continue
		}
		if c.config.Core.Verbose {
			fmt.Fprintf(c.stdout, "moved '%s' to trash (id %d)\n", path, entry.ID)
		}
	}
	return errors.Join(errs...)
}
