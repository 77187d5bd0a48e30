package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/babarot/trashcan/internal/config"
	"github.com/babarot/trashcan/internal/env"
	"github.com/babarot/trashcan/internal/trash"
	"github.com/babarot/trashcan/internal/utils/debug"
	"github.com/babarot/trashcan/internal/utils/log"
	"github.com/jessevdk/go-flags"
	"github.com/mattn/go-isatty"
	"github.com/rs/xid"
)

type Option struct {
	Config string `long:"config" description:"Path to config file" value-name:"PATH" default:""`

	Meta MetaOption `group:"Meta Options"`
}

type MetaOption struct {
	Version bool   `short:"V" long:"version" description:"Show version"`
	Debug   string `long:"debug" description:"View debug logs (default: \"full\")" optional-value:"full" optional:"yes" choice:"full" choice:"live"`
}

type CLI struct {
	version Version
	option  Option
	config  config.Config
	manager *trash.Manager
	parser  *flags.Parser

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// isTerminal reports whether stdin is interactive
	isTerminal func() bool
	// confirm asks a yes/no question on the terminal
	confirm func(prompt string) bool
}

var runID = sync.OnceValue(func() string {
	return xid.New().String()
})

// Run parses args and executes the selected command against the real
// terminal streams
func Run(v Version, args []string) error {
	return New(v, os.Stdin, os.Stdout, os.Stderr).Run(args)
}

// New creates a CLI bound to the given streams
func New(v Version, stdin io.Reader, stdout, stderr io.Writer) *CLI {
	c := &CLI{
		version: v,
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
	}
	c.isTerminal = func() bool {
		f, ok := c.stdin.(*os.File)
		return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
	c.confirm = c.askTerminal
	return c
}

func (c *CLI) newParser() (*flags.Parser, error) {
	parser := flags.NewParser(&c.option, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = c.version.AppName
	parser.Usage = "[OPTIONS] <delete | list | restore | purge | help>"
	parser.SubcommandsOptional = true
	parser.CommandHandler = c.handle

	commands := []struct {
		name, short, long string
		aliases           []string
		data              any
	}{
		{"delete", "Move files to the trash", "Move each path into the holding area and record it.", []string{"rm", "del"}, &deleteCommand{cli: c}},
		{"list", "List trashed files", "List every entry in the trash with its identifier.", []string{"ls"}, &listCommand{cli: c}},
		{"restore", "Restore trashed files", "Move entries back to their original location by identifier.", nil, &restoreCommand{cli: c}},
		{"purge", "Permanently remove trashed files", "Without an argument every entry is removed. With a retention such as 7, 2w or 36h only entries older than it are removed. A bare number means days. Set core.auto_expire in the config to expire entries older than core.retention before every other command.", []string{"prune"}, &purgeCommand{cli: c}},
		{"help", "Show this help", "Show usage information.", nil, &helpCommand{cli: c}},
	}
	for _, cmd := range commands {
		command, err := parser.AddCommand(cmd.name, cmd.short, cmd.long, cmd.data)
		if err != nil {
			return nil, err
		}
		command.Aliases = cmd.aliases
	}

	c.parser = parser
	return parser, nil
}

// Run parses args and executes the selected command
func (c *CLI) Run(args []string) error {
	parser, err := c.newParser()
	if err != nil {
		return err
	}

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(c.stdout, ferr.Message)
			return nil
		}
		return err
	}

	// A command was found and already executed by handle
	if parser.Active != nil {
		return nil
	}

	switch {
	case c.option.Meta.Version:
		fmt.Fprint(c.stdout, c.version.Print())
		return nil
	case c.option.Meta.Debug != "":
		return c.showLogs()
	case len(rest) > 0:
		return fmt.Errorf("unknown command %q: see '%s help'", rest[0], parser.Name)
	default:
		parser.WriteHelp(c.stdout)
		return nil
	}
}

// handle runs between parsing and the execution of a command. It sets up
// configuration, logging and the trash manager for every command that
// touches the trash.
func (c *CLI) handle(command flags.Commander, args []string) error {
	// No subcommand: Run prints the version, logs, usage or the unknown
	// command error without touching the trash
	if command == nil {
		return nil
	}
	if c.option.Meta.Version {
		fmt.Fprint(c.stdout, c.version.Print())
		return nil
	}
	if _, ok := command.(*helpCommand); ok {
		return command.Execute(args)
	}

	closeLogger, err := c.setup()
	if err != nil {
		return err
	}
	defer closeLogger()

	defer slog.Debug("main function finished")
	slog.Debug("main function started", "version", c.version.Version, "revision", c.version.Revision, "args", args)

	if c.option.Meta.Debug != "" {
		return c.showLogs()
	}

	if _, ok := command.(*purgeCommand); !ok {
		c.autoExpire()
	}

	if err := command.Execute(args); err != nil {
		slog.Error("exit", "error", fmt.Errorf("cli.run failed: %w", err))
		return err
	}
	return nil
}

func (c *CLI) setup() (func(), error) {
	// Keep the config parser quiet until the real logger is known
	log.New(log.UseOutput(io.Discard), log.AsDefault())

	cfg, err := config.Parse(c.option.Config)
	if err != nil {
		return nil, err
	}
	c.config = cfg

	closeLogger, err := setupLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	retention, err := cfg.RetentionPeriod()
	if err != nil {
		closeLogger()
		return nil, err
	}

	manager, err := trash.NewManager(trash.Config{
		HoldingDir:       cfg.Core.HoldingDir,
		Backend:          trash.StoreBackend(cfg.Core.Store.Backend),
		Retention:        retention,
		AutoExpire:       cfg.Core.AutoExpire,
		AllowCrossDevice: cfg.Core.CrossDevice,
	})
	if err != nil {
		closeLogger()
		return nil, fmt.Errorf("failed to initialize trash manager: %w", err)
	}
	c.manager = manager

	return closeLogger, nil
}

func setupLogger(cfg config.LoggingConfig) (func(), error) {
	if !cfg.Enabled {
		log.New(log.UseOutput(io.Discard), log.AsDefault())
		return func() {}, nil
	}

	w, err := log.NewRotateWriter(env.TRASHCAN_LOG_PATH, cfg.Rotation)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	log.New(
		log.UseOutput(w),
		log.UseLevel(log.ParseLevel(cfg.Level)),
		log.UseReportCaller(true),
		log.UseReportTimestamp(true),
		log.UseTimeFormat(time.Kitchen),
		log.UseFormatter(log.TextFormatter),
		log.With("run_id", runID()),
		log.AsDefault(),
	)
	return func() {
		if err := w.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
		}
	}, nil
}

func (c *CLI) showLogs() error {
	live := c.option.Meta.Debug == "live"
	enabled := c.config.Logging.Enabled
	if c.manager == nil {
		// Called without a command: the config has not been read yet
		cfg, err := config.Parse(c.option.Config)
		if err != nil {
			return err
		}
		enabled = cfg.Logging.Enabled
	}
	return debug.Logs(c.stdout, env.TRASHCAN_LOG_PATH, enabled, live)
}

// autoExpire removes entries past the retention window when enabled. Its
// failures never block the command the user asked for.
func (c *CLI) autoExpire() {
	report, err := c.manager.AutoExpire()
	if err != nil {
		slog.Warn("auto expiry failed", "error", err)
		return
	}
	if len(report.Purged) > 0 && c.config.Core.Verbose {
		fmt.Fprintf(c.stdout, "expired %d %s older than %s\n",
			len(report.Purged), plural(len(report.Purged), "entry", "entries"), c.config.Core.Retention)
	}
	for _, a := range report.Anomalies() {
		c.warn(a)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// PrintError writes err to w as one "name: message" line per joined error
func PrintError(w io.Writer, name string, err error) {
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}
	for _, e := range errs {
		for _, line := range strings.Split(strings.TrimRight(e.Error(), "\n"), "\n") {
			fmt.Fprintf(w, "%s: %s\n", name, line)
		}
	}
}
