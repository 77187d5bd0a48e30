// Package log configures the charmbracelet/log handler that backs log/slog.
// Package code logs through log/slog; only the CLI entry point touches this package.
package log

import (
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"
)

var (
	defaultStylesOnce sync.Once
	defaultStyles     atomic.Pointer[Styles]
)

func initializeStyles() *Styles {
	styles := charmlog.DefaultStyles()
	for _, ls := range levelStyles {
		levelStr := strings.ToUpper(ls.level.String())
		if len(levelStr) < ls.maxWidth {
			levelStr = levelStr + strings.Repeat(" ", ls.maxWidth-len(levelStr))
		}
		styles.Levels[ls.level] = ls.style.SetString(levelStr)
	}
	return styles
}

// DefaultStyles returns the level styles shared by every logger
func DefaultStyles() *Styles {
	defaultStylesOnce.Do(func() {
		defaultStyles.Store(initializeStyles())
	})
	return defaultStyles.Load()
}

// New creates a new logger with the given options
func New(opts ...Option) *slog.Logger {
	o := DefaultOptions()
	o.Apply(opts...)

	handler := charmlog.NewWithOptions(o.Writer, o.Options)
	handler.SetStyles(o.Styles)

	logger := slog.New(handler)
	if len(o.Attrs) > 0 {
		logger = logger.With(o.Attrs...)
	}

	if o.Default {
		slog.SetDefault(logger)
	}

	return logger
}

// ParseLevel converts a config level name into a Level, defaulting to InfoLevel
func ParseLevel(s string) Level {
	l, err := charmlog.ParseLevel(s)
	if err != nil {
		return InfoLevel
	}
	return l
}
