package trash

import (
	"fmt"
	"regexp"
	"time"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

// Filterable defines the interface that trashed entries must implement to be filtered
type Filterable interface {
	// GetName returns the original name of the file
	GetName() string
	// GetPath returns the current path in trash
	GetPath() string
	// GetDeletedAt returns when the file was trashed
	GetDeletedAt() time.Time
}

// FilterOptions holds filtering configuration. Zero values disable the
// corresponding filter.
type FilterOptions struct {
	// Globs keeps items whose original name matches any of the globs
	Globs []string
	// Patterns keeps items whose original name matches any of the regular expressions
	Patterns []string
	// Within keeps items deleted less than this long ago
	Within time.Duration
	// Now is the reference time for Within; time.Now when zero
	Now time.Time
}

// Filter applies filtering rules to a slice of items
func Filter[T Filterable](items []T, opts FilterOptions) ([]T, error) {
	items, err := selectByGlobs(items, opts.Globs)
	if err != nil {
		return nil, err
	}

	items, err = selectByPatterns(items, opts.Patterns)
	if err != nil {
		return nil, err
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	return selectByPeriod(items, opts.Within, now), nil
}

func selectByGlobs[T Filterable](items []T, globs []string) ([]T, error) {
	if len(globs) == 0 {
		return items, nil
	}

	compiled := make([]glob.Glob, 0, len(globs))
	for _, g := range globs {
		c, err := glob.Compile(g)
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", g, err)
		}
		compiled = append(compiled, c)
	}

	return lo.Filter(items, func(item T, _ int) bool {
		return lo.SomeBy(compiled, func(g glob.Glob) bool {
			return g.Match(item.GetName())
		})
	}), nil
}

func selectByPatterns[T Filterable](items []T, patterns []string) ([]T, error) {
	if len(patterns) == 0 {
		return items, nil
	}

	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}

	return lo.Filter(items, func(item T, _ int) bool {
		return lo.SomeBy(compiled, func(re *regexp.Regexp) bool {
			return re.MatchString(item.GetName())
		})
	}), nil
}

func selectByPeriod[T Filterable](items []T, within time.Duration, now time.Time) []T {
	if within <= 0 {
		return items
	}

	return lo.Filter(items, func(item T, _ int) bool {
		return now.Sub(item.GetDeletedAt()) < within
	})
}
