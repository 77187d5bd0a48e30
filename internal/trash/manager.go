package trash

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/babarot/trashcan/internal/core/atomic"
	"github.com/babarot/trashcan/internal/core/types"
	fsutil "github.com/babarot/trashcan/internal/utils/fs"
	"github.com/samber/lo"
)

// Manager handles the lifecycle of trash entries. Each operation performs the
// filesystem action and the record mutation as a unit.
type Manager struct {
	config Config
	open   Opener
	fs     FileSystem
	now    func() time.Time
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithStore overrides the record store opener derived from the config
func WithStore(open Opener) ManagerOption {
	return func(m *Manager) {
		m.open = open
	}
}

// WithFileSystem overrides the filesystem gateway
func WithFileSystem(fs FileSystem) ManagerOption {
	return func(m *Manager) {
		m.fs = fs
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a new trash manager with the given configuration
func NewManager(cfg Config, opts ...ManagerOption) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	m := &Manager{
		config: cfg,
		fs:     atomic.FS{AllowCrossDev: cfg.AllowCrossDevice},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.open == nil {
		open, err := NewOpener(cfg)
		if err != nil {
			return nil, err
		}
		m.open = open
	}

	slog.Debug("trash manager initialized", "holding_dir", cfg.HoldingDir, "backend", cfg.Backend)
	return m, nil
}

// Config returns the configuration the manager was built with
func (m *Manager) Config() Config {
	return m.config
}

// withStore opens the store, runs fn and closes the store on every path
func (m *Manager) withStore(fn func(Store) error) (err error) {
	s, err := m.open()
	if err != nil {
		if !types.IsStoreUnavailable(err) {
			err = fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err)
		}
		return types.NewError("open store", m.config.HoldingDir, err)
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			slog.Error("failed to close store", "error", cerr)
			err = errors.Join(err, types.NewError("close store", m.config.HoldingDir, cerr))
		}
	}()
	return fn(s)
}

// Delete moves the file at path into the holding area and records it
func (m *Manager) Delete(path string) (types.Entry, error) {
	slog.Debug("manager.delete started", "path", path)
	defer slog.Debug("manager.delete finished", "path", path)

	if unsafe, _ := fsutil.IsUnsafePath(path); unsafe {
		return types.Entry{}, types.NewError("delete", path, fmt.Errorf("%w: refusing to trash %q", types.ErrInvalidPath, path))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return types.Entry{}, types.NewError("delete", path, fmt.Errorf("%w: %w", types.ErrInvalidPath, err))
	}
	if fsutil.IsWithin(abs, m.config.HoldingDir) || fsutil.IsWithin(m.config.HoldingDir, abs) {
		return types.Entry{}, types.NewError("delete", path, fmt.Errorf("%w: path overlaps the holding area %s", types.ErrInvalidPath, m.config.HoldingDir))
	}

	exists, err := m.fs.Exists(abs)
	if err != nil {
		return types.Entry{}, types.NewError("delete", path, err)
	}
	if !exists {
		return types.Entry{}, types.NewError("delete", path, types.ErrNotFound)
	}

	var entry types.Entry
	err = m.withStore(func(s Store) error {
		now := m.now()
		dst, err := m.trashedPath(abs, now)
		if err != nil {
			return types.NewError("delete", path, err)
		}

		if err := m.fs.Move(abs, dst); err != nil {
			return types.NewError("delete", path, err)
		}

		entry, err = s.Insert(types.Entry{
			OriginalPath: abs,
			TrashedPath:  dst,
			DeletedAt:    now,
		})
		if err != nil {
			// The payload must not be lost: put it back where it was
			if rbErr := m.fs.Move(dst, abs); rbErr != nil {
				slog.Error("failed to roll back move after insert failure",
					"original", abs, "trashed", dst, "error", rbErr)
				return &StrandedError{
					OriginalPath: abs,
					TrashedPath:  dst,
					Err:          errors.Join(err, rbErr),
				}
			}
			return types.NewError("delete", path, err)
		}
		return nil
	})
	if err != nil {
		return types.Entry{}, err
	}

	slog.Info("moved to trash", "id", entry.ID, "from", entry.OriginalPath, "to", entry.TrashedPath)
	return entry, nil
}

// trashedPath computes a name in the holding area that is not taken yet:
// basename + "." + unix seconds, with ".N" appended on collision
func (m *Manager) trashedPath(abs string, now time.Time) (string, error) {
	base := filepath.Base(abs) + "." + strconv.FormatInt(now.Unix(), 10)
	candidate := filepath.Join(m.config.HoldingDir, base)
	for i := 1; ; i++ {
		exists, err := m.fs.Exists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(m.config.HoldingDir, base+"."+strconv.Itoa(i))
	}
}

// List returns all live entries
func (m *Manager) List() ([]types.Entry, error) {
	var entries []types.Entry
	err := m.withStore(func(s Store) error {
		var err error
		entries, err = s.List()
		if err != nil {
			return types.NewError("list", "", err)
		}
		return nil
	})
	return entries, err
}

// Find returns the live entry with the given ID
func (m *Manager) Find(id uint64) (types.Entry, error) {
	var entry types.Entry
	err := m.withStore(func(s Store) error {
		var err error
		entry, err = s.Find(id)
		if err != nil {
			return types.NewError("find", strconv.FormatUint(id, 10), err)
		}
		return nil
	})
	return entry, err
}

// Restore moves the payload of entry id back to its original path and drops
// the record. An occupied original path is never overwritten.
func (m *Manager) Restore(id uint64) (types.Entry, error) {
	slog.Debug("manager.restore started", "id", id)
	defer slog.Debug("manager.restore finished", "id", id)

	var entry types.Entry
	err := m.withStore(func(s Store) error {
		e, err := s.Find(id)
		if err != nil {
			return types.NewError("restore", "#"+strconv.FormatUint(id, 10), err)
		}

		exists, err := m.fs.Exists(e.TrashedPath)
		if err != nil {
			return types.NewError("restore", e.OriginalPath, err)
		}
		if !exists {
			slog.Warn("dropping stale trash entry", "id", e.ID, "trashed", e.TrashedPath)
			stale := types.NewError("restore", e.OriginalPath,
				fmt.Errorf("%w: %s", types.ErrInconsistent, e.TrashedPath))
			if err := s.Delete(e.ID); err != nil {
				return errors.Join(stale, err)
			}
			return stale
		}

		if err := m.fs.Move(e.TrashedPath, e.OriginalPath); err != nil {
			return types.NewError("restore", e.OriginalPath, err)
		}

		if err := s.Delete(e.ID); err != nil {
			// Keep the record valid by moving the payload back into the holding area
			if rbErr := m.fs.Move(e.OriginalPath, e.TrashedPath); rbErr != nil {
				slog.Error("failed to roll back restore after delete failure",
					"original", e.OriginalPath, "trashed", e.TrashedPath, "error", rbErr)
				return types.NewError("restore", e.OriginalPath, errors.Join(err, rbErr))
			}
			return types.NewError("restore", e.OriginalPath, err)
		}

		entry = e
		return nil
	})
	if err != nil {
		return types.Entry{}, err
	}

	slog.Info("restored from trash", "id", entry.ID, "to", entry.OriginalPath)
	return entry, nil
}

// PurgeAll irreversibly removes every entry
func (m *Manager) PurgeAll() (Report, error) {
	slog.Debug("manager.purge_all started")
	defer slog.Debug("manager.purge_all finished")

	return m.purge(func(types.Entry) bool { return true })
}

// Expire irreversibly removes the entries deleted before now - retention.
// Entries at or after the threshold are kept.
func (m *Manager) Expire(retention time.Duration) (Report, error) {
	if retention < 0 {
		return Report{}, fmt.Errorf("retention must not be negative: %s", retention)
	}
	threshold := m.now().Add(-retention)
	slog.Debug("manager.expire started", "retention", retention, "threshold", threshold)
	defer slog.Debug("manager.expire finished")

	return m.purge(func(e types.Entry) bool {
		return e.DeletedAt.Before(threshold)
	})
}

// AutoExpire runs Expire with the configured retention when auto expiry is
// enabled, and does nothing otherwise
func (m *Manager) AutoExpire() (Report, error) {
	if !m.config.AutoExpire {
		return Report{}, nil
	}
	return m.Expire(m.config.Retention)
}

func (m *Manager) purge(match func(types.Entry) bool) (Report, error) {
	var report Report
	err := m.withStore(func(s Store) error {
		entries, err := s.List()
		if err != nil {
			return types.NewError("purge", "", err)
		}

		targets := lo.Filter(entries, func(e types.Entry, _ int) bool {
			return match(e)
		})
		for _, e := range targets {
			m.purgeEntry(s, e, &report)
		}
		return nil
	})

	slog.Info("purge finished",
		"purged", len(report.Purged),
		"stale", len(report.Stale),
		"skipped", len(report.Skipped),
		"freed", report.Freed)
	return report, err
}

// purgeEntry removes one payload and its record, recording the outcome in r.
// It never aborts: every failure is kept as an anomaly.
func (m *Manager) purgeEntry(s Store, e types.Entry, r *Report) {
	exists, err := m.fs.Exists(e.TrashedPath)
	if err != nil {
		r.Skipped = append(r.Skipped, Anomaly{Entry: e, Err: types.NewError("purge", e.TrashedPath, err)})
		return
	}

	var size int64
	if exists {
		size, _ = fsutil.DirSize(e.TrashedPath)
	}

	if err := m.fs.Remove(e.TrashedPath); err != nil {
		slog.Error("failed to remove trashed file", "id", e.ID, "path", e.TrashedPath, "error", err)
		r.Skipped = append(r.Skipped, Anomaly{Entry: e, Err: types.NewError("purge", e.TrashedPath, err)})
		return
	}

	if err := s.Delete(e.ID); err != nil {
		r.Skipped = append(r.Skipped, Anomaly{Entry: e, Err: types.NewError("purge", e.TrashedPath, err)})
		return
	}

	if !exists {
		slog.Warn("trashed file was already gone", "id", e.ID, "path", e.TrashedPath)
		r.Stale = append(r.Stale, Anomaly{
			Entry: e,
			Err:   types.NewError("purge", e.TrashedPath, types.ErrInconsistent),
		})
	}
	r.Purged = append(r.Purged, e)
	r.Freed += size
}
