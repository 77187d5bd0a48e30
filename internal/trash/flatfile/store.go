// Package flatfile keeps trash records in a pipe-delimited text file inside
// the holding area.
//
// The first line is a header carrying the next identifier to hand out:
//
//	#trashcan v1 next=4
//	1|notes.txt.1700000000|/home/user/notes.txt|2023-11-14T22:13:20Z
//	3|build.1700000100|/home/user/src/build|2023-11-14T22:15:00Z
//
// Pipes, newlines and backslashes inside fields are backslash-escaped.
// Files written by older releases have no header and three fields per line
// (trashed name, original path, local ISO timestamp); they are read and
// assigned identifiers in file order.
package flatfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/babarot/trashcan/internal/core/atomic"
	"github.com/babarot/trashcan/internal/core/types"
	"github.com/samber/lo"
)

const (
	// FileName is the name of the metadata file in the holding area
	FileName = ".metadata"

	headerPrefix = "#trashcan v1"
	timeFormat   = time.RFC3339Nano

	// python-style isoformat() written by older releases
	legacyTimeFormat = "2006-01-02T15:04:05.999999"

	staleTempAge = time.Hour
)

var errClosed = errors.New("store is closed")

// Store is a flat file record store. A Store is not safe for concurrent use.
type Store struct {
	dir     string
	path    string
	temp    *atomic.TempManager
	next    uint64
	entries []types.Entry
	closed  bool
}

// Open loads the metadata file in dir, creating dir and an empty file when
// they do not exist yet
func Open(dir string) (*Store, error) {
	temp, err := atomic.NewTempManager(dir)
	if err != nil {
		return nil, unavailable("open", dir, err)
	}
	if err := temp.CleanupAll(FileName, staleTempAge); err != nil {
		slog.Warn("failed to clean up stale metadata temp files", "dir", dir, "error", err)
	}

	s := &Store{
		dir:  dir,
		path: filepath.Join(dir, FileName),
		temp: temp,
		next: 1,
	}

	data, err := os.ReadFile(s.path)
	switch {
	case os.IsNotExist(err):
		slog.Debug("creating metadata file", "path", s.path)
		if err := s.save(); err != nil {
			return nil, err
		}
		return s, nil
	case err != nil:
		return nil, unavailable("open", s.path, err)
	}

	s.load(data)
	slog.Debug("metadata loaded", "path", s.path, "entries", len(s.entries), "next", s.next)
	return s, nil
}

func (s *Store) load(data []byte) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		lineNo    int
		maxID     uint64
		hasHeader bool
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		if lineNo == 1 && strings.HasPrefix(line, headerPrefix) {
			hasHeader = true
			if next, ok := parseHeader(line); ok {
				s.next = next
			} else {
				slog.Warn("malformed metadata header, recomputing id sequence", "path", s.path, "header", line)
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitFields(line)
		var (
			entry types.Entry
			err   error
		)
		switch len(fields) {
		case 4:
			entry, err = s.parseRecord(fields)
		case 3:
			entry, err = s.parseLegacyRecord(fields, maxID+1)
		default:
			err = fmt.Errorf("expected 4 fields, got %d", len(fields))
		}
		if err != nil {
			slog.Warn("skipping corrupt metadata line", "path", s.path, "line", lineNo, "error", err)
			continue
		}
		if lo.ContainsBy(s.entries, func(e types.Entry) bool { return e.ID == entry.ID }) {
			slog.Warn("skipping duplicate metadata id", "path", s.path, "line", lineNo, "id", entry.ID)
			continue
		}

		s.entries = append(s.entries, entry)
		maxID = max(maxID, entry.ID)
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("metadata file truncated while reading", "path", s.path, "error", err)
	}

	if !hasHeader && len(s.entries) > 0 {
		slog.Info("importing metadata written without a header", "path", s.path, "entries", len(s.entries))
	}
	// Never hand out an identifier that is still in use
	s.next = max(s.next, maxID+1)
}

func parseHeader(line string) (uint64, bool) {
	for _, field := range strings.Fields(strings.TrimPrefix(line, headerPrefix)) {
		if v, ok := strings.CutPrefix(field, "next="); ok {
			next, err := strconv.ParseUint(v, 10, 64)
			if err != nil || next == 0 {
				return 0, false
			}
			return next, true
		}
	}
	return 0, false
}

func (s *Store) parseRecord(fields []string) (types.Entry, error) {
	id, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil || id == 0 {
		return types.Entry{}, fmt.Errorf("invalid id %q", fields[0])
	}
	if err := checkName(fields[1]); err != nil {
		return types.Entry{}, err
	}
	if fields[2] == "" {
		return types.Entry{}, fmt.Errorf("empty original path")
	}
	deletedAt, err := time.Parse(timeFormat, fields[3])
	if err != nil {
		return types.Entry{}, fmt.Errorf("invalid deletion time: %w", err)
	}

	return types.Entry{
		ID:           id,
		TrashedPath:  filepath.Join(s.dir, fields[1]),
		OriginalPath: fields[2],
		DeletedAt:    deletedAt,
	}, nil
}

func (s *Store) parseLegacyRecord(fields []string, id uint64) (types.Entry, error) {
	if err := checkName(fields[0]); err != nil {
		return types.Entry{}, err
	}
	if fields[1] == "" {
		return types.Entry{}, fmt.Errorf("empty original path")
	}
	deletedAt, err := time.ParseInLocation(legacyTimeFormat, fields[2], time.Local)
	if err != nil {
		return types.Entry{}, fmt.Errorf("invalid deletion time: %w", err)
	}

	original, err := filepath.Abs(fields[1])
	if err != nil {
		return types.Entry{}, err
	}
	return types.Entry{
		ID:           id,
		TrashedPath:  filepath.Join(s.dir, fields[0]),
		OriginalPath: original,
		DeletedAt:    deletedAt,
	}, nil
}

// checkName rejects trashed names that would resolve outside the holding area
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("invalid trashed name %q", name)
	}
	return nil
}

// Insert assigns the next identifier to entry and persists it
func (s *Store) Insert(entry types.Entry) (types.Entry, error) {
	if s.closed {
		return types.Entry{}, unavailable("insert", s.path, errClosed)
	}

	rel, err := filepath.Rel(s.dir, entry.TrashedPath)
	if err != nil || checkName(rel) != nil {
		return types.Entry{}, unavailable("insert", entry.TrashedPath,
			fmt.Errorf("trashed path must be directly inside %s", s.dir))
	}

	entry.ID = s.next
	entry.TrashedPath = filepath.Join(s.dir, rel)

	prevNext := s.next
	s.next++
	s.entries = append(s.entries, entry)
	if err := s.save(); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		s.next = prevNext
		return types.Entry{}, err
	}

	return entry, nil
}

// List returns all entries in identifier order
func (s *Store) List() ([]types.Entry, error) {
	if s.closed {
		return nil, unavailable("list", s.path, errClosed)
	}
	out := make([]types.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Find returns the entry with the given identifier
func (s *Store) Find(id uint64) (types.Entry, error) {
	if s.closed {
		return types.Entry{}, unavailable("find", s.path, errClosed)
	}
	entry, ok := lo.Find(s.entries, func(e types.Entry) bool { return e.ID == id })
	if !ok {
		return types.Entry{}, fmt.Errorf("entry %d: %w", id, types.ErrNotFound)
	}
	return entry, nil
}

// Delete removes the entry with the given identifier. Unknown identifiers
// are ignored.
func (s *Store) Delete(id uint64) error {
	if s.closed {
		return unavailable("delete", s.path, errClosed)
	}

	kept := lo.Reject(s.entries, func(e types.Entry, _ int) bool { return e.ID == id })
	if len(kept) == len(s.entries) {
		return nil
	}

	prev := s.entries
	s.entries = kept
	if err := s.save(); err != nil {
		s.entries = prev
		return err
	}
	return nil
}

// Close releases the store. Further calls fail with ErrStoreUnavailable.
func (s *Store) Close() error {
	s.closed = true
	return nil
}

// save rewrites the whole metadata file atomically
func (s *Store) save() error {
	w, err := s.temp.NewSafeWriter(FileName)
	if err != nil {
		return unavailable("save", s.path, err)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s next=%d\n", headerPrefix, s.next)
	for _, e := range s.entries {
		fmt.Fprintf(bw, "%d|%s|%s|%s\n",
			e.ID,
			escape(filepath.Base(e.TrashedPath)),
			escape(e.OriginalPath),
			e.DeletedAt.Format(timeFormat),
		)
	}
	if err := bw.Flush(); err != nil {
		w.Cleanup()
		return unavailable("save", s.path, err)
	}

	if err := w.Commit(s.path); err != nil {
		return unavailable("save", s.path, err)
	}
	return nil
}

func unavailable(op, path string, err error) error {
	return types.NewError(op, path, fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err))
}
