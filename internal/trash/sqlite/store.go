// Package sqlite keeps trash records in a SQLite database inside the holding
// area.
package sqlite

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/babarot/trashcan/internal/core/types"
	"github.com/samber/lo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// FileName is the name of the database file in the holding area
const FileName = "trashcan.db"

// record is the row layout of the trash table
type record struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	OriginalPath string    `gorm:"not null"`
	TrashedPath  string    `gorm:"not null;uniqueIndex"`
	TrashedAt    time.Time `gorm:"column:deleted_at;not null;index"`
}

func (record) TableName() string {
	return "trash"
}

func (r record) entry() types.Entry {
	return types.Entry{
		ID:           r.ID,
		OriginalPath: r.OriginalPath,
		TrashedPath:  r.TrashedPath,
		DeletedAt:    r.TrashedAt,
	}
}

// Store is a SQLite record store
type Store struct {
	db   *gorm.DB
	path string
}

// Open opens the database in dir, creating dir, the database file and the
// schema when they do not exist yet
func Open(dir string) (*Store, error) {
	path := filepath.Join(dir, FileName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, unavailable("open", dir, err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, unavailable("open", path, err)
	}

	s := &Store{db: db, path: path}
	if err := db.AutoMigrate(&record{}); err != nil {
		_ = s.Close()
		return nil, unavailable("migrate", path, err)
	}

	slog.Debug("sqlite store opened", "path", path)
	return s, nil
}

// Insert persists entry and returns it with the identifier assigned by the database
func (s *Store) Insert(entry types.Entry) (types.Entry, error) {
	r := record{
		OriginalPath: entry.OriginalPath,
		TrashedPath:  entry.TrashedPath,
		TrashedAt:    entry.DeletedAt,
	}
	if err := s.db.Create(&r).Error; err != nil {
		return types.Entry{}, unavailable("insert", entry.TrashedPath, err)
	}

	entry.ID = r.ID
	return entry, nil
}

// List returns all entries in identifier order
func (s *Store) List() ([]types.Entry, error) {
	var records []record
	if err := s.db.Order("id").Find(&records).Error; err != nil {
		return nil, unavailable("list", s.path, err)
	}
	return lo.Map(records, func(r record, _ int) types.Entry {
		return r.entry()
	}), nil
}

// Find returns the entry with the given identifier
func (s *Store) Find(id uint64) (types.Entry, error) {
	var r record
	err := s.db.Take(&r, id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return types.Entry{}, fmt.Errorf("entry %d: %w", id, types.ErrNotFound)
	case err != nil:
		return types.Entry{}, unavailable("find", s.path, err)
	}
	return r.entry(), nil
}

// Delete removes the entry with the given identifier. Unknown identifiers
// are ignored.
func (s *Store) Delete(id uint64) error {
	if err := s.db.Delete(&record{}, id).Error; err != nil {
		return unavailable("delete", s.path, err)
	}
	return nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return unavailable("close", s.path, err)
	}
	if err := sqlDB.Close(); err != nil {
		return unavailable("close", s.path, err)
	}
	return nil
}

func unavailable(op, path string, err error) error {
	return types.NewError(op, path, fmt.Errorf("%w: %w", types.ErrStoreUnavailable, err))
}
