// Package dsinfo persists a small per-dataset metadata record — the
// district name, run id, edge/shortcut counts, and load status — in a
// local sqlite file, independent of the binary store itself. It lets an
// operator inspect what is or has been loaded without reading the
// (potentially large) binary store back in.
package dsinfo

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatasetInfo is one row of the dataset_info table.
type DatasetInfo struct {
	ID            int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Name          string     `gorm:"column:name;type:varchar(128);uniqueIndex"`
	RunID         string     `gorm:"column:run_id;type:varchar(64)"`
	District      string     `gorm:"column:district;type:varchar(128)"`
	EdgeCount     int        `gorm:"column:edge_count"`
	ShortcutCount int        `gorm:"column:shortcut_count"`
	PartitionRes  int8       `gorm:"column:partition_res"`
	HybridRes     int8       `gorm:"column:hybrid_res"`
	Status        string     `gorm:"column:status;type:varchar(32)"`
	LoadedAt      time.Time  `gorm:"column:loaded_at"`
	UnloadedAt    *time.Time `gorm:"column:unloaded_at"`
}

// TableName pins the table name gorm would otherwise pluralize differently.
func (DatasetInfo) TableName() string { return "dataset_info" }

// Store wraps a gorm.DB opened against a sqlite file holding dataset_info.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// migrates the dataset_info table into it.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open dsinfo store %q: %w", path, err)
	}
	if err := db.AutoMigrate(&DatasetInfo{}); err != nil {
		return nil, fmt.Errorf("migrate dataset_info: %w", err)
	}
	return &Store{db: db}, nil
}

// RecordLoad upserts a DatasetInfo row for name, marking it loaded now.
func (s *Store) RecordLoad(name string, info DatasetInfo) error {
	info.Name = name
	info.Status = "loaded"
	info.LoadedAt = time.Now()
	info.UnloadedAt = nil

	var existing DatasetInfo
	err := s.db.Where("name = ?", name).First(&existing).Error
	switch {
	case err == nil:
		info.ID = existing.ID
		return s.db.Save(&info).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.db.Create(&info).Error
	default:
		return fmt.Errorf("lookup dataset_info %q: %w", name, err)
	}
}

// RecordUnload marks name's row unloaded, leaving its history in place.
func (s *Store) RecordUnload(name string) error {
	now := time.Now()
	result := s.db.Model(&DatasetInfo{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{"status": "unloaded", "unloaded_at": now})
	if result.Error != nil {
		return fmt.Errorf("record unload for %q: %w", name, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no dataset_info row for %q", name)
	}
	return nil
}

// Get retrieves name's current DatasetInfo row.
func (s *Store) Get(name string) (*DatasetInfo, error) {
	var info DatasetInfo
	if err := s.db.Where("name = ?", name).First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no dataset_info row for %q", name)
		}
		return nil, fmt.Errorf("get dataset_info %q: %w", name, err)
	}
	return &info, nil
}

// List returns every dataset_info row, most recently loaded first.
func (s *Store) List() ([]DatasetInfo, error) {
	var infos []DatasetInfo
	if err := s.db.Order("loaded_at DESC").Find(&infos).Error; err != nil {
		return nil, fmt.Errorf("list dataset_info: %w", err)
	}
	return infos, nil
}

// Close releases the underlying sql.DB connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
