package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/masmgr/logospots/internal/response"
)

// ResponseModel is one cached reply row.
type ResponseModel struct {
	URL       string `gorm:"primaryKey;column:url"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName pins the table name.
func (ResponseModel) TableName() string { return "responses" }

// SQLiteBackend stores one row per URL.
type SQLiteBackend struct {
	db *gorm.DB
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return NewSQLiteBackend(db)
}

// NewSQLiteBackend wraps an existing connection.
func NewSQLiteBackend(db *gorm.DB) (*SQLiteBackend, error) {
	if err := db.AutoMigrate(&ResponseModel{}); err != nil {
		return nil, fmt.Errorf("migrate responses: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

// ReadAll loads every row.
func (b *SQLiteBackend) ReadAll(ctx context.Context) (map[string]response.Response, error) {
	var rows []ResponseModel
	if err := b.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make(map[string]response.Response, len(rows))
	for _, row := range rows {
		var r response.Response
		if err := json.Unmarshal(row.Payload, &r); err != nil {
			return nil, fmt.Errorf("decode row %q: %w", row.URL, err)
		}
		entries[row.URL] = r
	}
	return entries, nil
}

// WriteAll upserts every entry.
func (b *SQLiteBackend) WriteAll(ctx context.Context, entries map[string]response.Response) error {
	if len(entries) == 0 {
		return nil
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now().UTC()
	rows := make([]ResponseModel, 0, len(keys))
	for _, k := range keys {
		payload, err := json.Marshal(entries[k])
		if err != nil {
			return fmt.Errorf("encode %q: %w", k, err)
		}
		rows = append(rows, ResponseModel{URL: k, Payload: payload, UpdatedAt: now})
	}

	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).CreateInBatches(&rows, 200).Error
}

// Close closes the underlying connection.
func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
