package storage

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Fixed keys for the durable client store.
const (
	KeySession  = "session"
	KeyTheme    = "theme"
	KeyLanguage = "language"
)

// Entry is one key/value row in the client store (GORM).
type Entry struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value []byte `gorm:"not null"`
}

func (Entry) TableName() string { return "kv_entries" }

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is the durable client store backed by an embedded sqlite file.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite store at path and migrates the
// schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("storage open: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("storage migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Get returns the raw value for key, or ErrNotFound.
func (s *Store) Get(key string) ([]byte, error) {
	var e Entry
	if err := s.db.Where("key = ?", key).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e.Value, nil
}

// Set upserts the raw value for key.
func (s *Store) Set(key string, value []byte) error {
	e := Entry{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	return s.db.Delete(&Entry{}, "key = ?", key).Error
}

// GetJSON decodes the value for key into v.
func (s *Store) GetJSON(key string, v any) error {
	raw, err := s.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// SetJSON encodes v and stores it under key.
func (s *Store) SetJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(key, raw)
}
