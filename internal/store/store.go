// Package store holds the faculty directory and appointment book. Every
// mutation is written through to the database before it returns.
package store

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Store is the shared faculty and appointment store.
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New creates a Store backed by db.
func New(db *gorm.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// SetClock replaces the time source used for timestamps and "today".
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Now returns the store's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
