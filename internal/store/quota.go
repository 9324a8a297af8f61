// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/tejzpr/nearspot/internal/database"
	"gorm.io/gorm"
)

// DateFormat is the stored quota date layout (local time)
const DateFormat = "2006-01-02"

// CanUseFreeOn is the pure day-rollover rule: a counter from a prior
// date is logically reset to zero even before it is rewritten.
func CanUseFreeOn(usedCount int, lastDate, today string, limit int) bool {
	if lastDate != today {
		return true
	}
	return usedCount < limit
}

// NextCountOn derives the counter value after one use on the given day
func NextCountOn(usedCount int, lastDate, today string) int {
	if lastDate != today {
		return 1
	}
	return usedCount + 1
}

// QuotaStore persists the singleton daily recommendation counter
type QuotaStore struct {
	db    *gorm.DB
	limit int

	// Now is injectable for tests; defaults to time.Now
	Now func() time.Time
}

// NewQuotaStore creates a quota store with the given daily free limit
func NewQuotaStore(db *gorm.DB, limit int) *QuotaStore {
	return &QuotaStore{db: db, limit: limit, Now: time.Now}
}

// Limit returns the configured daily free allotment
func (s *QuotaStore) Limit() int {
	return s.limit
}

// today returns the current local date string
func (s *QuotaStore) today() string {
	return s.Now().Format(DateFormat)
}

// load returns the stored counter, or a zero counter when none exists
func (s *QuotaStore) load() (database.NearspotQuota, error) {
	var q database.NearspotQuota
	err := s.db.First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.NearspotQuota{UsedCount: 0, LastDate: s.today()}, nil
	}
	if err != nil {
		return q, fmt.Errorf("failed to load quota counter: %w", err)
	}
	return q, nil
}

// CanUseFree reports whether a free recommendation is still available
// today. A stored counter from a previous day counts as reset.
func (s *QuotaStore) CanUseFree() (bool, error) {
	q, err := s.load()
	if err != nil {
		return false, err
	}
	return CanUseFreeOn(q.UsedCount, q.LastDate, s.today(), s.limit), nil
}

// Status returns the effective counter for today after the logical
// day-rollover, without writing anything back.
func (s *QuotaStore) Status() (used int, limit int, err error) {
	q, err := s.load()
	if err != nil {
		return 0, s.limit, err
	}
	if q.LastDate != s.today() {
		return 0, s.limit, nil
	}
	return q.UsedCount, s.limit, nil
}

// IncrementUsage records one use, applying the day-rollover first.
// Atomic with respect to a single logical caller.
func (s *QuotaStore) IncrementUsage() error {
	today := s.today()
	return s.db.Transaction(func(tx *gorm.DB) error {
		var q database.NearspotQuota
		err := tx.First(&q).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			q = database.NearspotQuota{UsedCount: 1, LastDate: today}
			if err := tx.Create(&q).Error; err != nil {
				return fmt.Errorf("failed to create quota counter: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("failed to load quota counter: %w", err)
		}

		q.UsedCount = NextCountOn(q.UsedCount, q.LastDate, today)
		q.LastDate = today
		if err := tx.Save(&q).Error; err != nil {
			return fmt.Errorf("failed to save quota counter: %w", err)
		}
		return nil
	})
}
