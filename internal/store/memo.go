// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package store provides the persisted memo table and the daily
// recommendation quota counter.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/tejzpr/nearspot/internal/database"
	"gorm.io/gorm"
)

// MemoStore persists per-place memo records keyed by place name
type MemoStore struct {
	db *gorm.DB
}

// NewMemoStore creates a memo store backed by the given database
func NewMemoStore(db *gorm.DB) *MemoStore {
	return &MemoStore{db: db}
}

// SaveMemo upserts a memo by place name, replacing any prior record in
// full (hashtags included). Last write wins; there is no merge.
func (s *MemoStore) SaveMemo(placeName, content string, hashtags []string, createdAt time.Time) error {
	if placeName == "" {
		return fmt.Errorf("place name is required")
	}

	memo := database.NearspotMemo{
		PlaceName: placeName,
		Content:   content,
		Hashtags:  hashtags,
		CreatedAt: createdAt,
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing database.NearspotMemo
		err := tx.Where("place_name = ?", placeName).First(&existing).Error
		switch {
		case err == nil:
			memo.ID = existing.ID
			if err := tx.Save(&memo).Error; err != nil {
				return fmt.Errorf("failed to replace memo: %w", err)
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&memo).Error; err != nil {
				return fmt.Errorf("failed to create memo: %w", err)
			}
			return nil
		default:
			return fmt.Errorf("failed to look up memo: %w", err)
		}
	})
}

// GetMemo returns the memo for a place, or nil when none exists.
// Absence is not an error.
func (s *MemoStore) GetMemo(placeName string) (*database.NearspotMemo, error) {
	var memo database.NearspotMemo
	err := s.db.Where("place_name = ?", placeName).First(&memo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load memo: %w", err)
	}
	return &memo, nil
}

// GetHashtags returns the hashtags attached to a place's memo, or an
// empty slice when no memo exists
func (s *MemoStore) GetHashtags(placeName string) ([]string, error) {
	memo, err := s.GetMemo(placeName)
	if err != nil {
		return nil, err
	}
	if memo == nil {
		return []string{}, nil
	}
	return memo.Hashtags, nil
}

// RemoveMemo deletes the memo for a place. Deleting a missing memo is
// not an error.
func (s *MemoStore) RemoveMemo(placeName string) error {
	if err := s.db.Where("place_name = ?", placeName).Delete(&database.NearspotMemo{}).Error; err != nil {
		return fmt.Errorf("failed to remove memo: %w", err)
	}
	return nil
}

// ListMemos returns all persisted memos ordered by place name
func (s *MemoStore) ListMemos() ([]database.NearspotMemo, error) {
	var memos []database.NearspotMemo
	if err := s.db.Order("place_name").Find(&memos).Error; err != nil {
		return nil, fmt.Errorf("failed to list memos: %w", err)
	}
	return memos, nil
}
