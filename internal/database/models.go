// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package database

import (
	"time"
)

// NearspotMemo represents a persisted memo attached to a place.
// Saving again for the same place replaces the prior record in full.
type NearspotMemo struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PlaceName string    `gorm:"uniqueIndex;not null" json:"place_name"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Hashtags  []string  `gorm:"serializer:json" json:"hashtags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for NearspotMemo
func (NearspotMemo) TableName() string {
	return "nearspot_memos"
}

// NearspotQuota is the singleton daily recommendation counter.
// UsedCount is only meaningful relative to LastDate; a read on a new
// calendar day treats the counter as logically reset to zero.
type NearspotQuota struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UsedCount int       `gorm:"not null;default:0" json:"used_count"`
	LastDate  string    `gorm:"not null" json:"last_date"` // YYYY-MM-DD, local time
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for NearspotQuota
func (NearspotQuota) TableName() string {
	return "nearspot_quota"
}
