package model

import (
	"time"

	"github.com/google/uuid"
)

// SearchHistory stores one effective query per user, keyed by the query
// fingerprint. Re-running the same canonical query updates searched_at and
// result_count instead of inserting a duplicate row.
type SearchHistory struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_history_user_fp" json:"user_id"`
	Fingerprint string     `gorm:"type:varchar(32);not null;uniqueIndex:idx_history_user_fp" json:"fingerprint"`
	Category    string     `gorm:"type:varchar(20);not null" json:"category"`
	Keyword     string     `gorm:"type:varchar(255)" json:"keyword"`
	DateFrom    *time.Time `json:"date_from"`
	DateTo      *time.Time `json:"date_to"`
	Filters     string     `gorm:"type:jsonb" json:"filters"` // canonical filter list, JSON
	ResultCount int        `gorm:"not null" json:"result_count"`
	SearchedAt  time.Time  `gorm:"not null;index" json:"searched_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
