package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Report status enum constants
const (
	ReportStatusPending   = "PENDING"
	ReportStatusCompleted = "COMPLETED"
	ReportStatusFailed    = "FAILED"
)

// Report is one AI-generated market-strategy report, tied to the search
// query that produced it via the query fingerprint.
type Report struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	QueryFingerprint string          `gorm:"type:varchar(32);not null;index" json:"query_fingerprint"`
	Title            string          `gorm:"type:varchar(255);not null" json:"title"`
	Content          string          `gorm:"type:text" json:"content"`
	Model            string          `gorm:"type:varchar(100)" json:"model"`
	Status           string          `gorm:"type:varchar(20);not null;index" json:"status"` // PENDING, COMPLETED, FAILED
	CreditsCharged   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"credits_charged"`
	FailureReason    string          `gorm:"type:varchar(255)" json:"failure_reason,omitempty"`
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
