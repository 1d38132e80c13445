package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditEntry reasons
const (
	CreditReasonGrant        = "GRANT"
	CreditReasonReportDebit  = "REPORT_DEBIT"
	CreditReasonManualAdjust = "MANUAL_ADJUST"
)

// CreditEntry is one row of the per-user credit ledger. Debits carry a
// negative amount; the balance is the sum over a user's entries. The
// idempotency key makes a retried debit a no-op instead of a double charge.
type CreditEntry struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Reason         string          `gorm:"type:varchar(30);not null" json:"reason"`
	Description    string          `gorm:"type:varchar(255)" json:"description"`
	IdempotencyKey *string         `gorm:"type:varchar(64);uniqueIndex" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time       `gorm:"index" json:"created_at"`
}
