package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateBuyer     = "CREATE_BUYER"
	ActionUpdateBuyer     = "UPDATE_BUYER"
	ActionDeleteBuyer     = "DELETE_BUYER"
	ActionMoveBuyerStage  = "MOVE_BUYER_STAGE"
	ActionLogBuyerContact = "LOG_BUYER_CONTACT"

	ActionReloadDataset  = "RELOAD_DATASET"
	ActionGenerateReport = "GENERATE_REPORT"
	ActionDebitCredits   = "DEBIT_CREDITS"
	ActionGrantCredits   = "GRANT_CREDITS"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // nil for system-initiated actions
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/fingerprint)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
