package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Funnel stage enum constants
const (
	StageLead        = "LEAD"
	StageContacted   = "CONTACTED"
	StageQuoted      = "QUOTED"
	StageNegotiating = "NEGOTIATING"
	StageWon         = "WON"
	StageLost        = "LOST"
)

// ContactChannel enum constants
const (
	ChannelEmail   = "EMAIL"
	ChannelPhone   = "PHONE"
	ChannelMeeting = "MEETING"
)

// Buyer represents one prospective importer tracked on the kanban funnel
type Buyer struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyName    string         `gorm:"type:varchar(255);not null" json:"company_name"`
	Country        string         `gorm:"type:varchar(100)" json:"country"`
	Stage          string         `gorm:"type:varchar(20);not null;index" json:"stage"` // LEAD .. LOST
	ContactPerson  string         `gorm:"type:varchar(255)" json:"contact_person"`
	Phone          string         `gorm:"type:varchar(50)" json:"phone"`
	Email          string         `gorm:"type:varchar(255)" json:"email"`
	HSCodes        string         `gorm:"type:varchar(255)" json:"hs_codes"` // comma-separated codes of interest
	Notes          string         `gorm:"type:text" json:"notes"`
	RowFingerprint string         `gorm:"type:varchar(32);index" json:"row_fingerprint"` // source trade record, if created from a search hit
	Contacts       []BuyerContact `gorm:"foreignKey:BuyerID;constraint:OnDelete:CASCADE" json:"contacts"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// BuyerContact is one logged touchpoint with a buyer
type BuyerContact struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BuyerID    uuid.UUID `gorm:"type:uuid;not null;index" json:"buyer_id"`
	Channel    string    `gorm:"type:varchar(20);not null" json:"channel"` // EMAIL, PHONE, MEETING
	Summary    string    `gorm:"type:text;not null" json:"summary"`
	OccurredAt time.Time `gorm:"not null" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
