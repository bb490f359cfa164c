package entities

import (
	"github.com/google/uuid"
)

type Scan struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	ImageURL string    `json:"image_url"`
	RawText  string    `json:"raw_text" gorm:"type:text"`

	User           *User           `gorm:"foreignKey:UserID"`
	AnalysisResult *AnalysisResult `gorm:"foreignKey:ScanID"`
	Timestamp
}

type AnalysisResult struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ScanID     uuid.UUID `gorm:"uniqueIndex" json:"scan_id"`
	Beneficial string    `json:"beneficial" gorm:"type:jsonb"`
	Harmful    string    `json:"harmful" gorm:"type:jsonb"`
	Neutral    string    `json:"neutral" gorm:"type:jsonb"`
	Summary    string    `json:"summary" gorm:"type:text"`

	Scan *Scan `gorm:"foreignKey:ScanID"`
	Timestamp
}
