package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrepSession is one batch-cooking block generated for a meal plan. Rows are
// mapped from the LLM's session array after it has been through the JSON
// repair pipeline.
type PrepSession struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	PlanID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"plan_id"`
	Title           string         `gorm:"not null" json:"title"`
	Description     string         `gorm:"type:text" json:"description"`
	DayOfWeek       string         `gorm:"size:10" json:"day_of_week"`
	DurationMinutes int            `json:"duration_minutes"`
	Tasks           string         `gorm:"type:text" json:"tasks"`
	Equipment       string         `gorm:"type:text" json:"equipment"`
	StorageTips     string         `gorm:"type:text" json:"storage_tips"`
	Notes           string         `gorm:"type:text" json:"notes"`
	DisplayOrder    int            `gorm:"not null;default:0" json:"display_order"`
	Completed       bool           `gorm:"not null;default:false" json:"completed"`
}

func (PrepSession) TableName() string {
	return "prep_sessions"
}
