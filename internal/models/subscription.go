package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription tiers and statuses mirror the purchase platform's vocabulary.
const (
	TierFree    = "free"
	TierPremium = "premium"

	SubStatusActive   = "active"
	SubStatusExpired  = "expired"
	SubStatusCanceled = "canceled"
)

// Subscription is the local mirror of a user's purchase-platform entitlement,
// updated by the webhook handler. The app never talks to the store directly.
type Subscription struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Tier          string         `gorm:"size:20;not null;default:'free'" json:"tier"`
	Status        string         `gorm:"size:20;not null;default:'active'" json:"status"`
	ProductID     string         `gorm:"size:100" json:"product_id"`
	ExpiresAt     *time.Time     `json:"expires_at"`
	EventID       string         `gorm:"size:100;index" json:"-"`
	LastEventType string         `gorm:"size:50" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// Premium reports whether the subscription currently unlocks paid features.
func (s *Subscription) Premium(now time.Time) bool {
	if s.Tier != TierPremium || s.Status != SubStatusActive {
		return false
	}
	if s.ExpiresAt != nil && s.ExpiresAt.Before(now) {
		return false
	}
	return true
}
