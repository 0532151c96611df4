package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/types"
)

var ErrBadWebhookSignature = errors.New("webhook signature mismatch")

// Webhook event types we act on; everything else is recorded but ignored.
const (
	eventInitialPurchase = "INITIAL_PURCHASE"
	eventRenewal         = "RENEWAL"
	eventCancellation    = "CANCELLATION"
	eventExpiration      = "EXPIRATION"
)

// SubscriptionService mirrors purchase-platform entitlements locally and
// answers the paywall's quota question. The free tier gets a fixed number of
// plan generations per week, counted in Redis.
type SubscriptionService struct {
	db            *gorm.DB
	redis         *redis.Client
	webhookSecret string
	freeQuota     int
}

func NewSubscriptionService(db *gorm.DB, redisClient *redis.Client, webhookSecret string, freeQuota int) *SubscriptionService {
	return &SubscriptionService{
		db:            db,
		redis:         redisClient,
		webhookSecret: webhookSecret,
		freeQuota:     freeQuota,
	}
}

// Get returns the user's subscription, creating the free-tier row on first
// access.
func (s *SubscriptionService) Get(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		sub = models.Subscription{UserID: userID, Tier: models.TierFree, Status: models.SubStatusActive}
		if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
			return nil, err
		}
		return &sub, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// VerifySignature checks the webhook HMAC header against the shared secret.
func (s *SubscriptionService) VerifySignature(body []byte, signature string) error {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrBadWebhookSignature
	}
	return nil
}

// ApplyWebhook updates the local entitlement mirror from a purchase event.
// Events are idempotent by event id, so platform retries are harmless.
func (s *SubscriptionService) ApplyWebhook(ctx context.Context, req *types.PurchaseWebhookRequest) error {
	userID, err := uuid.Parse(req.Event.AppUserID)
	if err != nil {
		return fmt.Errorf("invalid app_user_id: %w", err)
	}

	sub, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if sub.EventID == req.Event.ID {
		return nil
	}

	updates := map[string]interface{}{
		"event_id":        req.Event.ID,
		"last_event_type": req.Event.Type,
		"product_id":      req.Event.ProductID,
	}

	switch req.Event.Type {
	case eventInitialPurchase, eventRenewal:
		updates["tier"] = models.TierPremium
		updates["status"] = models.SubStatusActive
		if req.Event.ExpirationAtMs > 0 {
			updates["expires_at"] = time.UnixMilli(req.Event.ExpirationAtMs)
		}
	case eventCancellation:
		updates["status"] = models.SubStatusCanceled
	case eventExpiration:
		updates["tier"] = models.TierFree
		updates["status"] = models.SubStatusExpired
	}

	return s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ?", sub.ID).
		Updates(updates).Error
}

// CanGeneratePlan implements the paywall check: premium users always pass,
// free users consume one of their weekly generations. The Redis counter key
// rolls over with the ISO week.
func (s *SubscriptionService) CanGeneratePlan(ctx context.Context, userID uuid.UUID) (bool, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if sub.Premium(time.Now()) {
		return true, nil
	}

	year, week := time.Now().ISOWeek()
	key := fmt.Sprintf("platewise:plangen:%s:%d-%02d", userID, year, week)

	count, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		s.redis.Expire(ctx, key, 8*24*time.Hour)
	}
	return count <= int64(s.freeQuota), nil
}
