package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// Register creates the user, profile, dietary preference and allergen rows
// and returns a signed token. Preferences and allergies arrive as comma
// separated lists from the onboarding flow.
func (s *AuthService) Register(req *types.RegisterRequest) (string, error) {
	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return "", ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return "", err
	}

	profile := models.UserProfile{
		UserID:   user.ID,
		Username: req.Username,
	}
	if err := s.db.Create(&profile).Error; err != nil {
		return "", err
	}

	for _, p := range splitList(req.DietaryPrefs) {
		dp := models.DietaryPreference{UserID: user.ID, PreferenceType: p}
		if p == "custom" {
			dp.CustomName = "Custom Diet"
		}
		if err := s.db.Create(&dp).Error; err != nil {
			return "", err
		}
	}

	for _, a := range splitList(req.Allergies) {
		record := models.Allergen{UserID: user.ID, AllergenName: a, SeverityLevel: 1}
		if err := s.db.Create(&record).Error; err != nil {
			return "", err
		}
	}

	return s.generateToken(user.ID, profile.Username)
}

func (s *AuthService) Login(email, password string) (string, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return "", err
	}

	return s.generateToken(user.ID, profile.Username)
}

// CompleteOnboarding stores the profile answers and flips the onboarded flag.
func (s *AuthService) CompleteOnboarding(userID uuid.UUID, profile *models.UserProfile) error {
	updates := map[string]interface{}{
		"household_size":        profile.HouseholdSize,
		"cooking_ability_level": profile.CookingAbilityLevel,
		"weekly_budget_cents":   profile.WeeklyBudgetCents,
		"calorie_target":        profile.CalorieTarget,
		"protein_target_grams":  profile.ProteinTargetGrams,
	}
	if err := s.db.Model(&models.UserProfile{}).Where("user_id = ?", userID).Updates(updates).Error; err != nil {
		return err
	}
	return s.db.Model(&models.User{}).Where("id = ?", userID).Update("onboarded", true).Error
}

func (s *AuthService) generateToken(userID uuid.UUID, username string) (string, error) {
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:   userID,
		Username: username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func splitList(list string) []string {
	if list == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
