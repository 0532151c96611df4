package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/service"
	"github.com/platewise/backend/internal/types"
)

// AuthHandler serves registration, login and onboarding.
type AuthHandler struct {
	auth  *service.AuthService
	email service.IEmailService
	db    *gorm.DB
}

func NewAuthHandler(auth *service.AuthService, email service.IEmailService, db *gorm.DB) *AuthHandler {
	return &AuthHandler{auth: auth, email: email, db: db}
}

// RegisterRoutes mounts the public auth endpoints.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
}

// RegisterProtectedRoutes mounts endpoints that require a valid token.
func (h *AuthHandler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	r.POST("/auth/onboarding", h.CompleteOnboarding)
	r.GET("/auth/me", h.Me)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.auth.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			c.JSON(http.StatusConflict, middleware.ErrorResponse{Error: "email or username already registered"})
			return
		}
		log.Printf("[AuthHandler] register failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to register"})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err == nil {
		if err := h.email.SendWelcomeEmail(&user); err != nil {
			log.Printf("[AuthHandler] welcome email: %v", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, middleware.ErrorResponse{Error: "invalid email or password"})
			return
		}
		log.Printf("[AuthHandler] login failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

type onboardingRequest struct {
	HouseholdSize      int    `json:"household_size" binding:"required,gte=1"`
	CookingAbility     string `json:"cooking_ability" binding:"required"`
	WeeklyBudgetCents  int    `json:"weekly_budget_cents"`
	CalorieTarget      int    `json:"calorie_target"`
	ProteinTargetGrams int    `json:"protein_target_grams"`
}

func (h *AuthHandler) CompleteOnboarding(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req onboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}

	profile := &models.UserProfile{
		HouseholdSize:       req.HouseholdSize,
		CookingAbilityLevel: req.CookingAbility,
		WeeklyBudgetCents:   req.WeeklyBudgetCents,
		CalorieTarget:       req.CalorieTarget,
		ProteinTargetGrams:  req.ProteinTargetGrams,
	}
	if err := h.auth.CompleteOnboarding(userID, profile); err != nil {
		log.Printf("[AuthHandler] onboarding failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to save profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "onboarded"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "user not found"})
		return
	}
	var profile models.UserProfile
	h.db.Where("user_id = ?", userID).First(&profile)

	c.JSON(http.StatusOK, gin.H{"user": user, "profile": profile})
}
