package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/service"
	"github.com/platewise/backend/internal/types"
)

// IngredientHandler serves the ingredient catalog and the USDA match flow.
type IngredientHandler struct {
	ingredients *service.IngredientService
}

func NewIngredientHandler(ingredients *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

func (h *IngredientHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ingredients", h.List)
	r.GET("/ingredients/:id", h.Get)
	r.POST("/ingredients", h.Create)
	r.PUT("/ingredients/:id", h.Update)
	r.GET("/ingredients/usda/search", h.SearchUSDA)
	r.POST("/ingredients/:id/usda-match", h.ApplyUSDAMatch)
}

func (h *IngredientHandler) List(c *gin.Context) {
	items, err := h.ingredients.ListIngredients(c.Request.Context(), c.Query("q"))
	if err != nil {
		log.Printf("[IngredientHandler] list failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to list ingredients"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": items})
}

func (h *IngredientHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	ingredient, err := h.ingredients.GetIngredient(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "ingredient not found"})
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func (h *IngredientHandler) Create(c *gin.Context) {
	var ingredient models.Ingredient
	if err := c.ShouldBindJSON(&ingredient); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	created, err := h.ingredients.CreateIngredient(c.Request.Context(), &ingredient)
	if err != nil {
		log.Printf("[IngredientHandler] create failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to create ingredient"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *IngredientHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var ingredient models.Ingredient
	if err := c.ShouldBindJSON(&ingredient); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}
	updated, err := h.ingredients.UpdateIngredient(c.Request.Context(), id, &ingredient)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "ingredient not found"})
			return
		}
		log.Printf("[IngredientHandler] update failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to update ingredient"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *IngredientHandler) SearchUSDA(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: "q is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	matches, err := h.ingredients.SearchUSDACandidates(c.Request.Context(), query, limit)
	if err != nil {
		log.Printf("[IngredientHandler] usda search failed: %v", err)
		c.JSON(http.StatusBadGateway, middleware.ErrorResponse{Error: "food database search failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (h *IngredientHandler) ApplyUSDAMatch(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req types.USDAMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, middleware.ErrorResponse{Error: err.Error()})
		return
	}

	outcome, err := h.ingredients.ApplyUSDAMatch(c.Request.Context(), id, &req)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "ingredient not found"})
			return
		}
		log.Printf("[IngredientHandler] usda match failed: %v", err)
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to apply match"})
		return
	}

	resp := gin.H{
		"ingredient":        outcome.Ingredient,
		"conversion_method": outcome.Conversion.Method,
		"gram_weight":       outcome.Conversion.GramWeight,
	}
	if outcome.Warning != "" {
		resp["warning"] = outcome.Warning
	}
	c.JSON(http.StatusOK, resp)
}
