package api

import (
	"alcyxob/coaching-app/internal/service"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the meal and exercise catalog. Reads are open
// to every authenticated user; writes are mounted behind the trainer
// role guard in routes.go.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ImageConfirmRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

// --- Meals ---

func (h *CatalogHandler) CreateMeal(c *gin.Context) {
	var input service.MealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	meal, err := h.catalogService.CreateMeal(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (h *CatalogHandler) GetMeal(c *gin.Context) {
	id, ok := parseIDParam(c, "mealId")
	if !ok {
		return
	}

	meal, err := h.catalogService.GetMeal(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *CatalogHandler) ListMeals(c *gin.Context) {
	meals, err := h.catalogService.ListMeals(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (h *CatalogHandler) UpdateMeal(c *gin.Context) {
	id, ok := parseIDParam(c, "mealId")
	if !ok {
		return
	}
	var input service.MealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	meal, err := h.catalogService.UpdateMeal(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *CatalogHandler) DeleteMeal(c *gin.Context) {
	id, ok := parseIDParam(c, "mealId")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteMeal(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Meal images ---

// RequestMealImageUpload returns a presigned PUT URL the client uploads
// the image bytes to, plus the object key to confirm afterwards.
func (h *CatalogHandler) RequestMealImageUpload(c *gin.Context) {
	id, ok := parseIDParam(c, "mealId")
	if !ok {
		return
	}
	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resp, err := h.catalogService.RequestMealImageUploadURL(c.Request.Context(), id, req.ContentType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CatalogHandler) ConfirmMealImage(c *gin.Context) {
	id, ok := parseIDParam(c, "mealId")
	if !ok {
		return
	}
	var req ImageConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	meal, err := h.catalogService.ConfirmMealImage(c.Request.Context(), id, req.ObjectKey)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (h *CatalogHandler) GetMealImageURL(c *gin.Context) {
	id, ok := parseIDParam(c, "mealId")
	if !ok {
		return
	}

	url, err := h.catalogService.GetMealImageDownloadURL(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

// --- Exercises ---

func (h *CatalogHandler) CreateExercise(c *gin.Context) {
	var input service.ExerciseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.catalogService.CreateExercise(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (h *CatalogHandler) GetExercise(c *gin.Context) {
	id, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}

	exercise, err := h.catalogService.GetExercise(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *CatalogHandler) ListExercises(c *gin.Context) {
	exercises, err := h.catalogService.ListExercises(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

func (h *CatalogHandler) UpdateExercise(c *gin.Context) {
	id, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}
	var input service.ExerciseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	exercise, err := h.catalogService.UpdateExercise(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (h *CatalogHandler) DeleteExercise(c *gin.Context) {
	id, ok := parseIDParam(c, "exerciseId")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteExercise(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
