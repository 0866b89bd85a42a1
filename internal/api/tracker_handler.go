package api

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/service"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// TrackerHandler serves the trainee's self-tracking surface: daily
// steps with their goal, morning weight, and ad-hoc logged meals.
type TrackerHandler struct {
	stepService     service.StepService
	logService      service.LogService
	progressService service.ProgressService
}

// NewTrackerHandler creates a new TrackerHandler.
func NewTrackerHandler(stepService service.StepService, logService service.LogService, progressService service.ProgressService) *TrackerHandler {
	return &TrackerHandler{
		stepService:     stepService,
		logService:      logService,
		progressService: progressService,
	}
}

// --- Request Structs ---

type RecordStepsRequest struct {
	Date  string `json:"date"` // YYYY-MM-DD, today when empty
	Steps int    `json:"steps" binding:"min=0"`
}

type StepTargetRequest struct {
	TargetSteps int `json:"targetSteps" binding:"required"`
}

type RecordWeightRequest struct {
	Date     string  `json:"date"` // YYYY-MM-DD, today when empty
	WeightKg float64 `json:"weightKg" binding:"required,gt=0"`
}

type LogMealRequest struct {
	Date     string  `json:"date"` // YYYY-MM-DD, today when empty
	Name     string  `json:"name" binding:"required"`
	Calories int     `json:"calories" binding:"min=0"`
	Protein  float64 `json:"protein" binding:"min=0"`
	Carbs    float64 `json:"carbs" binding:"min=0"`
	Fat      float64 `json:"fat" binding:"min=0"`
}

type LoggedMealResponse struct {
	Meal      *domain.LoggedMeal `json:"meal"`
	DayTotals *service.DayTotals `json:"dayTotals"`
}

// parseBodyDate parses an optional YYYY-MM-DD string from a request
// body; empty means "today" and is resolved by the service clock.
func parseBodyDate(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

// --- Steps ---

func (h *TrackerHandler) RecordSteps(c *gin.Context) {
	userID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	var req RecordStepsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, ok := parseBodyDate(c, req.Date)
	if !ok {
		return
	}

	record, err := h.stepService.RecordSteps(c.Request.Context(), userID, date, req.Steps)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// GetStepProgress returns the day's steps against its target. Absent
// days report zero steps at the default target.
func (h *TrackerHandler) GetStepProgress(c *gin.Context) {
	userID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	progress, err := h.progressService.RecomputeStepProgress(c.Request.Context(), userID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *TrackerHandler) ListWeekSteps(c *gin.Context) {
	userID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	records, err := h.stepService.ListWeek(c.Request.Context(), userID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// UpdateStepTarget applies a new step goal from today onwards.
func (h *TrackerHandler) UpdateStepTarget(c *gin.Context) {
	userID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	var req StepTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.stepService.UpdateStepTarget(c.Request.Context(), userID, req.TargetSteps); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"targetSteps": req.TargetSteps})
}

// --- Weight ---

func (h *TrackerHandler) RecordWeight(c *gin.Context) {
	userID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	var req RecordWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, ok := parseBodyDate(c, req.Date)
	if !ok {
		return
	}

	record, err := h.logService.RecordWeight(c.Request.Context(), userID, date, req.WeightKg)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *TrackerHandler) ListWeights(c *gin.Context) {
	userID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	from, err := time.Parse(dateLayout, c.DefaultQuery("from", time.Now().UTC().AddDate(0, -1, 0).Format(dateLayout)))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse(dateLayout, c.DefaultQuery("to", time.Now().UTC().Format(dateLayout)))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
		return
	}

	records, err := h.logService.ListWeights(c.Request.Context(), userID, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// --- Logged meals ---

func (h *TrackerHandler) LogMeal(c *gin.Context) {
	userID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	var req LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date, ok := parseBodyDate(c, req.Date)
	if !ok {
		return
	}

	meal, totals, err := h.logService.LogMeal(c.Request.Context(), userID, date, service.LoggedMealInput{
		Name:     req.Name,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, LoggedMealResponse{Meal: meal, DayTotals: totals})
}

func (h *TrackerHandler) ListLoggedMeals(c *gin.Context) {
	userID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	meals, err := h.logService.ListLoggedMeals(c.Request.Context(), userID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (h *TrackerHandler) SetLoggedMealStatus(c *gin.Context) {
	userID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	mealID, ok := parseIDParam(c, "loggedMealId")
	if !ok {
		return
	}
	var req MealStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	meal, totals, err := h.logService.SetLoggedMealStatus(c.Request.Context(), userID, mealID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, LoggedMealResponse{Meal: meal, DayTotals: totals})
}

func (h *TrackerHandler) RemoveLoggedMeal(c *gin.Context) {
	userID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	mealID, ok := parseIDParam(c, "loggedMealId")
	if !ok {
		return
	}

	totals, err := h.logService.RemoveLoggedMeal(c.Request.Context(), userID, mealID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dayTotals": totals})
}
