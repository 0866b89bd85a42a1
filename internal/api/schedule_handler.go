package api

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/service"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleHandler serves the weekly program: schedule lookup, the
// assignments inside it and the derived progress numbers.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
	progressService service.ProgressService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService service.ScheduleService, progressService service.ProgressService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		progressService: progressService,
	}
}

// --- Request Structs ---

type AssignMealRequest struct {
	MealID    string            `json:"mealId" binding:"required"`
	DayOfWeek int               `json:"dayOfWeek" binding:"min=0,max=6"`
	Timing    domain.MealTiming `json:"timing" binding:"required"`
}

type AssignExerciseRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required"`
	DayOfWeek  int    `json:"dayOfWeek" binding:"min=0,max=6"`
	Sets       int    `json:"sets" binding:"required,min=1"`
	Reps       int    `json:"reps" binding:"required,min=1"`
}

type MealStatusRequest struct {
	Status domain.MealStatus `json:"status" binding:"required"`
}

type ExerciseStatusRequest struct {
	Status domain.ExerciseStatus `json:"status" binding:"required"`
}

// MealStatusResponse returns the updated assignment together with the
// recomputed totals of its day, so clients refresh in one round trip.
type MealStatusResponse struct {
	Assignment *domain.MealAssignment `json:"assignment"`
	DayTotals  *service.DayTotals     `json:"dayTotals"`
}

// --- Schedule ---

// GetSchedule returns the schedule of the week containing the date
// query parameter (today when absent), creating it on first access.
// A trainer may pass traineeId to look at a trainee's week.
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	traineeID, ok := h.resolveTraineeID(c)
	if !ok {
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	schedule, err := h.scheduleService.GetOrCreateSchedule(c.Request.Context(), traineeID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// --- Meal assignments ---

func (h *ScheduleHandler) AssignMeal(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "scheduleId")
	if !ok {
		return
	}
	var req AssignMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	mealID, err := primitive.ObjectIDFromHex(req.MealID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid mealId format")
		return
	}

	assignment, err := h.scheduleService.AssignMeal(c.Request.Context(), scheduleID, mealID, req.DayOfWeek, req.Timing)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *ScheduleHandler) RemoveMeal(c *gin.Context) {
	assignmentID, ok := parseIDParam(c, "assignmentId")
	if !ok {
		return
	}

	if err := h.scheduleService.RemoveMeal(c.Request.Context(), assignmentID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ScheduleHandler) SetMealStatus(c *gin.Context) {
	assignmentID, ok := parseIDParam(c, "assignmentId")
	if !ok {
		return
	}
	var req MealStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	assignment, totals, err := h.scheduleService.SetMealStatus(c.Request.Context(), assignmentID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MealStatusResponse{Assignment: assignment, DayTotals: totals})
}

func (h *ScheduleHandler) ListDayMeals(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "scheduleId")
	if !ok {
		return
	}
	day, ok := parseDayParam(c)
	if !ok {
		return
	}

	meals, err := h.scheduleService.ListDayMeals(c.Request.Context(), scheduleID, day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

// --- Exercise assignments ---

func (h *ScheduleHandler) AssignExercise(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "scheduleId")
	if !ok {
		return
	}
	var req AssignExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format")
		return
	}

	assignment, err := h.scheduleService.AssignExercise(c.Request.Context(), scheduleID, exerciseID, req.DayOfWeek, req.Sets, req.Reps)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

func (h *ScheduleHandler) RemoveExercise(c *gin.Context) {
	assignmentID, ok := parseIDParam(c, "assignmentId")
	if !ok {
		return
	}

	if err := h.scheduleService.RemoveExercise(c.Request.Context(), assignmentID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ScheduleHandler) SetExerciseStatus(c *gin.Context) {
	assignmentID, ok := parseIDParam(c, "assignmentId")
	if !ok {
		return
	}
	var req ExerciseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	assignment, err := h.scheduleService.SetExerciseStatus(c.Request.Context(), assignmentID, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *ScheduleHandler) ListDayExercises(c *gin.Context) {
	scheduleID, ok := parseIDParam(c, "scheduleId")
	if !ok {
		return
	}
	day, ok := parseDayParam(c)
	if !ok {
		return
	}

	exercises, err := h.scheduleService.ListDayExercises(c.Request.Context(), scheduleID, day)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// --- Progress ---

func (h *ScheduleHandler) GetDayTotals(c *gin.Context) {
	traineeID, ok := h.resolveTraineeID(c)
	if !ok {
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	totals, err := h.progressService.RecomputeDay(c.Request.Context(), traineeID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

func (h *ScheduleHandler) GetDayPerformance(c *gin.Context) {
	traineeID, ok := h.resolveTraineeID(c)
	if !ok {
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	performance, err := h.progressService.DayPerformance(c.Request.Context(), traineeID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, performance)
}

func (h *ScheduleHandler) GetWeekTotals(c *gin.Context) {
	traineeID, ok := h.resolveTraineeID(c)
	if !ok {
		return
	}
	date, ok := parseDateQuery(c)
	if !ok {
		return
	}

	totals, err := h.progressService.WeekTotals(c.Request.Context(), traineeID, date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// resolveTraineeID returns the trainee whose data the request is about:
// the caller themselves, or the traineeId query parameter when the
// caller is the trainer.
func (h *ScheduleHandler) resolveTraineeID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return primitive.NilObjectID, false
	}

	override := c.Query("traineeId")
	if override == "" {
		return userID, true
	}

	role, err := getUserRoleFromContext(c)
	if err != nil || role != domain.RoleTrainer {
		abortWithError(c, http.StatusForbidden, "Only the trainer may act on another trainee")
		return primitive.NilObjectID, false
	}
	traineeID, err := primitive.ObjectIDFromHex(override)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid traineeId format")
		return primitive.NilObjectID, false
	}
	return traineeID, true
}

// parseDayParam parses the :day path parameter (0=Sunday..6=Saturday).
func parseDayParam(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 0 || day > 6 {
		abortWithError(c, http.StatusBadRequest, "Day must be between 0 (Sunday) and 6 (Saturday)")
		return 0, false
	}
	return day, true
}
