package api

import (
	"alcyxob/coaching-app/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dateLayout is the wire format for calendar dates in query params and
// request bodies. Dates are day-granular, time zones do not apply.
const dateLayout = "2006-01-02"

// getUserObjectID resolves the authenticated user id from the gin
// context into an ObjectID.
func getUserObjectID(c *gin.Context) (primitive.ObjectID, error) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(idStr)
}

// parseIDParam parses a path parameter as an ObjectID.
func parseIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}

// parseDateQuery parses the "date" query parameter, defaulting to now
// when absent so "today" is the natural zero-config call.
func parseDateQuery(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now().UTC(), true
	}
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return date, true
}

// respondServiceError maps the service error taxonomy onto HTTP status
// codes. Handlers call this after ruling out their own specific errors.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, "Backing store unavailable, retry later")
	case errors.Is(err, service.ErrScheduleNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrMealNotFound),
		errors.Is(err, service.ErrExerciseNotFound),
		errors.Is(err, service.ErrLoggedMealNotFound),
		errors.Is(err, service.ErrStepRecordNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTrainerNotConfigured):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrLoggedMealForbidden),
		errors.Is(err, service.ErrNotificationForbidden):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidDayOfWeek),
		errors.Is(err, service.ErrInvalidTiming),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidSetsReps),
		errors.Is(err, service.ErrInvalidStepCount),
		errors.Is(err, service.ErrInvalidStepTarget),
		errors.Is(err, service.ErrInvalidWeight),
		errors.Is(err, service.ErrCatalogValidation),
		errors.Is(err, service.ErrLoggedMealValidation),
		errors.Is(err, service.ErrNotificationValidation),
		errors.Is(err, service.ErrInvalidNotificationType),
		errors.Is(err, service.ErrNoRecipients):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
