package api

import (
	"alcyxob/coaching-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserHandler serves account lookups.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me returns the authenticated user's own account.
func (h *UserHandler) Me(c *gin.Context) {
	userID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// GetTrainer returns the deployment's trainer account.
func (h *UserHandler) GetTrainer(c *gin.Context) {
	trainer, err := h.userService.GetTrainer(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(trainer))
}

// ListTrainees returns every trainee account. Trainer only.
func (h *UserHandler) ListTrainees(c *gin.Context) {
	trainees, err := h.userService.ListTrainees(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := make([]UserResponse, 0, len(trainees))
	for i := range trainees {
		resp = append(resp, MapUserToResponse(&trainees[i]))
	}
	c.JSON(http.StatusOK, resp)
}
