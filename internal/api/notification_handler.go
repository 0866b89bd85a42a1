package api

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationHandler serves the notification inbox and the trainer's
// send endpoints.
type NotificationHandler struct {
	notificationService service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// --- Request Structs ---

type SendNotificationRequest struct {
	Title        string                  `json:"title" binding:"required"`
	Message      string                  `json:"message" binding:"required"`
	Type         domain.NotificationType `json:"type" binding:"required"`
	RecipientIDs []string                `json:"recipientIds"` // empty = broadcast
}

// --- Handler Methods ---

// Send delivers a notification. With recipients it fans out one row per
// recipient; without, it broadcasts to every trainee.
func (h *NotificationHandler) Send(c *gin.Context) {
	senderID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if len(req.RecipientIDs) == 0 {
		notification, err := h.notificationService.SendBroadcast(c.Request.Context(), senderID, req.Title, req.Message, req.Type)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, []domain.Notification{*notification})
		return
	}

	recipientIDs := make([]primitive.ObjectID, 0, len(req.RecipientIDs))
	for _, raw := range req.RecipientIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid recipient id format")
			return
		}
		recipientIDs = append(recipientIDs, id)
	}

	sent, err := h.notificationService.SendTargeted(c.Request.Context(), senderID, recipientIDs, req.Title, req.Message, req.Type)
	if err != nil {
		if errors.Is(err, service.ErrFanOutIncomplete) {
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sent)
}

// SendToTrainer lets a trainee message the trainer account.
func (h *NotificationHandler) SendToTrainer(c *gin.Context) {
	senderID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	var req SendNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	notification, err := h.notificationService.SendToTrainer(c.Request.Context(), senderID, req.Title, req.Message, req.Type)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	readerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}

	notifications, err := h.notificationService.List(c.Request.Context(), readerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// UnreadCount returns how many visible notifications are unread.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	readerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), readerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unreadCount": count})
}

// MarkRead stamps a notification as read for the caller.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	readerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	notificationID, ok := parseIDParam(c, "notificationId")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), readerID, notificationID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete removes a notification from the caller's inbox.
func (h *NotificationHandler) Delete(c *gin.Context) {
	readerID, err := getUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user from token")
		return
	}
	notificationID, ok := parseIDParam(c, "notificationId")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), readerID, notificationID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
