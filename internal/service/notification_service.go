package service

import (
	"alcyxob/coaching-app/internal/dateutil"
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrNotificationForbidden   = errors.New("notification is addressed to another user")
	ErrInvalidNotificationType = errors.New("unknown notification type")
	ErrNotificationValidation  = errors.New("notification title and message are required")
	ErrNoRecipients            = errors.New("targeted notification needs at least one recipient")
	// ErrFanOutIncomplete means a multi-recipient send failed partway
	// and the rows written so far were rolled back. The caller should
	// retry the whole send.
	ErrFanOutIncomplete = errors.New("notification fan-out incomplete, send rolled back")
)

// NotificationService delivers messages between users.
//
// A broadcast is a single row every trainee can read. A targeted send
// inserts one row per recipient so each recipient owns their read
// state; rows of one send share a batch id and a partial insert
// failure deletes the batch before reporting the error, so readers
// never see a half-delivered send.
type NotificationService interface {
	SendBroadcast(ctx context.Context, senderID primitive.ObjectID, title, message string, nType domain.NotificationType) (*domain.Notification, error)
	SendTargeted(ctx context.Context, senderID primitive.ObjectID, recipientIDs []primitive.ObjectID, title, message string, nType domain.NotificationType) ([]domain.Notification, error)
	// SendToTrainer addresses the deployment's trainer account, located
	// by role rather than by a configured identity.
	SendToTrainer(ctx context.Context, senderID primitive.ObjectID, title, message string, nType domain.NotificationType) (*domain.Notification, error)
	List(ctx context.Context, readerID primitive.ObjectID) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, readerID primitive.ObjectID) (int64, error)
	MarkRead(ctx context.Context, readerID, notificationID primitive.ObjectID) error
	Delete(ctx context.Context, readerID, notificationID primitive.ObjectID) error
}

// notificationService implements the NotificationService interface.
type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	clock            dateutil.Clock
}

// NewNotificationService creates a new instance of notificationService.
func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	clock dateutil.Clock,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		clock:            clock,
	}
}

// SendBroadcast inserts one recipient-less row visible to every trainee.
func (s *notificationService) SendBroadcast(ctx context.Context, senderID primitive.ObjectID, title, message string, nType domain.NotificationType) (*domain.Notification, error) {
	if senderID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}
	if err := validateNotification(title, message, nType); err != nil {
		return nil, err
	}

	notification := &domain.Notification{
		Title:     strings.TrimSpace(title),
		Message:   strings.TrimSpace(message),
		Type:      nType,
		SenderID:  senderID,
		CreatedAt: s.clock.Now(),
	}
	id, err := s.notificationRepo.Create(ctx, notification)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	notification.ID = id
	return notification, nil
}

// SendTargeted fans one message out to the given recipients, one row
// each. On a partial insert failure the rows already written are
// removed by batch id before the error is reported; compensation is
// best-effort, a failure to clean up still surfaces as
// ErrFanOutIncomplete.
func (s *notificationService) SendTargeted(ctx context.Context, senderID primitive.ObjectID, recipientIDs []primitive.ObjectID, title, message string, nType domain.NotificationType) ([]domain.Notification, error) {
	if senderID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}
	if err := validateNotification(title, message, nType); err != nil {
		return nil, err
	}
	if len(recipientIDs) == 0 {
		return nil, ErrNoRecipients
	}
	for _, id := range recipientIDs {
		if id == primitive.NilObjectID {
			return nil, ErrNoRecipients
		}
	}

	batchID := ""
	if len(recipientIDs) > 1 {
		batchID = uuid.New().String()
	}

	now := s.clock.Now()
	sent := make([]domain.Notification, 0, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		rid := recipientID
		notification := domain.Notification{
			Title:       strings.TrimSpace(title),
			Message:     strings.TrimSpace(message),
			Type:        nType,
			SenderID:    senderID,
			RecipientID: &rid,
			BatchID:     batchID,
			CreatedAt:   now,
		}
		id, err := s.notificationRepo.Create(ctx, &notification)
		if err != nil {
			if batchID != "" && len(sent) > 0 {
				// Roll back the rows of this send that made it in.
				_ = s.notificationRepo.DeleteBatch(ctx, batchID)
			}
			return nil, fmt.Errorf("%w: %v", ErrFanOutIncomplete, err)
		}
		notification.ID = id
		sent = append(sent, notification)
	}
	return sent, nil
}

// SendToTrainer delivers a targeted notification to the trainer account.
func (s *notificationService) SendToTrainer(ctx context.Context, senderID primitive.ObjectID, title, message string, nType domain.NotificationType) (*domain.Notification, error) {
	trainer, err := s.userRepo.GetByRole(ctx, domain.RoleTrainer)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainerNotConfigured
		}
		return nil, wrapRepoErr(err)
	}

	sent, err := s.SendTargeted(ctx, senderID, []primitive.ObjectID{trainer.ID}, title, message, nType)
	if err != nil {
		return nil, err
	}
	return &sent[0], nil
}

// List returns the reader's notifications, newest first: their targeted
// rows plus every broadcast.
func (s *notificationService) List(ctx context.Context, readerID primitive.ObjectID) ([]domain.Notification, error) {
	if readerID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}

	notifications, err := s.notificationRepo.ListForReader(ctx, readerID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return notifications, nil
}

// UnreadCount returns how many of the reader's visible notifications
// have no read timestamp yet.
func (s *notificationService) UnreadCount(ctx context.Context, readerID primitive.ObjectID) (int64, error) {
	if readerID == primitive.NilObjectID {
		return 0, ErrNotAuthenticated
	}

	count, err := s.notificationRepo.CountUnreadForReader(ctx, readerID)
	if err != nil {
		return 0, wrapRepoErr(err)
	}
	return count, nil
}

// MarkRead stamps a notification as read. A targeted row can only be
// marked by its recipient. Marking a broadcast stamps the shared row,
// which hides it from every reader's unread count; per-reader broadcast
// read state would need a separate read-receipt collection.
func (s *notificationService) MarkRead(ctx context.Context, readerID, notificationID primitive.ObjectID) error {
	if _, err := s.getReadable(ctx, readerID, notificationID); err != nil {
		return err
	}

	if err := s.notificationRepo.MarkRead(ctx, notificationID, s.clock.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return wrapRepoErr(err)
	}
	return nil
}

// Delete removes a notification under the same authorization rule as
// MarkRead.
func (s *notificationService) Delete(ctx context.Context, readerID, notificationID primitive.ObjectID) error {
	if _, err := s.getReadable(ctx, readerID, notificationID); err != nil {
		return err
	}

	if err := s.notificationRepo.Delete(ctx, notificationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return wrapRepoErr(err)
	}
	return nil
}

// getReadable loads a notification and verifies the reader may act on
// it: broadcasts are open to everyone, targeted rows only to their
// recipient.
func (s *notificationService) getReadable(ctx context.Context, readerID, notificationID primitive.ObjectID) (*domain.Notification, error) {
	if readerID == primitive.NilObjectID {
		return nil, ErrNotAuthenticated
	}

	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, wrapRepoErr(err)
	}
	if !notification.IsBroadcast() && *notification.RecipientID != readerID {
		return nil, ErrNotificationForbidden
	}
	return notification, nil
}

func validateNotification(title, message string, nType domain.NotificationType) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(message) == "" {
		return ErrNotificationValidation
	}
	if !nType.Valid() {
		return ErrInvalidNotificationType
	}
	return nil
}
