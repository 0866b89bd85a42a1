package service

import (
	"alcyxob/coaching-app/internal/domain"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type notificationFixture struct {
	repo     *mockNotificationRepo
	userRepo *mockUserRepo
	clock    *fakeClock
	service  NotificationService
	trainer  primitive.ObjectID
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()
	f := &notificationFixture{
		repo:     newMockNotificationRepo(),
		userRepo: newMockUserRepo(),
		clock:    newFakeClock(testNow),
	}
	f.service = NewNotificationService(f.repo, f.userRepo, f.clock)

	trainerID, err := f.userRepo.Create(context.Background(), &domain.User{
		Name:  "Coach",
		Email: "coach@example.com",
		Role:  domain.RoleTrainer,
	})
	require.NoError(t, err)
	f.trainer = trainerID
	return f
}

func (f *notificationFixture) addTrainee(t *testing.T, email string) primitive.ObjectID {
	t.Helper()
	id, err := f.userRepo.Create(context.Background(), &domain.User{
		Name:  "Trainee",
		Email: email,
		Role:  domain.RoleTrainee,
	})
	require.NoError(t, err)
	return id
}

// A broadcast is one shared row: every reader sees it, including
// accounts that did not exist when it was sent.
func TestSendBroadcast_VisibleToEveryReader(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	early := f.addTrainee(t, "early@example.com")

	sent, err := f.service.SendBroadcast(ctx, f.trainer, "Gym closed", "Holiday on Friday", domain.NotificationInfo)
	require.NoError(t, err)
	assert.True(t, sent.IsBroadcast())

	late := f.addTrainee(t, "late@example.com")

	for _, reader := range []primitive.ObjectID{early, late} {
		list, err := f.service.List(ctx, reader)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, sent.ID, list[0].ID)

		count, err := f.service.UnreadCount(ctx, reader)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	}
}

// Marking a broadcast read stamps the shared row, so it leaves every
// reader's unread count at once. Per-reader broadcast read state would
// need a separate read-receipt store.
func TestMarkRead_BroadcastIsShared(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	a := f.addTrainee(t, "a@example.com")
	b := f.addTrainee(t, "b@example.com")

	sent, err := f.service.SendBroadcast(ctx, f.trainer, "Title", "Message", domain.NotificationInfo)
	require.NoError(t, err)

	require.NoError(t, f.service.MarkRead(ctx, a, sent.ID))

	for _, reader := range []primitive.ObjectID{a, b} {
		count, err := f.service.UnreadCount(ctx, reader)
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	}
}

// Targeted sends give each recipient their own row with independent
// read state.
func TestSendTargeted_IndependentReadState(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	a := f.addTrainee(t, "a@example.com")
	b := f.addTrainee(t, "b@example.com")
	c := f.addTrainee(t, "c@example.com")

	sent, err := f.service.SendTargeted(ctx, f.trainer, []primitive.ObjectID{a, b}, "Check in", "How was the week?", domain.NotificationSuccess)
	require.NoError(t, err)
	require.Len(t, sent, 2)
	assert.NotEmpty(t, sent[0].BatchID)
	assert.Equal(t, sent[0].BatchID, sent[1].BatchID)

	// The uninvolved trainee sees nothing.
	list, err := f.service.List(ctx, c)
	require.NoError(t, err)
	assert.Empty(t, list)

	// a reading theirs does not touch b's.
	listA, err := f.service.List(ctx, a)
	require.NoError(t, err)
	require.Len(t, listA, 1)
	require.NoError(t, f.service.MarkRead(ctx, a, listA[0].ID))

	countA, err := f.service.UnreadCount(ctx, a)
	require.NoError(t, err)
	assert.EqualValues(t, 0, countA)
	countB, err := f.service.UnreadCount(ctx, b)
	require.NoError(t, err)
	assert.EqualValues(t, 1, countB)
}

func TestSendTargeted_SingleRecipientHasNoBatch(t *testing.T) {
	f := newNotificationFixture(t)
	a := f.addTrainee(t, "a@example.com")

	sent, err := f.service.SendTargeted(context.Background(), f.trainer, []primitive.ObjectID{a}, "Hi", "Just you", domain.NotificationInfo)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Empty(t, sent[0].BatchID)
}

func TestMarkRead_ForbiddenForOtherRecipient(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	a := f.addTrainee(t, "a@example.com")
	b := f.addTrainee(t, "b@example.com")

	sent, err := f.service.SendTargeted(ctx, f.trainer, []primitive.ObjectID{a}, "Private", "For a only", domain.NotificationWarning)
	require.NoError(t, err)

	err = f.service.MarkRead(ctx, b, sent[0].ID)
	assert.ErrorIs(t, err, ErrNotificationForbidden)
	err = f.service.Delete(ctx, b, sent[0].ID)
	assert.ErrorIs(t, err, ErrNotificationForbidden)

	// The rightful recipient can.
	assert.NoError(t, f.service.MarkRead(ctx, a, sent[0].ID))
}

// A fan-out that fails partway rolls back the rows that made it in, so
// no recipient ever observes a half-delivered send.
func TestSendTargeted_PartialFailureRollsBack(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	a := f.addTrainee(t, "a@example.com")
	b := f.addTrainee(t, "b@example.com")
	c := f.addTrainee(t, "c@example.com")

	f.repo.failAfter = 2

	_, err := f.service.SendTargeted(ctx, f.trainer, []primitive.ObjectID{a, b, c}, "Plan", "New week", domain.NotificationInfo)
	assert.ErrorIs(t, err, ErrFanOutIncomplete)

	for _, reader := range []primitive.ObjectID{a, b, c} {
		list, err := f.service.List(ctx, reader)
		require.NoError(t, err)
		assert.Empty(t, list)
	}
}

func TestSendToTrainer_ResolvesByRole(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	trainee := f.addTrainee(t, "a@example.com")

	sent, err := f.service.SendToTrainer(ctx, trainee, "Question", "Can I swap Tuesday?", domain.NotificationInfo)
	require.NoError(t, err)
	require.NotNil(t, sent.RecipientID)
	assert.Equal(t, f.trainer, *sent.RecipientID)

	list, err := f.service.List(ctx, f.trainer)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestSendToTrainer_NoTrainerConfigured(t *testing.T) {
	f := &notificationFixture{
		repo:     newMockNotificationRepo(),
		userRepo: newMockUserRepo(),
		clock:    newFakeClock(testNow),
	}
	f.service = NewNotificationService(f.repo, f.userRepo, f.clock)

	_, err := f.service.SendToTrainer(context.Background(), primitive.NewObjectID(), "Hello", "Anyone there?", domain.NotificationInfo)
	assert.ErrorIs(t, err, ErrTrainerNotConfigured)
}

func TestSend_Validation(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	a := f.addTrainee(t, "a@example.com")

	_, err := f.service.SendBroadcast(ctx, f.trainer, "", "Message", domain.NotificationInfo)
	assert.ErrorIs(t, err, ErrNotificationValidation)

	_, err = f.service.SendBroadcast(ctx, f.trainer, "Title", "  ", domain.NotificationInfo)
	assert.ErrorIs(t, err, ErrNotificationValidation)

	_, err = f.service.SendBroadcast(ctx, f.trainer, "Title", "Message", domain.NotificationType("urgent"))
	assert.ErrorIs(t, err, ErrInvalidNotificationType)

	_, err = f.service.SendTargeted(ctx, f.trainer, nil, "Title", "Message", domain.NotificationInfo)
	assert.ErrorIs(t, err, ErrNoRecipients)

	_, err = f.service.SendTargeted(ctx, f.trainer, []primitive.ObjectID{a, primitive.NilObjectID}, "Title", "Message", domain.NotificationInfo)
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestMarkRead_UnknownNotification(t *testing.T) {
	f := newNotificationFixture(t)
	a := f.addTrainee(t, "a@example.com")

	err := f.service.MarkRead(context.Background(), a, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
