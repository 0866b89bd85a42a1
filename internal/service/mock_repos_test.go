package service

import (
	"alcyxob/coaching-app/internal/domain"
	"alcyxob/coaching-app/internal/repository"
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Map-backed repository fakes. They reproduce the contracts the mongo
// implementations provide: sentinel errors, unique-key behavior on the
// schedule collection, idempotent deletes. Each fake takes its own
// mutex so tests can exercise concurrent callers.

// --- clock ---

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- users ---

type mockUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	m.users[id] = &stored
	return id, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) GetByRole(ctx context.Context, role domain.Role) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Role == role {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.users {
		if u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

// --- catalog meals ---

type mockMealRepo struct {
	mu    sync.Mutex
	meals map[primitive.ObjectID]*domain.Meal
}

func newMockMealRepo() *mockMealRepo {
	return &mockMealRepo{meals: make(map[primitive.ObjectID]*domain.Meal)}
}

func (m *mockMealRepo) Create(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *meal
	stored.ID = id
	m.meals[id] = &stored
	return id, nil
}

func (m *mockMealRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meal, ok := m.meals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *meal
	return &copied, nil
}

func (m *mockMealRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[primitive.ObjectID]bool, len(ids))
	var out []domain.Meal
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if meal, ok := m.meals[id]; ok {
			out = append(out, *meal)
		}
	}
	return out, nil
}

func (m *mockMealRepo) List(ctx context.Context, category string) ([]domain.Meal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Meal
	for _, meal := range m.meals {
		if category == "" || meal.Category == category {
			out = append(out, *meal)
		}
	}
	return out, nil
}

func (m *mockMealRepo) Update(ctx context.Context, meal *domain.Meal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.meals[meal.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *meal
	m.meals[meal.ID] = &stored
	return nil
}

func (m *mockMealRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.meals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.meals, id)
	return nil
}

// --- catalog exercises ---

type mockExerciseRepo struct {
	mu        sync.Mutex
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newMockExerciseRepo() *mockExerciseRepo {
	return &mockExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (m *mockExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *exercise
	stored.ID = id
	m.exercises[id] = &stored
	return id, nil
}

func (m *mockExerciseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exercise, ok := m.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *exercise
	return &copied, nil
}

func (m *mockExerciseRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[primitive.ObjectID]bool, len(ids))
	var out []domain.Exercise
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if exercise, ok := m.exercises[id]; ok {
			out = append(out, *exercise)
		}
	}
	return out, nil
}

func (m *mockExerciseRepo) List(ctx context.Context, category string) ([]domain.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Exercise
	for _, exercise := range m.exercises {
		if category == "" || exercise.Category == category {
			out = append(out, *exercise)
		}
	}
	return out, nil
}

func (m *mockExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *exercise
	m.exercises[exercise.ID] = &stored
	return nil
}

func (m *mockExerciseRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.exercises, id)
	return nil
}

// --- schedules ---

type scheduleKey struct {
	traineeID primitive.ObjectID
	weekStart time.Time
}

type mockScheduleRepo struct {
	mu        sync.Mutex
	schedules map[primitive.ObjectID]*domain.WeeklySchedule
	byKey     map[scheduleKey]primitive.ObjectID
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{
		schedules: make(map[primitive.ObjectID]*domain.WeeklySchedule),
		byKey:     make(map[scheduleKey]primitive.ObjectID),
	}
}

func (m *mockScheduleRepo) GetOrCreate(ctx context.Context, traineeID primitive.ObjectID, weekStart time.Time) (*domain.WeeklySchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := scheduleKey{traineeID: traineeID, weekStart: weekStart}
	if id, ok := m.byKey[key]; ok {
		copied := *m.schedules[id]
		return &copied, nil
	}
	schedule := &domain.WeeklySchedule{
		ID:            primitive.NewObjectID(),
		TraineeID:     traineeID,
		WeekStartDate: weekStart,
		CreatedAt:     time.Now().UTC(),
	}
	m.schedules[schedule.ID] = schedule
	m.byKey[key] = schedule.ID
	copied := *schedule
	return &copied, nil
}

func (m *mockScheduleRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WeeklySchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	schedule, ok := m.schedules[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *schedule
	return &copied, nil
}

func (m *mockScheduleRepo) GetByTraineeAndWeek(ctx context.Context, traineeID primitive.ObjectID, weekStart time.Time) (*domain.WeeklySchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byKey[scheduleKey{traineeID: traineeID, weekStart: weekStart}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *m.schedules[id]
	return &copied, nil
}

// --- meal assignments ---

type mockMealAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[primitive.ObjectID]*domain.MealAssignment
}

func newMockMealAssignmentRepo() *mockMealAssignmentRepo {
	return &mockMealAssignmentRepo{assignments: make(map[primitive.ObjectID]*domain.MealAssignment)}
}

func (m *mockMealAssignmentRepo) Create(ctx context.Context, assignment *domain.MealAssignment) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *assignment
	stored.ID = id
	m.assignments[id] = &stored
	return id, nil
}

func (m *mockMealAssignmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MealAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *mockMealAssignmentRepo) GetByScheduleID(ctx context.Context, scheduleID primitive.ObjectID) ([]domain.MealAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.MealAssignment
	for _, a := range m.assignments {
		if a.ScheduleID == scheduleID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockMealAssignmentRepo) GetByScheduleAndDay(ctx context.Context, scheduleID primitive.ObjectID, dayOfWeek int) ([]domain.MealAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.MealAssignment
	for _, a := range m.assignments {
		if a.ScheduleID == scheduleID && a.DayOfWeek == dayOfWeek {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockMealAssignmentRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MealStatus, statusChangedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	a.StatusChangedAt = statusChangedAt
	return nil
}

func (m *mockMealAssignmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assignments, id)
	return nil
}

// --- exercise assignments ---

type mockExerciseAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[primitive.ObjectID]*domain.ExerciseAssignment
}

func newMockExerciseAssignmentRepo() *mockExerciseAssignmentRepo {
	return &mockExerciseAssignmentRepo{assignments: make(map[primitive.ObjectID]*domain.ExerciseAssignment)}
}

func (m *mockExerciseAssignmentRepo) Create(ctx context.Context, assignment *domain.ExerciseAssignment) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *assignment
	stored.ID = id
	m.assignments[id] = &stored
	return id, nil
}

func (m *mockExerciseAssignmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ExerciseAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *mockExerciseAssignmentRepo) GetByScheduleID(ctx context.Context, scheduleID primitive.ObjectID) ([]domain.ExerciseAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ExerciseAssignment
	for _, a := range m.assignments {
		if a.ScheduleID == scheduleID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockExerciseAssignmentRepo) GetByScheduleAndDay(ctx context.Context, scheduleID primitive.ObjectID, dayOfWeek int) ([]domain.ExerciseAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ExerciseAssignment
	for _, a := range m.assignments {
		if a.ScheduleID == scheduleID && a.DayOfWeek == dayOfWeek {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockExerciseAssignmentRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ExerciseStatus, statusChangedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assignments[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = status
	a.StatusChangedAt = statusChangedAt
	return nil
}

func (m *mockExerciseAssignmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assignments, id)
	return nil
}

// --- logged meals ---

type mockLoggedMealRepo struct {
	mu    sync.Mutex
	meals map[primitive.ObjectID]*domain.LoggedMeal
}

func newMockLoggedMealRepo() *mockLoggedMealRepo {
	return &mockLoggedMealRepo{meals: make(map[primitive.ObjectID]*domain.LoggedMeal)}
}

func (m *mockLoggedMealRepo) Create(ctx context.Context, meal *domain.LoggedMeal) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *meal
	stored.ID = id
	m.meals[id] = &stored
	return id, nil
}

func (m *mockLoggedMealRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.LoggedMeal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meal, ok := m.meals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *meal
	return &copied, nil
}

func (m *mockLoggedMealRepo) GetByTraineeAndDate(ctx context.Context, traineeID primitive.ObjectID, date time.Time) ([]domain.LoggedMeal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.LoggedMeal
	for _, meal := range m.meals {
		if meal.TraineeID == traineeID && meal.Date.Equal(date) {
			out = append(out, *meal)
		}
	}
	return out, nil
}

func (m *mockLoggedMealRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.MealStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	meal, ok := m.meals[id]
	if !ok {
		return repository.ErrNotFound
	}
	meal.Status = status
	return nil
}

func (m *mockLoggedMealRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.meals, id)
	return nil
}

// --- steps ---

type stepKey struct {
	traineeID primitive.ObjectID
	date      time.Time
}

type mockStepRepo struct {
	mu      sync.Mutex
	records map[stepKey]*domain.StepRecord
}

func newMockStepRepo() *mockStepRepo {
	return &mockStepRepo{records: make(map[stepKey]*domain.StepRecord)}
}

func (m *mockStepRepo) GetByTraineeAndDate(ctx context.Context, traineeID primitive.ObjectID, date time.Time) (*domain.StepRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[stepKey{traineeID: traineeID, date: date}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (m *mockStepRepo) GetRange(ctx context.Context, traineeID primitive.ObjectID, from, to time.Time) ([]domain.StepRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StepRecord
	for key, record := range m.records {
		if key.traineeID != traineeID {
			continue
		}
		if key.date.Before(from) || key.date.After(to) {
			continue
		}
		out = append(out, *record)
	}
	return out, nil
}

func (m *mockStepRepo) UpsertSteps(ctx context.Context, traineeID primitive.ObjectID, date time.Time, steps, defaultTarget int) (*domain.StepRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := stepKey{traineeID: traineeID, date: date}
	record, ok := m.records[key]
	if !ok {
		record = &domain.StepRecord{
			ID:          primitive.NewObjectID(),
			TraineeID:   traineeID,
			Date:        date,
			TargetSteps: defaultTarget,
			CreatedAt:   time.Now().UTC(),
		}
		m.records[key] = record
	}
	record.Steps = steps
	record.UpdatedAt = time.Now().UTC()
	copied := *record
	return &copied, nil
}

func (m *mockStepRepo) EnsureRecord(ctx context.Context, traineeID primitive.ObjectID, date time.Time, target int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := stepKey{traineeID: traineeID, date: date}
	if _, ok := m.records[key]; ok {
		return nil
	}
	m.records[key] = &domain.StepRecord{
		ID:          primitive.NewObjectID(),
		TraineeID:   traineeID,
		Date:        date,
		TargetSteps: target,
		CreatedAt:   time.Now().UTC(),
	}
	return nil
}

func (m *mockStepRepo) SetTargetFrom(ctx context.Context, traineeID primitive.ObjectID, from time.Time, target int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, record := range m.records {
		if key.traineeID != traineeID || key.date.Before(from) {
			continue
		}
		record.TargetSteps = target
	}
	return nil
}

// --- weight ---

type mockWeightRepo struct {
	mu      sync.Mutex
	records map[stepKey]*domain.WeightRecord
}

func newMockWeightRepo() *mockWeightRepo {
	return &mockWeightRepo{records: make(map[stepKey]*domain.WeightRecord)}
}

func (m *mockWeightRepo) Upsert(ctx context.Context, traineeID primitive.ObjectID, date time.Time, weightKg float64) (*domain.WeightRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := stepKey{traineeID: traineeID, date: date}
	record, ok := m.records[key]
	if !ok {
		record = &domain.WeightRecord{
			ID:        primitive.NewObjectID(),
			TraineeID: traineeID,
			Date:      date,
			CreatedAt: time.Now().UTC(),
		}
		m.records[key] = record
	}
	record.WeightKg = weightKg
	record.UpdatedAt = time.Now().UTC()
	copied := *record
	return &copied, nil
}

func (m *mockWeightRepo) GetRange(ctx context.Context, traineeID primitive.ObjectID, from, to time.Time) ([]domain.WeightRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.WeightRecord
	for key, record := range m.records {
		if key.traineeID != traineeID {
			continue
		}
		if key.date.Before(from) || key.date.After(to) {
			continue
		}
		out = append(out, *record)
	}
	return out, nil
}

// --- notifications ---

type mockNotificationRepo struct {
	mu            sync.Mutex
	notifications map[primitive.ObjectID]*domain.Notification
	// failAfter makes Create fail once this many inserts succeeded;
	// used to exercise fan-out compensation. Zero means never fail.
	failAfter int
	created   int
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[primitive.ObjectID]*domain.Notification)}
}

func (m *mockNotificationRepo) Create(ctx context.Context, notification *domain.Notification) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAfter > 0 && m.created >= m.failAfter {
		return primitive.NilObjectID, repository.ErrStoreUnavailable
	}
	id := primitive.NewObjectID()
	stored := *notification
	stored.ID = id
	m.notifications[id] = &stored
	m.created++
	return id, nil
}

func (m *mockNotificationRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (m *mockNotificationRepo) ListForReader(ctx context.Context, readerID primitive.ObjectID) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for _, n := range m.notifications {
		if n.RecipientID == nil || *n.RecipientID == readerID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) CountUnreadForReader(ctx context.Context, readerID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, n := range m.notifications {
		if (n.RecipientID == nil || *n.RecipientID == readerID) && n.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id primitive.ObjectID, readAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok {
		return repository.ErrNotFound
	}
	n.ReadAt = &readAt
	return nil
}

func (m *mockNotificationRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notifications[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.notifications, id)
	return nil
}

func (m *mockNotificationRepo) DeleteBatch(ctx context.Context, batchID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, n := range m.notifications {
		if n.BatchID == batchID {
			delete(m.notifications, id)
		}
	}
	return nil
}
