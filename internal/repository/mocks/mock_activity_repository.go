package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"gymapi/internal/model"
	"gymapi/internal/repository"
)

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) appointment(args mock.Arguments) (*model.Appointment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) Create(ctx context.Context, a *model.Appointment) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, a))
}

func (m *MockAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, id))
}

func (m *MockAppointmentRepository) Update(ctx context.Context, a *model.Appointment) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, a))
}

func (m *MockAppointmentRepository) Cancel(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockAppointmentRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAppointmentRepository) List(ctx context.Context, f model.AppointmentFilter) ([]model.Appointment, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) HasOverlap(ctx context.Context, staffID string, startsAt, endsAt time.Time, excludeID string) (bool, error) {
	args := m.Called(ctx, staffID, startsAt, endsAt, excludeID)
	return args.Bool(0), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *model.Payment) (*model.Payment, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentRepository) HasReversal(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, f model.PaymentFilter, pq repository.PageQuery) (*repository.PageResult[model.Payment], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Payment]), args.Error(1)
}

func (m *MockPaymentRepository) Stats(ctx context.Context, orgID string, from, to time.Time) (*model.PaymentStats, error) {
	args := m.Called(ctx, orgID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentStats), args.Error(1)
}

func (m *MockPaymentRepository) AddLessons(ctx context.Context, athleteID string, lessons int) error {
	return m.Called(ctx, athleteID, lessons).Error(0)
}

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) CreateLog(ctx context.Context, l *model.ProgressLog) (*model.ProgressLog, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressLog), args.Error(1)
}

func (m *MockProgressRepository) ListLogs(ctx context.Context, athleteID string, limit int) ([]model.ProgressLog, error) {
	args := m.Called(ctx, athleteID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProgressLog), args.Error(1)
}

func (m *MockProgressRepository) CreatePlan(ctx context.Context, p *model.WorkoutPlan) (*model.WorkoutPlan, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkoutPlan), args.Error(1)
}

func (m *MockProgressRepository) CompletePlan(ctx context.Context, id string, at time.Time) (*model.WorkoutPlan, error) {
	args := m.Called(ctx, id, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkoutPlan), args.Error(1)
}

func (m *MockProgressRepository) ListPlansSince(ctx context.Context, athleteID string, since time.Time, limit int) ([]model.WorkoutPlan, error) {
	args := m.Called(ctx, athleteID, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkoutPlan), args.Error(1)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) Create(ctx context.Context, msg *model.ChatMessage) (*model.ChatMessage, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) FindByID(ctx context.Context, id string) (*model.ChatMessage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) Conversation(ctx context.Context, a, b string, limit int) ([]model.ChatMessage, error) {
	args := m.Called(ctx, a, b, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) Conversations(ctx context.Context, me string) ([]model.ConversationSummary, error) {
	args := m.Called(ctx, me)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ConversationSummary), args.Error(1)
}

func (m *MockChatRepository) MarkRead(ctx context.Context, me, other string, at time.Time) (int64, error) {
	args := m.Called(ctx, me, other, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockStatisticsRepository struct {
	mock.Mock
}

func (m *MockStatisticsRepository) CountProfiles(ctx context.Context, orgID string, from, to time.Time) (int, error) {
	args := m.Called(ctx, orgID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockStatisticsRepository) Revenue(ctx context.Context, orgID string, from, to time.Time) (float64, error) {
	args := m.Called(ctx, orgID, from, to)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStatisticsRepository) PaymentMethods(ctx context.Context, orgID string) (map[string]int, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockStatisticsRepository) CountAppointments(ctx context.Context, orgID string, from, to time.Time) (int, error) {
	args := m.Called(ctx, orgID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockStatisticsRepository) AppointmentsByStatus(ctx context.Context, orgID string) (map[string]int, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockStatisticsRepository) DocumentsByStatus(ctx context.Context, orgID string) (map[string]int, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockStatisticsRepository) CountExpiredUnmarked(ctx context.Context, orgID string, today time.Time) (int, error) {
	args := m.Called(ctx, orgID, today)
	return args.Int(0), args.Error(1)
}
