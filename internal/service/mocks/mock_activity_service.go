package mocks

import (
	"context"
	"time"

	"gymapi/internal/analytics"
	"gymapi/internal/auth"
	"gymapi/internal/model"
	"gymapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) appointment(args mock.Arguments) (*model.Appointment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Appointment), args.Error(1)
}

func (m *MockAppointmentService) Create(ctx context.Context, actor auth.Principal, in service.AppointmentInput) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, actor, in))
}

func (m *MockAppointmentService) Update(ctx context.Context, actor auth.Principal, id string, in service.AppointmentInput) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, actor, id, in))
}

func (m *MockAppointmentService) Cancel(ctx context.Context, actor auth.Principal, id string) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, actor, id))
}

func (m *MockAppointmentService) Delete(ctx context.Context, actor auth.Principal, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockAppointmentService) Get(ctx context.Context, actor auth.Principal, id string) (*model.Appointment, error) {
	return m.appointment(m.Called(ctx, actor, id))
}

func (m *MockAppointmentService) List(ctx context.Context, actor auth.Principal, f model.AppointmentFilter) ([]model.Appointment, error) {
	args := m.Called(ctx, actor, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Appointment), args.Error(1)
}

func (m *MockAppointmentService) CheckOverlap(ctx context.Context, q service.OverlapQuery) (bool, error) {
	args := m.Called(ctx, q)
	return args.Bool(0), args.Error(1)
}

type MockProgressService struct {
	mock.Mock
}

func (m *MockProgressService) CreateLog(ctx context.Context, actor auth.Principal, athleteID string, l model.ProgressLog) (*model.ProgressLog, error) {
	args := m.Called(ctx, actor, athleteID, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProgressLog), args.Error(1)
}

func (m *MockProgressService) ListLogs(ctx context.Context, actor auth.Principal, athleteID string, limit int) ([]model.ProgressLog, error) {
	args := m.Called(ctx, actor, athleteID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProgressLog), args.Error(1)
}

func (m *MockProgressService) CreateWorkoutPlan(ctx context.Context, actor auth.Principal, athleteID string, in service.WorkoutPlanInput) (*model.WorkoutPlan, error) {
	return planResult(m.Called(ctx, actor, athleteID, in))
}

func (m *MockProgressService) CompleteWorkoutPlan(ctx context.Context, actor auth.Principal, id string) (*model.WorkoutPlan, error) {
	return planResult(m.Called(ctx, actor, id))
}

func (m *MockProgressService) Analytics(ctx context.Context, actor auth.Principal, athleteID string) (*analytics.KPI, error) {
	args := m.Called(ctx, actor, athleteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.KPI), args.Error(1)
}

func planResult(args mock.Arguments) (*model.WorkoutPlan, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkoutPlan), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Create(ctx context.Context, actor auth.Principal, in service.PaymentInput) (*model.Payment, error) {
	return paymentResult(m.Called(ctx, actor, in))
}

func (m *MockPaymentService) Reverse(ctx context.Context, actor auth.Principal, id, reason string) (*model.Payment, error) {
	return paymentResult(m.Called(ctx, actor, id, reason))
}

func (m *MockPaymentService) List(ctx context.Context, actor auth.Principal, page, pageSize int) (*service.PaymentListResult, error) {
	args := m.Called(ctx, actor, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PaymentListResult), args.Error(1)
}

func (m *MockPaymentService) Stats(ctx context.Context, actor auth.Principal, now time.Time) (*model.PaymentStats, error) {
	args := m.Called(ctx, actor, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentStats), args.Error(1)
}

func paymentResult(args mock.Arguments) (*model.Payment, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) Send(ctx context.Context, actor auth.Principal, receiverID, message string) (*model.ChatMessage, error) {
	args := m.Called(ctx, actor, receiverID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatMessage), args.Error(1)
}

func (m *MockChatService) Conversation(ctx context.Context, actor auth.Principal, otherID string) ([]model.ChatMessage, error) {
	args := m.Called(ctx, actor, otherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}

func (m *MockChatService) Conversations(ctx context.Context, actor auth.Principal) ([]model.ConversationSummary, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ConversationSummary), args.Error(1)
}

func (m *MockChatService) MarkRead(ctx context.Context, actor auth.Principal, otherID string) (int64, error) {
	args := m.Called(ctx, actor, otherID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChatService) Delete(ctx context.Context, actor auth.Principal, messageID string) error {
	return m.Called(ctx, actor, messageID).Error(0)
}

type MockStatisticsService struct {
	mock.Mock
}

func (m *MockStatisticsService) Get(ctx context.Context, actor auth.Principal, now time.Time) (*service.Statistics, error) {
	args := m.Called(ctx, actor, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Statistics), args.Error(1)
}
