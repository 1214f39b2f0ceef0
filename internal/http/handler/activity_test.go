package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gymapi/internal/auth"
	"gymapi/internal/cascade"
	"gymapi/internal/model"
	"gymapi/internal/service"
	serviceMocks "gymapi/internal/service/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLogin(t *testing.T) {
	authSvc := new(serviceMocks.MockAuthService)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Post("/login", Login(authSvc))

	t.Run("invalid email", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", map[string]string{"email": "nope", "password": "x"}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", res.Error.Code)
		assert.Contains(t, res.Error.Message, "email")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		authSvc.On("Login", mock.Anything, "mario@gym.it", "bad").Return(nil, service.ErrUnauthorized).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", map[string]string{"email": "mario@gym.it", "password": "bad"}))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})

	t.Run("success", func(t *testing.T) {
		authSvc.On("Login", mock.Anything, "mario@gym.it", "secret").
			Return(&service.LoginResult{AccessToken: "tok", TokenType: "Bearer"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/login", map[string]string{"email": "mario@gym.it", "password": "secret"}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	authSvc.AssertExpectations(t)
}

func TestCreateAppointment(t *testing.T) {
	svc := new(serviceMocks.MockAppointmentService)
	app := newApp(trainer)
	app.Post("/appointments", CreateAppointment(svc))

	athleteID := uuid.New().String()
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	body := map[string]any{
		"athlete_id": athleteID,
		"starts_at":  start.Format(time.RFC3339),
		"ends_at":    start.Add(time.Hour).Format(time.RFC3339),
		"type":       "personal",
	}

	t.Run("overlap", func(t *testing.T) {
		svc.On("Create", mock.Anything, trainer, mock.MatchedBy(func(in service.AppointmentInput) bool {
			return in.AthleteID == athleteID && in.StartsAt.Equal(start) && in.Type == "personal"
		})).Return(nil, service.ErrConflict).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/appointments", body))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "CONFLICT", decodeError(t, resp).Error.Code)
	})

	t.Run("created", func(t *testing.T) {
		svc.On("Create", mock.Anything, trainer, mock.Anything).
			Return(&model.Appointment{ID: "ap-1", AthleteID: athleteID}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/appointments", body))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("bad status", func(t *testing.T) {
		bad := map[string]any{
			"athlete_id": athleteID,
			"starts_at":  start.Format(time.RFC3339),
			"ends_at":    start.Add(time.Hour).Format(time.RFC3339),
			"status":     "postponed",
		}
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/appointments", bad))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})

	svc.AssertExpectations(t)
}

func TestCreatePayment(t *testing.T) {
	svc := new(serviceMocks.MockPaymentService)
	app := newApp(trainer)
	app.Post("/payments", CreatePayment(svc))
	app.Get("/payments", ListPayments(svc))

	athleteID := uuid.New().String()

	t.Run("non positive amount", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/payments", map[string]any{
			"athlete_id": athleteID, "amount": -5, "method_text": "Cash",
		}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("created", func(t *testing.T) {
		svc.On("Create", mock.Anything, trainer, service.PaymentInput{
			AthleteID: athleteID, Amount: 120, MethodText: "Cash", Lessons: 10,
		}).Return(&model.Payment{ID: "pay-1", Amount: 120}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/payments", map[string]any{
			"athlete_id": athleteID, "amount": 120, "method_text": "Cash", "lessons": 10,
		}))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("invalid page", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodGet, "/payments?page=x", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_PAGE", decodeError(t, resp).Error.Code)
	})

	svc.AssertExpectations(t)
}

func TestSendMessage(t *testing.T) {
	svc := new(serviceMocks.MockChatService)
	app := newApp(trainer)
	app.Post("/chat/:userId", SendMessage(svc))
	app.Delete("/chat/messages/:id", DeleteMessage(svc))

	other := uuid.New().String()

	t.Run("sent", func(t *testing.T) {
		svc.On("Send", mock.Anything, trainer, other, "ciao").
			Return(&model.ChatMessage{ID: "m-1", SenderID: trainer.ProfileID, ReceiverID: other, Message: "ciao"}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/chat/"+other, map[string]string{"message": "ciao"}))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("invalid receiver", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/chat/nobody", map[string]string{"message": "ciao"}))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	t.Run("delete someone else's message", func(t *testing.T) {
		id := uuid.New().String()
		svc.On("Delete", mock.Anything, trainer, id).Return(service.ErrForbidden).Once()

		resp, _ := app.Test(jsonRequest(http.MethodDelete, "/chat/messages/"+id, nil))

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	svc.AssertExpectations(t)
}

func TestDeleteUser(t *testing.T) {
	admin := auth.Principal{UserID: "u-admin", ProfileID: uuid.NewString(), Role: model.RoleAdmin}
	users := new(serviceMocks.MockUserService)
	app := newApp(admin)
	app.Delete("/users/:id", DeleteUser(users))

	t.Run("linked data blocks the cascade", func(t *testing.T) {
		id := uuid.NewString()
		users.On("Delete", mock.Anything, admin, id).
			Return(nil, fmt.Errorf("%w: %w", cascade.ErrCascadeFailed, fmt.Errorf("%w: payments_athlete_id_fkey", cascade.ErrLinkedData))).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/users/"+id, nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "CASCADE_FAILED", res.Error.Code)
		assert.Contains(t, res.Error.Message, "linked data")
		assert.NotEmpty(t, res.RequestID)
	})

	t.Run("other organization is not found", func(t *testing.T) {
		id := uuid.NewString()
		users.On("Delete", mock.Anything, admin, id).Return(nil, fmt.Errorf("user %w", service.ErrNotFound)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/users/"+id, nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("deleted", func(t *testing.T) {
		id := uuid.NewString()
		users.On("Delete", mock.Anything, admin, id).Return(&service.DeleteUserResult{ProfileID: id, Strategy: "rpc"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/users/"+id, nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
