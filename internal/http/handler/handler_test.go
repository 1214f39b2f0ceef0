package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gymapi/internal/auth"
	"gymapi/internal/cascade"
	"gymapi/internal/http/middleware"
	"gymapi/internal/model"
	"gymapi/internal/service"
	serviceMocks "gymapi/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var trainer = auth.Principal{UserID: "u-pt", ProfileID: "8f8a2b8e-7c0e-4b43-9d0a-2f7a4c1e0001", Role: model.RolePT}

// newApp returns an app whose requests are already authenticated as p.
func newApp(p auth.Principal) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.PrincipalLocalKey, p)
		return c.Next()
	})
	return app
}

func jsonRequest(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp(trainer)
	app.Get("/documents", ListDocuments(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.DocumentListResult{
			Items: []model.Document{{ID: uuid.New().String(), FileName: "test.pdf"}},
			Total: 1,
		}
		f := model.DocumentFilter{AthleteID: "a-1", Status: "expiring"}
		mockSvc.On("List", mock.Anything, trainer, f, 10, 0).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents?limit=10&offset=0&athlete_id=a-1&status=expiring", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, trainer, model.DocumentFilter{}, 10, 0).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func multipartUpload(t *testing.T, fields map[string]string, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	part, _ := writer.CreateFormFile("file", "test.txt")
	part.Write([]byte(content))
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp(trainer)
	app.Post("/documents", UploadDocument(mockSvc))
	athleteID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		body, ct := multipartUpload(t, map[string]string{"athlete_id": athleteID, "category": "medical", "expires_at": "2027-01-31"}, "hello world")

		expectedDoc := &model.Document{ID: uuid.New().String(), FileName: "test.txt"}
		mockSvc.On("Upload", mock.Anything, trainer, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.AthleteID == athleteID && in.Filename == "test.txt" && in.Category == "medical" &&
				in.Size == 11 && in.ExpiresAt != nil && in.ExpiresAt.Format("2006-01-02") == "2027-01-31"
		}), mock.Anything).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expectedDoc.ID, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("bad expiry", func(t *testing.T) {
		body, ct := multipartUpload(t, map[string]string{"athlete_id": athleteID, "expires_at": "tomorrow"}, "x")

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_DATE", decodeError(t, resp).Error.Code)
	})

	t.Run("forbidden athlete", func(t *testing.T) {
		body, ct := multipartUpload(t, map[string]string{"athlete_id": athleteID}, "hello")
		mockSvc.On("Upload", mock.Anything, trainer, mock.Anything, mock.Anything).Return(nil, service.ErrForbidden).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		body, ct := multipartUpload(t, map[string]string{"athlete_id": athleteID}, "hello")
		mockSvc.On("Upload", mock.Anything, trainer, mock.Anything, mock.Anything).Return(nil, errors.New("upload failed")).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp(trainer)
	app.Get("/documents/:id", GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		expectedDoc := &model.Document{ID: id, FileName: "test.txt", DownloadURL: "https://minio/x"}
		mockSvc.On("Get", mock.Anything, trainer, id).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		assert.Equal(t, "https://minio/x", result.DownloadURL)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, trainer, id).Return(nil, sql.ErrNoRows).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents/invalid-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, trainer, id).Return(nil, errors.New("db error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDownloadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp(trainer)
	app.Get("/documents/:id/download", DownloadDocument(mockSvc))

	id := uuid.New().String()
	doc := &model.Document{ID: id, FileName: "cert.txt", ContentType: "text/plain", Size: 5}
	mockSvc.On("Open", mock.Anything, trainer, id).Return(io.NopCloser(strings.NewReader("hello")), doc, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id+"/download", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="cert.txt"`)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "hello", string(b))
}

func TestDeleteDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp(trainer)
	app.Delete("/documents/:id", DeleteDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, trainer, id).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, trainer, id).Return(sql.ErrNoRows).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, trainer, id).Return(errors.New("delete error")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestInvalidateDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp(trainer)
	app.Post("/documents/:id/invalidate", InvalidateDocument(mockSvc))
	id := uuid.New().String()

	resp, _ := app.Test(jsonRequest(http.MethodPost, "/documents/"+id+"/invalidate", map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)

	mockSvc.On("MarkInvalid", mock.Anything, trainer, id, "blurry").Return(&model.Document{ID: id, Status: model.DocumentInvalid}, nil).Once()
	resp, _ = app.Test(jsonRequest(http.MethodPost, "/documents/"+id+"/invalidate", map[string]string{"reason": "blurry"}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	authSvc := new(serviceMocks.MockAuthService)
	docSvc := new(serviceMocks.MockDocumentService)
	RegisterRoutes(app, Services{Auth: authSvc, Documents: docSvc}, Options{CronSecret: "cron-s3cret"})

	athlete := auth.Principal{UserID: "u-a", ProfileID: "p-a", Role: model.RoleAthlete}
	authSvc.On("Authenticate", mock.Anything, "athlete-token").Return(athlete, nil)
	authSvc.On("Authenticate", mock.Anything, "stale").Return(auth.Principal{}, service.ErrUnauthorized)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer stale")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("admin only", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		req.Header.Set("Authorization", "Bearer athlete-token")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Error.Code)
	})

	t.Run("me", func(t *testing.T) {
		authSvc.On("Me", mock.Anything, athlete).Return(&model.Profile{ID: "p-a", Role: model.RoleAthlete}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		req.Header.Set("Authorization", "Bearer athlete-token")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown realtime table", func(t *testing.T) {
		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
		app.Get("/realtime/:table", StreamChanges(nil))

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/realtime/auth_users", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "UNKNOWN_TABLE", decodeError(t, resp).Error.Code)
	})
}

func TestMaintenance(t *testing.T) {
	docSvc := new(serviceMocks.MockDocumentService)

	call := func(secret, header string) *http.Response {
		app := fiber.New()
		app.Post("/cron/maintenance", Maintenance(secret, docSvc))
		req := httptest.NewRequest(http.MethodPost, "/cron/maintenance", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, _ := app.Test(req)
		return resp
	}

	resp := call("", "Bearer anything")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "CRON_NOT_CONFIGURED", decodeError(t, resp).Error.Code)

	assert.Equal(t, http.StatusUnauthorized, call("s3cret", "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, call("s3cret", "Bearer wrong").StatusCode)

	docSvc.On("RefreshStatuses", mock.Anything, mock.Anything).Return(&service.RefreshResult{Expired: 2, Expiring: 1}, nil).Once()
	resp = call("s3cret", "Bearer s3cret")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success   bool                  `json:"success"`
		Documents service.RefreshResult `json:"documents"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(2), body.Documents.Expired)
	docSvc.AssertExpectations(t)
}

func TestFail_CascadeMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{
			name:    "generic",
			err:     fmt.Errorf("%w: %w", cascade.ErrCascadeFailed, errors.New("rpc timeout")),
			message: "dependent records were left in place",
		},
		{
			name:    "linked data",
			err:     fmt.Errorf("%w: %w", cascade.ErrCascadeFailed, fmt.Errorf("%w: fk_payments", cascade.ErrLinkedData)),
			message: "linked data still references the profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Delete("/", func(c *fiber.Ctx) error { return fail(c, tt.err) })

			resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/", nil))
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			body := decodeError(t, resp)
			assert.Equal(t, "CASCADE_FAILED", body.Error.Code)
			assert.Contains(t, body.Error.Message, tt.message)
			assert.NotContains(t, body.Error.Message, "rpc timeout")
		})
	}
}

func TestFail(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{service.ErrIDRequired, http.StatusBadRequest, "INVALID_ID"},
		{service.ErrReaderNil, http.StatusBadRequest, "FILE_REQUIRED"},
		{errors.Join(service.ErrValidation, errors.New("amount")), http.StatusBadRequest, "VALIDATION_ERROR"},
		{service.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{service.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{service.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{sql.ErrNoRows, http.StatusNotFound, "NOT_FOUND"},
		{service.ErrConflict, http.StatusConflict, "CONFLICT"},
		{badRequest("INVALID_PAGE", "invalid page"), http.StatusBadRequest, "INVALID_PAGE"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{cascade.ErrCascadeFailed, http.StatusInternalServerError, "CASCADE_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return fail(c, tt.err) })

			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decodeError(t, resp).Error.Code)
		})
	}
}
