package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"gymapi/internal/config"
	"gymapi/internal/http/middleware"
	"gymapi/internal/model"
	"gymapi/internal/realtime"
	"gymapi/internal/service"
)

// Services bundles the application services exposed over HTTP.
type Services struct {
	Auth         service.AuthService
	Users        service.UserService
	Athletes     service.AthleteService
	Roles        service.RoleService
	Appointments service.AppointmentService
	Progress     service.ProgressService
	Payments     service.PaymentService
	Documents    service.DocumentService
	Chat         service.ChatService
	Statistics   service.StatisticsService
	Exercises    service.ExerciseService
	Settings     service.SettingsService
}

// Options carries the infrastructure the routes need.
type Options struct {
	DB         Pinger
	Hub        *realtime.Hub
	Metrics    prometheus.Gatherer
	CronSecret string
	RateLimit  config.RateLimitConfig
	Location   *time.Location
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, svc Services, opt Options) {
	loc := opt.Location
	if loc == nil {
		loc = time.UTC
	}

	app.Get("/health", HealthCheck(opt.DB))
	app.Get("/healthz", LivenessProbe())
	if opt.Metrics != nil {
		app.Get("/metrics", Metrics(opt.Metrics))
	}

	api := app.Group("/api/v1")
	api.Post("/auth/login", Login(svc.Auth))
	api.Post("/cron/maintenance", Maintenance(opt.CronSecret, svc.Documents))

	authed := api.Group("", middleware.RequireAuth(svc.Auth))
	authed.Get("/me", Me(svc.Auth))

	admin := authed.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.Get("/users", ListUsers(svc.Users))
	admin.Post("/users", middleware.RateLimit("create_user", opt.RateLimit.CreateUserPerMinute), CreateUser(svc.Users))
	admin.Post("/users/import", middleware.RateLimit("import_users", opt.RateLimit.CreateUserPerMinute), ImportUsers(svc.Users))
	admin.Post("/users/verify-login", VerifyLogin(svc.Auth))
	admin.Put("/users/:id", UpdateUser(svc.Users))
	admin.Delete("/users/:id", middleware.RateLimit("delete_user", opt.RateLimit.DeleteUserPerMinute), DeleteUser(svc.Users))
	admin.Post("/users/:id/reset-password", ResetPassword(svc.Users))
	admin.Get("/roles", ListRoles(svc.Roles))
	admin.Put("/roles/:id", UpdateRole(svc.Roles))
	admin.Get("/statistics", Statistics(svc.Statistics, loc))

	authed.Get("/athletes", ListAthletes(svc.Athletes))
	authed.Post("/athletes", CreateAthlete(svc.Athletes))
	authed.Get("/athletes/:id", GetAthlete(svc.Athletes))
	authed.Put("/athletes/:id", UpdateAthlete(svc.Athletes))
	authed.Delete("/athletes/:id", DeleteAthlete(svc.Athletes))
	authed.Get("/athletes/:id/analytics", AthleteAnalytics(svc.Progress))
	authed.Get("/athletes/:id/progress", ListProgress(svc.Progress))
	authed.Post("/athletes/:id/progress", CreateProgress(svc.Progress))
	authed.Post("/athletes/:id/workout-plans", CreateWorkoutPlan(svc.Progress))
	authed.Post("/workout-plans/:id/complete", CompleteWorkoutPlan(svc.Progress))

	authed.Get("/appointments", ListAppointments(svc.Appointments))
	authed.Post("/appointments", CreateAppointment(svc.Appointments))
	authed.Post("/appointments/check-overlap", CheckOverlap(svc.Appointments))
	authed.Get("/appointments/:id", GetAppointment(svc.Appointments))
	authed.Put("/appointments/:id", UpdateAppointment(svc.Appointments))
	authed.Delete("/appointments/:id", DeleteAppointment(svc.Appointments))
	authed.Post("/appointments/:id/cancel", CancelAppointment(svc.Appointments))

	authed.Get("/payments", ListPayments(svc.Payments))
	authed.Post("/payments", CreatePayment(svc.Payments))
	authed.Get("/payments/stats", PaymentStats(svc.Payments, loc))
	authed.Post("/payments/:id/reverse", ReversePayment(svc.Payments))

	authed.Get("/documents", ListDocuments(svc.Documents))
	authed.Post("/documents", UploadDocument(svc.Documents))
	authed.Get("/documents/:id", GetDocument(svc.Documents))
	authed.Get("/documents/:id/download", DownloadDocument(svc.Documents))
	authed.Delete("/documents/:id", DeleteDocument(svc.Documents))
	authed.Post("/documents/:id/invalidate", InvalidateDocument(svc.Documents))

	authed.Get("/exercises", ListExercises(svc.Exercises))
	authed.Post("/exercises", CreateExercise(svc.Exercises))
	authed.Put("/exercises/:id", UpdateExercise(svc.Exercises))
	authed.Delete("/exercises/:id", DeleteExercise(svc.Exercises))

	authed.Get("/settings", GetSettings(svc.Settings))
	authed.Put("/settings", UpdateSettings(svc.Settings))

	authed.Get("/chat/conversations", ListConversations(svc.Chat))
	authed.Delete("/chat/messages/:id", DeleteMessage(svc.Chat))
	authed.Get("/chat/:userId", GetConversation(svc.Chat))
	authed.Post("/chat/:userId", SendMessage(svc.Chat))
	authed.Post("/chat/:userId/read", MarkConversationRead(svc.Chat))

	if opt.Hub != nil {
		authed.Get("/realtime/:table", StreamChanges(opt.Hub))
	}
}
