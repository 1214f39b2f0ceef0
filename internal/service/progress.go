package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymapi/internal/analytics"
	"gymapi/internal/auth"
	"gymapi/internal/logger"
	"gymapi/internal/model"
	"gymapi/internal/realtime"
	"gymapi/internal/repository"
)

const (
	analyticsLogLimit  = 100
	analyticsPlanLimit = 50
	analyticsPlanDays  = 30
)

// WorkoutPlanInput creates a plan for an athlete.
type WorkoutPlanInput struct {
	Name        string
	Description *string
}

type ProgressService interface {
	CreateLog(ctx context.Context, actor auth.Principal, athleteID string, l model.ProgressLog) (*model.ProgressLog, error)
	ListLogs(ctx context.Context, actor auth.Principal, athleteID string, limit int) ([]model.ProgressLog, error)
	CreateWorkoutPlan(ctx context.Context, actor auth.Principal, athleteID string, in WorkoutPlanInput) (*model.WorkoutPlan, error)
	CompleteWorkoutPlan(ctx context.Context, actor auth.Principal, id string) (*model.WorkoutPlan, error)

	// Analytics derives the dashboard KPIs. Fetch errors yield an empty KPI set.
	Analytics(ctx context.Context, actor auth.Principal, athleteID string) (*analytics.KPI, error)
}

type progressService struct {
	repo   repository.ProgressRepository
	access athleteAccess
	events realtime.Publisher
	log    *logger.Logger
	now    func() time.Time
}

func NewProgressService(repo repository.ProgressRepository, profiles repository.ProfileRepository, events realtime.Publisher, log *logger.Logger) ProgressService {
	if log == nil {
		log = logger.Nop()
	}
	return &progressService{
		repo:   repo,
		access: athleteAccess{profiles: profiles},
		events: events,
		log:    log.Component("progress"),
		now:    time.Now,
	}
}

func (s *progressService) CreateLog(ctx context.Context, actor auth.Principal, athleteID string, l model.ProgressLog) (*model.ProgressLog, error) {
	if _, err := s.access.check(ctx, actor, athleteID); err != nil {
		return nil, err
	}
	if l.Date.IsZero() {
		l.Date = s.now()
	}
	for _, v := range []*float64{l.WeightKg, l.MaxBenchKg, l.MaxSquatKg, l.MaxDeadliftKg, l.FatKg, l.LeanKg, l.MuscleKg, l.SkeletalMuscleKg} {
		if v != nil && *v < 0 {
			return nil, invalid("measurements must not be negative")
		}
	}
	if l.FatPct != nil && (*l.FatPct < 0 || *l.FatPct > 100) {
		return nil, invalid("fat_pct must be between 0 and 100")
	}
	for k, v := range l.Circumferences {
		if v < 0 {
			return nil, invalid("circumference %q must not be negative", k)
		}
	}

	l.ID = uuid.New().String()
	l.AthleteID = athleteID
	stored, err := s.repo.CreateLog(ctx, &l)
	if err != nil {
		return nil, err
	}
	s.publish(actor, "progress_logs", realtime.Insert, stored.ID)
	return stored, nil
}

func (s *progressService) ListLogs(ctx context.Context, actor auth.Principal, athleteID string, limit int) ([]model.ProgressLog, error) {
	if _, err := s.access.check(ctx, actor, athleteID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = maxPageLimit
	}
	return s.repo.ListLogs(ctx, athleteID, clamp(limit, 1, maxPageLimit))
}

func (s *progressService) CreateWorkoutPlan(ctx context.Context, actor auth.Principal, athleteID string, in WorkoutPlanInput) (*model.WorkoutPlan, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if _, err := s.access.check(ctx, actor, athleteID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}

	p, err := s.repo.CreatePlan(ctx, &model.WorkoutPlan{
		ID:          uuid.New().String(),
		AthleteID:   athleteID,
		TrainerID:   optional(actor.ProfileID),
		Name:        name,
		Description: in.Description,
		IsActive:    true,
	})
	if err != nil {
		return nil, err
	}
	s.publish(actor, "workout_plans", realtime.Insert, p.ID)
	return p, nil
}

func (s *progressService) CompleteWorkoutPlan(ctx context.Context, actor auth.Principal, id string) (*model.WorkoutPlan, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if !actor.IsStaff() && actor.Role != model.RoleAthlete {
		return nil, ErrForbidden
	}
	p, err := s.repo.CompletePlan(ctx, id, s.now().UTC())
	if err != nil {
		return nil, notFound("workout plan", err)
	}
	s.publish(actor, "workout_plans", realtime.Update, p.ID)
	return p, nil
}

func (s *progressService) Analytics(ctx context.Context, actor auth.Principal, athleteID string) (*analytics.KPI, error) {
	if _, err := s.access.check(ctx, actor, athleteID); err != nil {
		return nil, err
	}
	now := s.now()
	fields := logger.Fields{"athlete_id": athleteID}

	logs, err := s.repo.ListLogs(ctx, athleteID, analyticsLogLimit)
	if err != nil {
		s.log.Error("progress_logs_fetch_failed", err, fields)
		return analytics.Empty(), nil
	}

	since := now.AddDate(0, 0, -analyticsPlanDays)
	plans, err := s.repo.ListPlansSince(ctx, athleteID, since, analyticsPlanLimit)
	if err != nil {
		s.log.Warn("workout_plans_fetch_failed", logger.Fields{"athlete_id": athleteID, "error_message": err.Error()})
		plans = nil
	}
	return analytics.Compute(logs, plans, now), nil
}

func (s *progressService) publish(actor auth.Principal, table, typ, id string) {
	if s.events == nil {
		return
	}
	s.events.Publish(realtime.Event{Table: table, Type: typ, RecordID: id, OrgID: actor.OrgID})
}
