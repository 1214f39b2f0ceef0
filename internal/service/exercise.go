package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"gymapi/internal/auth"
	"gymapi/internal/database"
	"gymapi/internal/logger"
	"gymapi/internal/model"
	"gymapi/internal/realtime"
	"gymapi/internal/repository"
)

// ErrExerciseInUse is returned when a workout day still references the exercise.
var ErrExerciseInUse = fmt.Errorf("exercise is still used in workout plans: %w", ErrConflict)

// ExerciseInput creates a catalogue entry. Empty optional fields stay unset.
type ExerciseInput struct {
	Name            string
	Category        string
	MuscleGroup     string
	Equipment       string
	Difficulty      string
	Description     string
	VideoURL        string
	ThumbURL        string
	ImageURL        string
	DurationSeconds *int
}

type ExerciseService interface {
	List(ctx context.Context, actor auth.Principal) ([]model.Exercise, error)
	Create(ctx context.Context, actor auth.Principal, in ExerciseInput) (*model.Exercise, error)
	Update(ctx context.Context, actor auth.Principal, id string, patch model.ExercisePatch) (*model.Exercise, error)

	// Delete refuses with ErrExerciseInUse while workout days reference the exercise.
	Delete(ctx context.Context, actor auth.Principal, id string) error
}

type exerciseService struct {
	repo   repository.ExerciseRepository
	events realtime.Publisher
	log    *logger.Logger
}

func NewExerciseService(repo repository.ExerciseRepository, events realtime.Publisher, log *logger.Logger) ExerciseService {
	if log == nil {
		log = logger.Nop()
	}
	return &exerciseService{
		repo:   repo,
		events: events,
		log:    log.Component("exercises"),
	}
}

func (s *exerciseService) List(ctx context.Context, actor auth.Principal) ([]model.Exercise, error) {
	return s.repo.List(ctx, actor.OrgID)
}

func (s *exerciseService) Create(ctx context.Context, actor auth.Principal, in ExerciseInput) (*model.Exercise, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	muscle := strings.TrimSpace(in.MuscleGroup)
	if err := checkExerciseName(name); err != nil {
		return nil, err
	}
	if err := checkExerciseText(category, muscle, in.Equipment, in.Description); err != nil {
		return nil, err
	}
	if in.DurationSeconds != nil && *in.DurationSeconds <= 0 {
		return nil, invalid("duration_seconds must be positive")
	}

	difficulty := model.DifficultyMedium
	if in.Difficulty != "" {
		if difficulty = model.NormalizeDifficulty(in.Difficulty); difficulty == "" {
			return nil, invalid("difficulty must be one of [easy medium hard]")
		}
	}
	if muscle == "" {
		muscle = category
	}
	if muscle == "" {
		muscle = model.DefaultMuscleGroup
	}

	e, err := s.repo.Create(ctx, &model.Exercise{
		ID:              uuid.New().String(),
		OrgID:           optional(actor.OrgID),
		Name:            name,
		Category:        optional(category),
		MuscleGroup:     muscle,
		Equipment:       optional(strings.TrimSpace(in.Equipment)),
		Difficulty:      difficulty,
		Description:     optional(strings.TrimSpace(in.Description)),
		VideoURL:        optional(in.VideoURL),
		ThumbURL:        optional(in.ThumbURL),
		ImageURL:        optional(in.ImageURL),
		DurationSeconds: in.DurationSeconds,
		CreatedBy:       optional(actor.ProfileID),
	})
	if err != nil {
		return nil, err
	}
	s.publish(actor, realtime.Insert, e.ID)
	return e, nil
}

func (s *exerciseService) Update(ctx context.Context, actor auth.Principal, id string, p model.ExercisePatch) (*model.Exercise, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if _, err := s.editable(ctx, actor, id); err != nil {
		return nil, err
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if err := checkExerciseName(name); err != nil {
			return nil, err
		}
		p.Name = &name
	}
	if err := checkExerciseText(deref(p.Category), deref(p.MuscleGroup), deref(p.Equipment), deref(p.Description)); err != nil {
		return nil, err
	}
	if p.DurationSeconds != nil && *p.DurationSeconds <= 0 {
		return nil, invalid("duration_seconds must be positive")
	}
	if p.Difficulty != nil {
		d := model.NormalizeDifficulty(*p.Difficulty)
		if d == "" {
			return nil, invalid("difficulty must be one of [easy medium hard]")
		}
		p.Difficulty = &d
	}

	e, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return nil, notFound("exercise", err)
	}
	s.publish(actor, realtime.Update, e.ID)
	return e, nil
}

func (s *exerciseService) Delete(ctx context.Context, actor auth.Principal, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if !actor.IsStaff() {
		return ErrForbidden
	}
	if _, err := s.editable(ctx, actor, id); err != nil {
		return err
	}

	n, err := s.repo.UsageCount(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrExerciseInUse
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if database.IsForeignKeyViolation(err) {
			s.log.Warn("exercise_referenced", logger.Fields{"exercise_id": id})
			return ErrExerciseInUse
		}
		return notFound("exercise", err)
	}
	s.publish(actor, realtime.Delete, id)
	return nil
}

// editable loads an exercise the caller may change. Rows of another
// organization are reported as missing; shared rows are admin-only.
func (s *exerciseService) editable(ctx context.Context, actor auth.Principal, id string) (*model.Exercise, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("exercise", err)
	}
	if !actor.InOrg(e.OrgID) {
		return nil, fmt.Errorf("exercise %w", ErrNotFound)
	}
	if e.OrgID == nil && actor.OrgID != "" && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	return e, nil
}

func checkExerciseName(name string) error {
	if n := len([]rune(name)); n < 2 || n > 120 {
		return invalid("name must be between 2 and 120 characters")
	}
	return nil
}

// checkExerciseText validates optional text; empty values are allowed.
func checkExerciseText(category, muscle, equipment, description string) error {
	if n := len([]rune(strings.TrimSpace(category))); n != 0 && (n < 2 || n > 60) {
		return invalid("category must be between 2 and 60 characters")
	}
	if n := len([]rune(strings.TrimSpace(muscle))); n != 0 && (n < 2 || n > 60) {
		return invalid("muscle_group must be between 2 and 60 characters")
	}
	if len([]rune(equipment)) > 500 {
		return invalid("equipment must be at most 500 characters")
	}
	if len([]rune(description)) > 2000 {
		return invalid("description must be at most 2000 characters")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *exerciseService) publish(actor auth.Principal, typ, id string) {
	if s.events == nil {
		return
	}
	s.events.Publish(realtime.Event{Table: "exercises", Type: typ, RecordID: id, OrgID: actor.OrgID})
}
