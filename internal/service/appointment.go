package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gymapi/internal/auth"
	"gymapi/internal/logger"
	"gymapi/internal/model"
	"gymapi/internal/realtime"
	"gymapi/internal/repository"
)

// AppointmentInput creates or replaces an appointment. Empty StaffID means the caller.
type AppointmentInput struct {
	AthleteID string
	StaffID   string
	StartsAt  time.Time
	EndsAt    time.Time
	Type      string
	Status    string
	Location  *string
	Notes     *string
}

// OverlapQuery asks whether a slot collides with a staff member's agenda.
type OverlapQuery struct {
	StaffID   string
	StartsAt  time.Time
	EndsAt    time.Time
	ExcludeID string
}

type AppointmentService interface {
	Create(ctx context.Context, actor auth.Principal, in AppointmentInput) (*model.Appointment, error)
	Update(ctx context.Context, actor auth.Principal, id string, in AppointmentInput) (*model.Appointment, error)
	Cancel(ctx context.Context, actor auth.Principal, id string) (*model.Appointment, error)
	Delete(ctx context.Context, actor auth.Principal, id string) error
	Get(ctx context.Context, actor auth.Principal, id string) (*model.Appointment, error)
	List(ctx context.Context, actor auth.Principal, f model.AppointmentFilter) ([]model.Appointment, error)

	// CheckOverlap never fails on a lookup error; it logs and reports false.
	CheckOverlap(ctx context.Context, q OverlapQuery) (bool, error)
}

type appointmentService struct {
	repo   repository.AppointmentRepository
	access athleteAccess
	events realtime.Publisher
	log    *logger.Logger
	now    func() time.Time
}

func NewAppointmentService(repo repository.AppointmentRepository, profiles repository.ProfileRepository, events realtime.Publisher, log *logger.Logger) AppointmentService {
	if log == nil {
		log = logger.Nop()
	}
	return &appointmentService{
		repo:   repo,
		access: athleteAccess{profiles: profiles},
		events: events,
		log:    log.Component("appointments"),
		now:    time.Now,
	}
}

func (s *appointmentService) validate(in *AppointmentInput, actor auth.Principal) error {
	if in.AthleteID == "" {
		return invalid("athlete_id is required")
	}
	if in.StaffID == "" {
		in.StaffID = actor.ProfileID
	}
	if in.StartsAt.IsZero() || in.EndsAt.IsZero() {
		return invalid("starts_at and ends_at are required")
	}
	if !in.EndsAt.After(in.StartsAt) {
		return invalid("ends_at must be after starts_at")
	}
	if in.Type == "" {
		in.Type = "training"
	}
	if !contains(model.AppointmentTypes, in.Type) {
		return invalid("type %q is not valid", in.Type)
	}
	switch in.Status {
	case "":
		in.Status = model.AppointmentScheduled
	case model.AppointmentScheduled, model.AppointmentInProgress, model.AppointmentCompleted, model.AppointmentCancelled:
	default:
		return invalid("status %q is not valid", in.Status)
	}
	return nil
}

func (s *appointmentService) Create(ctx context.Context, actor auth.Principal, in AppointmentInput) (*model.Appointment, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if err := s.validate(&in, actor); err != nil {
		return nil, err
	}
	if _, err := s.access.check(ctx, actor, in.AthleteID); err != nil {
		return nil, err
	}

	overlap, _ := s.CheckOverlap(ctx, OverlapQuery{StaffID: in.StaffID, StartsAt: in.StartsAt, EndsAt: in.EndsAt})
	if overlap {
		return nil, fmt.Errorf("staff member already booked in this slot: %w", ErrConflict)
	}

	a, err := s.repo.Create(ctx, &model.Appointment{
		ID:        uuid.New().String(),
		OrgID:     optional(actor.OrgID),
		AthleteID: in.AthleteID,
		StaffID:   in.StaffID,
		StartsAt:  in.StartsAt.UTC(),
		EndsAt:    in.EndsAt.UTC(),
		Type:      in.Type,
		Status:    in.Status,
		Location:  in.Location,
		Notes:     in.Notes,
		CreatedBy: optional(actor.ProfileID),
	})
	if err != nil {
		return nil, err
	}
	s.publish(realtime.Insert, a)
	return a, nil
}

func (s *appointmentService) Update(ctx context.Context, actor auth.Principal, id string, in AppointmentInput) (*model.Appointment, error) {
	current, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if in.StaffID == "" {
		in.StaffID = current.StaffID
	}
	if err := s.validate(&in, actor); err != nil {
		return nil, err
	}
	if in.AthleteID != current.AthleteID {
		if _, err := s.access.check(ctx, actor, in.AthleteID); err != nil {
			return nil, err
		}
	}

	if in.Status != model.AppointmentCancelled {
		overlap, _ := s.CheckOverlap(ctx, OverlapQuery{StaffID: in.StaffID, StartsAt: in.StartsAt, EndsAt: in.EndsAt, ExcludeID: id})
		if overlap {
			return nil, fmt.Errorf("staff member already booked in this slot: %w", ErrConflict)
		}
	}

	current.AthleteID = in.AthleteID
	current.StaffID = in.StaffID
	current.StartsAt = in.StartsAt.UTC()
	current.EndsAt = in.EndsAt.UTC()
	current.Type = in.Type
	current.Status = in.Status
	current.Location = in.Location
	current.Notes = in.Notes

	a, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, notFound("appointment", err)
	}
	s.publish(realtime.Update, a)
	return a, nil
}

func (s *appointmentService) Cancel(ctx context.Context, actor auth.Principal, id string) (*model.Appointment, error) {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if a.Status == model.AppointmentCancelled {
		return a, nil
	}

	at := s.now().UTC()
	if err := s.repo.Cancel(ctx, id, at); err != nil {
		return nil, notFound("appointment", err)
	}
	a.Status = model.AppointmentCancelled
	a.CancelledAt = &at
	s.publish(realtime.Update, a)
	return a, nil
}

func (s *appointmentService) Delete(ctx context.Context, actor auth.Principal, id string) error {
	a, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if !actor.IsStaff() {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound("appointment", err)
	}
	s.publish(realtime.Delete, a)
	return nil
}

// Get returns the appointment when the caller takes part in it or administers its organization.
func (s *appointmentService) Get(ctx context.Context, actor auth.Principal, id string) (*model.Appointment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("appointment", err)
	}
	if !actor.InOrg(a.OrgID) {
		return nil, fmt.Errorf("appointment %w", ErrNotFound)
	}
	if !actor.IsAdmin() && a.AthleteID != actor.ProfileID && a.StaffID != actor.ProfileID {
		return nil, ErrForbidden
	}
	return a, nil
}

func (s *appointmentService) List(ctx context.Context, actor auth.Principal, f model.AppointmentFilter) ([]model.Appointment, error) {
	f.OrgID = actor.OrgID
	switch {
	case actor.IsAdmin():
	case actor.IsStaff():
		if f.AthleteID == "" {
			f.StaffID = actor.ProfileID
			break
		}
		if _, err := s.access.check(ctx, actor, f.AthleteID); err != nil {
			return nil, err
		}
	default:
		f.AthleteID = actor.ProfileID
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, invalid("to must not be before from")
	}
	return s.repo.List(ctx, f)
}

func (s *appointmentService) CheckOverlap(ctx context.Context, q OverlapQuery) (bool, error) {
	if q.StaffID == "" {
		return false, invalid("staff_id is required")
	}
	if !q.EndsAt.After(q.StartsAt) {
		return false, invalid("ends_at must be after starts_at")
	}

	overlap, err := s.repo.HasOverlap(ctx, q.StaffID, q.StartsAt.UTC(), q.EndsAt.UTC(), q.ExcludeID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return false, err
		}
		s.log.Error("appointment_overlap_check_failed", err, logger.Fields{"staff_id": q.StaffID})
		return false, nil
	}
	return overlap, nil
}

func (s *appointmentService) publish(typ string, a *model.Appointment) {
	if s.events == nil {
		return
	}
	ev := realtime.Event{Table: "appointments", Type: typ, RecordID: a.ID}
	if a.OrgID != nil {
		ev.OrgID = *a.OrgID
	}
	s.events.Publish(ev)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
