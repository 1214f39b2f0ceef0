package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"gymapi/internal/auth"
	"gymapi/internal/logger"
	"gymapi/internal/model"
	"gymapi/internal/realtime"
	"gymapi/internal/repository"
)

// PaymentTx runs fn against a repository bound to one transaction.
type PaymentTx func(ctx context.Context, fn func(repository.PaymentRepository) error) error

type PaymentInput struct {
	AthleteID  string
	Amount     float64
	MethodText string
	Lessons    int
	Status     string
	Notes      *string
}

type PaymentListResult struct {
	Items    []model.Payment `json:"data"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

type PaymentService interface {
	Create(ctx context.Context, actor auth.Principal, in PaymentInput) (*model.Payment, error)
	Reverse(ctx context.Context, actor auth.Principal, id, reason string) (*model.Payment, error)
	List(ctx context.Context, actor auth.Principal, page, pageSize int) (*PaymentListResult, error)

	// Stats covers the calendar month containing now.
	Stats(ctx context.Context, actor auth.Principal, now time.Time) (*model.PaymentStats, error)
}

type paymentService struct {
	repo   repository.PaymentRepository
	inTx   PaymentTx
	access athleteAccess
	events realtime.Publisher
	log    *logger.Logger
}

// NewPaymentService wires the payment service. A nil inTx runs writes
// directly against repo.
func NewPaymentService(repo repository.PaymentRepository, inTx PaymentTx, profiles repository.ProfileRepository, events realtime.Publisher, log *logger.Logger) PaymentService {
	if log == nil {
		log = logger.Nop()
	}
	if inTx == nil {
		inTx = func(ctx context.Context, fn func(repository.PaymentRepository) error) error {
			return fn(repo)
		}
	}
	return &paymentService{
		repo:   repo,
		inTx:   inTx,
		access: athleteAccess{profiles: profiles},
		events: events,
		log:    log.Component("payments"),
	}
}

func (s *paymentService) Create(ctx context.Context, actor auth.Principal, in PaymentInput) (*model.Payment, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if in.Amount <= 0 {
		return nil, invalid("amount must be greater than zero")
	}
	if in.Lessons < 0 {
		return nil, invalid("lessons must not be negative")
	}
	method := strings.TrimSpace(in.MethodText)
	if method == "" {
		return nil, invalid("method_text is required")
	}
	status, err := checkPaymentStatus(in.Status)
	if err != nil {
		return nil, err
	}
	athlete, err := s.access.check(ctx, actor, in.AthleteID)
	if err != nil {
		return nil, err
	}

	p := &model.Payment{
		ID:         uuid.New().String(),
		OrgID:      athlete.OrgID,
		AthleteID:  athlete.ID,
		Amount:     in.Amount,
		MethodText: method,
		Lessons:    in.Lessons,
		Status:     status,
		Notes:      in.Notes,
		CreatedBy:  optional(actor.ProfileID),
	}

	var stored *model.Payment
	err = s.inTx(ctx, func(repo repository.PaymentRepository) error {
		var err error
		if stored, err = repo.Create(ctx, p); err != nil {
			return err
		}
		if p.Lessons > 0 {
			return repo.AddLessons(ctx, p.AthleteID, p.Lessons)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	s.log.Info("payment_created", logger.Fields{"payment_id": stored.ID, "athlete_id": stored.AthleteID, "lessons": stored.Lessons})
	s.publish(stored, realtime.Insert)
	return stored, nil
}

// Reverse records a negative payment cancelling id. The original row is kept.
func (s *paymentService) Reverse(ctx context.Context, actor auth.Principal, id, reason string) (*model.Payment, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	if id == "" {
		return nil, ErrIDRequired
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, invalid("reason is required")
	}

	orig, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("payment", err)
	}
	if !actor.InOrg(orig.OrgID) {
		return nil, fmt.Errorf("payment %w", ErrNotFound)
	}
	if orig.IsReversal {
		return nil, fmt.Errorf("a reversal cannot be reversed: %w", ErrConflict)
	}
	reversed, err := s.repo.HasReversal(ctx, id)
	if err != nil {
		return nil, err
	}
	if reversed {
		return nil, fmt.Errorf("payment already reversed: %w", ErrConflict)
	}

	rev, err := s.repo.Create(ctx, &model.Payment{
		ID:           uuid.New().String(),
		OrgID:        orig.OrgID,
		AthleteID:    orig.AthleteID,
		Amount:       -orig.Amount,
		MethodText:   fmt.Sprintf("%s (Reversal: %s)", orig.MethodText, reason),
		Lessons:      0,
		Status:       model.PaymentCompleted,
		IsReversal:   true,
		RefPaymentID: &orig.ID,
		Notes:        &reason,
		CreatedBy:    optional(actor.ProfileID),
	})
	if err != nil {
		return nil, conflictOn("payment already reversed", err)
	}

	s.log.Info("payment_reversed", logger.Fields{"payment_id": orig.ID, "reversal_id": rev.ID})
	s.publish(rev, realtime.Insert)
	return rev, nil
}

// List scopes by role: athletes see their own payments, trainers those they
// recorded, admins the whole organization.
func (s *paymentService) List(ctx context.Context, actor auth.Principal, page, pageSize int) (*PaymentListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	pageSize = clamp(pageSize, 1, maxPageLimit)

	f := model.PaymentFilter{OrgID: actor.OrgID}
	switch {
	case actor.IsAdmin():
	case actor.IsStaff():
		f.CreatedBy = actor.ProfileID
	default:
		f.AthleteID = actor.ProfileID
	}

	res, err := s.repo.List(ctx, f, repository.PageQuery{Limit: pageSize, Offset: (page - 1) * pageSize})
	if err != nil {
		return nil, err
	}
	return &PaymentListResult{Items: res.Items, Total: res.Total, Page: page, PageSize: pageSize}, nil
}

func (s *paymentService) Stats(ctx context.Context, actor auth.Principal, now time.Time) (*model.PaymentStats, error) {
	if !actor.IsStaff() {
		return nil, ErrForbidden
	}
	from, to := monthBounds(now)
	return s.repo.Stats(ctx, actor.OrgID, from, to)
}

func (s *paymentService) publish(p *model.Payment, typ string) {
	if s.events == nil {
		return
	}
	ev := realtime.Event{Table: "payments", Type: typ, RecordID: p.ID}
	if p.OrgID != nil {
		ev.OrgID = *p.OrgID
	}
	s.events.Publish(ev)
}

func checkPaymentStatus(status string) (string, error) {
	switch status {
	case "":
		return model.PaymentCompleted, nil
	case model.PaymentPending, model.PaymentCompleted, model.PaymentFailed, model.PaymentRefunded:
		return status, nil
	}
	return "", invalid("status %q is not valid", status)
}

// monthBounds returns [first of month, first of next month) in now's location.
func monthBounds(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}
