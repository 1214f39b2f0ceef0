// Package cascade removes a profile together with the rows that reference it.
//
// Deletion is best effort: strategies run in order until one removes the
// profile. A strategy that errors or panics is recorded and the next one runs.
package cascade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gymapi/internal/database"
	"gymapi/internal/logger"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrCascadeFailed   = errors.New("cascade delete failed")
	ErrLinkedData      = errors.New("profile still has linked data")
)

// Strategy is one way of deleting a profile. Delete reports whether the
// profile row was removed.
type Strategy interface {
	Name() string
	Delete(ctx context.Context, profileID string) (bool, error)
}

// Attempt records the outcome of one strategy.
type Attempt struct {
	Strategy string `json:"strategy"`
	Deleted  bool   `json:"deleted"`
	Error    string `json:"error,omitempty"`
}

// Result describes a successful deletion.
type Result struct {
	ProfileID string    `json:"profile_id"`
	Strategy  string    `json:"strategy"`
	Attempts  []Attempt `json:"attempts"`
}

// Deleter runs strategies in order.
type Deleter struct {
	db         database.DBTX
	strategies []Strategy
	log        *logger.Logger
	tracer     trace.Tracer
}

// NewDeleter returns a deleter using the RPC chain, then manual per-table
// deletes, then a direct delete of the profile row.
func NewDeleter(db *sql.DB, log *logger.Logger) *Deleter {
	return NewDeleterWithStrategies(db, log,
		NewRPCChain(db, DefaultFunctions...),
		NewManualDelete(db),
		NewDirectDelete(db),
	)
}

// NewDeleterWithStrategies returns a deleter running the given strategies.
// db is used to check whether the profile exists once every strategy failed.
func NewDeleterWithStrategies(db database.DBTX, log *logger.Logger, strategies ...Strategy) *Deleter {
	if log == nil {
		log = logger.Nop()
	}
	return &Deleter{
		db:         db,
		strategies: strategies,
		log:        log.Component("cascade"),
		tracer:     otel.Tracer("gymapi/cascade"),
	}
}

// Delete removes profileID. It never panics.
func (d *Deleter) Delete(ctx context.Context, profileID string) (*Result, error) {
	ctx, span := d.tracer.Start(ctx, "cascade.Delete", trace.WithAttributes(attribute.String("profile.id", profileID)))
	defer span.End()

	res := &Result{ProfileID: profileID}
	var errs []error

	for _, s := range d.strategies {
		deleted, err := d.run(ctx, s, profileID)

		at := Attempt{Strategy: s.Name(), Deleted: deleted}
		if err != nil {
			at.Error = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			d.log.Warn("cascade_strategy_failed", logger.Fields{"profile_id": profileID, "strategy": s.Name(), "error_message": err.Error()})
		}
		res.Attempts = append(res.Attempts, at)

		if err == nil && deleted {
			res.Strategy = s.Name()
			span.SetAttributes(attribute.String("cascade.strategy", s.Name()))
			d.log.Info("cascade_delete_success", logger.Fields{"profile_id": profileID, "strategy": s.Name(), "attempts": len(res.Attempts)})
			return res, nil
		}
	}

	exists, err := d.profileExists(ctx, profileID)
	if err != nil {
		errs = append(errs, fmt.Errorf("check profile: %w", err))
	} else if !exists {
		span.SetStatus(codes.Error, ErrProfileNotFound.Error())
		return res, ErrProfileNotFound
	}

	joined := errors.Join(errs...)
	span.RecordError(joined)
	span.SetStatus(codes.Error, ErrCascadeFailed.Error())
	d.log.Error("cascade_delete_failed", joined, logger.Fields{"profile_id": profileID, "attempts": len(res.Attempts)})

	if joined == nil {
		return res, ErrCascadeFailed
	}
	return res, fmt.Errorf("%w: %w", ErrCascadeFailed, joined)
}

func (d *Deleter) run(ctx context.Context, s Strategy, profileID string) (deleted bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			deleted = false
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	ctx, span := d.tracer.Start(ctx, "cascade."+s.Name())
	defer span.End()

	deleted, err = s.Delete(ctx, profileID)
	if database.IsForeignKeyViolation(err) {
		err = fmt.Errorf("%w: %v", ErrLinkedData, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return deleted, err
}

func (d *Deleter) profileExists(ctx context.Context, profileID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`
	var exists bool
	if err := d.db.QueryRowContext(ctx, q, profileID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
