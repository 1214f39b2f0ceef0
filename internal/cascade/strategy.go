package cascade

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymapi/internal/database"
)

// DefaultFunctions are the stored procedures tried by the RPC chain, in order.
var DefaultFunctions = []string{"delete_athlete_cascade", "delete_profile_cascade"}

// RPCChain calls stored procedures until one succeeds. A function that does
// not exist or overflows the stack is skipped.
type RPCChain struct {
	db        database.DBTX
	functions []string
}

func NewRPCChain(db database.DBTX, functions ...string) *RPCChain {
	return &RPCChain{db: db, functions: functions}
}

func (s *RPCChain) Name() string { return "rpc" }

func (s *RPCChain) Delete(ctx context.Context, profileID string) (bool, error) {
	var errs []error
	for _, fn := range s.functions {
		// fn comes from a fixed list, never from request input.
		q := `SELECT ` + fn + `($1)`

		var deleted sql.NullBool
		err := s.db.QueryRowContext(ctx, q, profileID).Scan(&deleted)
		switch {
		case err == nil:
			return deleted.Valid && deleted.Bool, nil
		case database.IsUndefinedFunction(err), database.IsStackDepthExceeded(err):
			errs = append(errs, fmt.Errorf("%s: %w", fn, err))
			continue
		default:
			return false, fmt.Errorf("%s: %w", fn, err)
		}
	}
	if len(errs) == 0 {
		return false, errors.New("no cascade function configured")
	}
	return false, errors.Join(errs...)
}

// manualSteps clear dependent rows before the profile itself.
var manualSteps = []string{
	`DELETE FROM chat_messages WHERE sender_id = $1 OR receiver_id = $1`,
	`DELETE FROM payments WHERE athlete_id = $1 AND is_reversal`,
	`DELETE FROM payments WHERE athlete_id = $1`,
	`DELETE FROM documents WHERE athlete_id = $1`,
	`DELETE FROM appointments WHERE athlete_id = $1 OR staff_id = $1`,
	`DELETE FROM progress_logs WHERE athlete_id = $1`,
	`DELETE FROM workout_plans WHERE athlete_id = $1`,
	`UPDATE workout_plans SET trainer_id = NULL WHERE trainer_id = $1`,
	`DELETE FROM lesson_counters WHERE athlete_id = $1`,
	`DELETE FROM trainer_athletes WHERE athlete_id = $1 OR trainer_id = $1`,
}

// ManualDelete removes dependent rows table by table inside one transaction.
type ManualDelete struct {
	db *sql.DB
}

func NewManualDelete(db *sql.DB) *ManualDelete {
	return &ManualDelete{db: db}
}

func (s *ManualDelete) Name() string { return "manual" }

func (s *ManualDelete) Delete(ctx context.Context, profileID string) (bool, error) {
	var deleted bool
	err := database.WithTx(ctx, s.db, nil, func(ctx context.Context, tx database.DBTX) error {
		for _, q := range manualSteps {
			if _, err := tx.ExecContext(ctx, q, profileID); err != nil {
				return err
			}
		}
		var err error
		deleted, err = deleteProfileRow(ctx, tx, profileID)
		return err
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// DirectDelete removes only the profile row.
type DirectDelete struct {
	db database.DBTX
}

func NewDirectDelete(db database.DBTX) *DirectDelete {
	return &DirectDelete{db: db}
}

func (s *DirectDelete) Name() string { return "direct" }

func (s *DirectDelete) Delete(ctx context.Context, profileID string) (bool, error) {
	return deleteProfileRow(ctx, s.db, profileID)
}

func deleteProfileRow(ctx context.Context, db database.DBTX, profileID string) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, profileID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
