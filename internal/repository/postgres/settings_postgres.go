package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"gymapi/internal/database"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

// SettingsPostgres is a PostgreSQL implementation of repository.SettingsRepository.
type SettingsPostgres struct {
	db database.DBTX
}

// NewSettingsPostgres creates a new SettingsPostgres repository.
func NewSettingsPostgres(db database.DBTX) *SettingsPostgres {
	return &SettingsPostgres{db: db}
}

var _ repository.SettingsRepository = (*SettingsPostgres)(nil)

const settingsColumns = `user_id, notifications, privacy, account, two_factor_enabled, two_factor_secret, two_factor_backup_codes, two_factor_enabled_at, created_at, updated_at`

func scanSettings(s scanner) (*model.UserSettings, error) {
	var us model.UserSettings
	var notifications, privacy, account, backup []byte
	if err := s.Scan(
		&us.UserID,
		&notifications,
		&privacy,
		&account,
		&us.TwoFactorEnabled,
		&us.TwoFactorSecret,
		&backup,
		&us.TwoFactorEnabledAt,
		&us.CreatedAt,
		&us.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(notifications, &us.Notifications); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	if err := unmarshalJSON(privacy, &us.Privacy); err != nil {
		return nil, fmt.Errorf("decode privacy: %w", err)
	}
	if err := unmarshalJSON(account, &us.Account); err != nil {
		return nil, fmt.Errorf("decode account: %w", err)
	}
	if err := unmarshalJSON(backup, &us.TwoFactorBackup); err != nil {
		return nil, fmt.Errorf("decode backup codes: %w", err)
	}
	return &us, nil
}

// GetOrCreate inserts a default row when none exists. The CTE returns the
// fresh row since the outer SELECT cannot see it in the same statement.
func (r *SettingsPostgres) GetOrCreate(ctx context.Context, userID string) (*model.UserSettings, error) {
	const q = `
		WITH ins AS (
			INSERT INTO user_settings (user_id) VALUES ($1)
			ON CONFLICT (user_id) DO NOTHING
			RETURNING ` + settingsColumns + `
		)
		SELECT ` + settingsColumns + ` FROM ins
		UNION ALL
		SELECT ` + settingsColumns + ` FROM user_settings WHERE user_id = $1
		LIMIT 1
	`
	return scanSettings(r.db.QueryRowContext(ctx, q, userID))
}

var sectionUpserts = map[string]string{
	model.SettingsNotifications: `
		INSERT INTO user_settings (user_id, notifications) VALUES ($1, $2::jsonb)
		ON CONFLICT (user_id) DO UPDATE SET notifications = EXCLUDED.notifications, updated_at = now()
		RETURNING ` + settingsColumns,
	model.SettingsPrivacy: `
		INSERT INTO user_settings (user_id, privacy) VALUES ($1, $2::jsonb)
		ON CONFLICT (user_id) DO UPDATE SET privacy = EXCLUDED.privacy, updated_at = now()
		RETURNING ` + settingsColumns,
	model.SettingsAccount: `
		INSERT INTO user_settings (user_id, account) VALUES ($1, $2::jsonb)
		ON CONFLICT (user_id) DO UPDATE SET account = EXCLUDED.account, updated_at = now()
		RETURNING ` + settingsColumns,
}

func (r *SettingsPostgres) UpdateSection(ctx context.Context, userID, section string, value any) (*model.UserSettings, error) {
	q, ok := sectionUpserts[section]
	if !ok {
		return nil, fmt.Errorf("unknown settings section %q", section)
	}
	raw, err := marshalJSON(value)
	if err != nil {
		return nil, err
	}
	return scanSettings(r.db.QueryRowContext(ctx, q, userID, raw))
}

// UpdateTwoFactor stores the secret and backup codes when enabling and clears
// them when disabling. enabled_at is kept across repeated enables.
func (r *SettingsPostgres) UpdateTwoFactor(ctx context.Context, userID string, tf model.TwoFactorSettings) (*model.UserSettings, error) {
	var secret, backup any
	if tf.Enabled {
		if tf.Secret != "" {
			secret = tf.Secret
		}
		if len(tf.BackupCodes) > 0 {
			b, err := json.Marshal(tf.BackupCodes)
			if err != nil {
				return nil, err
			}
			backup = string(b)
		}
	}

	const q = `
		INSERT INTO user_settings (user_id, two_factor_enabled, two_factor_secret, two_factor_backup_codes, two_factor_enabled_at)
		VALUES ($1, $2, $3, $4::jsonb, CASE WHEN $2 THEN now() END)
		ON CONFLICT (user_id) DO UPDATE SET
			two_factor_enabled      = EXCLUDED.two_factor_enabled,
			two_factor_secret       = CASE WHEN $2 THEN COALESCE($3, user_settings.two_factor_secret) END,
			two_factor_backup_codes = CASE WHEN $2 THEN COALESCE($4::jsonb, user_settings.two_factor_backup_codes) END,
			two_factor_enabled_at   = CASE WHEN $2 THEN COALESCE(user_settings.two_factor_enabled_at, now()) END,
			updated_at              = now()
		RETURNING ` + settingsColumns
	return scanSettings(r.db.QueryRowContext(ctx, q, userID, tf.Enabled, secret, backup))
}
