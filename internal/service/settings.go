package service

import (
	"context"
	"encoding/json"
	"time"
	// Account timezones must resolve on hosts without a zoneinfo database.
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"

	"gymapi/internal/auth"
	"gymapi/internal/logger"
	"gymapi/internal/model"
	"gymapi/internal/repository"
)

type SettingsService interface {
	// Get returns the caller's settings, creating the default row on first read.
	Get(ctx context.Context, actor auth.Principal) (*model.UserSettings, error)

	// Update overlays data onto one section. Fields missing from data keep
	// their stored value.
	Update(ctx context.Context, actor auth.Principal, section string, data json.RawMessage) (*model.UserSettings, error)
}

type settingsService struct {
	repo     repository.SettingsRepository
	validate *validator.Validate
	log      *logger.Logger
}

func NewSettingsService(repo repository.SettingsRepository, log *logger.Logger) SettingsService {
	if log == nil {
		log = logger.Nop()
	}
	return &settingsService{
		repo:     repo,
		validate: validator.New(),
		log:      log.Component("settings"),
	}
}

func (s *settingsService) Get(ctx context.Context, actor auth.Principal) (*model.UserSettings, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}
	return s.repo.GetOrCreate(ctx, actor.UserID)
}

func (s *settingsService) Update(ctx context.Context, actor auth.Principal, section string, data json.RawMessage) (*model.UserSettings, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthorized
	}
	switch section {
	case model.SettingsNotifications, model.SettingsPrivacy, model.SettingsAccount, model.SettingsTwoFactor:
	default:
		return nil, invalid("type must be one of [notifications privacy account two_factor]")
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, invalid("data is required")
	}

	cur, err := s.repo.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	var value any
	switch section {
	case model.SettingsNotifications:
		v := cur.Notifications
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, invalid("notifications data is malformed")
		}
		value = v
	case model.SettingsPrivacy:
		v := cur.Privacy
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, invalid("privacy data is malformed")
		}
		value = v
	case model.SettingsAccount:
		v := cur.Account
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, invalid("account data is malformed")
		}
		if err := s.validate.Struct(v); err != nil {
			return nil, invalid("account settings are invalid: %s", err.Error())
		}
		if _, err := time.LoadLocation(v.Timezone); err != nil {
			return nil, invalid("unknown timezone %q", v.Timezone)
		}
		value = v
	case model.SettingsTwoFactor:
		return s.updateTwoFactor(ctx, actor, cur, data)
	}

	updated, err := s.repo.UpdateSection(ctx, actor.UserID, section, value)
	if err != nil {
		return nil, err
	}
	s.log.Info("settings_updated", logger.Fields{"user_id": actor.UserID, "section": section})
	return updated, nil
}

func (s *settingsService) updateTwoFactor(ctx context.Context, actor auth.Principal, cur *model.UserSettings, data json.RawMessage) (*model.UserSettings, error) {
	var tf model.TwoFactorSettings
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, invalid("two_factor data is malformed")
	}
	if tf.Enabled && tf.Secret == "" && cur.TwoFactorSecret == nil {
		return nil, invalid("secret is required to enable two-factor authentication")
	}
	if !tf.Enabled {
		tf.Secret, tf.BackupCodes = "", nil
	}

	updated, err := s.repo.UpdateTwoFactor(ctx, actor.UserID, tf)
	if err != nil {
		return nil, err
	}
	s.log.Info("two_factor_changed", logger.Fields{"user_id": actor.UserID, "enabled": tf.Enabled})
	return updated, nil
}
