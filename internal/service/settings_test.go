package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gymapi/internal/auth"
	"gymapi/internal/model"
	repoMocks "gymapi/internal/repository/mocks"
)

func defaultSettings(userID string) *model.UserSettings {
	return &model.UserSettings{
		UserID:        userID,
		Notifications: model.NotificationSettings{Email: true, Push: true, NewClients: true, Payments: true, Appointments: true, Messages: true},
		Privacy:       model.PrivacySettings{ProfileVisible: true, ShowEmail: true, Analytics: true},
		Account:       model.AccountSettings{Language: "it", Timezone: "Europe/Rome", DateFormat: "DD/MM/YYYY", TimeFormat: "24h"},
	}
}

func TestSettingsService_Get(t *testing.T) {
	ctx := context.Background()
	repo := new(repoMocks.MockSettingsRepository)
	repo.On("GetOrCreate", ctx, "u-pt").Return(defaultSettings("u-pt"), nil)
	svc := NewSettingsService(repo, nil)

	s, err := svc.Get(ctx, trainerActor)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Rome", s.Account.Timezone)

	_, err = svc.Get(ctx, auth.Principal{})
	assert.ErrorIs(t, err, ErrUnauthorized)
	repo.AssertExpectations(t)
}

func TestSettingsService_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		section    string
		data       string
		setupMocks func(repo *repoMocks.MockSettingsRepository)
		wantErr    error
	}{
		{
			name:    "partial notifications keep other flags",
			section: model.SettingsNotifications,
			data:    `{"sms": true, "email": false}`,
			setupMocks: func(repo *repoMocks.MockSettingsRepository) {
				repo.On("GetOrCreate", ctx, "u-pt").Return(defaultSettings("u-pt"), nil)
				repo.On("UpdateSection", ctx, "u-pt", model.SettingsNotifications, model.NotificationSettings{
					Email: false, Push: true, SMS: true, NewClients: true, Payments: true, Appointments: true, Messages: true,
				}).Return(defaultSettings("u-pt"), nil)
			},
		},
		{
			name:    "account",
			section: model.SettingsAccount,
			data:    `{"language": "en", "time_format": "12h"}`,
			setupMocks: func(repo *repoMocks.MockSettingsRepository) {
				repo.On("GetOrCreate", ctx, "u-pt").Return(defaultSettings("u-pt"), nil)
				repo.On("UpdateSection", ctx, "u-pt", model.SettingsAccount, model.AccountSettings{
					Language: "en", Timezone: "Europe/Rome", DateFormat: "DD/MM/YYYY", TimeFormat: "12h",
				}).Return(defaultSettings("u-pt"), nil)
			},
		},
		{
			name:    "account bad time format",
			section: model.SettingsAccount,
			data:    `{"time_format": "25h"}`,
			setupMocks: func(repo *repoMocks.MockSettingsRepository) {
				repo.On("GetOrCreate", ctx, "u-pt").Return(defaultSettings("u-pt"), nil)
			},
			wantErr: ErrValidation,
		},
		{
			name:    "account unknown timezone",
			section: model.SettingsAccount,
			data:    `{"timezone": "Mars/Olympus"}`,
			setupMocks: func(repo *repoMocks.MockSettingsRepository) {
				repo.On("GetOrCreate", ctx, "u-pt").Return(defaultSettings("u-pt"), nil)
			},
			wantErr: ErrValidation,
		},
		{
			name:       "unknown section",
			section:    "billing",
			data:       `{}`,
			setupMocks: func(*repoMocks.MockSettingsRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name:       "missing data",
			section:    model.SettingsPrivacy,
			data:       `null`,
			setupMocks: func(*repoMocks.MockSettingsRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name:    "malformed privacy",
			section: model.SettingsPrivacy,
			data:    `{"show_email": "yes"}`,
			setupMocks: func(repo *repoMocks.MockSettingsRepository) {
				repo.On("GetOrCreate", ctx, "u-pt").Return(defaultSettings("u-pt"), nil)
			},
			wantErr: ErrValidation,
		},
		{
			name:    "enable two factor",
			section: model.SettingsTwoFactor,
			data:    `{"enabled": true, "secret": "JBSWY3DPEHPK3PXP", "backup_codes": ["a1", "b2"]}`,
			setupMocks: func(repo *repoMocks.MockSettingsRepository) {
				repo.On("GetOrCreate", ctx, "u-pt").Return(defaultSettings("u-pt"), nil)
				repo.On("UpdateTwoFactor", ctx, "u-pt", model.TwoFactorSettings{
					Enabled: true, Secret: "JBSWY3DPEHPK3PXP", BackupCodes: []string{"a1", "b2"},
				}).Return(defaultSettings("u-pt"), nil)
			},
		},
		{
			name:    "enable two factor without secret",
			section: model.SettingsTwoFactor,
			data:    `{"enabled": true}`,
			setupMocks: func(repo *repoMocks.MockSettingsRepository) {
				repo.On("GetOrCreate", ctx, "u-pt").Return(defaultSettings("u-pt"), nil)
			},
			wantErr: ErrValidation,
		},
		{
			name:    "disable two factor drops secret",
			section: model.SettingsTwoFactor,
			data:    `{"enabled": false, "secret": "JBSWY3DPEHPK3PXP"}`,
			setupMocks: func(repo *repoMocks.MockSettingsRepository) {
				repo.On("GetOrCreate", ctx, "u-pt").Return(defaultSettings("u-pt"), nil)
				repo.On("UpdateTwoFactor", ctx, "u-pt", model.TwoFactorSettings{}).Return(defaultSettings("u-pt"), nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(repoMocks.MockSettingsRepository)
			tt.setupMocks(repo)

			_, err := NewSettingsService(repo, nil).Update(ctx, trainerActor, tt.section, json.RawMessage(tt.data))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "UpdateSection", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				repo.AssertNotCalled(t, "UpdateTwoFactor", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}
