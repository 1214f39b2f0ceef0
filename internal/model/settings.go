package model

import "time"

// Settings sections accepted by a settings update.
const (
	SettingsNotifications = "notifications"
	SettingsPrivacy       = "privacy"
	SettingsAccount       = "account"
	SettingsTwoFactor     = "two_factor"
)

type NotificationSettings struct {
	Email        bool `json:"email"`
	Push         bool `json:"push"`
	SMS          bool `json:"sms"`
	NewClients   bool `json:"new_clients"`
	Payments     bool `json:"payments"`
	Appointments bool `json:"appointments"`
	Messages     bool `json:"messages"`
}

type PrivacySettings struct {
	ProfileVisible bool `json:"profile_visible"`
	ShowEmail      bool `json:"show_email"`
	ShowPhone      bool `json:"show_phone"`
	Analytics      bool `json:"analytics"`
}

type AccountSettings struct {
	Language   string `json:"language" validate:"required,min=2,max=10"`
	Timezone   string `json:"timezone" validate:"required"`
	DateFormat string `json:"date_format" validate:"required"`
	TimeFormat string `json:"time_format" validate:"required,oneof=12h 24h"`
}

// TwoFactorSettings toggles second-factor login. Secret and backup codes are
// write-only.
type TwoFactorSettings struct {
	Enabled     bool     `json:"enabled"`
	Secret      string   `json:"secret,omitempty"`
	BackupCodes []string `json:"backup_codes,omitempty"`
}

// UserSettings holds per-login preferences. A row is created with defaults
// the first time it is read.
type UserSettings struct {
	UserID             string               `json:"user_id"`
	Notifications      NotificationSettings `json:"notifications"`
	Privacy            PrivacySettings      `json:"privacy"`
	Account            AccountSettings      `json:"account"`
	TwoFactorEnabled   bool                 `json:"two_factor_enabled"`
	TwoFactorSecret    *string              `json:"-"`
	TwoFactorBackup    []string             `json:"-"`
	TwoFactorEnabledAt *time.Time           `json:"two_factor_enabled_at,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}
