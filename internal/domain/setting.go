package domain

import "time"

// SettingWelcomeMessage overrides the channel welcome message when set.
const SettingWelcomeMessage = "welcomeMessage"

// Setting is an admin-managed site option.
type Setting struct {
	ID        string    `json:"settingId"`
	Value     string    `json:"value"`
	UpdatedBy string    `json:"updatedBy"`
	UpdatedAt time.Time `json:"updatedAt"`
}
