package models

import "time"

// DarkModePreference reflects whether the page renders in dark mode.
type DarkModePreference struct {
	Enabled bool `json:"enabled"`
}

// Toggle returns the preference with Enabled negated.
func (d DarkModePreference) Toggle() DarkModePreference {
	return DarkModePreference{Enabled: !d.Enabled}
}

// AMAState reflects whether the "Ask Me Anything" panel is open.
type AMAState struct {
	IsOpened bool `json:"isOpened"`
}

// Toggle returns the state with IsOpened negated.
func (a AMAState) Toggle() AMAState {
	return AMAState{IsOpened: !a.IsOpened}
}

// Preferences is the per-visitor snapshot of UI flags.
type Preferences struct {
	VisitorID string             `json:"visitor_id"`
	DarkMode  DarkModePreference `json:"darkMode"`
	AMA       AMAState           `json:"AMA"`
	UpdatedAt time.Time          `json:"updated_at"`
}
