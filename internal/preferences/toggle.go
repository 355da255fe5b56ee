// Package preferences holds the pure transitions of the two UI flags.
// Nothing here touches storage or emits events; callers own side effects.
package preferences

import (
	"time"

	"portfolio/internal/models"
)

const (
	// DarkModeClass is the class set on the document root while dark mode is on.
	DarkModeClass = "mode-dark"

	stateOn  = "on"
	stateOff = "off"
)

// Defaults configures the snapshot a new visitor starts with.
type Defaults struct {
	DarkMode  bool `mapstructure:"dark_mode"`
	AMAOpened bool `mapstructure:"ama_opened"`
}

// New returns the initial snapshot for visitorID.
func New(visitorID string, d Defaults) models.Preferences {
	return models.Preferences{
		VisitorID: visitorID,
		DarkMode:  models.DarkModePreference{Enabled: d.DarkMode},
		AMA:       models.AMAState{IsOpened: d.AMAOpened},
	}
}

// ToggleDarkMode negates DarkMode.Enabled and leaves everything else as is.
func ToggleDarkMode(p models.Preferences) models.Preferences {
	p.DarkMode = p.DarkMode.Toggle()
	return p
}

// ToggleAMA negates AMA.IsOpened and leaves everything else as is.
func ToggleAMA(p models.Preferences) models.Preferences {
	p.AMA = p.AMA.Toggle()
	return p
}

// Touch stamps the snapshot with now in UTC.
func Touch(p models.Preferences, now time.Time) models.Preferences {
	p.UpdatedAt = now.UTC()
	return p
}

// RootClass is the class to put on the visual root for the given preference.
func RootClass(d models.DarkModePreference) string {
	if d.Enabled {
		return DarkModeClass
	}
	return ""
}

// StateLabel renders a flag the way tracking properties expect it.
func StateLabel(enabled bool) string {
	if enabled {
		return stateOn
	}
	return stateOff
}
