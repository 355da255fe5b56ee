package service

import (
	"context"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/preferences"
	"portfolio/internal/repository"
)

// Preferences owns the per-visitor UI flags.
type Preferences interface {
	Get(ctx context.Context, visitorID string) (models.Preferences, error)
	ToggleDarkMode(ctx context.Context, visitorID string) (models.Preferences, error)
	ToggleAMA(ctx context.Context, visitorID string) (models.Preferences, error)
}

// Tracking stamps interactions and hands them to the emitter.
// None of its methods can fail from the caller's point of view.
type Tracking interface {
	Track(ctx context.Context, visitorID string, ev models.TrackingEvent)
	TrackReferrer(ctx context.Context, visitorID, referrer string)
	TrackClick(ctx context.Context, visitorID, label, href string)
}

// Profile serves the profile card and footer links.
type Profile interface {
	Profile() models.Profile
	LinkByLabel(label string) (models.Link, error)
}

// EventLog exposes the recorded tracking log to admins.
type EventLog interface {
	List(ctx context.Context, f models.TrackingFilter) ([]models.TrackingRecord, error)
	Stats(ctx context.Context) (models.TrackingStats, error)
}

// Retention removes tracking records past their max age.
type Retention interface {
	Prune(ctx context.Context, now time.Time) (int64, error)
}

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Emitter is the non-blocking side of tracking.Emitter.
type Emitter interface {
	Emit(rec models.TrackingRecord)
}

type Service struct {
	Preferences
	Tracking
	Profile
	EventLog
	Retention
	Authorization
}

// Deps carries everything besides repositories that the services need.
type Deps struct {
	Emitter         Emitter
	Defaults        preferences.Defaults
	Profile         models.Profile
	Auth            AuthOptions
	RetentionMaxAge time.Duration
	Log             *logger.Logger
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	tracker := NewTrackingService(deps.Emitter)
	return &Service{
		Preferences:   NewPreferenceService(repos.Preferences, tracker, deps.Defaults),
		Tracking:      tracker,
		Profile:       NewProfileService(deps.Profile),
		EventLog:      NewEventLogService(repos.Tracking),
		Retention:     NewRetentionService(repos.Tracking, deps.RetentionMaxAge, deps.Log),
		Authorization: NewAuthService(repos.Admins, deps.Auth),
	}
}
