package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/preferences"
	"portfolio/internal/repository"
)

var ErrMissingVisitor = errors.New("visitor id is required")

type PreferenceService struct {
	repo     repository.PreferenceRepo
	tracker  *TrackingService
	defaults preferences.Defaults
	now      func() time.Time

	// serializes load -> toggle -> save
	mu sync.Mutex
}

func NewPreferenceService(repo repository.PreferenceRepo, tracker *TrackingService, defaults preferences.Defaults) *PreferenceService {
	return &PreferenceService{
		repo:     repo,
		tracker:  tracker,
		defaults: defaults,
		now:      time.Now,
	}
}

// Get returns the stored snapshot, or the configured defaults for a new visitor.
func (s *PreferenceService) Get(ctx context.Context, visitorID string) (models.Preferences, error) {
	if visitorID == "" {
		return models.Preferences{}, ErrMissingVisitor
	}
	return s.load(ctx, visitorID)
}

// ToggleDarkMode flips dark mode, persists it and emits dark-mode {state}.
func (s *PreferenceService) ToggleDarkMode(ctx context.Context, visitorID string) (models.Preferences, error) {
	p, err := s.apply(ctx, visitorID, preferences.ToggleDarkMode)
	if err != nil {
		return p, err
	}
	s.tracker.trackState(ctx, visitorID, EventDarkMode, preferences.StateLabel(p.DarkMode.Enabled))
	return p, nil
}

// ToggleAMA flips the AMA panel, persists it and emits ama {state}.
func (s *PreferenceService) ToggleAMA(ctx context.Context, visitorID string) (models.Preferences, error) {
	p, err := s.apply(ctx, visitorID, preferences.ToggleAMA)
	if err != nil {
		return p, err
	}
	s.tracker.trackState(ctx, visitorID, EventAMA, preferences.StateLabel(p.AMA.IsOpened))
	return p, nil
}

func (s *PreferenceService) apply(ctx context.Context, visitorID string, reduce func(models.Preferences) models.Preferences) (models.Preferences, error) {
	if visitorID == "" {
		return models.Preferences{}, ErrMissingVisitor
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, visitorID)
	if err != nil {
		return models.Preferences{}, err
	}
	p = preferences.Touch(reduce(p), s.now())

	if err := s.repo.Save(ctx, p); err != nil {
		return models.Preferences{}, err
	}
	return p, nil
}

func (s *PreferenceService) load(ctx context.Context, visitorID string) (models.Preferences, error) {
	p, err := s.repo.Load(ctx, visitorID)
	if err != nil {
		return models.Preferences{}, err
	}
	if p.VisitorID == "" {
		return preferences.New(visitorID, s.defaults), nil
	}
	return p, nil
}
