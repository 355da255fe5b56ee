package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/repository"
)

const maxListLimit = 1000

type EventLogService struct {
	trackingRepo repository.TrackingRepo
	now          func() time.Time
}

func NewEventLogService(trackingRepo repository.TrackingRepo) *EventLogService {
	return &EventLogService{trackingRepo: trackingRepo, now: time.Now}
}

var (
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f models.TrackingFilter) (models.TrackingFilter, error) {
	f.From = normalizeToUTC(f.From)
	f.To = normalizeToUTC(f.To)

	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return models.TrackingFilter{}, ErrInvalidTimeRange
	}

	f.Type = repository.NormalizeEventType(f.Type)
	f.VisitorID = strings.TrimSpace(f.VisitorID)
	if f.Limit < 0 {
		f.Limit = 0
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	return f, nil
}

func (s *EventLogService) List(ctx context.Context, f models.TrackingFilter) ([]models.TrackingRecord, error) {
	f, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.trackingRepo.List(ctx, f)
}

func (s *EventLogService) Stats(ctx context.Context) (models.TrackingStats, error) {
	return s.trackingRepo.Stats(ctx, s.now().UTC())
}
