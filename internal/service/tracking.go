package service

import (
	"context"
	"strings"
	"time"

	"portfolio/internal/models"

	"github.com/google/uuid"
)

const (
	EventReferrer = "referrer"
	EventDarkMode = "dark-mode"
	EventAMA      = "ama"
	EventClick    = "click"

	noReferrer = "none"
)

type dntKey struct{}

// WithDoNotTrack marks ctx so that nothing emitted under it leaves the process.
func WithDoNotTrack(ctx context.Context) context.Context {
	return context.WithValue(ctx, dntKey{}, true)
}

func doNotTrack(ctx context.Context) bool {
	v, _ := ctx.Value(dntKey{}).(bool)
	return v
}

type TrackingService struct {
	emitter Emitter
	now     func() time.Time
	newID   func() string
}

func NewTrackingService(emitter Emitter) *TrackingService {
	return &TrackingService{
		emitter: emitter,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Track stamps ev with an id, the visitor and the current UTC time and emits it.
// A nil emitter or a do-not-track context silently drops the event.
func (s *TrackingService) Track(ctx context.Context, visitorID string, ev models.TrackingEvent) {
	if s.emitter == nil || doNotTrack(ctx) {
		return
	}

	props := make(map[string]string, len(ev.EventProperties))
	for k, v := range ev.EventProperties {
		props[k] = v
	}

	s.emitter.Emit(models.TrackingRecord{
		ID:              s.newID(),
		VisitorID:       visitorID,
		OccurredAt:      s.now().UTC(),
		EventType:       ev.EventType,
		EventProperties: props,
		Href:            ev.Href,
	})
}

// TrackReferrer records where a page load came from; an empty referrer is "none".
func (s *TrackingService) TrackReferrer(ctx context.Context, visitorID, referrer string) {
	referrer = strings.TrimSpace(referrer)
	if referrer == "" {
		referrer = noReferrer
	}
	s.Track(ctx, visitorID, models.TrackingEvent{
		EventType:       EventReferrer,
		EventProperties: map[string]string{"url": referrer},
	})
}

// TrackClick records an anchor click; href is the link target.
func (s *TrackingService) TrackClick(ctx context.Context, visitorID, label, href string) {
	s.Track(ctx, visitorID, models.TrackingEvent{
		EventType:       EventClick,
		EventProperties: map[string]string{"label": label},
		Href:            &href,
	})
}

// trackState records a toggle with its post-toggle state and no href.
func (s *TrackingService) trackState(ctx context.Context, visitorID, eventType, state string) {
	s.Track(ctx, visitorID, models.TrackingEvent{
		EventType:       eventType,
		EventProperties: map[string]string{"state": state},
	})
}
