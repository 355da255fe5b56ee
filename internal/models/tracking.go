package models

import "time"

// TrackingEvent is what an interaction hands to the tracker.
// Href is set only when the interaction was an anchor click.
type TrackingEvent struct {
	EventType       string            `json:"eventType"`
	EventProperties map[string]string `json:"eventProperties"`
	Href            *string           `json:"href"`
}

// TrackingRecord is a TrackingEvent stamped for delivery.
type TrackingRecord struct {
	ID              string            `json:"id"`
	VisitorID       string            `json:"visitor_id,omitempty"`
	OccurredAt      time.Time         `json:"occurred_at"`
	EventType       string            `json:"event_type"`
	EventProperties map[string]string `json:"event_properties,omitempty"`
	Href            *string           `json:"href"`
}

// TrackingStats aggregates recorded events for the admin dashboard.
type TrackingStats struct {
	TotalEvents    int64            `json:"total_events"`
	UniqueVisitors int64            `json:"unique_visitors"`
	EventsToday    int64            `json:"events_today"`
	ByType         map[string]int64 `json:"by_type"`
	TopClicks      []LabelCount     `json:"top_clicks"`
	TopReferrers   []LabelCount     `json:"top_referrers"`
}

// LabelCount is a single row of a top-N breakdown.
type LabelCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// TrackingFilter narrows a tracking log listing. Zero values mean "no bound".
type TrackingFilter struct {
	From      time.Time
	To        time.Time
	Type      string
	VisitorID string
	Limit     int
}
