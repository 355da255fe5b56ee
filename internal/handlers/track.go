package handlers

import (
	"net/http"
	"strings"

	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errBlankEventType    = "event_type must not be blank"
	errReservedEventType = "event_type is recorded by the server"
	errClickLabel        = "click events need a label"
)

// trackRequest is the client beacon payload.
type trackRequest struct {
	EventType       string            `json:"event_type" binding:"required"`
	EventProperties map[string]string `json:"event_properties"`
	Href            *string           `json:"href"`
}

// @Summary      Record a client-side event
// @Description  Fire-and-forget beacon. The event is queued and 202 is returned without waiting for delivery.
// @Tags         tracking
// @Accept       json
// @Produce      json
// @Param        body  body      trackRequest  true  "Event payload"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/v1/track [post]
func (h *Handler) track(c *gin.Context) {
	var input trackRequest
	if ok := h.bindJSONOrBadRequest(c, &input, "track_bad_request_body"); !ok {
		return
	}

	ev, msg := beaconEvent(input)
	if msg != "" {
		h.log.Infow("track_rejected", "reason", msg, "type", input.EventType)
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	h.services.Track(c.Request.Context(), visitorID(c), ev)

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// beaconEvent turns a beacon payload into an event, or returns the reason it
// was refused. Referrer and preference events only come from the server, and
// href survives only on clicks.
func beaconEvent(in trackRequest) (models.TrackingEvent, string) {
	eventType := repository.NormalizeEventType(in.EventType)
	switch eventType {
	case "":
		return models.TrackingEvent{}, errBlankEventType
	case service.EventReferrer, service.EventDarkMode, service.EventAMA:
		return models.TrackingEvent{}, errReservedEventType
	}

	ev := models.TrackingEvent{EventType: eventType, EventProperties: in.EventProperties}
	if eventType == service.EventClick {
		if strings.TrimSpace(in.EventProperties["label"]) == "" {
			return models.TrackingEvent{}, errClickLabel
		}
		ev.Href = in.Href
	}
	return ev, ""
}
