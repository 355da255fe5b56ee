package handlers

import (
	"net/http"

	"portfolio/internal/ui"

	"github.com/gin-gonic/gin"
)

const errLoadPage = "failed to load page"

// homePage renders the homepage with the visitor's preferences and records
// one referrer event per page load.
func (h *Handler) homePage(c *gin.Context) {
	ctx := c.Request.Context()
	vid := visitorID(c)

	prefs, err := h.services.Preferences.Get(ctx, vid)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadPage, "home_preferences_failed", err, "visitor", vid)
		return
	}

	h.services.TrackReferrer(ctx, vid, c.Request.Referer())

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := ui.RenderHome(c.Writer, ui.HomeView{Profile: h.services.Profile.Profile(), Preferences: prefs}); err != nil && h.log != nil {
		h.log.Errorw("home_render_failed", "err", err)
	}
}
