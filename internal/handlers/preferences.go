package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"portfolio/internal/models"
	"portfolio/internal/preferences"

	"github.com/gin-gonic/gin"
)

const (
	errLoadPrefs   = "failed to load preferences"
	errTogglePrefs = "failed to update preferences"

	hxTrigger = "HX-Trigger"
)

// preferencesResponse is the body of every preference endpoint.
type preferencesResponse struct {
	Preferences models.Preferences `json:"preferences"`
	RootClass   string             `json:"root_class"`
}

func newPreferencesResponse(p models.Preferences) preferencesResponse {
	return preferencesResponse{Preferences: p, RootClass: preferences.RootClass(p.DarkMode)}
}

// @Summary      Current preferences
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  preferencesResponse
// @Failure      500  {object}  map[string]string
// @Router       /prefs [get]
func (h *Handler) getPreferences(c *gin.Context) {
	p, err := h.services.Preferences.Get(c.Request.Context(), visitorID(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadPrefs, "preferences_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, newPreferencesResponse(p))
}

// @Summary      Toggle dark mode
// @Description  Flips dark mode for the visitor and emits a dark-mode tracking event.
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  preferencesResponse
// @Failure      500  {object}  map[string]string
// @Router       /prefs/dark-mode/toggle [post]
func (h *Handler) toggleDarkMode(c *gin.Context) {
	h.toggle(c, "preferences_dark_mode_failed", h.services.Preferences.ToggleDarkMode, func(p models.Preferences) any {
		return gin.H{"darkModeChanged": gin.H{
			"enabled":   p.DarkMode.Enabled,
			"rootClass": preferences.RootClass(p.DarkMode),
		}}
	})
}

// @Summary      Toggle the AMA panel
// @Description  Opens or closes the Ask Me Anything panel and emits an ama tracking event.
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  preferencesResponse
// @Failure      500  {object}  map[string]string
// @Router       /prefs/ama/toggle [post]
func (h *Handler) toggleAMA(c *gin.Context) {
	h.toggle(c, "preferences_ama_failed", h.services.Preferences.ToggleAMA, func(p models.Preferences) any {
		return gin.H{"amaChanged": gin.H{"isOpened": p.AMA.IsOpened}}
	})
}

type toggleFunc func(ctx context.Context, visitorID string) (models.Preferences, error)

func (h *Handler) toggle(c *gin.Context, logKey string, fn toggleFunc, trigger func(models.Preferences) any) {
	vid := visitorID(c)
	p, err := fn(c.Request.Context(), vid)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errTogglePrefs, logKey, err, "visitor", vid)
		return
	}

	if b, err := json.Marshal(trigger(p)); err == nil {
		c.Header(hxTrigger, string(b))
	}
	c.JSON(http.StatusOK, newPreferencesResponse(p))
}
