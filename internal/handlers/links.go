package handlers

import (
	"errors"
	"net/http"

	"portfolio/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Follow a footer link
// @Description  Records a click on the labelled link and redirects to its target.
// @Tags         links
// @Param        label  path  string  true  "Link label"  example(footer-github-icon)
// @Success      302
// @Failure      404  {object}  map[string]string
// @Router       /go/{label} [get]
func (h *Handler) followLink(c *gin.Context) {
	label := c.Param("label")
	link, err := h.services.LinkByLabel(label)
	if err != nil {
		if errors.Is(err, service.ErrUnknownLink) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown link"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to resolve link", "link_lookup_failed", err, "label", label)
		return
	}

	h.services.TrackClick(c.Request.Context(), visitorID(c), link.Label, link.Href)
	c.Redirect(http.StatusFound, link.Href)
}
