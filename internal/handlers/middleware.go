package handlers

import (
	"net/http"
	"strings"

	"portfolio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxAdminID   = "adminId"
	ctxVisitorID = "visitorId"
)

func (h *Handler) adminMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	adminID, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(ctxAdminID, adminID)
	c.Next()
}

// visitorMiddleware makes sure every visitor-facing request carries a
// visitor id, issuing a fresh cookie when the current one is missing or malformed.
func (h *Handler) visitorMiddleware(c *gin.Context) {
	id, err := c.Cookie(h.opts.VisitorCookie)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.opts.VisitorCookie, id, int(h.opts.VisitorMaxAge.Seconds()), "/", "", h.opts.SecureCookies, true)
	}
	c.Set(ctxVisitorID, id)
	c.Next()
}

// dntMiddleware marks the request context so no tracking event leaves the
// process for visitors sending DNT: 1.
func (h *Handler) dntMiddleware(c *gin.Context) {
	if h.opts.RespectDNT && c.GetHeader("DNT") == "1" {
		c.Request = c.Request.WithContext(service.WithDoNotTrack(c.Request.Context()))
	}
	c.Next()
}

func visitorID(c *gin.Context) string {
	return c.GetString(ctxVisitorID)
}
