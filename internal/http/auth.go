package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"financas-api/internal/service"
)

// userIDKey is the gin context key under which the authenticated user id is
// stored by requireLogin.
const userIDKey = "userID"

// requireLogin resolves the session cookie before any protected handler
// runs. Requests without a valid session are rejected with 401; renewed
// sessions get their cookie lifetime refreshed.
func (h *Handler) requireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(h.cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"erro": "Usuário não está logado"})
			return
		}

		session, err := h.sessions.Identity(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				h.clearSessionCookie(c)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"erro": "Usuário não está logado"})
				return
			}
			h.logger.WithError(err).Error("resolve session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"erro": "Erro interno"})
			return
		}

		h.setSessionCookie(c, session.Token)
		c.Set(userIDKey, session.UserID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

// setSessionCookie marks the cookie http-only and cross-site capable so the
// browser keeps it across restarts and sends it from the frontend origin.
func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(h.cookieName, token, int(h.sessionTTL.Seconds()), "/", "", h.cookieSecure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(h.cookieName, "", -1, "/", "", h.cookieSecure, true)
}
