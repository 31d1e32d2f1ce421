package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"job-finder/internal/auth"
)

const (
	sessionCookie = "jobfinder_session"
	stateCookie   = "jobfinder_auth_state"
	nonceCookie   = "jobfinder_auth_nonce"
	sessionKey    = "session"
)

func corsMiddleware(clientURL string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     []string{clientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	return cors.New(cfg)
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"latency":  time.Since(start).String(),
			"clientIP": c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}

// loadSession attaches the session, if any, without requiring one, and
// rolls it forward once half of its lifetime has passed.
func (h *Handler) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		sess, err := h.sessions.Parse(c.Request.Context(), token)
		if err != nil {
			h.logger.WithError(err).Debug("ignoring session cookie")
			c.Next()
			return
		}
		if h.sessions.ShouldRenew(sess) {
			if renewed, next, err := h.sessions.Issue(sess.Identity); err != nil {
				h.logger.WithError(err).Warn("renew session")
			} else {
				// the previous token stays valid until it expires
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(sessionCookie, renewed, int(h.sessions.TTL().Seconds()), "/", "", h.secureCookie, true)
				sess = next
			}
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// requireAuth is the session guard for mutating routes.
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*auth.Session)
	return sess
}

func subjectFrom(c *gin.Context) string {
	if sess := sessionFrom(c); sess != nil {
		return sess.Identity.Subject
	}
	return ""
}
