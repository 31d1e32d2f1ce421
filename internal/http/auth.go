package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const stateCookieMaxAge = 10 * 60

// root provisions the local user for a fresh login, then hands the browser
// back to the frontend.
func (h *Handler) root(c *gin.Context) {
	sess := sessionFrom(c)
	if sess == nil {
		c.String(http.StatusOK, "Logged out")
		return
	}

	user, created, err := h.users.EnsureUser(c.Request.Context(), sess.Identity)
	if err != nil {
		h.logger.WithError(err).WithField("subject", sess.Identity.Subject).Error("ensure user")
	} else if created {
		h.logger.WithFields(logrus.Fields{"user": user.ID, "subject": user.Subject}).Info("user created")
	}
	c.Redirect(http.StatusFound, h.clientURL)
}

func (h *Handler) login(c *gin.Context) {
	state := uuid.NewString()
	nonce := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, state, stateCookieMaxAge, "/", "", h.secureCookie, true)
	c.SetCookie(nonceCookie, nonce, stateCookieMaxAge, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, h.identity.AuthCodeURL(state, nonce))
}

func (h *Handler) callback(c *gin.Context) {
	expected, err := c.Cookie(stateCookie)
	if err != nil || expected == "" || c.Query("state") != expected {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid login state"})
		return
	}
	nonce, _ := c.Cookie(nonceCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, "", -1, "/", "", h.secureCookie, true)
	c.SetCookie(nonceCookie, "", -1, "/", "", h.secureCookie, true)

	if errParam := c.Query("error"); errParam != "" {
		h.logger.WithField("error", errParam).WithField("description", c.Query("error_description")).Warn("login refused by identity provider")
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing authorization code"})
		return
	}

	identity, err := h.identity.Exchange(c.Request.Context(), code, nonce)
	if err != nil {
		h.logger.WithError(err).Warn("login exchange")
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	token, sess, err := h.sessions.Issue(identity)
	if err != nil {
		h.writeError(c, "callback", err)
		return
	}
	c.SetCookie(sessionCookie, token, int(h.sessions.TTL().Seconds()), "/", "", h.secureCookie, true)
	h.logger.WithField("subject", sess.Identity.Subject).Info("session started")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) logout(c *gin.Context) {
	if sess := sessionFrom(c); sess != nil {
		if err := h.sessions.Revoke(c.Request.Context(), sess); err != nil {
			h.logger.WithError(err).Warn("revoke session")
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusFound, h.identity.LogoutURL(h.clientURL))
}

func (h *Handler) checkAuth(c *gin.Context) {
	sess := sessionFrom(c)
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false, "user": nil})
		return
	}

	user, err := h.users.GetBySubject(c.Request.Context(), sess.Identity.Subject)
	if err != nil {
		// authenticated but not provisioned yet
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": true, "user": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAuthenticated": true, "user": userToResponse(*user)})
}
