package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) getUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "getUser", err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}
