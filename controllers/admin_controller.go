package controllers

import (
	"net/http"
	"strconv"

	"sporttrack/app"

	"github.com/gin-gonic/gin"
)

// AdminController serves the super-admin's global views.
type AdminController struct{ *Srv }

func NewAdminController(s *Srv) *AdminController { return &AdminController{Srv: s} }

// ListUsers: ?q=&page=&size=
func (ac *AdminController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ac.Repo.ListUsers(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ac *AdminController) ListClubs(c *gin.Context) {
	rows, err := ac.Repo.ListClubSummaries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"clubs": rows})
}
