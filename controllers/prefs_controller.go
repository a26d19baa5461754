package controllers

import (
	"net/http"

	"sporttrack/app"
	"sporttrack/session"

	"github.com/gin-gonic/gin"
)

type PrefsController struct{ *Srv }

func NewPrefsController(s *Srv) *PrefsController { return &PrefsController{Srv: s} }

func (pc *PrefsController) GetPrefs(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	p, err := pc.Prefs.Get(c.Request.Context(), u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (pc *PrefsController) PutPrefs(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var p session.Prefs
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if err := pc.Prefs.Set(c.Request.Context(), u.ID, p); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}
