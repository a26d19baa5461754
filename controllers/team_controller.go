package controllers

import (
	"errors"
	"net/http"
	"strings"

	"sporttrack/app"
	"sporttrack/db"
	"sporttrack/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeamController struct{ *Srv }

func NewTeamController(s *Srv) *TeamController { return &TeamController{Srv: s} }

// ListCoaches returns the coaches of the calling admin's club.
func (tc *TeamController) ListCoaches(c *gin.Context) {
	u := currentUser(c)
	if u == nil || u.ClubID == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	coaches, err := tc.Repo.ListCoaches(c.Request.Context(), *u.ClubID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"coaches": coaches})
}

// AddCoach creates a coach in the admin's club. Club membership always
// comes from the inviting admin, never from the request; that link is what
// makes club deletion cascade correctly. The coach starts with a temporary
// password and must pick their own on first login.
func (tc *TeamController) AddCoach(c *gin.Context) {
	admin := currentUser(c)
	if admin == nil || admin.ClubID == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}

	var in struct {
		Name         string `json:"name" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		TempPassword string `json:"tempPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if len(in.TempPassword) < minPasswordLen {
		c.JSON(http.StatusBadRequest, app.H{"error": "password must be at least 6 characters"})
		return
	}

	hash, err := hashSecret(in.TempPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	coach := &models.User{
		ID:                 uuid.NewString(),
		Name:               in.Name,
		Email:              strings.ToLower(strings.TrimSpace(in.Email)),
		Role:               models.RoleCoach,
		ClubID:             admin.ClubID,
		ClubName:           admin.ClubName,
		PasswordHash:       hash,
		MustChangePassword: true,
	}
	if err := tc.Repo.CreateUser(c.Request.Context(), coach); err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			c.JSON(http.StatusConflict, app.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, coach)
}

func (tc *TeamController) DeleteCoach(c *gin.Context) {
	admin := currentUser(c)
	if admin == nil || admin.ClubID == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	coachID := c.Param("id")
	if err := tc.Repo.DeleteCoach(c.Request.Context(), coachID, *admin.ClubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "coach not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	_ = tc.AppSess.RevokeAllForUser(c.Request.Context(), coachID)
	_ = tc.Prefs.DeleteForUser(c.Request.Context(), coachID)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// DeleteClub cascades: the admin, every user of the club and all their
// reservations go away, then the admin's own session ends. The confirmation
// dialog lives in the client; by the time this handler runs the decision is
// made.
func (tc *TeamController) DeleteClub(c *gin.Context) {
	admin := currentUser(c)
	if admin == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}

	removed, err := tc.Repo.DeleteClubCascade(c.Request.Context(), admin.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "club not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	for _, uid := range removed {
		_ = tc.AppSess.RevokeAllForUser(c.Request.Context(), uid)
		_ = tc.Prefs.DeleteForUser(c.Request.Context(), uid)
	}
	tc.clearAppCookie(c.Writer)
	c.JSON(http.StatusOK, app.H{
		"success": true,
		"message": "club and all associated data removed",
	})
}
