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

type AuthController struct{ *Srv }

func NewAuthController(s *Srv) *AuthController { return &AuthController{Srv: s} }

const minPasswordLen = 6
const minRecoveryCodeLen = 4

// Register creates a club and its admin, then logs the admin in.
func (ac *AuthController) Register(c *gin.Context) {
	var in struct {
		Name         string `json:"name" binding:"required"`
		Email        string `json:"email" binding:"required,email"`
		Password     string `json:"password" binding:"required"`
		ClubName     string `json:"clubName" binding:"required"`
		RecoveryCode string `json:"recoveryCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if len(in.Password) < minPasswordLen {
		c.JSON(http.StatusBadRequest, app.H{"error": "password must be at least 6 characters"})
		return
	}
	if len(in.RecoveryCode) < minRecoveryCodeLen {
		c.JSON(http.StatusBadRequest, app.H{"error": "recovery code must be at least 4 characters"})
		return
	}

	pwHash, err := hashSecret(in.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	rcHash, err := hashSecret(in.RecoveryCode)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	club := &models.Club{ID: uuid.NewString(), Name: in.ClubName}
	admin := &models.User{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Email:            strings.ToLower(strings.TrimSpace(in.Email)),
		Role:             models.RoleAdmin,
		ClubID:           &club.ID,
		ClubName:         club.Name,
		PasswordHash:     pwHash,
		RecoveryCodeHash: rcHash,
	}
	if err := ac.Repo.CreateClubWithAdmin(c.Request.Context(), club, admin); err != nil {
		if errors.Is(err, db.ErrEmailTaken) {
			c.JSON(http.StatusConflict, app.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, admin); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// Login authenticates by email and password. A user flagged for a forced
// password change gets no session yet, only the change-password handshake.
func (ac *AuthController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, app.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if !compareSecret(u.PasswordHash, in.Password) {
		c.JSON(http.StatusUnauthorized, app.H{"error": "wrong password"})
		return
	}

	if u.MustChangePassword {
		c.JSON(http.StatusForbidden, app.H{"mustChangePassword": true, "userId": u.ID})
		return
	}

	if err := ac.issueSession(c.Request.Context(), c.Writer, u); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

// ChangePassword finishes the forced flow: the temporary password is
// replaced, the flag cleared and the user logged in.
func (ac *AuthController) ChangePassword(c *gin.Context) {
	var in struct {
		UserID      string `json:"userId" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if len(in.NewPassword) < minPasswordLen {
		c.JSON(http.StatusBadRequest, app.H{"error": "password must be at least 6 characters"})
		return
	}

	u, err := ac.Repo.FindUserByID(c.Request.Context(), in.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
		return
	}
	if !u.MustChangePassword {
		c.JSON(http.StatusBadRequest, app.H{"error": "no password change pending"})
		return
	}
	if compareSecret(u.PasswordHash, in.NewPassword) {
		c.JSON(http.StatusBadRequest, app.H{"error": "new password must differ from the temporary one"})
		return
	}

	hash, err := hashSecret(in.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if err := ac.Repo.UpdatePassword(c.Request.Context(), u.ID, hash); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	u.MustChangePassword = false
	if err := ac.issueSession(c.Request.Context(), c.Writer, u); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

// Recover resets the password for a matching email + recovery code pair.
// Every mismatch gets the same generic answer so the response does not leak
// which half was wrong.
func (ac *AuthController) Recover(c *gin.Context) {
	var in struct {
		Email        string `json:"email" binding:"required"`
		RecoveryCode string `json:"recoveryCode" binding:"required"`
		NewPassword  string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if len(in.NewPassword) < minPasswordLen {
		c.JSON(http.StatusBadRequest, app.H{"error": "password must be at least 6 characters"})
		return
	}

	u, err := ac.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil || u.RecoveryCodeHash == "" || !compareSecret(u.RecoveryCodeHash, in.RecoveryCode) {
		c.JSON(http.StatusUnauthorized, app.H{"error": "incorrect data"})
		return
	}

	hash, err := hashSecret(in.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if err := ac.Repo.UpdatePassword(c.Request.Context(), u.ID, hash); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	// Anyone holding an old session for this account is logged out.
	_ = ac.AppSess.RevokeAllForUser(c.Request.Context(), u.ID)

	c.JSON(http.StatusOK, app.H{"success": true, "message": "password updated, you can sign in now"})
}

func (ac *AuthController) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = ac.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	ac.clearAppCookie(c.Writer)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (ac *AuthController) WhoAmI(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, u)
}
