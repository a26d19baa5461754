package app

import (
	"net/http"

	"sporttrack/db"
	"sporttrack/models"
	"sporttrack/session"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// AuthRequired resolves the session cookie, confirms the user still exists
// and puts id/role/club into the request context.
func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ck, err := c.Request.Cookie(AppSessionCookie)
		if err != nil || ck.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		as, err := appSess.Get(c.Request.Context(), ck.Value)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "invalid session"})
			return
		}

		u, err := repo.FindUserByID(c.Request.Context(), as.UserID)
		if err != nil {
			// User removed since login (coach delete, club cascade).
			_ = appSess.Delete(c.Request.Context(), ck.Value)
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}

		c.Set("userID", u.ID)
		c.Set("userRole", u.Role)
		c.Set("user", u)
		if u.ClubID != nil {
			c.Set("clubID", *u.ClubID)
		}
		c.Next()
	}
}

func roleOnly(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("userRole")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if r, _ := v.(string); r != role {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// AdminOnly gates club administration; runs after AuthRequired.
func AdminOnly() gin.HandlerFunc { return roleOnly(models.RoleAdmin) }

// SuperAdminOnly gates the global views.
func SuperAdminOnly() gin.HandlerFunc { return roleOnly(models.RoleSuperAdmin) }
