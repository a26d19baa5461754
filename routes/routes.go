package routes

import (
	"time"

	"sporttrack/app"
	"sporttrack/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	itemCtl := controllers.NewItemController(s)
	resCtl := controllers.NewReservationController(s)
	teamCtl := controllers.NewTeamController(s)
	prefsCtl := controllers.NewPrefsController(s)
	adminCtl := controllers.NewAdminController(s)

	authMW := app.AuthRequired(a.AppSessions(), s.Repo)
	adminMW := app.AdminOnly()
	superMW := app.SuperAdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// Auth (public)
	// ------------------------------
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
		auth.POST("/password", authCtl.ChangePassword) // forced-change handshake
		auth.POST("/recover", authCtl.Recover)
	}

	authed := r.Group("/api", authMW, seenMW)
	{
		authed.POST("/auth/logout", authCtl.Logout)
		authed.GET("/auth/whoami", authCtl.WhoAmI)

		authed.GET("/prefs", prefsCtl.GetPrefs)
		authed.PUT("/prefs", prefsCtl.PutPrefs)

		// Browsing is open to every signed-in role.
		authed.GET("/items", itemCtl.ListItems)

		authed.GET("/reservations", resCtl.List)
		authed.POST("/reservations/check", resCtl.Check)
		authed.POST("/reservations", resCtl.Create)
		authed.PUT("/reservations/:id", resCtl.Update)
		authed.POST("/reservations/:id/cancel", resCtl.Cancel)
		authed.POST("/reservations/:id/return", resCtl.Return)
	}

	// ------------------------------
	// Club administration
	// ------------------------------
	admin := r.Group("/api", authMW, adminMW, seenMW)
	{
		admin.POST("/items", itemCtl.CreateItem)
		admin.PUT("/items/:id", itemCtl.UpdateItem)
		admin.DELETE("/items/:id", itemCtl.DeleteItem)

		admin.GET("/coaches", teamCtl.ListCoaches)
		admin.POST("/coaches", teamCtl.AddCoach)
		admin.DELETE("/coaches/:id", teamCtl.DeleteCoach)

		admin.DELETE("/club", teamCtl.DeleteClub)

		admin.POST("/reservations/:id/damages/:itemId/resolve", resCtl.ResolveDamage)
		admin.POST("/reservations/:id/damages/:itemId/fix", resCtl.FixDamage)
	}

	// ------------------------------
	// Global views (super-admin)
	// ------------------------------
	global := r.Group("/api/admin", authMW, superMW)
	{
		global.GET("/users", adminCtl.ListUsers)
		global.GET("/clubs", adminCtl.ListClubs)
	}
}
