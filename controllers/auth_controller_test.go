package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sporttrack/app"
	"sporttrack/db"
	"sporttrack/models"
	"sporttrack/session"
)

// newTestEnv wires the controllers against in-memory sqlite and miniredis,
// with the real auth middleware in front.
func newTestEnv(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, gdb.AutoMigrate(
		&models.Club{}, &models.User{},
		&models.Item{},
		&models.Reservation{}, &models.ReservationItem{}, &models.DamageReport{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := app.Config{WebOrigin: "http://localhost:5173", SessionTTL: time.Hour}
	s := &Srv{
		Repo:      db.NewRepo(gdb),
		AppSess:   session.NewAppSessionStore(rdb, cfg.SessionTTL),
		Prefs:     session.NewPrefsStore(rdb),
		WebOrigin: cfg.WebOrigin,
		Cfg:       cfg,
	}

	authCtl := NewAuthController(s)
	teamCtl := NewTeamController(s)
	authMW := app.AuthRequired(s.AppSess, s.Repo)
	adminMW := app.AdminOnly()

	r := gin.New()
	r.POST("/api/auth/register", authCtl.Register)
	r.POST("/api/auth/login", authCtl.Login)
	r.POST("/api/auth/password", authCtl.ChangePassword)
	r.POST("/api/auth/recover", authCtl.Recover)
	r.GET("/api/auth/whoami", authMW, authCtl.WhoAmI)
	r.POST("/api/auth/logout", authMW, authCtl.Logout)
	r.POST("/api/coaches", authMW, adminMW, teamCtl.AddCoach)
	r.DELETE("/api/club", authMW, adminMW, teamCtl.DeleteClub)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == app.AppSessionCookie && ck.Value != "" {
			return ck
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func registerClub(t *testing.T, r *gin.Engine, clubName, email, password, code string) *http.Cookie {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name":         "Admin " + clubName,
		"email":        email,
		"password":     password,
		"clubName":     clubName,
		"recoveryCode": code,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestEnv(t)
	ck := registerClub(t, r, "Lions", "admin@lions.pt", "secret1", "PIN1234")

	w := doJSON(t, r, http.MethodGet, "/api/auth/whoami", nil, ck)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@lions.pt", decode(t, w)["email"])

	// The stored hash never leaves the server.
	assert.NotContains(t, w.Body.String(), "secret1")
	assert.NotContains(t, w.Body.String(), "passwordHash")

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "ghost@lions.pt", "password": "secret1"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "user not found", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "admin@lions.pt", "password": "nope123"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "wrong password", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "admin@lions.pt", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	sessionCookie(t, w)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	r := newTestEnv(t)
	registerClub(t, r, "Lions", "admin@lions.pt", "secret1", "PIN1234")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name":         "Copycat",
		"email":        "admin@lions.pt",
		"password":     "secret2",
		"clubName":     "Lions II",
		"recoveryCode": "PIN9999",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email already registered", decode(t, w)["error"])
}

func TestRegister_WeakInputsRejected(t *testing.T) {
	r := newTestEnv(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "A", "email": "a@b.pt", "password": "short", "clubName": "C", "recoveryCode": "PIN1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "A", "email": "a@b.pt", "password": "longenough", "clubName": "C", "recoveryCode": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecoveryRoundTrip(t *testing.T) {
	r := newTestEnv(t)
	oldSession := registerClub(t, r, "Lions", "admin@lions.pt", "secret1", "PIN1234")

	// Wrong code: generic refusal, old password still valid.
	w := doJSON(t, r, http.MethodPost, "/api/auth/recover", gin.H{
		"email": "admin@lions.pt", "recoveryCode": "PIN0000", "newPassword": "newpass7",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "incorrect data", decode(t, w)["error"])

	// Wrong email gets the exact same answer.
	w = doJSON(t, r, http.MethodPost, "/api/auth/recover", gin.H{
		"email": "ghost@lions.pt", "recoveryCode": "PIN1234", "newPassword": "newpass7",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "incorrect data", decode(t, w)["error"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "admin@lions.pt", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)

	// Correct pair: password replaced, old sessions revoked.
	w = doJSON(t, r, http.MethodPost, "/api/auth/recover", gin.H{
		"email": "admin@lions.pt", "recoveryCode": "PIN1234", "newPassword": "newpass7",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "admin@lions.pt", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "admin@lions.pt", "password": "newpass7"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/auth/whoami", nil, oldSession)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestForcedPasswordChangeFlow(t *testing.T) {
	r := newTestEnv(t)
	adminCk := registerClub(t, r, "Lions", "admin@lions.pt", "secret1", "PIN1234")

	w := doJSON(t, r, http.MethodPost, "/api/coaches", gin.H{
		"name": "Rui", "email": "rui@lions.pt", "tempPassword": "temp123",
	}, adminCk)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	coach := decode(t, w)
	assert.Equal(t, "Lions", coach["clubName"], "coach must inherit the admin's club")
	assert.Equal(t, true, coach["mustChangePassword"])

	// Login is intercepted until a new password is chosen.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "rui@lions.pt", "password": "temp123"})
	require.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["mustChangePassword"])
	coachID, _ := body["userId"].(string)
	require.NotEmpty(t, coachID)

	w = doJSON(t, r, http.MethodPost, "/api/auth/password", gin.H{"userId": coachID, "newPassword": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/password", gin.H{"userId": coachID, "newPassword": "temp123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/password", gin.H{"userId": coachID, "newPassword": "chosen99"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sessionCookie(t, w)

	// The flow is one-shot.
	w = doJSON(t, r, http.MethodPost, "/api/auth/password", gin.H{"userId": coachID, "newPassword": "another9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "rui@lions.pt", "password": "chosen99"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteClub_EndsEverySession(t *testing.T) {
	r := newTestEnv(t)
	adminCk := registerClub(t, r, "Lions", "admin@lions.pt", "secret1", "PIN1234")
	registerClub(t, r, "Tigers", "admin@tigers.pt", "secret2", "PIN5678")

	w := doJSON(t, r, http.MethodPost, "/api/coaches", gin.H{
		"name": "Rui", "email": "rui@lions.pt", "tempPassword": "temp123",
	}, adminCk)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/club", nil, adminCk)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["success"])

	// Admin's session is gone along with the account.
	w = doJSON(t, r, http.MethodGet, "/api/auth/whoami", nil, adminCk)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The coach account no longer exists.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "rui@lions.pt", "password": "temp123"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "user not found", decode(t, w)["error"])

	// The other club is unaffected.
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "admin@tigers.pt", "password": "secret2"})
	assert.Equal(t, http.StatusOK, w.Code)
}
