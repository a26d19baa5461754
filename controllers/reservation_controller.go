package controllers

import (
	"errors"
	"net/http"

	"sporttrack/app"
	"sporttrack/db"
	"sporttrack/models"
	"sporttrack/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationController struct{ *Srv }

func NewReservationController(s *Srv) *ReservationController {
	return &ReservationController{Srv: s}
}

type reservationInput struct {
	Items     []models.ReservationItem `json:"items" binding:"required,min=1"`
	Date      string                   `json:"date" binding:"required"`
	StartTime string                   `json:"startTime" binding:"required"`
	EndTime   string                   `json:"endTime" binding:"required"`
}

// List shows a coach their own reservations; admins and the super-admin see
// everything. ?status= narrows by lifecycle state.
func (rc *ReservationController) List(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	coachID := ""
	if u.Role == models.RoleCoach {
		coachID = u.ID
	}
	rs, err := rc.Repo.ListReservations(c.Request.Context(), coachID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"reservations": rs})
}

// Check is the read-only availability probe used while a booking form is
// being filled in.
func (rc *ReservationController) Check(c *gin.Context) {
	var req services.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	result, err := rc.Repo.CheckAvailability(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (rc *ReservationController) Create(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in reservationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	res := &models.Reservation{
		ID:        uuid.NewString(),
		CoachID:   u.ID,
		CoachName: u.Name,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Items:     in.Items,
	}
	check, err := rc.Repo.CreateReservation(c.Request.Context(), res)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if !check.Available {
		c.JSON(http.StatusConflict, app.H{"success": false, "message": check.Error})
		return
	}
	c.JSON(http.StatusCreated, app.H{
		"success":     true,
		"message":     "reservation confirmed",
		"reservation": res,
	})
}

func (rc *ReservationController) Update(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	id := c.Param("id")

	existing, err := rc.Repo.FindReservationByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "reservation not found"})
		return
	}
	if u.Role == models.RoleCoach && existing.CoachID != u.ID {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}

	var in reservationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	res := &models.Reservation{
		ID:        id,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Items:     in.Items,
	}
	check, err := rc.Repo.UpdateReservation(c.Request.Context(), res)
	if err != nil {
		if errors.Is(err, db.ErrNotActive) {
			c.JSON(http.StatusConflict, app.H{"success": false, "message": "reservation is no longer active"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if !check.Available {
		c.JSON(http.StatusConflict, app.H{"success": false, "message": check.Error})
		return
	}
	c.JSON(http.StatusOK, app.H{"success": true, "message": "reservation updated"})
}

func (rc *ReservationController) Cancel(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	id := c.Param("id")

	existing, err := rc.Repo.FindReservationByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "reservation not found"})
		return
	}
	if u.Role == models.RoleCoach && existing.CoachID != u.ID {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}

	if err := rc.Repo.CancelReservation(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotActive) {
			c.JSON(http.StatusConflict, app.H{"success": false, "message": "reservation is no longer active"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"success": true, "message": "reservation cancelled"})
}

// Return completes the reservation and files any damage reports, which in
// turn write down the damaged stock.
func (rc *ReservationController) Return(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	id := c.Param("id")

	existing, err := rc.Repo.FindReservationByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "reservation not found"})
		return
	}
	if u.Role == models.RoleCoach && existing.CoachID != u.ID {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}

	var in struct {
		DamageReports []models.DamageReport `json:"damageReports"`
	}
	if err := c.ShouldBindJSON(&in); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	if err := rc.Repo.ReturnReservation(c.Request.Context(), id, in.DamageReports); err != nil {
		if errors.Is(err, db.ErrNotActive) {
			c.JSON(http.StatusConflict, app.H{"success": false, "message": "reservation is no longer active"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"success": true, "message": "equipment returned"})
}

// ResolveDamage marks one item's damage report as handled.
func (rc *ReservationController) ResolveDamage(c *gin.Context) {
	err := rc.Repo.ResolveDamage(c.Request.Context(), c.Param("id"), c.Param("itemId"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, app.H{"success": true, "message": "damage resolved"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "damage report not found"})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}

// FixDamage resolves the report and hands the item id back so the client
// can jump straight to it in the inventory view.
func (rc *ReservationController) FixDamage(c *gin.Context) {
	itemID := c.Param("itemId")
	err := rc.Repo.ResolveDamage(c.Request.Context(), c.Param("id"), itemID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, app.H{
			"success":      true,
			"message":      "damage resolved",
			"targetItemId": itemID,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "damage report not found"})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}
