package controllers

import (
	"errors"
	"net/http"

	"sporttrack/app"
	"sporttrack/db"
	"sporttrack/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

type itemInput struct {
	Name        string `json:"name" binding:"required"`
	Quantity    int    `json:"quantity" binding:"min=0"`
	Category    string `json:"category"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

func (ic *ItemController) CreateItem(c *gin.Context) {
	var in itemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it := &models.Item{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Quantity:    in.Quantity,
		Category:    in.Category,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if err := ic.Repo.CreateItem(c.Request.Context(), it); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (ic *ItemController) ListItems(c *gin.Context) {
	items, err := ic.Repo.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

func (ic *ItemController) UpdateItem(c *gin.Context) {
	var in itemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	it := &models.Item{
		ID:          c.Param("id"),
		Name:        in.Name,
		Quantity:    in.Quantity,
		Category:    in.Category,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
	if err := ic.Repo.UpdateItem(c.Request.Context(), it); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, it)
}

func (ic *ItemController) DeleteItem(c *gin.Context) {
	err := ic.Repo.DeleteItem(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, app.H{"ok": true})
	case errors.Is(err, db.ErrItemReserved):
		c.JSON(http.StatusConflict, app.H{"error": "item has active reservations"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "item not found"})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}
