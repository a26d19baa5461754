package db

import (
	"context"
	"errors"

	"sporttrack/models"

	"gorm.io/gorm"
)

var ErrItemReserved = errors.New("item has active reservations")

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	return r.DB.WithContext(ctx).Create(it).Error
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *Repo) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *Repo) UpdateItem(ctx context.Context, it *models.Item) error {
	res := r.DB.WithContext(ctx).Model(&models.Item{}).
		Where("id = ?", it.ID).
		Updates(map[string]interface{}{
			"name":        it.Name,
			"quantity":    it.Quantity,
			"category":    it.Category,
			"description": it.Description,
			"image_url":   it.ImageURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteItem refuses while any active reservation still references the item.
func (r *Repo) DeleteItem(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.ReservationItem{}).
			Joins("JOIN "+models.ReservationTable+" res ON res.id = "+models.ReservationItemTable+".reservation_id").
			Where(models.ReservationItemTable+".item_id = ? AND res.status = ?", id, models.ReservationActive).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrItemReserved
		}

		res := tx.Delete(&models.Item{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
