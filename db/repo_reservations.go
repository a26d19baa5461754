package db

import (
	"context"
	"errors"
	"time"

	"sporttrack/models"
	"sporttrack/services"

	"gorm.io/gorm"
)

// ErrNotActive guards the one-shot status transitions: update, cancel and
// return are only legal while a reservation is still active.
var ErrNotActive = errors.New("reservation is not active")

// errUnavailable aborts a booking transaction when the availability check
// fails; the checker's message travels back separately.
var errUnavailable = errors.New("unavailable")

func activeOnDate(tx *gorm.DB, date string) ([]models.Reservation, error) {
	var rs []models.Reservation
	err := tx.Preload("Items").
		Where("date = ? AND status = ?", date, models.ReservationActive).
		Find(&rs).Error
	return rs, err
}

func checkWithin(tx *gorm.DB, req services.AvailabilityRequest) (services.AvailabilityResult, error) {
	var items []models.Item
	if err := tx.Find(&items).Error; err != nil {
		return services.AvailabilityResult{}, err
	}
	active, err := activeOnDate(tx, req.Date)
	if err != nil {
		return services.AvailabilityResult{}, err
	}
	return services.CheckAvailability(items, active, req), nil
}

// CheckAvailability is the read-only probe. Booking paths re-run the check
// inside their own transaction so check and write commit together.
func (r *Repo) CheckAvailability(ctx context.Context, req services.AvailabilityRequest) (services.AvailabilityResult, error) {
	return checkWithin(r.DB.WithContext(ctx), req)
}

// CreateReservation checks and inserts in one transaction. A failed check
// leaves nothing behind and comes back as an unavailable result, not an
// error.
func (r *Repo) CreateReservation(ctx context.Context, res *models.Reservation) (services.AvailabilityResult, error) {
	var check services.AvailabilityResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		check, err = checkWithin(tx, services.AvailabilityRequest{
			Items:     res.Items,
			Date:      res.Date,
			StartTime: res.StartTime,
			EndTime:   res.EndTime,
		})
		if err != nil {
			return err
		}
		if !check.Available {
			return errUnavailable
		}
		res.Status = models.ReservationActive
		return tx.Create(res).Error
	})
	if err != nil && !errors.Is(err, errUnavailable) {
		return services.AvailabilityResult{}, err
	}
	return check, nil
}

// UpdateReservation replaces date, window and items of a still-active
// reservation, excluding its own demand from the overlap set.
func (r *Repo) UpdateReservation(ctx context.Context, res *models.Reservation) (services.AvailabilityResult, error) {
	var check services.AvailabilityResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Reservation
		if err := tx.First(&existing, "id = ?", res.ID).Error; err != nil {
			return err
		}
		if existing.Status != models.ReservationActive {
			return ErrNotActive
		}

		var err error
		check, err = checkWithin(tx, services.AvailabilityRequest{
			Items:     res.Items,
			Date:      res.Date,
			StartTime: res.StartTime,
			EndTime:   res.EndTime,
			ExcludeID: res.ID,
		})
		if err != nil {
			return err
		}
		if !check.Available {
			return errUnavailable
		}

		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", res.ID).
			Updates(map[string]interface{}{
				"date":       res.Date,
				"start_time": res.StartTime,
				"end_time":   res.EndTime,
			}).Error; err != nil {
			return err
		}
		if err := tx.Where("reservation_id = ?", res.ID).
			Delete(&models.ReservationItem{}).Error; err != nil {
			return err
		}
		for i := range res.Items {
			res.Items[i].ID = 0
			res.Items[i].ReservationID = res.ID
		}
		if len(res.Items) > 0 {
			if err := tx.Create(&res.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errUnavailable) {
		return services.AvailabilityResult{}, err
	}
	return check, nil
}

// CancelReservation frees the stock; no availability re-check needed. The
// status guard in the WHERE clause is what makes the transition one-shot.
func (r *Repo) CancelReservation(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status = ?", id, models.ReservationActive).
		Update("status", models.ReservationCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotActive
	}
	return nil
}

// ReturnReservation completes an active reservation, stores any damage
// reports and writes down the damaged stock, floored at zero. Calling it
// again is ErrNotActive, so stock is only ever decremented once.
func (r *Repo) ReturnReservation(ctx context.Context, id string, reports []models.DamageReport) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&models.Reservation{}).
			Where("id = ? AND status = ?", id, models.ReservationActive).
			Updates(map[string]interface{}{
				"status":      models.ReservationCompleted,
				"returned_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotActive
		}

		for i := range reports {
			reports[i].ID = 0
			reports[i].ReservationID = id
		}
		if len(reports) > 0 {
			if err := tx.Create(&reports).Error; err != nil {
				return err
			}
		}

		for _, rep := range reports {
			var it models.Item
			if err := tx.First(&it, "id = ?", rep.ItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue // item was removed from inventory meanwhile
				}
				return err
			}
			q := it.Quantity - rep.QuantityDamaged
			if q < 0 {
				q = 0
			}
			if err := tx.Model(&models.Item{}).
				Where("id = ?", it.ID).
				Update("quantity", q).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ResolveDamage marks the report(s) for one item within one reservation as
// handled.
func (r *Repo) ResolveDamage(ctx context.Context, reservationID, itemID string) error {
	res := r.DB.WithContext(ctx).Model(&models.DamageReport{}).
		Where("reservation_id = ? AND item_id = ?", reservationID, itemID).
		Update("is_resolved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) FindReservationByID(ctx context.Context, id string) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.DB.WithContext(ctx).
		Preload("Items").Preload("DamageReports").
		First(&res, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *Repo) ListReservations(ctx context.Context, coachID, status string) ([]models.Reservation, error) {
	q := r.DB.WithContext(ctx).Model(&models.Reservation{}).
		Preload("Items").Preload("DamageReports").
		Order("date DESC").Order("start_time DESC")
	if coachID != "" {
		q = q.Where("coach_id = ?", coachID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rs []models.Reservation
	if err := q.Find(&rs).Error; err != nil {
		return nil, err
	}
	return rs, nil
}
