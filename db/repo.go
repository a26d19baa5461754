package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"sporttrack/models"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

var ErrEmailTaken = errors.New("email already registered")

// Users

func (r *Repo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateClubWithAdmin registers a new club and its admin in one transaction.
func (r *Repo) CreateClubWithAdmin(ctx context.Context, club *models.Club, admin *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).
			Where("email = ?", admin.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailTaken
		}
		if err := tx.Create(club).Error; err != nil {
			return err
		}
		return tx.Create(admin).Error
	})
}

// CreateUser inserts a standalone user (coach or seeded super-admin).
func (r *Repo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).
			Where("email = ?", u.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailTaken
		}
		return tx.Create(u).Error
	})
}

// UpdatePassword overwrites the stored hash and lifts any forced-change
// requirement.
func (r *Repo) UpdatePassword(ctx context.Context, userID, hash string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash":        hash,
			"must_change_password": false,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repo) TouchUserLogin(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"last_login_at": now,
			"last_seen_at":  now,
			"login_count":   gorm.Expr("login_count + 1"),
		}).Error
}

func (r *Repo) TouchUserSeen(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_seen_at", time.Now().UTC()).Error
}

func (r *Repo) HasSuperAdmin(ctx context.Context) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleSuperAdmin).
		Count(&n).Error
	return n > 0, err
}

// List (paged + keyword over name/email/club), for the global view.
type ListUsersResult struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (ListUsersResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(club_name) LIKE ?", like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListUsersResult{}, err
	}

	var users []models.User
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return ListUsersResult{}, err
	}
	return ListUsersResult{Users: users, Total: total}, nil
}

func (r *Repo) ListCoaches(ctx context.Context, clubID string) ([]models.User, error) {
	var coaches []models.User
	err := r.DB.WithContext(ctx).
		Where("club_id = ? AND role = ?", clubID, models.RoleCoach).
		Order("created_at DESC").
		Find(&coaches).Error
	return coaches, err
}

// DeleteCoach removes a coach, scoped to the calling admin's club.
func (r *Repo) DeleteCoach(ctx context.Context, coachID, clubID string) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND club_id = ? AND role = ?", coachID, clubID, models.RoleCoach).
		Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteClubCascade removes the admin's club: every user attached to the
// club (admin included), all their reservations with child rows, and the
// club itself. Returns the removed user ids so the caller can revoke their
// sessions.
func (r *Repo) DeleteClubCascade(ctx context.Context, adminID string) ([]string, error) {
	var removed []string
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var admin models.User
		if err := tx.First(&admin, "id = ? AND role = ?", adminID, models.RoleAdmin).Error; err != nil {
			return err
		}
		if admin.ClubID == nil {
			return gorm.ErrRecordNotFound
		}

		var members []models.User
		if err := tx.Where("club_id = ?", *admin.ClubID).Find(&members).Error; err != nil {
			return err
		}
		ids := make([]string, 0, len(members)+1)
		seen := map[string]bool{}
		for _, m := range members {
			ids = append(ids, m.ID)
			seen[m.ID] = true
		}
		if !seen[admin.ID] {
			ids = append(ids, admin.ID)
		}

		// Reservations key off coach_id only, so the admin's own bookings
		// go with the rest.
		var resIDs []string
		if err := tx.Model(&models.Reservation{}).
			Where("coach_id IN ?", ids).
			Pluck("id", &resIDs).Error; err != nil {
			return err
		}
		if len(resIDs) > 0 {
			if err := tx.Where("reservation_id IN ?", resIDs).Delete(&models.ReservationItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("reservation_id IN ?", resIDs).Delete(&models.DamageReport{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", resIDs).Delete(&models.Reservation{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("id IN ?", ids).Delete(&models.User{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Club{}, "id = ?", *admin.ClubID).Error; err != nil {
			return err
		}
		removed = ids
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

// ClubSummary backs the super-admin per-club overview.
type ClubSummary struct {
	ClubID   string `json:"clubId"`
	ClubName string `json:"clubName"`
	Admins   int64  `json:"admins"`
	Coaches  int64  `json:"coaches"`
}

func (r *Repo) ListClubSummaries(ctx context.Context) ([]ClubSummary, error) {
	var rows []ClubSummary
	err := r.DB.WithContext(ctx).
		Table(models.ClubTable+" AS c").
		Select(`c.id AS club_id, c.name AS club_name,
			COUNT(CASE WHEN u.role = 'admin' THEN 1 END) AS admins,
			COUNT(CASE WHEN u.role = 'coach' THEN 1 END) AS coaches`).
		Joins("LEFT JOIN " + models.UserTable + " u ON u.club_id = c.id").
		Group("c.id, c.name").
		Order("c.name").
		Scan(&rows).Error
	return rows, err
}
