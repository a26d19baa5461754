package db

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sporttrack/models"
)

// newTestRepo opens an in-memory sqlite database. Pinned to a single
// connection so the pool does not hand out a second, empty :memory: db.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
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
	return NewRepo(gdb)
}

func seedItem(t *testing.T, r *Repo, name string, qty int) *models.Item {
	t.Helper()
	it := &models.Item{ID: uuid.NewString(), Name: name, Quantity: qty, Category: "training"}
	require.NoError(t, r.DB.Create(it).Error)
	return it
}

func seedClubAdmin(t *testing.T, r *Repo, clubName, email string) *models.User {
	t.Helper()
	club := &models.Club{ID: uuid.NewString(), Name: clubName}
	require.NoError(t, r.DB.Create(club).Error)
	admin := &models.User{
		ID: uuid.NewString(), Name: "Admin " + clubName, Email: email,
		Role: models.RoleAdmin, ClubID: &club.ID, ClubName: clubName,
		PasswordHash: "x",
	}
	require.NoError(t, r.DB.Create(admin).Error)
	return admin
}

func seedCoach(t *testing.T, r *Repo, admin *models.User, email string) *models.User {
	t.Helper()
	coach := &models.User{
		ID: uuid.NewString(), Name: "Coach " + email, Email: email,
		Role: models.RoleCoach, ClubID: admin.ClubID, ClubName: admin.ClubName,
		PasswordHash: "x",
	}
	require.NoError(t, r.DB.Create(coach).Error)
	return coach
}

func newReservation(coach *models.User, it *models.Item, date, start, end string, qty int) *models.Reservation {
	return &models.Reservation{
		ID:        uuid.NewString(),
		CoachID:   coach.ID,
		CoachName: coach.Name,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Items: []models.ReservationItem{
			{ItemID: it.ID, ItemName: it.Name, Quantity: qty},
		},
	}
}
