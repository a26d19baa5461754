package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sporttrack/models"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	admin := seedClubAdmin(t, repo, "Lions", "admin@lions.pt")

	dup := &models.User{
		ID: uuid.NewString(), Name: "Impostor", Email: "admin@lions.pt",
		Role: models.RoleCoach, ClubID: admin.ClubID, ClubName: admin.ClubName,
		PasswordHash: "x",
	}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), ErrEmailTaken)
}

func TestCreateClubWithAdmin_DuplicateEmailRollsBackClub(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seedClubAdmin(t, repo, "Lions", "admin@lions.pt")

	club := &models.Club{ID: uuid.NewString(), Name: "Second Lions"}
	admin := &models.User{
		ID: uuid.NewString(), Name: "Copy", Email: "admin@lions.pt",
		Role: models.RoleAdmin, ClubID: &club.ID, ClubName: club.Name,
		PasswordHash: "x",
	}
	assert.ErrorIs(t, repo.CreateClubWithAdmin(ctx, club, admin), ErrEmailTaken)

	var n int64
	require.NoError(t, repo.DB.Model(&models.Club{}).Count(&n).Error)
	assert.EqualValues(t, 1, n, "the club insert must roll back with the user conflict")
}

func TestUpdatePassword_ClearsForcedChange(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	admin := seedClubAdmin(t, repo, "Lions", "admin@lions.pt")
	require.NoError(t, repo.DB.Model(&models.User{}).
		Where("id = ?", admin.ID).
		Update("must_change_password", true).Error)

	require.NoError(t, repo.UpdatePassword(ctx, admin.ID, "new-hash"))

	got, err := repo.FindUserByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.False(t, got.MustChangePassword)

	assert.ErrorIs(t, repo.UpdatePassword(ctx, "no-such-user", "h"), gorm.ErrRecordNotFound)
}

func TestDeleteCoach_ScopedToClub(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	lions := seedClubAdmin(t, repo, "Lions", "admin@lions.pt")
	tigers := seedClubAdmin(t, repo, "Tigers", "admin@tigers.pt")
	coach := seedCoach(t, repo, lions, "coach@lions.pt")

	// Another club's admin cannot remove the coach.
	assert.ErrorIs(t, repo.DeleteCoach(ctx, coach.ID, *tigers.ClubID), gorm.ErrRecordNotFound)
	// Nor can an admin be deleted through the coach path.
	assert.ErrorIs(t, repo.DeleteCoach(ctx, lions.ID, *lions.ClubID), gorm.ErrRecordNotFound)

	require.NoError(t, repo.DeleteCoach(ctx, coach.ID, *lions.ClubID))
	_, err := repo.FindUserByID(ctx, coach.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteClubCascade(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	item := seedItem(t, repo, "Cones", 50)

	lions := seedClubAdmin(t, repo, "Lions", "admin@lions.pt")
	c1 := seedCoach(t, repo, lions, "c1@lions.pt")
	c2 := seedCoach(t, repo, lions, "c2@lions.pt")

	tigers := seedClubAdmin(t, repo, "Tigers", "admin@tigers.pt")
	t1 := seedCoach(t, repo, tigers, "t1@tigers.pt")

	for _, coach := range []*models.User{lions, c1, c2, t1} {
		_, err := repo.CreateReservation(ctx, newReservation(coach, item, "2024-01-01", "09:00", "09:30", 1))
		require.NoError(t, err)
	}

	removed, err := repo.DeleteClubCascade(ctx, lions.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{lions.ID, c1.ID, c2.ID}, removed)

	// Lions are gone, users and reservations both.
	for _, id := range removed {
		_, err := repo.FindUserByID(ctx, id)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		rs, err := repo.ListReservations(ctx, id, "")
		require.NoError(t, err)
		assert.Empty(t, rs)
	}
	var clubs int64
	require.NoError(t, repo.DB.Model(&models.Club{}).Where("name = ?", "Lions").Count(&clubs).Error)
	assert.Zero(t, clubs)

	// Tigers are untouched.
	_, err = repo.FindUserByID(ctx, tigers.ID)
	require.NoError(t, err)
	rs, err := repo.ListReservations(ctx, t1.ID, "")
	require.NoError(t, err)
	assert.Len(t, rs, 1)

	// No orphaned child rows from the removed reservations.
	var orphans int64
	require.NoError(t, repo.DB.Model(&models.ReservationItem{}).
		Joins("LEFT JOIN "+models.ReservationTable+" res ON res.id = "+models.ReservationItemTable+".reservation_id").
		Where("res.id IS NULL").
		Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestDeleteClubCascade_RejectsNonAdmin(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	lions := seedClubAdmin(t, repo, "Lions", "admin@lions.pt")
	coach := seedCoach(t, repo, lions, "coach@lions.pt")

	_, err := repo.DeleteClubCascade(ctx, coach.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListUsersAndClubSummaries(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	lions := seedClubAdmin(t, repo, "Lions", "admin@lions.pt")
	seedCoach(t, repo, lions, "c1@lions.pt")
	seedCoach(t, repo, lions, "c2@lions.pt")
	seedClubAdmin(t, repo, "Tigers", "admin@tigers.pt")

	all, err := repo.ListUsers(ctx, "", 1, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 4, all.Total)

	filtered, err := repo.ListUsers(ctx, "lions", 1, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 3, filtered.Total)

	paged, err := repo.ListUsers(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 4, paged.Total)
	assert.Len(t, paged.Users, 2)

	sums, err := repo.ListClubSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, "Lions", sums[0].ClubName)
	assert.EqualValues(t, 1, sums[0].Admins)
	assert.EqualValues(t, 2, sums[0].Coaches)
	assert.Equal(t, "Tigers", sums[1].ClubName)
	assert.EqualValues(t, 0, sums[1].Coaches)
}
