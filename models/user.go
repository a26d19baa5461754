package models

import "time"

const (
	RoleAdmin      = "admin"
	RoleCoach      = "coach"
	RoleSuperAdmin = "super-admin"
)

const ClubTable = "st_clubs"
const UserTable = "st_users"

// Club groups one admin with zero or more coaches. ClubID on User is what
// cascade deletion keys off; the club name is also denormalized onto users
// for display.
type Club struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type User struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string `gorm:"size:200;not null" json:"name"`
	Email string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role  string `gorm:"size:20;not null" json:"role"`

	ClubID   *string `gorm:"type:uuid;index" json:"clubId,omitempty"`
	ClubName string  `gorm:"size:200" json:"clubName,omitempty"`

	PasswordHash     string `gorm:"size:100;not null" json:"-"`
	RecoveryCodeHash string `gorm:"size:100" json:"-"`
	// Set when an admin creates a coach with a temporary password; login is
	// blocked until the coach picks their own.
	MustChangePassword bool `gorm:"not null;default:false" json:"mustChangePassword"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Club) TableName() string { return ClubTable }
func (User) TableName() string { return UserTable }
