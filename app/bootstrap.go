package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"

	"sporttrack/db"
	"sporttrack/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BootstrapSuperAdmin seeds the privileged account on first start. The
// credentials come from the environment; with no SUPERADMIN_PASSWORD set a
// one-time secret is generated and printed to the log.
func BootstrapSuperAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.SuperAdminEmail == "" {
		return
	}
	exists, err := repo.HasSuperAdmin(ctx)
	if err != nil {
		log.Printf("bootstrap: %v", err)
		return
	}
	if exists {
		return
	}

	password := cfg.SuperAdminPassword
	generated := false
	if password == "" {
		buf := make([]byte, 12)
		rand.Read(buf)
		password = hex.EncodeToString(buf)
		generated = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("bootstrap hash failed: %v", err)
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Name:         "Super Admin",
		Email:        cfg.SuperAdminEmail,
		Role:         models.RoleSuperAdmin,
		PasswordHash: string(hash),
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Printf("bootstrap super-admin failed: %v", err)
		return
	}

	log.Printf("[BOOTSTRAP] Seeded super-admin %s", cfg.SuperAdminEmail)
	if generated {
		log.Printf("[BOOTSTRAP] One-time super-admin password: %s (change it after first login)", password)
	}
}
