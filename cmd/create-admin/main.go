// Command create-admin creates the super admin account, or promotes an
// existing user to super admin and resets their password.
package main

import (
	"errors"
	"flag"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/branch-queue/internal/config"
	dbpkg "github.com/BruksfildServices01/branch-queue/internal/db"
	"github.com/BruksfildServices01/branch-queue/internal/models"
	"github.com/BruksfildServices01/branch-queue/internal/observability"
	"github.com/BruksfildServices01/branch-queue/internal/validators"
)

func main() {
	email := flag.String("email", "", "super admin email")
	password := flag.String("password", "", "super admin password (min 6 chars)")
	name := flag.String("name", "Super Admin", "display name")
	flag.Parse()

	cfg := config.Load()
	observability.InitLogger("create-admin", cfg.Env)

	addr := validators.NormalizeEmail(*email)
	if !validators.IsEmailFormatValid(addr) || len(*password) < 6 {
		flag.Usage()
		os.Exit(2)
	}

	db := dbpkg.NewDB(cfg)

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	var user models.User
	err = db.Where("email = ?", addr).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Name:         strings.TrimSpace(*name),
			Email:        addr,
			PasswordHash: string(hashed),
			Role:         models.RoleSuperAdmin,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatal().Err(err).Msg("failed to create super admin")
		}
		log.Info().Uint("id", user.ID).Str("email", addr).Msg("super admin created")

	case err != nil:
		log.Fatal().Err(err).Msg("failed to look up user")

	default:
		if err := db.Model(&user).Updates(map[string]any{
			"role":          models.RoleSuperAdmin,
			"password_hash": string(hashed),
		}).Error; err != nil {
			log.Fatal().Err(err).Msg("failed to promote user")
		}
		log.Info().Uint("id", user.ID).Str("email", addr).Msg("user promoted to super admin")
	}
}
