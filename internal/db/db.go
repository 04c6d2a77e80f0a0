package db

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/branch-queue/internal/config"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

// activeSlotIndex keeps a slot to one live booking. Cancelled rows stay in
// the table and release the slot.
const activeSlotIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_active_slot
	ON appointments (branch_id, appointment_date, time_slot)
	WHERE status <> 'cancelled'
`

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate")
	}

	return db
}

// Migrate creates the schema and the indexes AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Branch{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return err
	}

	return db.Exec(`
		UPDATE branches
		SET slot_duration = 15
		WHERE slot_duration IS NULL OR slot_duration <= 0
	`).Error
}
