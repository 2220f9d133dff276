package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aktivalab/aktiva/backend/internal/users"
)

const migrationSeedDefaultAdmin = "2026-01-12_seed_default_admin"

// Replace this credential immediately after first login.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationSeedDefaultAdmin, apply: seedDefaultAdmin},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// seedDefaultAdmin inserts a bootstrap administrator account when the
// accounts table is empty, so a fresh database is usable immediately.
func seedDefaultAdmin(db *gorm.DB) error {
	var accountCount int64
	if err := db.Model(&users.Account{}).Count(&accountCount).Error; err != nil {
		return err
	}
	if accountCount > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&users.Account{
		FullName:     "Administrator",
		Username:     defaultAdminUsername,
		PasswordHash: string(hash),
		Role:         users.RoleAdmin,
	}).Error
}
