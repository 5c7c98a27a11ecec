package db

import (
	"errors"

	"github.com/smartsprint-dev/smartsprint/internal/models"
	"github.com/smartsprint-dev/smartsprint/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

const DefaultAdminEmail = "admin@smartsprint.com"

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	entities := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Task{},
		&models.Comment{},
		&models.PerformanceLog{},
	}

	migrator := DB.Migrator()

	for _, entity := range entities {
		if !migrator.HasTable(entity) {
			if err := DB.AutoMigrate(entity); err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedDefaultAdmin creates the bootstrap administrator account if no user
// with the default admin email exists yet.
func SeedDefaultAdmin(password string) error {
	var existing models.User

	err := DB.Where("email = ?", DefaultAdminEmail).First(&existing).Error

	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        DefaultAdminEmail,
		PasswordHash: string(hash),
		Role:         string(types.RoleAdmin),
		Team:         string(types.TeamNone),
		Level:        string(types.LevelNone),
	}

	return DB.Create(&admin).Error
}
