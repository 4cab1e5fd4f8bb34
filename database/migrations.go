package database

import (
	"github.com/damienaltman42/sb1-u3qtxy/models"

	"gorm.io/gorm"
)

// Models lists every table owned by the service, parents first.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Roulette{},
		&models.AccessCode{},
		&models.Win{},
		&models.Like{},
		&models.SocialLink{},
		&models.RevokedToken{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
