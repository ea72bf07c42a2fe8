package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/devotedabilities/empowered-hoops-portal/config"
	"github.com/devotedabilities/empowered-hoops-portal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := DB.AutoMigrate(
		&models.AttendanceEvent{},
		&models.OutboxEntry{},
		&models.AuthorizedUser{},
		&models.User{},
	); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}
