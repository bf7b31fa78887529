package boot

import (
	"ebm/src/db"
	"ebm/src/models"
	"log"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.ChatMessage{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}
