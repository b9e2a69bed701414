package db

import (
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init binds the shared connection opened by pkg/database.
func Init(db *gorm.DB) {
	DB = db
}
