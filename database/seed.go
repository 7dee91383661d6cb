package database

import (
	"cinema_reservation/config"
	"cinema_reservation/constants"
	"cinema_reservation/logger"
	"cinema_reservation/model"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var defaultCategories = []string{"Action", "Animation", "Comedy", "Documentary", "Drama", "Horror", "Science Fiction", "Thriller"}

// SeedData creates the superadmin account and the default categories when
// they are missing.
func SeedData(db *gorm.DB) {
	email := config.Config("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@cinema.local"
	}
	password := config.Config("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "123456cn"
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		logger.Log.Error("hash seed password", zap.Error(err))
		return
	}
	admin := model.User{
		FirstName: "System",
		LastName:  "Administrator",
		Email:     email,
		Password:  string(bytes),
		Role:      constants.ROLE_SUPERADMIN,
		Active:    true,
	}
	if err := db.Where(model.User{Email: admin.Email}).FirstOrCreate(&admin).Error; err != nil {
		logger.Log.Error("seed superadmin", zap.String("email", admin.Email), zap.Error(err))
	}

	for _, name := range defaultCategories {
		category := model.Category{Name: name}
		if err := db.Where(model.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			logger.Log.Error("seed category", zap.String("name", name), zap.Error(err))
		}
	}
}
