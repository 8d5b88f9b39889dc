package main

import (
	"flag"

	"go-stockwatch/internal/model"
	"go-stockwatch/pkg/database"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// Offline ops tool: resets a user's password directly in the database.
// Password rotation is deliberately not exposed through the API.
func main() {
	username := flag.String("username", "admin", "account to reset")
	password := flag.String("password", "admin123", "new password")
	flag.Parse()

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()

	// 3. Find the account
	var user model.User
	if err := db.Where("username = ?", *username).First(&user).Error; err != nil {
		logrus.WithError(err).Fatalf("user %q not found in database", *username)
	}

	// 4. Hash new password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Fatal("failed to hash password")
	}

	// 5. Update
	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		logrus.WithError(err).Fatal("failed to update password in DB")
	}

	logrus.Infof("password for %q has been reset", *username)
}
