// scripts/create_admin.go
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/devotedabilities/empowered-hoops-portal/config"
	"github.com/devotedabilities/empowered-hoops-portal/database"
	"github.com/devotedabilities/empowered-hoops-portal/models"
)

// Seeds the admin login plus its authorized-users row. Run once per deploy.
func main() {
	cfg := config.Load()
	database.Connect(cfg)

	adminEmail := cfg.AdminEmail
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var existing models.User
	if err := database.DB.Where("email = ?", adminEmail).First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query users: %v", err)
		}
	} else {
		fmt.Println("admin user already exists:", adminEmail)
		os.Exit(0)
	}

	u := models.User{
		Email:    adminEmail,
		Password: string(hashed),
		Role:     "admin",
		Name:     "Admin",
	}
	if err := database.DB.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert admin: %v", err)
	}

	au := models.AuthorizedUser{
		Email:  adminEmail,
		Name:   "Admin",
		Role:   "admin",
		Active: true,
	}
	if err := database.DB.Where("email = ?", adminEmail).FirstOrCreate(&au).Error; err != nil {
		log.Fatalf("failed to insert authorized user: %v", err)
	}

	fmt.Println("admin user created:", adminEmail)
	if os.Getenv("ADMIN_PASSWORD") == "" {
		fmt.Println("password set to default, change it after first login")
	}
}
