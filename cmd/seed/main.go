package main

import (
	"log"
	"os"

	"collabotree-be/internal/constant"
	"collabotree-be/internal/model"
	"collabotree-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds two demo accounts and hire requests in each status so the chat
// gates can be exercised locally without the marketplace services running.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo users...")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: Failed to hash demo password: %v", err)
	}

	buyer := model.User{
		Id:           uuid.New(),
		FullName:     "Bayu Pratama",
		Email:        "buyer@collabotree.test",
		Role:         constant.RoleUser,
		PasswordHash: string(hash),
	}
	student := model.User{
		Id:           uuid.New(),
		FullName:     "Sari Wijaya",
		Email:        "student@collabotree.test",
		Role:         constant.RoleUser,
		Skills:       []string{"web design", "copywriting"},
		PasswordHash: string(hash),
	}

	for _, u := range []*model.User{&buyer, &student} {
		var existing model.User
		if err := db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			color.Yellow("User '%s' already exists, skipping...", u.Email)
			u.Id = existing.Id
			continue
		}
		if err := db.Create(u).Error; err != nil {
			log.Fatalf("Error creating user '%s': %v", u.Email, err)
		}
		color.Green("Created user: %s (%s)", u.FullName, u.Email)
	}

	color.Cyan("Seeding hire requests...")

	hires := []model.HireRequest{
		{Id: uuid.New(), BuyerId: buyer.Id, StudentId: student.Id, ServiceTitle: "Landing page design", Status: constant.HireStatusAccepted},
		{Id: uuid.New(), BuyerId: buyer.Id, StudentId: student.Id, ServiceTitle: "Product copywriting", Status: constant.HireStatusPending},
		{Id: uuid.New(), BuyerId: buyer.Id, StudentId: student.Id, ServiceTitle: "Logo refresh", Status: constant.HireStatusCancelled},
	}

	for _, h := range hires {
		var existing model.HireRequest
		if err := db.Where("buyer_id = ? AND student_id = ? AND service_title = ?",
			h.BuyerId, h.StudentId, h.ServiceTitle).First(&existing).Error; err == nil {
			color.Yellow("Hire request '%s' already exists, skipping...", h.ServiceTitle)
			continue
		}
		if err := db.Create(&h).Error; err != nil {
			log.Fatalf("Error creating hire request '%s': %v", h.ServiceTitle, err)
		}
		color.Green("Created hire request: %s [%s]", h.ServiceTitle, h.Status)
	}

	color.Cyan("Seeding completed!")
}
