package main

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"order_manager/internal/config"
	"order_manager/internal/database"
	"order_manager/internal/migrations"
	"order_manager/internal/models"
	"order_manager/internal/repository"
)

// Resets the schema and seeds a demo workspace for local development.
func main() {
	fmt.Println("Initializing database...")

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("Recreating tables...")
	if err := migrations.Reset(db); err != nil {
		log.Fatal("Failed to reset database:", err)
	}

	fmt.Println("Seeding demo data...")
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	owner := &models.User{
		TelegramID:           100000001,
		Username:             "demo_owner",
		FirstName:            "Демо",
		LastName:             "Владелец",
		Timezone:             "Europe/Moscow",
		NotificationsEnabled: true,
	}
	if err := userRepo.Upsert(owner); err != nil {
		log.Fatal("Failed to seed owner:", err)
	}

	project := &models.Project{
		ID:      "11111111-1111-1111-1111-111111111111",
		Name:    "Демо-проект",
		OwnerID: owner.TelegramID,
	}
	if err := projectRepo.Create(project); err != nil {
		log.Fatal("Failed to seed project:", err)
	}

	order := &models.Order{
		ID:              "22222222-2222-2222-2222-222222222222",
		Code:            "ORD-DEMO0001",
		ProjectID:       project.ID,
		Title:           "Сверстать лендинг",
		Status:          "pending",
		DueDate:         "2026-09-15",
		DueTime:         "18:00",
		CreatorID:       owner.TelegramID,
		ReminderOffsets: "1h,1d",
		TotalAmount:     decimal.NewFromInt(15000),
	}
	if err := orderRepo.Create(order); err != nil {
		log.Fatal("Failed to seed order:", err)
	}

	fmt.Println("Database initialization completed successfully!")
	fmt.Printf("Demo project: %s (owner %d)\n", project.ID, owner.TelegramID)
}
