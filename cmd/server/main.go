package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"order_manager/internal/config"
	"order_manager/internal/database"
	"order_manager/internal/handlers"
	"order_manager/internal/redis"
	"order_manager/internal/repository"
	"order_manager/internal/services"
	"order_manager/pkg/telegram"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	log.Info("database connected and migrated")

	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	defer redisClient.Close()

	telegramClient := telegram.NewClient(cfg.TelegramAPIURL, cfg.TelegramBotToken)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	reminderLogRepo := repository.NewReminderLogRepository(db)

	notifier := services.NewNotificationService(telegramClient, userRepo, log)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	orderService := services.NewOrderService(orderRepo, historyRepo, notifier, log)
	reminderService := services.NewReminderService(
		orderRepo,
		reminderLogRepo,
		userRepo,
		notifier,
		redisClient,
		time.Duration(cfg.OverdueCooldownHrs)*time.Hour,
		cfg.MiniAppURL,
		log,
	)
	metricsService := services.NewMetricsService(
		orderRepo,
		historyRepo,
		reminderLogRepo,
		redisClient,
		time.Duration(cfg.MetricsCacheTTLSecs)*time.Second,
		log,
	)

	apiHandler := handlers.NewAPIHandler(orderService, projectService, metricsService, userService)
	cronHandler := handlers.NewCronHandler(reminderService)

	router := gin.Default()

	api := router.Group("/api")
	api.Use(handlers.TelegramAuth(cfg.TelegramBotToken, userService))
	{
		api.POST("/projects", apiHandler.CreateProject)
		api.GET("/projects", apiHandler.ListProjects)
		api.POST("/projects/:project_id/members", apiHandler.AddProjectMember)
		api.GET("/projects/:project_id/orders", apiHandler.ListProjectOrders)
		api.GET("/projects/:project_id/metrics", apiHandler.GetProjectMetrics)

		api.POST("/orders", apiHandler.CreateOrder)
		api.GET("/orders/:order_id", apiHandler.GetOrder)
		api.PATCH("/orders/:order_id", apiHandler.UpdateOrder)
		api.GET("/orders/:order_id/history", apiHandler.GetOrderHistory)

		api.PATCH("/profile", apiHandler.UpdateProfile)
	}

	cron := router.Group("/api/cron")
	cron.Use(handlers.CronAuth(cfg.CronSecret))
	{
		cron.POST("/reminders", cronHandler.RunReminders)
		cron.POST("/overdue", cronHandler.RunOverdue)
	}

	log.WithField("port", cfg.ServerPort).Info("server starting")
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
