package main

import (
	"log"
	"net/http"
	"os"

	"thuetro/config"

	"thuetro/jobs"
	"thuetro/models"
	"thuetro/routes"
	"thuetro/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func migrateTables() {
	if err := config.DB.AutoMigrate(
		&models.ConfigBundle{},
		&models.PricingPolicy{},
		&models.PolicyVersion{},
		&models.PricingSnapshot{},
		&models.RentableUnit{},
		&models.RentalAgreement{},
		&models.User{},
		&models.Province{},
		&models.District{},
	); err != nil {
		panic("Failed to migrate tables: " + err.Error())
	}
}

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}

	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	migrateTables()

	config.InitWebSocket(router, m)

	// Cron quét hợp đồng hết hạn dùng lại đúng service graph của routes
	agreementService := routes.SetupRoutes(router, config.DB, config.RedisClient, m)
	jobs.SetAgreementExpirer(services.NewAgreementServiceAdapter(agreementService))

	if err := jobs.InitCronJobs(c, m); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	log.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
