package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"classfit/internal/logger"
	"classfit/internal/payments"
)

func main() {
	logger.Init()

	port := os.Getenv("PAYMENTS_PORT")
	if port == "" {
		port = "3001"
	}

	router := gin.Default()
	payments.Routes(router)

	logger.Infof("Mock payment server listening on port %s", port)
	if err := router.Run(":" + port); err != nil {
		logger.Fatalf("Payment server error: %v", err)
	}
}
