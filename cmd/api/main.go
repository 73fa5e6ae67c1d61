package main

import (
	"log"

	"github.com/joho/godotenv"

	"certback/internal/app"
)

// @title           Certification Course Back-Office API
// @version         1.0
// @description     Регистрация, верификация, платежи и коды доступа для курса сертификации.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not loaded: %v", err)
	}
	app.Run()
}
