package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/tal3a-app/tal3a-api/cmd/app"
)

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token carrying the caller principal
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
