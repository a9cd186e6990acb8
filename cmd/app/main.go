package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/safatanc/checkin-core/injector"
	"github.com/safatanc/checkin-core/internal/infrastructures"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := infrastructures.LoadConfig()
	infrastructures.SetupLogger(cfg)

	app, err := injector.InitializeApplication()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	if cfg.DatabaseAutoMigrate {
		if err := infrastructures.Migrate(app.DB); err != nil {
			logrus.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Image generation can take well over a minute
	config := fiber.Config{
		ReadTimeout:  time.Second * 60,
		WriteTimeout: cfg.Image.Timeout + time.Second*30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    25 * 1024 * 1024,
	}

	router := fiber.New(config)

	// Add CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET, POST, PUT, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:        300,
	}))

	app.RegisterRoutes(router)

	logrus.Fatal(router.Listen(":" + cfg.AppPort))
}
