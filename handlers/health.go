package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupHealthRoutes exposes a liveness check that also pings the database.
func SetupHealthRoutes(app fiber.Router, db *gorm.DB) {
	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unavailable",
				"cause":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
