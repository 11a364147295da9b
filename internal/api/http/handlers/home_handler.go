package handlers

import "github.com/gofiber/fiber/v2"

// Home handles GET /home.
func Home(c *fiber.Ctx) error {
	return c.SendString("Hello World")
}
