// Package handler provides constants and helpers shared by all web handlers.
package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Detail writes a JSON error body in the API's {"detail": ...} shape with the
// given status code.
func Detail(c *fiber.Ctx, status int, detail string) error {
	return c.Status(status).JSON(fiber.Map{"detail": detail})
}

// Status writes the {"status": ...} acknowledgement body the assignment
// actions return.
func Status(c *fiber.Ctx, status string) error {
	return c.JSON(fiber.Map{"status": status})
}

// ParseID parses the :id route parameter into a numeric entity id.
// A zero or malformed id is reported as unknown, the same as a miss.
func ParseID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return id, true
}
