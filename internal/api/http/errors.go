package httpapi

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/i474232898/soil-health-map/internal/common"
)

// ErrorHandler renders every error as {"error": message}. Validation errors
// become 400s; anything unexpected is logged and hidden behind a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var (
		fe   *fiber.Error
		verr *common.ValidationError
	)
	switch {
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	case errors.As(err, &verr):
		code = fiber.StatusBadRequest
		message = verr.Message
	default:
		log.Printf("ERROR: %s %s [%v]: %v", c.Method(), c.Path(), c.Locals(requestid.ConfigDefault.ContextKey), err)
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
