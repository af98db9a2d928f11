package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/soil-health-map/internal/soil"
)

func registerRecommendationRoutes(r fiber.Router, deps Dependencies) {
	r.Post("/calculate", calculateHandler(deps))

	if deps.Crops != nil {
		r.Get("/crops", func(c *fiber.Ctx) error {
			crops, err := deps.Crops.CropCatalog(c.UserContext())
			if err != nil {
				log.Printf("ERROR: fetching crop list: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON([]any{})
			}
			return c.JSON(crops)
		})
	}

	if deps.Saved != nil && deps.Auth != nil {
		r.Post("/save", requireFarmer(deps.Auth), func(c *fiber.Ctx) error {
			body := c.Body()
			if len(strings.TrimSpace(string(body))) == 0 || !json.Valid(body) {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid recommendation payload")
			}

			claims := farmerClaims(c)
			id, err := deps.Saved.SaveRecommendation(c.UserContext(), claims.FarmerID, json.RawMessage(body))
			if err != nil {
				return err
			}
			return c.JSON(fiber.Map{
				"message": "Recommendation saved successfully",
				"id":      id,
			})
		})
	}
}

func calculateHandler(deps Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req soil.Request
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, readingError(err))
		}

		result, err := deps.Recommender.Calculate(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.JSON(result)
	}
}

// readingError turns a validator failure on the recommendation request into
// a client message.
func readingError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%s must not be negative", strings.ToLower(fe.Field()))
	}
	return err.Error()
}
