package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/soil-health-map/internal/auth"
)

func registerAuthRoutes(r fiber.Router, svc AuthService) {
	r.Post("/register", func(c *fiber.Ctx) error {
		var req auth.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		f, err := svc.Register(c.UserContext(), req)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Registration successful",
			"farmer": fiber.Map{
				"id":         f.ID,
				"username":   f.Username,
				"postalCode": f.PostalCode,
				"district":   f.District,
				"state":      f.State,
			},
		})
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req auth.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		session, err := svc.Login(c.UserContext(), req)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid username or password")
		}
		if err != nil {
			return err
		}

		f := session.Farmer
		return c.JSON(fiber.Map{
			"success": true,
			"token":   session.Token,
			"farmer": fiber.Map{
				"id":         f.ID,
				"username":   f.Username,
				"postalCode": f.PostalCode,
				"district":   f.District,
				"state":      f.State,
				"fullName":   f.FullName,
			},
		})
	})

	r.Get("/verify", requireFarmer(svc), func(c *fiber.Ctx) error {
		claims := farmerClaims(c)
		return c.JSON(fiber.Map{
			"valid": true,
			"farmer": fiber.Map{
				"id":       claims.FarmerID,
				"username": claims.Subject,
				"district": claims.District,
				"state":    claims.State,
			},
		})
	})
}
