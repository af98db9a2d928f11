package httpapi

import (
	"bytes"
	"encoding/csv"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/soil-health-map/internal/store"
)

var csvHeader = []string{"District", "State", "Samples", "N Status", "P Status", "K Status", "pH", "OC%", "Last Updated"}

func registerDashboardRoutes(r fiber.Router, deps Dependencies) {
	r.Get("/summary", func(c *fiber.Ctx) error {
		year, err := yearQuery(c, deps)
		if err != nil {
			return err
		}
		summary, err := deps.Dashboard.Dashboard(c.UserContext(), c.Query("state"), year)
		if err != nil {
			log.Printf("ERROR: fetching dashboard summary: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Database error")
		}
		return c.JSON(summary)
	})

	r.Get("/export/csv", func(c *fiber.Ctx) error {
		year, err := yearQuery(c, deps)
		if err != nil {
			return err
		}
		rows, err := deps.Dashboard.DistrictSummaries(c.UserContext(), c.Query("state"), year)
		if err != nil {
			log.Printf("ERROR: exporting CSV: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Error generating CSV")
		}

		body, err := districtCSV(rows)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, "attachment; filename=soil_health_data.csv")
		return c.Send(body)
	})
}

// yearQuery reads ?year=, defaulting to the current year.
func yearQuery(c *fiber.Ctx, deps Dependencies) (int, error) {
	raw := c.Query("year")
	if raw == "" {
		return deps.now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "year must be a four-digit year")
	}
	return year, nil
}

func districtCSV(rows []store.DistrictSummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range rows {
		updated := ""
		if r.LastUpdated != nil {
			updated = r.LastUpdated.Format("2006-01-02 15:04:05")
		}
		record := []string{
			r.DistrictName,
			r.StateName,
			strconv.Itoa(r.Samples),
			r.NitrogenStatus,
			r.PhosphorusStatus,
			r.PotassiumStatus,
			strconv.FormatFloat(r.PH, 'f', 1, 64),
			strconv.FormatFloat(r.OrganicCarbon, 'f', 2, 64),
			updated,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
