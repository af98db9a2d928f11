package httpapi

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb"

	"github.com/i474232898/soil-health-map/internal/store"
)

func registerMapRoutes(r fiber.Router, m MapStore) {
	r.Get("/districts", func(c *fiber.Ctx) error {
		fc, err := m.DistrictFeatures(c.UserContext(), c.Query("state"))
		if err != nil {
			log.Printf("ERROR: fetching districts: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch district data")
		}
		return c.JSON(fc)
	})

	r.Get("/districts/bbox", func(c *fiber.Ctx) error {
		var q bboxQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "bbox must be minx,miny,maxx,maxy within lng/lat range with min <= max")
		}

		fc, err := m.DistrictsInBound(c.UserContext(), q.bound())
		if err != nil {
			log.Printf("ERROR: fetching districts in bbox: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch district data")
		}
		return c.JSON(fc)
	})

	r.Get("/nearest", func(c *fiber.Ctx) error {
		var q pointQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "lat must be within [-90, 90] and lng within [-180, 180]")
		}

		nd, err := m.Nearest(c.UserContext(), orb.Point{q.Lng, q.Lat})
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "No district found")
		}
		if err != nil {
			return err
		}
		return c.JSON(nd)
	})

	r.Get("/stats/:state", func(c *fiber.Ctx) error {
		stats, err := m.StateStats(c.UserContext(), c.Params("state"))
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "No soil data for state")
		}
		if err != nil {
			log.Printf("ERROR: fetching state stats: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Database error")
		}
		return c.JSON(stats)
	})

	r.Get("/district/:name/bounds", func(c *fiber.Ctx) error {
		state := c.Query("state")
		if state == "" {
			return fiber.NewError(fiber.StatusBadRequest, "state query parameter is required")
		}

		bounds, err := m.DistrictBounds(c.UserContext(), c.Params("name"), state)
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "District not found")
		}
		if err != nil {
			log.Printf("ERROR: fetching district bounds: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Database error")
		}
		return c.JSON(bounds)
	})

	r.Get("/states", func(c *fiber.Ctx) error {
		states, err := m.States(c.UserContext())
		if err != nil {
			log.Printf("ERROR: fetching states: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON([]any{})
		}
		return c.JSON(states)
	})
}

// bboxQuery holds the envelope of a bbox search in lng/lat degrees.
type bboxQuery struct {
	MinX float64 `validate:"gte=-180,lte=180"`
	MinY float64 `validate:"gte=-90,lte=90"`
	MaxX float64 `validate:"gte=-180,lte=180,gtefield=MinX"`
	MaxY float64 `validate:"gte=-90,lte=90,gtefield=MinY"`
}

func (q *bboxQuery) bind(c *fiber.Ctx) error {
	fields := []struct {
		name string
		dst  *float64
	}{
		{"minx", &q.MinX},
		{"miny", &q.MinY},
		{"maxx", &q.MaxX},
		{"maxy", &q.MaxY},
	}
	for _, f := range fields {
		v, err := parseFloatQuery(c, f.name)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

func (q bboxQuery) bound() orb.Bound {
	return orb.Bound{Min: orb.Point{q.MinX, q.MinY}, Max: orb.Point{q.MaxX, q.MaxY}}
}

// pointQuery holds a lat/lng pair.
type pointQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lng float64 `validate:"gte=-180,lte=180"`
}

func (q *pointQuery) bind(c *fiber.Ctx) error {
	var err error
	if q.Lat, err = parseFloatQuery(c, "lat"); err != nil {
		return err
	}
	q.Lng, err = parseFloatQuery(c, "lng")
	return err
}

func parseFloatQuery(c *fiber.Ctx, name string) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, fmt.Errorf("%s query parameter is required", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}
