package tracking

import (
	"bytes"
	"encoding/json"
	"time"

	"backend-safedrive/internal/scoring"

	"github.com/gofiber/fiber/v2"
)

type permissionRequest struct {
	Granted *bool `json:"granted"`
}

func RegisterRoutes(r fiber.Router, src *DeviceSource, authMiddleware fiber.Handler) {
	r.Get("/options", func(c *fiber.Ctx) error {
		return c.JSON(src.Options())
	})

	r.Put("/permission", authMiddleware, func(c *fiber.Ctx) error {
		var req permissionRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Granted == nil {
			return fiber.NewError(fiber.StatusBadRequest, "granted required")
		}
		src.SetPermission(*req.Granted)
		return c.JSON(fiber.Map{"granted": *req.Granted})
	})

	r.Post("/samples", authMiddleware, func(c *fiber.Ctx) error {
		samples, err := parseSamples(c.Body())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		now := time.Now().UnixMilli()
		delivered := 0
		for _, s := range samples {
			if s.TimestampMs == 0 {
				s.TimestampMs = now
			}
			if src.Publish(s) > 0 {
				delivered++
			}
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"accepted":  len(samples),
			"delivered": delivered,
		})
	})
}

// parseSamples accepts either one sample object or an array of samples.
func parseSamples(body []byte) ([]scoring.GeoSample, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "empty body")
	}
	if trimmed[0] == '[' {
		var batch []scoring.GeoSample
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, err
		}
		return batch, nil
	}
	var one scoring.GeoSample
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, err
	}
	return []scoring.GeoSample{one}, nil
}
