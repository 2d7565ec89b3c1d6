package trip

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// History lists finished trips. It is nil when no journal is configured.
type History interface {
	Recent(ctx context.Context, limit int) ([]Summary, error)
}

func RegisterRoutes(r fiber.Router, ctrl *Controller, scores *ScoreBook, history History, authMiddleware fiber.Handler) {
	r.Post("/start", authMiddleware, func(c *fiber.Ctx) error {
		info, err := ctrl.Start(c.Context())
		if errors.Is(err, ErrPermissionDenied) {
			return fiber.NewError(fiber.StatusForbidden, "Background location is required for trip recording")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if info.AlreadyActive {
			return c.JSON(info)
		}
		return c.Status(fiber.StatusCreated).JSON(info)
	})

	r.Post("/stop", authMiddleware, func(c *fiber.Ctx) error {
		summary, ok := ctrl.Stop(c.Context())
		if !ok {
			return c.JSON(fiber.Map{"stopped": false})
		}
		return c.JSON(fiber.Map{
			"stopped":            true,
			"summary":            summary,
			"formatted_duration": FormatDuration(summary.DurationSeconds),
		})
	})

	r.Get("/current", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.Snapshot())
	})

	r.Get("/scores", func(c *fiber.Ctx) error {
		return c.JSON(scores.Scores(c.Context()))
	})

	r.Get("/history", func(c *fiber.Ctx) error {
		if history == nil {
			return c.JSON([]Summary{})
		}
		limit := defaultHistoryLimit
		if raw := c.Query("limit"); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil || v <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
			}
			limit = v
		}
		trips, err := history.Recent(c.Context(), limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(trips)
	})
}
