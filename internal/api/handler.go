package api

import (
	"github.com/gofiber/fiber/v2"

	"habit-tracker/internal/habit"
	"habit-tracker/internal/metadata"
)

type Handler struct {
	registry *metadata.Registry
	version  string
}

func NewHandler(reg *metadata.Registry, version string) *Handler {
	return &Handler{registry: reg, version: version}
}

// Health handles GET /health
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": h.version,
	})
}

// Schemas handles GET /api/schemas
func (h *Handler) Schemas(c *fiber.Ctx) error {
	rules := h.registry.AllRules()
	if rules == nil {
		rules = []*metadata.Rule{}
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"schemas": h.registry.AllSchemas(),
			"rules":   rules,
		},
	})
}

// Validate handles POST /api/validate/:schema
func (h *Handler) Validate(c *fiber.Ctx) error {
	rec, err := habit.Decode(c.Params("schema"), c.Body())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rec})
}
