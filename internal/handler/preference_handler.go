package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mansoorceksport/liftlog/internal/middleware"
	"github.com/mansoorceksport/liftlog/internal/service"
)

type PreferenceHandler struct {
	preferences *service.PreferenceService
}

func NewPreferenceHandler(preferences *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferences: preferences}
}

func (h *PreferenceHandler) Get(c *fiber.Ctx) error {
	prefs, err := h.preferences.Get(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prefs)
}

func (h *PreferenceHandler) Update(c *fiber.Ctx) error {
	var req struct {
		ShowExtraWeight *bool `json:"show_extra_weight"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	if req.ShowExtraWeight == nil {
		return badRequest(c, "show_extra_weight is required")
	}
	prefs, err := h.preferences.Update(c.UserContext(), middleware.UserID(c), *req.ShowExtraWeight)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(prefs)
}
