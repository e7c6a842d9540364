package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mansoorceksport/liftlog/internal/domain"
	"github.com/mansoorceksport/liftlog/internal/exercisetype"
	"github.com/mansoorceksport/liftlog/internal/middleware"
	"github.com/mansoorceksport/liftlog/internal/service"
)

type ExerciseHandler struct {
	exercises   *service.ExerciseService
	records     *service.RecordService
	preferences *service.PreferenceService
	registry    *exercisetype.Registry
}

func NewExerciseHandler(
	exercises *service.ExerciseService,
	records *service.RecordService,
	preferences *service.PreferenceService,
	registry *exercisetype.Registry,
) *ExerciseHandler {
	return &ExerciseHandler{
		exercises:   exercises,
		records:     records,
		preferences: preferences,
		registry:    registry,
	}
}

type exerciseRequest struct {
	Title        string  `json:"title"`
	ExerciseType string  `json:"exercise_type"`
	MuscleGroup  string  `json:"muscle_group"`
	BandType     *string `json:"band_type"`
	IsBodyweight bool    `json:"is_bodyweight"`
}

func (r exerciseRequest) toInput() exercisetype.ExerciseInput {
	return exercisetype.ExerciseInput{
		Title:        r.Title,
		ExerciseType: domain.ExerciseType(r.ExerciseType),
		MuscleGroup:  r.MuscleGroup,
		BandType:     r.BandType,
		IsBodyweight: r.IsBodyweight,
	}
}

// ListTypes describes every exercise type as the caller would see its form
func (h *ExerciseHandler) ListTypes(c *fiber.Ctx) error {
	prefs := domain.DefaultPreferences("")
	if userID := c.Get(middleware.UserIDHeader); userID != "" {
		p, err := h.preferences.Get(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		prefs = p
	}
	return c.JSON(fiber.Map{
		"weight_unit": h.registry.WeightUnit(),
		"bands":       h.registry.Bands().Bands(),
		"types":       h.registry.Types(*prefs),
	})
}

func (h *ExerciseHandler) List(c *fiber.Ctx) error {
	exs, err := h.exercises.ListVisible(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(exs)
}

func (h *ExerciseHandler) Create(c *fiber.Ctx) error {
	var req exerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	ex, err := h.exercises.Create(c.UserContext(), middleware.UserID(c), req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ex)
}

func (h *ExerciseHandler) Update(c *fiber.Ctx) error {
	var req exerciseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	ex, err := h.exercises.Update(c.UserContext(), middleware.UserID(c), c.Params("id"), req.toInput())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ex)
}

func (h *ExerciseHandler) Records(c *fiber.Ctx) error {
	recs, err := h.records.Current(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recs)
}

// History returns one record chain, e.g. ?pr_type=rep_specific&discriminator=5
func (h *ExerciseHandler) History(c *fiber.Ctx) error {
	prType := domain.PRType(c.Query("pr_type", string(domain.PRTypeOneRM)))

	var disc *float64
	if raw := c.Query("discriminator"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return badRequest(c, "discriminator must be numeric")
		}
		disc = &v
	}
	if prType.HasDiscriminator() && disc == nil {
		return badRequest(c, "discriminator is required for "+string(prType))
	}

	chain, err := h.records.History(c.UserContext(), middleware.UserID(c), c.Params("id"), prType, disc)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"pr_type":       prType,
		"discriminator": disc,
		"records":       chain,
	})
}
