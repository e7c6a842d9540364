package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mansoorceksport/liftlog/internal/middleware"
	"github.com/mansoorceksport/liftlog/internal/service"
)

type PerformanceHandler struct {
	performance *service.PerformanceService
}

func NewPerformanceHandler(performance *service.PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{performance: performance}
}

// performanceRequest accepts either logged_at (RFC3339) or a date with an
// optional time of day.
type performanceRequest struct {
	ExerciseID string           `json:"exercise_id"`
	ClientID   string           `json:"client_id"`
	LoggedAt   string           `json:"logged_at"`
	Date       string           `json:"date"`
	Time       string           `json:"time"`
	Comments   string           `json:"comments"`
	Sets       []map[string]any `json:"sets"`
}

func (r performanceRequest) toLogRequest() (service.LogRequest, error) {
	loggedAt, err := parseLoggedAt(r.LoggedAt, r.Date, r.Time)
	if err != nil {
		return service.LogRequest{}, err
	}
	return service.LogRequest{
		ExerciseID: strings.TrimSpace(r.ExerciseID),
		ClientID:   r.ClientID,
		LoggedAt:   loggedAt,
		Comments:   r.Comments,
		Sets:       r.Sets,
	}, nil
}

// parseLoggedAt returns the zero time when nothing was sent; validation
// reports the missing date.
func parseLoggedAt(loggedAt, date, clock string) (time.Time, error) {
	if loggedAt != "" {
		return time.Parse(time.RFC3339, loggedAt)
	}
	if date == "" {
		return time.Time{}, nil
	}
	if clock == "" {
		return time.Parse("2006-01-02", date)
	}
	return time.Parse("2006-01-02 15:04", date+" "+clock)
}

func (h *PerformanceHandler) Create(c *fiber.Ctx) error {
	var req performanceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	logReq, err := req.toLogRequest()
	if err != nil {
		return badRequest(c, "Invalid date or time")
	}

	res, err := h.performance.Log(c.UserContext(), middleware.UserID(c), logReq)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *PerformanceHandler) Get(c *fiber.Ctx) error {
	l, err := h.performance.Get(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(l)
}

func (h *PerformanceHandler) Update(c *fiber.Ctx) error {
	var req performanceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	logReq, err := req.toLogRequest()
	if err != nil {
		return badRequest(c, "Invalid date or time")
	}

	res, err := h.performance.Update(c.UserContext(), middleware.UserID(c), c.Params("id"), logReq)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (h *PerformanceHandler) Delete(c *fiber.Ctx) error {
	if err := h.performance.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

func (h *PerformanceHandler) Comparison(c *fiber.Ctx) error {
	rows, err := h.performance.Comparison(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"rows": rows})
}
