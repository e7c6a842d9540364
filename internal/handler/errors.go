package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/mansoorceksport/liftlog/internal/domain"
)

// respondError maps domain errors to HTTP responses
func respondError(c *fiber.Ctx, err error) error {
	var ipd *domain.InvalidPerformanceDataError
	if errors.As(err, &ipd) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":         ipd.Error(),
			"exercise_type": ipd.ExerciseType,
			"field":         ipd.Field,
			"reason":        ipd.Reason,
		})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownExerciseType),
		errors.Is(err, domain.ErrExerciseTitleEmpty),
		errors.Is(err, domain.ErrEmptyLiftLog):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrUnknownPRType):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrExerciseNotFound),
		errors.Is(err, domain.ErrLiftLogNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, domain.ErrDuplicateExercise),
		errors.Is(err, domain.ErrExerciseTypeLocked),
		errors.Is(err, domain.ErrRecordConflict):
		status = fiber.StatusConflict
	}

	if status == fiber.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error("request failed")
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
