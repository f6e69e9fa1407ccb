package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lk16/patzer/internal/middleware"
	"github.com/lk16/patzer/internal/models"
	"github.com/lk16/patzer/internal/repository"
	"github.com/lk16/patzer/internal/uci"
)

// PostAnalysis computes the best move for a position, or returns a cached result.
func PostAnalysis(c *fiber.Ctx) error {
	var request models.AnalysisRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := request.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	repo := repository.NewAnalysisRepository(c)
	analysis, err := repo.Analyze(c.Context(), request)
	if err != nil {
		return c.Status(analysisErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals(middleware.AnalysisIDKey, analysis.ID.String())
	return c.Status(fiber.StatusOK).JSON(analysis)
}

func analysisErrorStatus(err error) int {
	if errors.Is(err, uci.ErrTimeoutExceeded) {
		return fiber.StatusGatewayTimeout
	}

	return fiber.StatusInternalServerError
}

// GetAnalysis returns a stored analysis.
func GetAnalysis(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid analysis ID",
		})
	}

	repo := repository.NewAnalysisRepository(c)
	analysis, err := repo.GetAnalysis(c.Context(), id)
	if errors.Is(err, repository.ErrAnalysisNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Locals(middleware.AnalysisIDKey, analysis.ID.String())
	return c.Status(fiber.StatusOK).JSON(analysis)
}

// ListAnalyses returns the most recent analyses.
func ListAnalyses(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", repository.DefaultListLimit)
	if limit < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be positive",
		})
	}

	repo := repository.NewAnalysisRepository(c)
	analyses, err := repo.ListAnalyses(c.Context(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(analyses)
}

// GetAnalysisStats returns the analysis counters.
func GetAnalysisStats(c *fiber.Ctx) error {
	repo := repository.NewAnalysisRepository(c)
	stats, err := repo.GetStats(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(stats)
}
