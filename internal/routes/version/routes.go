package version

import (
	"os/exec"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/patzer/internal/services"
)

type VersionResponse struct {
	Commit string `json:"commit"`
	Engine string `json:"engine,omitempty"`
}

var commit = gitCommit()

func gitCommit() string {
	output, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

func SetupRoutes(app *fiber.App) {
	versionGroup := app.Group("/version")
	versionGroup.Get("/", versionHandler)
}

func versionHandler(c *fiber.Ctx) error {
	response := VersionResponse{Commit: commit}

	if services, ok := c.Locals("services").(*services.Services); ok && services.Analyzer != nil {
		response.Engine = services.Analyzer.EngineID().Name
	}

	return c.JSON(response)
}
