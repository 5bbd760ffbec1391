package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/saraban-go-api/internal/config"
	"github.com/noah-isme/saraban-go-api/internal/utils"
)

const readinessTimeout = 2 * time.Second

// ReadinessCheck is a named dependency the health endpoint pings on every call.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Service     string            `json:"service"`
	Environment string            `json:"environment"`
	Checks      map[string]string `json:"checks,omitempty"`
}

// HealthCheck reports service identity plus the state of each dependency.
// Any failing check turns the response into a 503 with status "degraded".
func HealthCheck(cfg config.Config, checks ...ReadinessCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
		}

		if len(checks) > 0 {
			payload.Checks = make(map[string]string, len(checks))
		}
		for _, check := range checks {
			ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
			err := check.Check(ctx)
			cancel()

			if err != nil {
				payload.Status = "degraded"
				payload.Checks[check.Name] = "down"
				continue
			}
			payload.Checks[check.Name] = "up"
		}

		if payload.Status != "ok" {
			return utils.Fail(c, fiber.StatusServiceUnavailable, "service degraded", payload)
		}
		return utils.SendSuccess(c, "service healthy", payload)
	}
}
