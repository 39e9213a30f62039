package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Shalinisinha22/ewa-back/pkg/database"
	"github.com/Shalinisinha22/ewa-back/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck reports whether the database answers a ping
func HealthCheck(serviceName string, db database.Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Bound the ping
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := database.Ping(ctx, db); err != nil {
			logger.FromEcho(c).Error("Health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, echo.Map{
				"status":   "unhealthy",
				"service":  serviceName,
				"database": "unreachable",
			})
		}
		return c.JSON(http.StatusOK, echo.Map{
			"status":   "healthy",
			"service":  serviceName,
			"database": "connected",
		})
	}
}
