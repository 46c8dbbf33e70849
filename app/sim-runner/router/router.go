package router

import (
	"recsim/internal/rest"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRunRoutes(api *echo.Group, handler *rest.RunHandler) {
	runs := api.Group("/runs")

	runs.GET("", handler.GetAllRuns)
	runs.GET("/:run_id", handler.GetRunByID)
}

func SetupObservability(e *echo.Echo) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
