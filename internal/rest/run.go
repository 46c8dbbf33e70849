package rest

import (
	"context"
	"net/http"

	"recsim/domain"
	"recsim/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type ResponseError struct {
	Message string `json:"message"`
}

// RunRepository is the read side the report endpoints need; satisfied by the
// postgres repository and the in-memory one.
type RunRepository interface {
	FindAll(ctx context.Context, limit int) ([]domain.ExperimentRun, error)
	FindByRunID(ctx context.Context, runID string) (*domain.ExperimentRun, error)
}

type RunHandler struct {
	validate *validator.Validate
	repo     RunRepository
}

func NewRunHandler(repo RunRepository) *RunHandler {
	return &RunHandler{
		validate: validator.New(),
		repo:     repo,
	}
}

type RunListQuery struct {
	Limit int `query:"limit" validate:"gte=0,lte=1000"`
}

// GetAllRuns returns recent experiment runs, newest first.
func (h *RunHandler) GetAllRuns(c echo.Context) error {
	var q RunListQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if q.Limit <= 0 {
		q.Limit = 50
	}

	runs, err := h.repo.FindAll(c.Request().Context(), q.Limit)
	if err != nil {
		logger.Error("Failed to list experiment runs", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(runs))
}

// GetRunByID returns one run's flat metric record by its run id.
func (h *RunHandler) GetRunByID(c echo.Context) error {
	runID := c.Param("run_id")
	if err := h.validate.Var(runID, "required,uuid4"); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "run_id must be a uuid"})
	}

	run, err := h.repo.FindByRunID(c.Request().Context(), runID)
	if err != nil {
		logger.Error("Failed to load experiment run", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	if run == nil {
		return c.JSON(http.StatusNotFound, ResponseError{Message: "run not found"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(run))
}
