package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LinkFox/internal/pkg/workers"
)

// WorkerRunner executes a named per-row worker synchronously.
type WorkerRunner interface {
	Run(ctx context.Context, name string, payload map[string]interface{}) (workers.Outcome, error)
}

// FunctionsController is the HTTP transport target for worker invocations.
type FunctionsController struct {
	workers WorkerRunner
}

func NewFunctionsController(w WorkerRunner) *FunctionsController {
	return &FunctionsController{workers: w}
}

// HandleInvoke runs the worker named in the path with the JSON body as payload.
func (fc *FunctionsController) HandleInvoke(c *fiber.Ctx) error {
	name := c.Params("name")
	payload := map[string]interface{}{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return respondError(c, fiber.StatusBadRequest, "invalid JSON payload", nil)
		}
	}

	outcome, err := fc.workers.Run(c.UserContext(), name, payload)
	if errors.Is(err, workers.ErrUnknownWorker) {
		return respondError(c, fiber.StatusNotFound, err.Error(), nil)
	}
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, err.Error(), err)
	}
	return c.JSON(outcome)
}
