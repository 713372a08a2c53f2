package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LinkFox/internal/pkg/queues"
	"github.com/ManuelReschke/LinkFox/internal/pkg/workqueue"
)

// QueueRunner runs one batch of a named work queue.
type QueueRunner interface {
	Run(ctx context.Context, name string) (workqueue.Result, error)
}

// JobsController exposes the work-queue runs to the external scheduler.
type JobsController struct {
	runner QueueRunner
}

func NewJobsController(runner QueueRunner) *JobsController {
	return &JobsController{runner: runner}
}

// HandleRun returns the handler that drains one batch of the given queue.
func (jc *JobsController) HandleRun(queue string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := jc.runner.Run(c.UserContext(), queue)
		if errors.Is(err, queues.ErrUnknownQueue) {
			return respondError(c, fiber.StatusNotFound, err.Error(), nil)
		}
		if err != nil {
			return respondError(c, fiber.StatusInternalServerError, err.Error(), err)
		}
		if res.NothingToDo {
			return c.JSON(fiber.Map{"message": "nothing to do"})
		}
		return c.JSON(fiber.Map{
			"dispatched": res.Dispatched,
			"failed":     res.Failed,
			"rejected":   res.Rejected,
		})
	}
}
