package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/LinkFox/internal/pkg/jobqueue"
	"github.com/ManuelReschke/LinkFox/internal/pkg/queues"
)

// ============================================================================
// ADMIN QUEUE CONTROLLER
// ============================================================================

// QueueAdmin reports and repairs the work tables.
type QueueAdmin interface {
	StatusCounts(ctx context.Context) (map[string]map[string]int64, error)
	Requeue(ctx context.Context, name string, ids []uint) (int64, error)
}

// JobStats reports the Redis job queue.
type JobStats interface {
	GetJobStats(ctx context.Context) (map[jobqueue.JobStatus]int64, error)
	GetQueueSize(ctx context.Context) (int64, error)
	GetProcessingSize(ctx context.Context) (int64, error)
}

// AdminQueueController handles operator requests for both queue layers
type AdminQueueController struct {
	queues QueueAdmin
	jobs   JobStats
}

func NewAdminQueueController(q QueueAdmin, jobs JobStats) *AdminQueueController {
	return &AdminQueueController{queues: q, jobs: jobs}
}

// HandleStats returns row counts per status for every work table and the
// Redis job queue sizes.
func (aqc *AdminQueueController) HandleStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	counts, err := aqc.queues.StatusCounts(ctx)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to load work queue stats", err)
	}

	jobQueue := fiber.Map{}
	if aqc.jobs != nil {
		stats, err := aqc.jobs.GetJobStats(ctx)
		if err != nil {
			return respondError(c, fiber.StatusInternalServerError, "failed to load job queue stats", err)
		}
		pending, err := aqc.jobs.GetQueueSize(ctx)
		if err != nil {
			return respondError(c, fiber.StatusInternalServerError, "failed to load job queue size", err)
		}
		processing, err := aqc.jobs.GetProcessingSize(ctx)
		if err != nil {
			return respondError(c, fiber.StatusInternalServerError, "failed to load job queue size", err)
		}
		jobQueue = fiber.Map{"queued": pending, "processing": processing, "totals": stats}
	}

	return c.JSON(fiber.Map{
		"work_queues": counts,
		"job_queue":   jobQueue,
	})
}

type requeueRequest struct {
	IDs []uint `json:"ids" validate:"required,min=1,max=1000"`
}

// HandleRequeue moves rows stuck in processing back to pending.
func (aqc *AdminQueueController) HandleRequeue(c *fiber.Ctx) error {
	var req requeueRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid request body", nil)
	}
	if err := validate.Struct(req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "ids must list between 1 and 1000 row ids", nil)
	}

	n, err := aqc.queues.Requeue(c.UserContext(), c.Params("queue"), req.IDs)
	if errors.Is(err, queues.ErrUnknownQueue) {
		return respondError(c, fiber.StatusNotFound, err.Error(), nil)
	}
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to requeue rows", err)
	}
	return c.JSON(fiber.Map{"requeued": n})
}
