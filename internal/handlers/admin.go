package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kcgame/taskdraw-api/internal/models"
)

// Staff-only catalog and verification surface. These routes sit behind
// middleware.RequireStaff and deliberately bypass the per-user ownership
// rules that apply to the player-facing handlers.

func (h *Handler) AdminListTasks(c *fiber.Ctx) error {
	var tasks []models.Task
	if err := h.DB.Order("created_at ASC").Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tasks",
		})
	}
	return c.JSON(tasks)
}

func (h *Handler) AdminCreateTask(c *fiber.Ctx) error {
	var req models.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Description is required",
		})
	}

	task := models.Task{
		Description:   req.Description,
		DescriptionPL: req.DescriptionPL,
	}
	if err := h.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create task",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *Handler) AdminUpdateTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.Task
	if err := h.DB.First(&task, "id = ?", taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	var req models.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DescriptionPL != nil {
		task.DescriptionPL = req.DescriptionPL
	}

	if err := h.DB.Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}

	return c.JSON(task)
}

// AdminDeleteTask removes a task and cascades through its assignments,
// completions and reactions, matching the catalog's delete semantics.
func (h *Handler) AdminDeleteTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var task models.Task
	if err := h.DB.First(&task, "id = ?", taskID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		var assignmentIDs []uuid.UUID
		if err := tx.Model(&models.Assignment{}).Where("task_id = ?", taskID).
			Pluck("id", &assignmentIDs).Error; err != nil {
			return err
		}

		if len(assignmentIDs) > 0 {
			var completionIDs []uuid.UUID
			if err := tx.Model(&models.Completion{}).Where("assignment_id IN ?", assignmentIDs).
				Pluck("id", &completionIDs).Error; err != nil {
				return err
			}
			if len(completionIDs) > 0 {
				if err := tx.Where("completion_id IN ?", completionIDs).Delete(&models.Reaction{}).Error; err != nil {
					return err
				}
				if err := tx.Where("id IN ?", completionIDs).Delete(&models.Completion{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("id IN ?", assignmentIDs).Delete(&models.Assignment{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&task).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete task",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AdminListCompletions lists all completions, private and unverified
// included, newest first.
func (h *Handler) AdminListCompletions(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	offset := (page - 1) * limit

	var completions []models.Completion
	h.DB.Preload("Assignment.User").
		Preload("Assignment.Task").
		Order("date_completed DESC").
		Offset(offset).
		Limit(limit).
		Find(&completions)

	var total int64
	h.DB.Model(&models.Completion{}).Count(&total)

	return c.JSON(fiber.Map{
		"completions": completions,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

// VerifyCompletion flips the verified flag that gates leaderboard counting.
func (h *Handler) VerifyCompletion(c *fiber.Ctx) error {
	return h.setVerified(c, true)
}

func (h *Handler) UnverifyCompletion(c *fiber.Ctx) error {
	return h.setVerified(c, false)
}

func (h *Handler) setVerified(c *fiber.Ctx, verified bool) error {
	completionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid completion ID",
		})
	}

	result := h.DB.Model(&models.Completion{}).
		Where("id = ?", completionID).
		Update("verified", verified)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update completion",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Completion not found",
		})
	}

	var completion models.Completion
	h.DB.First(&completion, "id = ?", completionID)
	return c.JSON(completion)
}
