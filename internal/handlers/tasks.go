package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kcgame/taskdraw-api/internal/middleware"
	"github.com/kcgame/taskdraw-api/internal/models"
)

// ListAssignments returns the caller's assignments split into unfinished
// and completed.
func (h *Handler) ListAssignments(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var assignments []models.Assignment
	if err := h.DB.Where("user_id = ?", userID).
		Preload("Task").
		Preload("Completion").
		Order("created_at ASC").
		Find(&assignments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch tasks",
		})
	}

	unfinished := []models.Assignment{}
	completed := []models.Assignment{}
	for _, a := range assignments {
		if a.Completion == nil {
			unfinished = append(unfinished, a)
		} else {
			completed = append(completed, a)
		}
	}

	return c.JSON(fiber.Map{
		"unfinished": unfinished,
		"completed":  completed,
	})
}

// GetAssignment returns one of the caller's assignments with its completion,
// if any. Assignments of other users read as not found.
func (h *Handler) GetAssignment(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	assignmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var assignment models.Assignment
	if err := h.DB.Where("id = ? AND user_id = ?", assignmentID, userID).
		Preload("Task").
		Preload("Completion").
		First(&assignment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	return c.JSON(assignment)
}

// CompleteTask accepts photo proof for one of the caller's unfinished
// assignments and creates its completion. Submitting twice is rejected
// without touching the first completion.
func (h *Handler) CompleteTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	assignmentID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid task ID",
		})
	}

	var assignment models.Assignment
	if err := h.DB.Where("id = ? AND user_id = ?", assignmentID, userID).First(&assignment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Task not found",
		})
	}

	var existing models.Completion
	if err := h.DB.Where("assignment_id = ?", assignmentID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Task is already completed",
		})
	}

	isPublic := true
	if v := c.FormValue("is_public"); v != "" {
		isPublic, err = strconv.ParseBool(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid is_public value",
			})
		}
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No photo file provided",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
	if !allowed[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only jpg, png, and webp images are allowed",
		})
	}

	// Limit to 5MB
	if file.Size > 5*1024*1024 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Photo must be under 5MB",
		})
	}

	photosDir := filepath.Join(h.Cfg.UploadDir, "tasks_photos")
	if err := os.MkdirAll(photosDir, 0755); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create uploads directory",
		})
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	if err := c.SaveFile(file, filepath.Join(photosDir, filename)); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save photo",
		})
	}

	completion := models.Completion{
		AssignmentID: assignmentID,
		IsPublic:     isPublic,
		PhotoPath:    fmt.Sprintf("/uploads/tasks_photos/%s", filename),
	}
	if err := h.DB.Create(&completion).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save completion",
		})
	}

	if completion.IsPublic {
		h.Hub.Broadcast(userID, WSEvent{
			Type:   EventCompletionPosted,
			UserID: userID.String(),
			Data:   completion,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(completion)
}
