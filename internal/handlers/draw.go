package handlers

import (
	"errors"
	"math/rand/v2"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kcgame/taskdraw-api/internal/middleware"
	"github.com/kcgame/taskdraw-api/internal/models"
)

// A user may hold at most this many assignments without a completion.
const maxPendingAssignments = 5

var (
	errTooManyPending = errors.New("too many pending tasks")
	errNoTasksRemain  = errors.New("no tasks remain")
)

// pendingCount returns how many of the user's assignments have no completion.
func pendingCount(db *gorm.DB, userID uuid.UUID) int64 {
	var count int64
	db.Model(&models.Assignment{}).
		Joins("LEFT JOIN completions ON completions.assignment_id = assignments.id AND completions.deleted_at IS NULL").
		Where("assignments.user_id = ? AND completions.id IS NULL", userID).
		Count(&count)
	return count
}

// DrawTask assigns one random not-yet-drawn task to the caller. The pending
// cap check and the insert run in a single transaction with the caller's
// user row locked, so two simultaneous draws by the same user cannot both
// pass the check.
func (h *Handler) DrawTask(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var assignment models.Assignment
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		locked := tx
		if tx.Dialector.Name() == "postgres" {
			// SQLite has a single writer and needs no row lock.
			locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var user models.User
		if err := locked.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}

		if pendingCount(tx, userID) >= maxPendingAssignments {
			return errTooManyPending
		}

		assigned := tx.Model(&models.Assignment{}).Select("task_id").Where("user_id = ?", userID)
		var candidates []models.Task
		if err := tx.Where("id NOT IN (?)", assigned).Find(&candidates).Error; err != nil {
			return err
		}
		if len(candidates) == 0 {
			return errNoTasksRemain
		}

		task := candidates[rand.IntN(len(candidates))]
		assignment = models.Assignment{UserID: userID, TaskID: task.ID}
		return tx.Create(&assignment).Error
	})

	switch {
	case errors.Is(err, errTooManyPending):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You already have too many pending tasks",
		})
	case errors.Is(err, errNoTasksRemain):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "No tasks remain to draw",
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to draw a task",
		})
	}

	h.DB.Preload("Task").First(&assignment, "id = ?", assignment.ID)

	return c.Status(fiber.StatusCreated).JSON(assignment)
}

// Dashboard returns the leaderboard plus the caller's pending count.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	return c.JSON(fiber.Map{
		"leaderboard": h.leaderboard(),
		"pending":     pendingCount(h.DB, userID),
	})
}

// leaderboard ranks users by verified completions: top 3, count descending,
// users with zero verified completions excluded. Ties order by who reached
// their latest verified completion first.
func (h *Handler) leaderboard() []models.LeaderboardEntry {
	entries := []models.LeaderboardEntry{}
	h.DB.Model(&models.Completion{}).
		Select("users.id AS user_id, users.username, users.display_name, COUNT(completions.id) AS verified_count").
		Joins("JOIN assignments ON assignments.id = completions.assignment_id").
		Joins("JOIN users ON users.id = assignments.user_id").
		Where("completions.verified = ?", true).
		Group("users.id, users.username, users.display_name").
		Order("verified_count DESC, MAX(completions.date_completed) ASC").
		Limit(3).
		Scan(&entries)
	return entries
}
