package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/kcgame/taskdraw-api/internal/middleware"
	"github.com/kcgame/taskdraw-api/internal/models"
)

// Galleries page at a fixed size.
const galleryPageSize = 20

// MyPhotos lists the caller's own completions, public or not.
func (h *Handler) MyPhotos(c *fiber.Ctx) error {
	return h.listPhotos(c, true)
}

// AllPhotos lists public completions across all users.
func (h *Handler) AllPhotos(c *fiber.Ctx) error {
	return h.listPhotos(c, false)
}

func (h *Handler) listPhotos(c *fiber.Ctx, mine bool) error {
	userID := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * galleryPageSize

	scope := func() *gorm.DB {
		q := h.DB.Model(&models.Completion{}).
			Joins("JOIN assignments ON assignments.id = completions.assignment_id")
		if mine {
			return q.Where("assignments.user_id = ?", userID)
		}
		return q.Where("completions.is_public = ?", true)
	}

	var total int64
	scope().Count(&total)

	var completions []models.Completion
	scope().
		Preload("Assignment.User").
		Preload("Assignment.Task").
		Order("completions.date_completed DESC").
		Offset(offset).
		Limit(galleryPageSize).
		Find(&completions)

	// Reaction annotations are computed per item at listing time.
	items := make([]models.PhotoItem, len(completions))
	for i, completion := range completions {
		owner := completion.Assignment.User
		items[i] = models.PhotoItem{
			ID:            completion.ID,
			PhotoPath:     completion.PhotoPath,
			DateCompleted: completion.DateCompleted,
			IsPublic:      completion.IsPublic,
			Verified:      completion.Verified,
			UserID:        owner.ID,
			UserName:      owner.Name(),
			Task:          completion.Assignment.Task.Description,
			Stats:         h.reactionStats(completion.ID),
			MyReaction:    h.myReaction(completion.ID, userID),
		}
	}

	return c.JSON(fiber.Map{
		"photos": items,
		"total":  total,
		"page":   page,
		"limit":  galleryPageSize,
	})
}
