package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/kcgame/taskdraw-api/internal/middleware"
	"github.com/kcgame/taskdraw-api/internal/models"
)

// React adds or replaces the caller's emoji reaction on a completion and
// returns the refreshed distribution. The completion is resolved before the
// body is parsed, so a bad body on a missing completion still reads 404.
func (h *Handler) React(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	completionID, err := uuid.Parse(c.Params("completionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid completion ID",
		})
	}
	source := c.Params("source")

	var completion models.Completion
	if err := h.DB.First(&completion, "id = ?", completionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Completion not found",
		})
	}

	var req models.CreateReactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Emoji) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Emoji is required",
		})
	}

	// Upsert: one reaction per (user, completion); a repeat with the same
	// emoji is a no-op, a different emoji updates the row in place.
	var existing models.Reaction
	if err := h.DB.Where("completion_id = ? AND user_id = ?", completionID, userID).First(&existing).Error; err == nil {
		if existing.Emoji != req.Emoji {
			if err := h.DB.Model(&existing).Updates(map[string]interface{}{
				"emoji":  req.Emoji,
				"source": source,
			}).Error; err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"error":   "Failed to update reaction",
				})
			}
		}
	} else {
		reaction := models.Reaction{
			CompletionID: completionID,
			UserID:       userID,
			Emoji:        req.Emoji,
			Source:       source,
		}
		if err := h.DB.Create(&reaction).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Failed to add reaction",
			})
		}
	}

	stats := h.reactionStats(completionID)
	h.Hub.Broadcast(userID, WSEvent{
		Type:         EventReactionUpdated,
		UserID:       userID.String(),
		CompletionID: completionID.String(),
		Data:         stats,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// DeleteReaction removes the caller's reaction from a completion, if any,
// and returns the refreshed distribution.
func (h *Handler) DeleteReaction(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	completionID, err := uuid.Parse(c.Params("completionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid completion ID",
		})
	}

	var completion models.Completion
	if err := h.DB.First(&completion, "id = ?", completionID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Completion not found",
		})
	}

	// No-op when the caller has no reaction.
	h.DB.Where("completion_id = ? AND user_id = ?", completionID, userID).Delete(&models.Reaction{})

	stats := h.reactionStats(completionID)
	h.Hub.Broadcast(userID, WSEvent{
		Type:         EventReactionUpdated,
		UserID:       userID.String(),
		CompletionID: completionID.String(),
		Data:         stats,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}

// reactionStats returns a completion's reactions bucketed by emoji, largest
// bucket first. Equal counts order by emoji so the output is stable.
func (h *Handler) reactionStats(completionID uuid.UUID) []models.ReactionStat {
	stats := []models.ReactionStat{}
	h.DB.Model(&models.Reaction{}).
		Select("emoji, COUNT(*) AS count").
		Where("completion_id = ?", completionID).
		Group("emoji").
		Order("count DESC, emoji ASC").
		Scan(&stats)
	return stats
}

// myReaction returns the emoji the user currently has on a completion, or
// nil.
func (h *Handler) myReaction(completionID, userID uuid.UUID) *string {
	var reaction models.Reaction
	if err := h.DB.Where("completion_id = ? AND user_id = ?", completionID, userID).First(&reaction).Error; err != nil {
		return nil
	}
	return &reaction.Emoji
}
