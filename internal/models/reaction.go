package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction is a single user's emoji response to a completion. The
// (completion, user) pair is unique; reacting again replaces the emoji.
// Deletes are hard deletes: a soft-deleted row would keep occupying the
// unique index and block re-adding a reaction.
type Reaction struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	CompletionID uuid.UUID `json:"completionId" gorm:"type:uuid;not null;uniqueIndex:idx_completion_user"`
	UserID       uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_completion_user"`
	Emoji        string    `json:"emoji" gorm:"not null"`
	Source       string    `json:"source"` // gallery view the reaction came from
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type CreateReactionRequest struct {
	Emoji string `json:"emoji" validate:"required"`
}

// ReactionStat is one bucket of a completion's reaction distribution.
type ReactionStat struct {
	Emoji string `json:"emoji"`
	Count int64  `json:"count"`
}
