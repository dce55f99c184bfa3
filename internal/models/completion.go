package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Completion is the proof that an assignment was finished: a photo plus
// visibility and verification flags. At most one per assignment.
type Completion struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	AssignmentID  uuid.UUID      `json:"assignmentId" gorm:"type:uuid;uniqueIndex;not null"`
	DateCompleted time.Time      `json:"dateCompleted" gorm:"not null"`
	IsPublic      bool           `json:"isPublic" gorm:"default:true"`
	PhotoPath     string         `json:"photoPath" gorm:"not null"`
	Verified      bool           `json:"verified" gorm:"default:false"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`

	Assignment Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
}

func (c *Completion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.DateCompleted.IsZero() {
		c.DateCompleted = time.Now()
	}
	return nil
}

// PhotoItem is a gallery entry: a completion annotated with its owner, task
// text, reaction distribution and the viewing user's own reaction.
type PhotoItem struct {
	ID            uuid.UUID      `json:"id"`
	PhotoPath     string         `json:"photoPath"`
	DateCompleted time.Time      `json:"dateCompleted"`
	IsPublic      bool           `json:"isPublic"`
	Verified      bool           `json:"verified"`
	UserID        uuid.UUID      `json:"userId"`
	UserName      string         `json:"userName"`
	Task          string         `json:"task"`
	Stats         []ReactionStat `json:"stats"`
	MyReaction    *string        `json:"myReaction"`
}

// LeaderboardEntry is one row of the verified-completions ranking.
type LeaderboardEntry struct {
	UserID        uuid.UUID `json:"userId"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"displayName"`
	VerifiedCount int64     `json:"verifiedCount"`
}
