package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is one entry in the drawable catalog. The catalog is managed by staff
// and tasks are immutable from a player's point of view.
type Task struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Description   string         `json:"description" gorm:"type:text;not null"`
	DescriptionPL *string        `json:"descriptionPl" gorm:"type:text"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type CreateTaskRequest struct {
	Description   string  `json:"description" validate:"required"`
	DescriptionPL *string `json:"descriptionPl"`
}

type UpdateTaskRequest struct {
	Description   *string `json:"description"`
	DescriptionPL *string `json:"descriptionPl"`
}
