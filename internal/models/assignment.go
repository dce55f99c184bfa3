package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Assignment records that a user drew a task. It is created only by the draw
// operation; the same (user, task) pair is excluded at draw time rather than
// by a database constraint.
type Assignment struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	TaskID    uuid.UUID      `json:"taskId" gorm:"type:uuid;index;not null"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	User       User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Task       Task        `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	Completion *Completion `json:"completion,omitempty" gorm:"foreignKey:AssignmentID"`
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
