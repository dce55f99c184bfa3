package handlers

import (
	"gorm.io/gorm"

	"github.com/kcgame/taskdraw-api/internal/config"
)

// Handler carries the shared dependencies of every request handler. The
// database handle is passed in explicitly rather than read from a package
// global so tests can run against their own store.
type Handler struct {
	DB  *gorm.DB
	Cfg *config.Config
	Hub *Hub
}

func New(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{
		DB:  db,
		Cfg: cfg,
		Hub: NewHub(),
	}
}
