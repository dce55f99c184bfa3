package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/kcgame/taskdraw-api/internal/config"
	"github.com/kcgame/taskdraw-api/internal/handlers"
	"github.com/kcgame/taskdraw-api/internal/middleware"
)

func Setup(app *fiber.App, h *handlers.Handler, cfg *config.Config, db *gorm.DB) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)

	protected := api.Group("/", middleware.Protected(cfg.JWTSecret))

	protected.Get("/me", h.GetMe)

	protected.Get("/dashboard", h.Dashboard)
	protected.Post("/dashboard/draw", h.DrawTask)

	protected.Get("/tasks", h.ListAssignments)
	protected.Get("/tasks/:id", h.GetAssignment)
	protected.Post("/tasks/:id/complete", h.CompleteTask)

	protected.Get("/my-photos", h.MyPhotos)
	protected.Get("/all-photos", h.AllPhotos)

	// The delete route must register before the :source wildcard.
	reactions := protected.Group("/reactions")
	reactions.Post("/:completionId/delete", h.DeleteReaction)
	reactions.Post("/:completionId/:source", h.React)

	admin := api.Group("/admin", middleware.Protected(cfg.JWTSecret), middleware.RequireStaff(db))
	admin.Get("/tasks", h.AdminListTasks)
	admin.Post("/tasks", h.AdminCreateTask)
	admin.Put("/tasks/:id", h.AdminUpdateTask)
	admin.Delete("/tasks/:id", h.AdminDeleteTask)
	admin.Get("/completions", h.AdminListCompletions)
	admin.Post("/completions/:id/verify", h.VerifyCompletion)
	admin.Post("/completions/:id/unverify", h.UnverifyCompletion)

	// WebSocket gallery feed
	app.Use("/ws", h.WebSocketUpgrade())
	app.Get("/ws/gallery", websocket.New(h.HandleGallery))
}
