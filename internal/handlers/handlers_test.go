package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kcgame/taskdraw-api/internal/config"
	"github.com/kcgame/taskdraw-api/internal/database"
	"github.com/kcgame/taskdraw-api/internal/handlers"
	"github.com/kcgame/taskdraw-api/internal/middleware"
	"github.com/kcgame/taskdraw-api/internal/models"
	"github.com/kcgame/taskdraw-api/internal/routes"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	cfg := &config.Config{
		JWTSecret: "test-secret",
		UploadDir: t.TempDir(),
	}

	app := fiber.New()
	routes.Setup(app, handlers.New(db, cfg), cfg, db)
	return app, db, cfg
}

func createUser(t *testing.T, db *gorm.DB, cfg *config.Config, username string, staff bool) (models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := models.User{
		Username: username,
		Password: string(hashed),
		IsStaff:  staff,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}

	token, err := middleware.GenerateToken(cfg.JWTSecret, user.ID, user.Username)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

func createTask(t *testing.T, db *gorm.DB, description string) models.Task {
	t.Helper()
	task := models.Task{Description: description}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func createAssignment(t *testing.T, db *gorm.DB, userID, taskID uuid.UUID) models.Assignment {
	t.Helper()
	assignment := models.Assignment{UserID: userID, TaskID: taskID}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return assignment
}

func createCompletion(t *testing.T, db *gorm.DB, assignmentID uuid.UUID, public, verified bool, completedAt time.Time) models.Completion {
	t.Helper()
	completion := models.Completion{
		AssignmentID:  assignmentID,
		DateCompleted: completedAt,
		IsPublic:      public,
		PhotoPath:     "/uploads/tasks_photos/" + uuid.New().String() + ".jpg",
		Verified:      verified,
	}
	if err := db.Create(&completion).Error; err != nil {
		t.Fatalf("create completion: %v", err)
	}
	return completion
}

// completedAssignment sets up task + assignment + completion in one step.
func completedAssignment(t *testing.T, db *gorm.DB, userID uuid.UUID, public, verified bool, completedAt time.Time) models.Completion {
	t.Helper()
	task := createTask(t, db, "task "+uuid.New().String())
	assignment := createAssignment(t, db, userID, task.ID)
	return createCompletion(t, db, assignment.ID, public, verified, completedAt)
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func doRaw(t *testing.T, app *fiber.App, method, path, token string, body []byte) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func doMultipart(t *testing.T, app *fiber.App, path, token string, fields map[string]string, filename string, content []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if filename != "" {
		fw, err := w.CreateFormFile("photo", filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode response body %q: %v", data, err)
	}
}

func wantStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, want, data)
	}
}
