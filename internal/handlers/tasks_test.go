package handlers_test

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kcgame/taskdraw-api/internal/models"
)

var fakeJPEG = []byte{0xFF, 0xD8, 0xFF, 0xE0, 'f', 'a', 'k', 'e'}

func TestCompleteTask(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createUser(t, db, cfg, "alice", false)

	task := createTask(t, db, "do something")
	assignment := createAssignment(t, db, user.ID, task.ID)

	resp := doMultipart(t, app, "/api/tasks/"+assignment.ID.String()+"/complete", token,
		map[string]string{"is_public": "false"}, "proof.jpg", fakeJPEG)
	wantStatus(t, resp, http.StatusCreated)

	var completion models.Completion
	decodeBody(t, resp, &completion)
	if completion.AssignmentID != assignment.ID {
		t.Fatalf("completion assignment = %s, want %s", completion.AssignmentID, assignment.ID)
	}
	if completion.IsPublic {
		t.Fatal("completion should be private")
	}
	if completion.Verified {
		t.Fatal("completion must not start verified")
	}
	if !strings.HasPrefix(completion.PhotoPath, "/uploads/tasks_photos/") {
		t.Fatalf("photo path = %q, want /uploads/tasks_photos/ prefix", completion.PhotoPath)
	}

	// The photo itself landed on disk.
	onDisk := filepath.Join(cfg.UploadDir, "tasks_photos", filepath.Base(completion.PhotoPath))
	if _, err := os.Stat(onDisk); err != nil {
		t.Fatalf("uploaded photo missing: %v", err)
	}
}

func TestCompleteTaskTwiceRejected(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createUser(t, db, cfg, "alice", false)

	task := createTask(t, db, "do something")
	assignment := createAssignment(t, db, user.ID, task.ID)

	resp := doMultipart(t, app, "/api/tasks/"+assignment.ID.String()+"/complete", token,
		nil, "first.jpg", fakeJPEG)
	wantStatus(t, resp, http.StatusCreated)
	var first models.Completion
	decodeBody(t, resp, &first)

	resp = doMultipart(t, app, "/api/tasks/"+assignment.ID.String()+"/complete", token,
		nil, "second.jpg", fakeJPEG)
	wantStatus(t, resp, http.StatusConflict)

	var count int64
	db.Model(&models.Completion{}).Where("assignment_id = ?", assignment.ID).Count(&count)
	if count != 1 {
		t.Fatalf("completion count = %d, want 1", count)
	}

	var kept models.Completion
	db.First(&kept, "assignment_id = ?", assignment.ID)
	if kept.ID != first.ID || kept.PhotoPath != first.PhotoPath {
		t.Fatal("second submission modified the original completion")
	}
}

func TestCompleteForeignAssignmentNotFound(t *testing.T) {
	app, db, cfg := newTestApp(t)
	owner, _ := createUser(t, db, cfg, "owner", false)
	_, intruderToken := createUser(t, db, cfg, "intruder", false)

	task := createTask(t, db, "do something")
	assignment := createAssignment(t, db, owner.ID, task.ID)

	resp := doMultipart(t, app, "/api/tasks/"+assignment.ID.String()+"/complete", intruderToken,
		nil, "proof.jpg", fakeJPEG)
	wantStatus(t, resp, http.StatusNotFound)

	var count int64
	db.Model(&models.Completion{}).Count(&count)
	if count != 0 {
		t.Fatalf("completion count = %d, want 0", count)
	}
}

func TestCompleteTaskRejectsBadUpload(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createUser(t, db, cfg, "alice", false)

	task := createTask(t, db, "do something")
	assignment := createAssignment(t, db, user.ID, task.ID)
	path := "/api/tasks/" + assignment.ID.String() + "/complete"

	// No photo at all.
	resp := doMultipart(t, app, path, token, map[string]string{"is_public": "true"}, "", nil)
	wantStatus(t, resp, http.StatusBadRequest)

	// Disallowed extension.
	resp = doMultipart(t, app, path, token, nil, "proof.gif", fakeJPEG)
	wantStatus(t, resp, http.StatusBadRequest)

	var count int64
	db.Model(&models.Completion{}).Count(&count)
	if count != 0 {
		t.Fatalf("completion count = %d, want 0 after rejected uploads", count)
	}
}

func TestListAssignmentsSplitsByCompletion(t *testing.T) {
	app, db, cfg := newTestApp(t)
	user, token := createUser(t, db, cfg, "alice", false)

	pending := createAssignment(t, db, user.ID, createTask(t, db, "pending").ID)
	done := createAssignment(t, db, user.ID, createTask(t, db, "done").ID)
	createCompletion(t, db, done.ID, true, false, time.Now())

	// Another user's assignment must not leak in.
	other, _ := createUser(t, db, cfg, "bob", false)
	createAssignment(t, db, other.ID, createTask(t, db, "bob's").ID)

	resp := doJSON(t, app, http.MethodGet, "/api/tasks", token, nil)
	wantStatus(t, resp, http.StatusOK)

	var body struct {
		Unfinished []models.Assignment `json:"unfinished"`
		Completed  []models.Assignment `json:"completed"`
	}
	decodeBody(t, resp, &body)

	if len(body.Unfinished) != 1 || body.Unfinished[0].ID != pending.ID {
		t.Fatalf("unfinished = %v, want exactly the pending assignment", body.Unfinished)
	}
	if len(body.Completed) != 1 || body.Completed[0].ID != done.ID {
		t.Fatalf("completed = %v, want exactly the done assignment", body.Completed)
	}
}

func TestGetAssignmentOwnershipScoped(t *testing.T) {
	app, db, cfg := newTestApp(t)
	owner, ownerToken := createUser(t, db, cfg, "owner", false)
	_, intruderToken := createUser(t, db, cfg, "intruder", false)

	assignment := createAssignment(t, db, owner.ID, createTask(t, db, "secret").ID)

	resp := doJSON(t, app, http.MethodGet, "/api/tasks/"+assignment.ID.String(), ownerToken, nil)
	wantStatus(t, resp, http.StatusOK)

	resp = doJSON(t, app, http.MethodGet, "/api/tasks/"+assignment.ID.String(), intruderToken, nil)
	wantStatus(t, resp, http.StatusNotFound)
}
