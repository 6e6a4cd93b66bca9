package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	domain "github.com/example/todo-api/domain/task"
	userdomain "github.com/example/todo-api/domain/user"
)

// mockAuthPort resolves any user id below 1000 as an active account.
type mockAuthPort struct{}

func (m *mockAuthPort) ValidateToken(_ context.Context, _ string) (*userdomain.Claims, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAuthPort) GetUser(_ context.Context, userID int64) (*userdomain.User, error) {
	if userID >= 1000 {
		return nil, errors.New("user not found")
	}
	return &userdomain.User{
		ID:       userID,
		Email:    "user@example.com",
		IsActive: true,
	}, nil
}

func setupTestModule(t *testing.T) *TaskModule {
	t.Helper()

	db := setupTestDB(t)
	return &TaskModule{
		db:       db,
		repo:     NewRepository(db),
		authPort: &mockAuthPort{},
	}
}

func strPtr(s string) *string {
	return &s
}

func TestCreateTask(t *testing.T) {
	m := setupTestModule(t)
	ctx := context.Background()

	t.Run("minimal task", func(t *testing.T) {
		resp, err := m.createTask(ctx, CreateTaskRequest{UserID: 1, Title: "Write report"}, nil)
		if err != nil {
			t.Fatalf("createTask() error = %v", err)
		}
		if resp.ID == 0 {
			t.Error("expected store-assigned id, got 0")
		}
		if resp.UserID != 1 {
			t.Errorf("expected user id 1, got %d", resp.UserID)
		}
		if resp.IsComplete {
			t.Error("expected new task to be incomplete")
		}
		if resp.Description != nil {
			t.Errorf("expected nil description, got %q", *resp.Description)
		}
	})

	t.Run("title is trimmed", func(t *testing.T) {
		resp, err := m.createTask(ctx, CreateTaskRequest{UserID: 1, Title: "  padded  "}, nil)
		if err != nil {
			t.Fatalf("createTask() error = %v", err)
		}
		if resp.Title != "padded" {
			t.Errorf("expected trimmed title %q, got %q", "padded", resp.Title)
		}
	})

	t.Run("empty description normalized to absent", func(t *testing.T) {
		resp, err := m.createTask(ctx, CreateTaskRequest{UserID: 1, Title: "No notes", Description: strPtr("   ")}, nil)
		if err != nil {
			t.Fatalf("createTask() error = %v", err)
		}
		if resp.Description != nil {
			t.Errorf("expected nil description, got %q", *resp.Description)
		}
	})

	t.Run("whitespace-only title rejected", func(t *testing.T) {
		_, err := m.createTask(ctx, CreateTaskRequest{UserID: 1, Title: "   "}, nil)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if verr.Field != "title" {
			t.Errorf("expected title violation, got field %q", verr.Field)
		}
	})

	t.Run("title at 200 characters accepted", func(t *testing.T) {
		_, err := m.createTask(ctx, CreateTaskRequest{UserID: 1, Title: strings.Repeat("x", 200)}, nil)
		if err != nil {
			t.Fatalf("createTask() error = %v", err)
		}
	})

	t.Run("title over 200 characters rejected", func(t *testing.T) {
		_, err := m.createTask(ctx, CreateTaskRequest{UserID: 1, Title: strings.Repeat("x", 201)}, nil)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("description over 1000 characters rejected", func(t *testing.T) {
		long := strings.Repeat("d", 1001)
		_, err := m.createTask(ctx, CreateTaskRequest{UserID: 1, Title: "ok", Description: &long}, nil)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if verr.Field != "description" {
			t.Errorf("expected description violation, got field %q", verr.Field)
		}
	})

	t.Run("unresolvable owner rejected", func(t *testing.T) {
		_, err := m.createTask(ctx, CreateTaskRequest{UserID: 1234, Title: "Orphan"}, nil)
		if err == nil {
			t.Fatal("expected error for unknown owner, got nil")
		}
	})
}

func TestGetTask(t *testing.T) {
	m := setupTestModule(t)
	ctx := context.Background()

	created, err := m.createTask(ctx, CreateTaskRequest{UserID: 1, Title: "Visible to owner only"}, nil)
	if err != nil {
		t.Fatalf("createTask() error = %v", err)
	}

	t.Run("owner reads own task", func(t *testing.T) {
		resp, err := m.getTask(ctx, GetTaskRequest{UserID: 1, TaskID: created.ID}, nil)
		if err != nil {
			t.Fatalf("getTask() error = %v", err)
		}
		if resp.ID != created.ID {
			t.Errorf("expected id %d, got %d", created.ID, resp.ID)
		}
	})

	t.Run("other user denied", func(t *testing.T) {
		_, err := m.getTask(ctx, GetTaskRequest{UserID: 2, TaskID: created.ID}, nil)
		if !errors.Is(err, ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
	})

	t.Run("unknown id not found", func(t *testing.T) {
		_, err := m.getTask(ctx, GetTaskRequest{UserID: 1, TaskID: 9999}, nil)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}
	})
}

func TestListTasks(t *testing.T) {
	m := setupTestModule(t)
	ctx := context.Background()

	for _, seed := range []struct {
		userID   int64
		title    string
		complete bool
	}{
		{1, "Done one", true},
		{1, "Done two", true},
		{1, "Still open", false},
		{2, "Not yours", false},
	} {
		resp, err := m.createTask(ctx, CreateTaskRequest{UserID: seed.userID, Title: seed.title}, nil)
		if err != nil {
			t.Fatalf("createTask() error = %v", err)
		}
		if seed.complete {
			if _, err := m.toggleTask(ctx, ToggleTaskRequest{UserID: seed.userID, TaskID: resp.ID}, nil); err != nil {
				t.Fatalf("toggleTask() error = %v", err)
			}
		}
	}

	tests := []struct {
		name         string
		status       string
		wantFiltered int64
		wantTotal    int64
	}{
		{"explicit all", "all", 3, 3},
		{"empty defaults to all", "", 3, 3},
		{"complete", "complete", 2, 3},
		{"incomplete", "incomplete", 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := m.listTasks(ctx, ListTasksRequest{UserID: 1, Status: tt.status}, nil)
			if err != nil {
				t.Fatalf("listTasks() error = %v", err)
			}
			if resp.FilteredCount != tt.wantFiltered {
				t.Errorf("expected filtered count %d, got %d", tt.wantFiltered, resp.FilteredCount)
			}
			if int64(len(resp.Tasks)) != tt.wantFiltered {
				t.Errorf("expected %d tasks, got %d", tt.wantFiltered, len(resp.Tasks))
			}
			if resp.TotalCount != tt.wantTotal {
				t.Errorf("expected total count %d, got %d", tt.wantTotal, resp.TotalCount)
			}
			for _, task := range resp.Tasks {
				if task.UserID != 1 {
					t.Errorf("task %d belongs to user %d, leaked into user 1's list", task.ID, task.UserID)
				}
			}
		})
	}

	t.Run("unknown status token rejected", func(t *testing.T) {
		_, err := m.listTasks(ctx, ListTasksRequest{UserID: 1, Status: "finished"}, nil)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if verr.Field != "status" {
			t.Errorf("expected status violation, got field %q", verr.Field)
		}
	})

	t.Run("empty list for user with no tasks", func(t *testing.T) {
		resp, err := m.listTasks(ctx, ListTasksRequest{UserID: 3, Status: "all"}, nil)
		if err != nil {
			t.Fatalf("listTasks() error = %v", err)
		}
		if len(resp.Tasks) != 0 || resp.TotalCount != 0 {
			t.Errorf("expected empty result, got %d tasks, total %d", len(resp.Tasks), resp.TotalCount)
		}
	})
}

func TestUpdateTask(t *testing.T) {
	m := setupTestModule(t)
	ctx := context.Background()

	created, err := m.createTask(ctx, CreateTaskRequest{
		UserID:      1,
		Title:       "Original title",
		Description: strPtr("original description"),
	}, nil)
	if err != nil {
		t.Fatalf("createTask() error = %v", err)
	}

	t.Run("title only", func(t *testing.T) {
		resp, err := m.updateTask(ctx, UpdateTaskRequest{
			UserID: 1,
			TaskID: created.ID,
			Title:  strPtr("New title"),
		}, nil)
		if err != nil {
			t.Fatalf("updateTask() error = %v", err)
		}
		if resp.Title != "New title" {
			t.Errorf("expected title %q, got %q", "New title", resp.Title)
		}
		if resp.Description == nil || *resp.Description != "original description" {
			t.Error("description changed on a title-only update")
		}
	})

	t.Run("description only", func(t *testing.T) {
		resp, err := m.updateTask(ctx, UpdateTaskRequest{
			UserID:      1,
			TaskID:      created.ID,
			Description: strPtr("new description"),
		}, nil)
		if err != nil {
			t.Fatalf("updateTask() error = %v", err)
		}
		if resp.Title != "New title" {
			t.Error("title changed on a description-only update")
		}
		if resp.Description == nil || *resp.Description != "new description" {
			t.Errorf("expected updated description, got %v", resp.Description)
		}
	})

	t.Run("description trimming to empty is left unchanged", func(t *testing.T) {
		resp, err := m.updateTask(ctx, UpdateTaskRequest{
			UserID:      1,
			TaskID:      created.ID,
			Description: strPtr("   "),
		}, nil)
		if err != nil {
			t.Fatalf("updateTask() error = %v", err)
		}
		if resp.Description == nil || *resp.Description != "new description" {
			t.Errorf("expected description to stay, got %v", resp.Description)
		}
	})

	t.Run("no fields is a no-op", func(t *testing.T) {
		before, err := m.getTask(ctx, GetTaskRequest{UserID: 1, TaskID: created.ID}, nil)
		if err != nil {
			t.Fatalf("getTask() error = %v", err)
		}

		resp, err := m.updateTask(ctx, UpdateTaskRequest{UserID: 1, TaskID: created.ID}, nil)
		if err != nil {
			t.Fatalf("updateTask() error = %v", err)
		}
		if !resp.UpdatedAt.Equal(before.UpdatedAt) {
			t.Error("no-op update changed updated_at")
		}
	})

	t.Run("invalid title rejected without partial write", func(t *testing.T) {
		_, err := m.updateTask(ctx, UpdateTaskRequest{
			UserID:      1,
			TaskID:      created.ID,
			Title:       strPtr("   "),
			Description: strPtr("should not land"),
		}, nil)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}

		after, err := m.getTask(ctx, GetTaskRequest{UserID: 1, TaskID: created.ID}, nil)
		if err != nil {
			t.Fatalf("getTask() error = %v", err)
		}
		if after.Description != nil && *after.Description == "should not land" {
			t.Error("rejected update still wrote the description")
		}
	})

	t.Run("other user denied", func(t *testing.T) {
		_, err := m.updateTask(ctx, UpdateTaskRequest{
			UserID: 2,
			TaskID: created.ID,
			Title:  strPtr("Hijack"),
		}, nil)
		if !errors.Is(err, ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
	})
}

func TestToggleTask(t *testing.T) {
	m := setupTestModule(t)
	ctx := context.Background()

	created, err := m.createTask(ctx, CreateTaskRequest{UserID: 1, Title: "Flip me"}, nil)
	if err != nil {
		t.Fatalf("createTask() error = %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	first, err := m.toggleTask(ctx, ToggleTaskRequest{UserID: 1, TaskID: created.ID}, nil)
	if err != nil {
		t.Fatalf("toggleTask() error = %v", err)
	}
	if !first.IsComplete {
		t.Error("expected task to be complete after first toggle")
	}
	if !first.UpdatedAt.After(created.UpdatedAt) {
		t.Error("expected updated_at to advance on toggle")
	}

	time.Sleep(5 * time.Millisecond)
	second, err := m.toggleTask(ctx, ToggleTaskRequest{UserID: 1, TaskID: created.ID}, nil)
	if err != nil {
		t.Fatalf("toggleTask() error = %v", err)
	}
	if second.IsComplete {
		t.Error("expected task to be incomplete after second toggle")
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Error("expected updated_at to advance on every toggle")
	}

	t.Run("other user denied", func(t *testing.T) {
		_, err := m.toggleTask(ctx, ToggleTaskRequest{UserID: 2, TaskID: created.ID}, nil)
		if !errors.Is(err, ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
	})
}

func TestDeleteTask(t *testing.T) {
	m := setupTestModule(t)
	ctx := context.Background()

	created, err := m.createTask(ctx, CreateTaskRequest{UserID: 1, Title: "Disposable"}, nil)
	if err != nil {
		t.Fatalf("createTask() error = %v", err)
	}

	t.Run("other user denied first", func(t *testing.T) {
		resp, err := m.deleteTask(ctx, DeleteTaskRequest{UserID: 2, TaskID: created.ID}, nil)
		if !errors.Is(err, ErrAccessDenied) {
			t.Errorf("expected ErrAccessDenied, got %v", err)
		}
		if resp != (DeleteTaskResponse{}) {
			t.Errorf("expected zero response on error, got %+v", resp)
		}
	})

	t.Run("owner deletes", func(t *testing.T) {
		resp, err := m.deleteTask(ctx, DeleteTaskRequest{UserID: 1, TaskID: created.ID}, nil)
		if err != nil {
			t.Fatalf("deleteTask() error = %v", err)
		}
		if !resp.Deleted {
			t.Error("expected Deleted = true")
		}
	})

	t.Run("deleted task is gone for good", func(t *testing.T) {
		_, err := m.getTask(ctx, GetTaskRequest{UserID: 1, TaskID: created.ID}, nil)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound, got %v", err)
		}

		_, err = m.deleteTask(ctx, DeleteTaskRequest{UserID: 1, TaskID: created.ID}, nil)
		if !errors.Is(err, ErrTaskNotFound) {
			t.Errorf("expected ErrTaskNotFound on repeat delete, got %v", err)
		}
	})
}

func TestStatusFilterParsing(t *testing.T) {
	tests := []struct {
		token  string
		want   domain.StatusFilter
		wantOK bool
	}{
		{"", domain.FilterAll, true},
		{"all", domain.FilterAll, true},
		{"complete", domain.FilterComplete, true},
		{"incomplete", domain.FilterIncomplete, true},
		{"finished", domain.FilterAll, false},
		{"COMPLETE", domain.FilterAll, false},
	}

	for _, tt := range tests {
		t.Run("token "+tt.token, func(t *testing.T) {
			got, ok := domain.ParseStatusFilter(tt.token)
			if ok != tt.wantOK {
				t.Fatalf("ParseStatusFilter(%q) ok = %v, want %v", tt.token, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseStatusFilter(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}
