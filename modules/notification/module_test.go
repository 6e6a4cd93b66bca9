package notification

import (
	"context"
	"testing"
	"time"

	"github.com/example/todo-api/events"
)

func TestNotificationRecording(t *testing.T) {
	m := NewModule()
	ctx := context.Background()

	err := m.handleTaskCreated(ctx, events.TaskCreatedEvent{
		TaskID:    1,
		Title:     "Write tests",
		UserID:    10,
		CreatedAt: time.Now(),
	}, nil)
	if err != nil {
		t.Fatalf("handleTaskCreated() error = %v", err)
	}

	err = m.handleTaskCompleted(ctx, events.TaskCompletedEvent{
		TaskID:      1,
		UserID:      10,
		CompletedAt: time.Now(),
	}, nil)
	if err != nil {
		t.Fatalf("handleTaskCompleted() error = %v", err)
	}

	err = m.handleTaskReopened(ctx, events.TaskReopenedEvent{
		TaskID:     1,
		UserID:     10,
		ReopenedAt: time.Now(),
	}, nil)
	if err != nil {
		t.Fatalf("handleTaskReopened() error = %v", err)
	}

	err = m.handleTaskDeleted(ctx, events.TaskDeletedEvent{
		TaskID:    2,
		UserID:    11,
		DeletedAt: time.Now(),
	}, nil)
	if err != nil {
		t.Fatalf("handleTaskDeleted() error = %v", err)
	}

	all := m.GetNotifications()
	if len(all) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(all))
	}

	wantTypes := []string{"task_created", "task_completed", "task_reopened", "task_deleted"}
	for i, want := range wantTypes {
		if all[i].Type != want {
			t.Errorf("notification %d type = %q, want %q", i, all[i].Type, want)
		}
		if all[i].ID == "" {
			t.Errorf("notification %d missing id", i)
		}
	}
}

func TestGetNotificationsForUser(t *testing.T) {
	m := NewModule()
	ctx := context.Background()

	_ = m.handleTaskCreated(ctx, events.TaskCreatedEvent{TaskID: 1, Title: "A", UserID: 1, CreatedAt: time.Now()}, nil)
	_ = m.handleTaskCreated(ctx, events.TaskCreatedEvent{TaskID: 2, Title: "B", UserID: 2, CreatedAt: time.Now()}, nil)
	_ = m.handleTaskDeleted(ctx, events.TaskDeletedEvent{TaskID: 1, UserID: 1, DeletedAt: time.Now()}, nil)

	mine := m.GetNotificationsForUser(1)
	if len(mine) != 2 {
		t.Fatalf("expected 2 notifications for user 1, got %d", len(mine))
	}
	for _, n := range mine {
		if n.UserID != 1 {
			t.Errorf("notification for user %d leaked into user 1's feed", n.UserID)
		}
	}
}
