package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/example/todo-api/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/google/uuid"
)

// NotificationLog is an in-memory record of a delivered notification.
type NotificationLog struct {
	ID        string    `json:"id"`
	TaskID    int64     `json:"task_id"`
	UserID    int64     `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationModule consumes task lifecycle events and records
// per-user activity notifications.
type NotificationModule struct {
	notifications []NotificationLog
	mu            sync.RWMutex
}

var _ mono.Module = (*NotificationModule)(nil)
var _ mono.EventConsumerModule = (*NotificationModule)(nil)

func NewModule() *NotificationModule {
	return &NotificationModule{
		notifications: make([]NotificationLog, 0),
	}
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleTaskCompleted, m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskReopenedV1, m.handleTaskReopened, m); err != nil {
		return fmt.Errorf("failed to register TaskReopened consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	log.Printf("[notification] Registered event consumers: TaskCreated, TaskCompleted, TaskReopened, TaskDeleted")
	return nil
}

func (m *NotificationModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Task %d created by user %d: %s", event.TaskID, event.UserID, event.Title)
	m.record(event.TaskID, event.UserID, "task_created", fmt.Sprintf("New task %q created", event.Title))
	return nil
}

func (m *NotificationModule) handleTaskCompleted(_ context.Context, event events.TaskCompletedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Task %d completed by user %d", event.TaskID, event.UserID)
	m.record(event.TaskID, event.UserID, "task_completed", fmt.Sprintf("Task %d completed", event.TaskID))
	return nil
}

func (m *NotificationModule) handleTaskReopened(_ context.Context, event events.TaskReopenedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Task %d reopened by user %d", event.TaskID, event.UserID)
	m.record(event.TaskID, event.UserID, "task_reopened", fmt.Sprintf("Task %d reopened", event.TaskID))
	return nil
}

func (m *NotificationModule) handleTaskDeleted(_ context.Context, event events.TaskDeletedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Task %d deleted by user %d", event.TaskID, event.UserID)
	m.record(event.TaskID, event.UserID, "task_deleted", fmt.Sprintf("Task %d deleted", event.TaskID))
	return nil
}

func (m *NotificationModule) record(taskID, userID int64, notificationType, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifications = append(m.notifications, NotificationLog{
		ID:        uuid.New().String(),
		TaskID:    taskID,
		UserID:    userID,
		Type:      notificationType,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// GetNotifications returns a snapshot of all recorded notifications.
func (m *NotificationModule) GetNotifications() []NotificationLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]NotificationLog, len(m.notifications))
	copy(result, m.notifications)
	return result
}

// GetNotificationsForUser returns the notifications recorded for one user.
func (m *NotificationModule) GetNotificationsForUser(userID int64) []NotificationLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []NotificationLog
	for _, n := range m.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

func (m *NotificationModule) Start(_ context.Context) error {
	log.Println("[notification] Module started - listening for task events")
	return nil
}

func (m *NotificationModule) Stop(_ context.Context) error {
	log.Println("[notification] Module stopped")
	return nil
}
