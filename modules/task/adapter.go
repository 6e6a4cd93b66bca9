package task

import (
	"context"
	"encoding/json"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskAdapter implements TaskPort using the service container. Service
// errors come back as message strings, so they are returned unwrapped to
// keep the original text intact for callers that classify them.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{
		container: container,
	}
}

// CreateTask creates a task owned by the requesting principal.
func (a *TaskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"create-task",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, err
	}

	return &resp, nil
}

// GetTask retrieves a single task owned by the principal.
func (a *TaskAdapter) GetTask(ctx context.Context, userID, taskID int64) (*TaskResponse, error) {
	req := GetTaskRequest{UserID: userID, TaskID: taskID}
	var resp TaskResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, err
	}

	return &resp, nil
}

// ListTasks retrieves the principal's tasks, optionally filtered by status.
func (a *TaskAdapter) ListTasks(ctx context.Context, userID int64, status string) (*ListTasksResponse, error) {
	req := ListTasksRequest{UserID: userID, Status: status}
	var resp ListTasksResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-tasks",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, err
	}

	return &resp, nil
}

// UpdateTask applies a partial update to a task owned by the principal.
func (a *TaskAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"update-task",
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return nil, err
	}

	return &resp, nil
}

// DeleteTask permanently removes a task owned by the principal.
func (a *TaskAdapter) DeleteTask(ctx context.Context, userID, taskID int64) error {
	req := DeleteTaskRequest{UserID: userID, TaskID: taskID}
	var resp DeleteTaskResponse

	return helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	)
}

// ToggleTask flips a task's completion state.
func (a *TaskAdapter) ToggleTask(ctx context.Context, userID, taskID int64) (*TaskResponse, error) {
	req := ToggleTaskRequest{UserID: userID, TaskID: taskID}
	var resp TaskResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"toggle-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, err
	}

	return &resp, nil
}

var _ TaskPort = (*TaskAdapter)(nil)
