package task

import (
	"context"
	"time"
)

// CreateTaskRequest is the request for creating a task. UserID is always
// the authenticated principal, filled in by the transport layer; it is
// never taken from a request body.
type CreateTaskRequest struct {
	UserID      int64   `json:"user_id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// GetTaskRequest is the request for getting a single task.
type GetTaskRequest struct {
	UserID int64 `json:"user_id"`
	TaskID int64 `json:"task_id"`
}

// ListTasksRequest is the request for listing the principal's tasks.
// Status is one of "all", "complete", "incomplete"; empty means "all".
type ListTasksRequest struct {
	UserID int64  `json:"user_id"`
	Status string `json:"status,omitempty"`
}

// ListTasksResponse carries the filtered tasks plus counts: TotalCount is
// the principal's full task count, FilteredCount the count after filtering.
type ListTasksResponse struct {
	Tasks         []TaskResponse `json:"tasks"`
	TotalCount    int64          `json:"total_count"`
	FilteredCount int64          `json:"filtered_count"`
}

// UpdateTaskRequest is the patch request for a task. Nil fields are left
// unchanged; there is deliberately no owner field here, so ownership cannot
// be reassigned through any update path.
type UpdateTaskRequest struct {
	UserID      int64   `json:"user_id"`
	TaskID      int64   `json:"task_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	UserID int64 `json:"user_id"`
	TaskID int64 `json:"task_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool  `json:"deleted"`
	TaskID  int64 `json:"task_id"`
}

// ToggleTaskRequest is the request for flipping a task's completion state.
type ToggleTaskRequest struct {
	UserID int64 `json:"user_id"`
	TaskID int64 `json:"task_id"`
}

// TaskResponse is the wire representation of a single task.
type TaskResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsComplete  bool      `json:"is_complete"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPort is the interface driving adapters (the HTTP API) use to invoke
// task operations. Every method takes the principal's user id explicitly.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, userID, taskID int64) (*TaskResponse, error)
	ListTasks(ctx context.Context, userID int64, status string) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, userID, taskID int64) error
	ToggleTask(ctx context.Context, userID, taskID int64) (*TaskResponse, error)
}
