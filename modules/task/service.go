package task

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	domain "github.com/example/todo-api/domain/task"
	"github.com/example/todo-api/events"
	"github.com/go-monolith/mono"
)

const (
	maxTitleChars       = 200
	maxDescriptionChars = 1000
)

// normalizeTitle trims surrounding whitespace and enforces the 1..200
// character constraint.
func normalizeTitle(raw string) (string, *ValidationError) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", NewValidationError("title", "must not be empty or whitespace only")
	}
	if utf8.RuneCountInString(title) > maxTitleChars {
		return "", NewValidationError("title", fmt.Sprintf("must be at most %d characters", maxTitleChars))
	}
	return title, nil
}

// normalizeDescription trims the description and normalizes an empty result
// to absent (nil).
func normalizeDescription(raw string) (*string, *ValidationError) {
	desc := strings.TrimSpace(raw)
	if desc == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(desc) > maxDescriptionChars {
		return nil, NewValidationError("description", fmt.Sprintf("must be at most %d characters", maxDescriptionChars))
	}
	return &desc, nil
}

// createTask handles the create-task service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	// The principal comes from a verified token, but the account may have
	// been deleted since the token was issued.
	if _, err := m.authPort.GetUser(ctx, req.UserID); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to resolve owner %d: %w", req.UserID, err)
	}

	title, verr := normalizeTitle(req.Title)
	if verr != nil {
		return TaskResponse{}, verr
	}

	var description *string
	if req.Description != nil {
		description, verr = normalizeDescription(*req.Description)
		if verr != nil {
			return TaskResponse{}, verr
		}
	}

	newTask := &domain.Task{
		UserID:      req.UserID,
		Title:       title,
		Description: description,
		IsComplete:  false,
	}

	if err := m.repo.Create(newTask); err != nil {
		return TaskResponse{}, err
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    newTask.ID,
			Title:     newTask.Title,
			UserID:    newTask.UserID,
			CreatedAt: newTask.CreatedAt,
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %d: %v", newTask.ID, err)
		}
	}

	return toTaskResponse(newTask), nil
}

// getTask handles the get-task service request.
func (m *TaskModule) getTask(_ context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	found, err := m.repo.FindOwned(req.TaskID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(found), nil
}

// listTasks handles the list-tasks service request.
func (m *TaskModule) listTasks(_ context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	filter, ok := domain.ParseStatusFilter(req.Status)
	if !ok {
		return ListTasksResponse{}, NewValidationError("status", `must be one of "all", "complete", "incomplete"`)
	}

	tasks, err := m.repo.FindByOwner(req.UserID, filter)
	if err != nil {
		return ListTasksResponse{}, err
	}

	total, err := m.repo.CountByOwner(req.UserID)
	if err != nil {
		return ListTasksResponse{}, err
	}

	response := ListTasksResponse{
		Tasks:         make([]TaskResponse, 0, len(tasks)),
		TotalCount:    total,
		FilteredCount: int64(len(tasks)),
	}
	for _, t := range tasks {
		response.Tasks = append(response.Tasks, toTaskResponse(t))
	}

	return response, nil
}

// updateTask handles the update-task service request. Only supplied fields
// change; a supplied description that trims to empty is left unchanged.
func (m *TaskModule) updateTask(_ context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	found, err := m.repo.FindOwned(req.TaskID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}

	changes := make(map[string]any)

	if req.Title != nil {
		title, verr := normalizeTitle(*req.Title)
		if verr != nil {
			return TaskResponse{}, verr
		}
		found.Title = title
		changes["title"] = title
	}

	if req.Description != nil {
		description, verr := normalizeDescription(*req.Description)
		if verr != nil {
			return TaskResponse{}, verr
		}
		if description != nil {
			found.Description = description
			changes["description"] = *description
		}
	}

	if len(changes) > 0 {
		now := time.Now()
		changes["updated_at"] = now
		if err := m.repo.UpdateOwned(req.TaskID, req.UserID, changes); err != nil {
			return TaskResponse{}, err
		}
		found.UpdatedAt = now
	}

	return toTaskResponse(found), nil
}

// deleteTask handles the delete-task service request.
func (m *TaskModule) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.repo.DeleteOwned(req.TaskID, req.UserID); err != nil {
		return DeleteTaskResponse{}, err
	}

	if m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    req.TaskID,
			UserID:    req.UserID,
			DeletedAt: time.Now(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskDeleted event for task %d: %v", req.TaskID, err)
		}
	}

	return DeleteTaskResponse{Deleted: true, TaskID: req.TaskID}, nil
}

// toggleTask handles the toggle-task service request.
func (m *TaskModule) toggleTask(_ context.Context, req ToggleTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	found, err := m.repo.FindOwned(req.TaskID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}

	now := time.Now()
	flipped := !found.IsComplete
	err = m.repo.UpdateOwned(req.TaskID, req.UserID, map[string]any{
		"is_complete": flipped,
		"updated_at":  now,
	})
	if err != nil {
		return TaskResponse{}, err
	}
	found.IsComplete = flipped
	found.UpdatedAt = now

	if m.eventBus != nil {
		if flipped {
			event := events.TaskCompletedEvent{
				TaskID:      found.ID,
				UserID:      found.UserID,
				CompletedAt: now,
			}
			if err := events.TaskCompletedV1.Publish(m.eventBus, event, nil); err != nil {
				log.Printf("[task] Warning: failed to publish TaskCompleted event for task %d: %v", found.ID, err)
			}
		} else {
			event := events.TaskReopenedEvent{
				TaskID:     found.ID,
				UserID:     found.UserID,
				ReopenedAt: now,
			}
			if err := events.TaskReopenedV1.Publish(m.eventBus, event, nil); err != nil {
				log.Printf("[task] Warning: failed to publish TaskReopened event for task %d: %v", found.ID, err)
			}
		}
	}

	return toTaskResponse(found), nil
}

// toTaskResponse converts a domain Task to its wire representation.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		IsComplete:  t.IsComplete,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
