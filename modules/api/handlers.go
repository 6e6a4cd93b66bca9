package api

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	domain "github.com/example/todo-api/domain/user"
	"github.com/example/todo-api/modules/auth"
	"github.com/example/todo-api/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains HTTP handlers for the API.
type Handlers struct {
	authContainer mono.ServiceContainer
	authAdapter   auth.AuthPort
	taskPort      task.TaskPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authContainer mono.ServiceContainer, authAdapter auth.AuthPort, taskPort task.TaskPort) *Handlers {
	return &Handlers{
		authContainer: authContainer,
		authAdapter:   authAdapter,
		taskPort:      taskPort,
	}
}

// Register handles user registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Email and password are required",
		})
	}

	authReq := auth.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	}
	var resp auth.RegisterResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"register",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(RegisterResponse{
		ID:        resp.ID,
		Email:     resp.Email,
		FullName:  resp.FullName,
		CreatedAt: resp.CreatedAt,
		Tokens: TokenResponse{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			ExpiresIn:    resp.ExpiresIn,
			TokenType:    resp.TokenType,
		},
	})
}

// Login handles user login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Email and password are required",
		})
	}

	authReq := auth.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	}
	var resp auth.LoginResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"login",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Refresh handles token refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	if req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Refresh token is required",
		})
	}

	authReq := auth.RefreshRequest{
		RefreshToken: req.RefreshToken,
	}
	var resp auth.RefreshResponse

	if err := helper.CallRequestReplyService(
		c.UserContext(),
		h.authContainer,
		"refresh-token",
		json.Marshal,
		json.Unmarshal,
		&authReq,
		&resp,
	); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(TokenResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Logout acknowledges a logout. Tokens are stateless, so the client
// discards them; the endpoint exists for consistency and future token
// revocation.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if _, ok := principal(c); !ok {
		return unauthenticated(c)
	}

	return c.Status(fiber.StatusOK).JSON(MessageResponse{
		Message: "Logged out successfully",
	})
}

// Profile returns the authenticated user's profile.
func (h *Handlers) Profile(c *fiber.Ctx) error {
	claims, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}

	user, err := h.authAdapter.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "Failed to retrieve user profile",
		})
	}

	return c.Status(fiber.StatusOK).JSON(ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	})
}

// CreateTask creates a task owned by the authenticated principal.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}

	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	created, err := h.taskPort.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		UserID:      claims.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toAPITask(created))
}

// ListTasks lists the principal's tasks, optionally filtered by the status
// query parameter ("all", "complete", "incomplete").
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}

	listed, err := h.taskPort.ListTasks(c.UserContext(), claims.UserID, c.Query("status"))
	if err != nil {
		return h.handleTaskError(c, err)
	}

	resp := TaskListResponse{
		Tasks:         make([]TaskResponse, 0, len(listed.Tasks)),
		TotalCount:    listed.TotalCount,
		FilteredCount: listed.FilteredCount,
	}
	for i := range listed.Tasks {
		resp.Tasks = append(resp.Tasks, toAPITask(&listed.Tasks[i]))
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetTask returns a single task owned by the principal.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return invalidTaskID(c)
	}

	found, err := h.taskPort.GetTask(c.UserContext(), claims.UserID, taskID)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toAPITask(found))
}

// UpdateTask applies a partial update to one of the principal's tasks.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return invalidTaskID(c)
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid request body",
		})
	}

	updated, err := h.taskPort.UpdateTask(c.UserContext(), &task.UpdateTaskRequest{
		UserID:      claims.UserID,
		TaskID:      taskID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toAPITask(updated))
}

// DeleteTask permanently removes one of the principal's tasks.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return invalidTaskID(c)
	}

	if err := h.taskPort.DeleteTask(c.UserContext(), claims.UserID, taskID); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleTask flips the completion state of one of the principal's tasks.
func (h *Handlers) ToggleTask(c *fiber.Ctx) error {
	claims, ok := principal(c)
	if !ok {
		return unauthenticated(c)
	}

	taskID, ok := taskIDParam(c)
	if !ok {
		return invalidTaskID(c)
	}

	toggled, err := h.taskPort.ToggleTask(c.UserContext(), claims.UserID, taskID)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(toAPITask(toggled))
}

// principal extracts the authenticated claims stored by AuthMiddleware.
func principal(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "User not authenticated",
	})
}

// taskIDParam parses the :id path parameter.
func taskIDParam(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidTaskID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: "Task id must be a positive integer",
	})
}

func toAPITask(t *task.TaskResponse) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsComplete:  t.IsComplete,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// handleAuthError maps auth service errors to HTTP responses. Service errors
// cross the container as message strings, so classification matches on the
// known error texts.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(errStr, "account is inactive"):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "Account is inactive",
		})
	case strings.Contains(errStr, "user with this email already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	case strings.Contains(errStr, "invalid email format"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Invalid email format",
		})
	case strings.Contains(errStr, "password must be at least"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Password must be at least 8 characters",
		})
	case strings.Contains(errStr, "password must be at most"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: "Password must be at most 72 characters",
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}

// handleTaskError maps task service errors to HTTP responses. The not-found
// and access-denied cases stay distinct so a caller can tell a missing task
// from someone else's task.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "task not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case strings.Contains(errStr, "access denied"):
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error:   "forbidden",
			Message: "You do not have access to this task",
		})
	case strings.Contains(errStr, "validation error"):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "bad_request",
			Message: errStr,
		})
	default:
		log.Printf("[api] Internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "An internal error occurred",
		})
	}
}
