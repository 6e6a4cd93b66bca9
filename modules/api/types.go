package api

import "time"

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse represents an authentication token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// RegisterResponse represents the created account plus its initial tokens.
type RegisterResponse struct {
	ID        int64         `json:"id"`
	Email     string        `json:"email"`
	FullName  *string       `json:"full_name,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	Tokens    TokenResponse `json:"tokens"`
}

// ProfileResponse represents the authenticated user's profile.
type ProfileResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTaskRequest represents a task creation request body. The owner is
// always the authenticated principal, never a body field.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
}

// UpdateTaskRequest represents a partial task update. Absent fields are
// left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// TaskResponse represents a single task.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsComplete  bool      `json:"is_complete"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskListResponse represents a filtered task listing with counts.
type TaskListResponse struct {
	Tasks         []TaskResponse `json:"tasks"`
	TotalCount    int64          `json:"total_count"`
	FilteredCount int64          `json:"filtered_count"`
}

// MessageResponse represents a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
