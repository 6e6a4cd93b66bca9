package task

import "time"

// StatusFilter selects which tasks a list operation returns.
type StatusFilter string

const (
	FilterAll        StatusFilter = "all"
	FilterComplete   StatusFilter = "complete"
	FilterIncomplete StatusFilter = "incomplete"
)

// ParseStatusFilter maps the external filter token to a StatusFilter.
// An empty token means "all". Unknown tokens are rejected by the caller.
func ParseStatusFilter(token string) (StatusFilter, bool) {
	switch token {
	case "", string(FilterAll):
		return FilterAll, true
	case string(FilterComplete):
		return FilterComplete, true
	case string(FilterIncomplete):
		return FilterIncomplete, true
	default:
		return "", false
	}
}

// Task is the core domain entity representing a todo item. UserID is set
// once at creation from the authenticated principal and never updated.
type Task struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"index;not null" json:"user_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description *string   `gorm:"size:1000" json:"description"`
	IsComplete  bool      `gorm:"not null;default:false" json:"is_complete"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}
