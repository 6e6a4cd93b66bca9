package user

import (
	"time"
)

// User represents a registered account.
type User struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"`
	Email        string  `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string  `gorm:"not null;size:255"`
	FullName     *string `gorm:"size:200"`
	IsActive     bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// TokenPair represents access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Claims is the authenticated principal resolved from a bearer token.
// Every task operation is keyed by UserID; it is never read from request
// payloads.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}
