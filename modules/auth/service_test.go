package auth

import (
	"context"
	"errors"
	"net/mail"
	"testing"

	domain "github.com/example/todo-api/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestService builds an AuthService backed by an in-memory SQLite
// database and a low-cost hasher.
func setupTestService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	service := NewAuthService(
		NewUserRepository(db),
		NewPasswordHasherWithCost(bcrypt.MinCost),
		NewJWTManager(DefaultJWTConfig()),
	)
	return service, db
}

func TestAuthService_Register(t *testing.T) {
	service, _ := setupTestService(t)
	ctx := context.Background()

	t.Run("successful registration returns tokens", func(t *testing.T) {
		user, tokens, err := service.Register(ctx, "new@example.com", "password123", "Ada Lovelace")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if user.ID == 0 {
			t.Error("expected store-assigned id, got 0")
		}
		if user.FullName == nil || *user.FullName != "Ada Lovelace" {
			t.Errorf("full name = %v, want %q", user.FullName, "Ada Lovelace")
		}
		if !user.IsActive {
			t.Error("expected new account to be active")
		}
		if tokens.AccessToken == "" || tokens.RefreshToken == "" {
			t.Error("expected both tokens to be issued on registration")
		}
		if tokens.TokenType != "Bearer" {
			t.Errorf("token type = %q, want %q", tokens.TokenType, "Bearer")
		}
	})

	t.Run("blank full name stored as absent", func(t *testing.T) {
		user, _, err := service.Register(ctx, "anon@example.com", "password123", "   ")
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		if user.FullName != nil {
			t.Errorf("expected nil full name, got %q", *user.FullName)
		}
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, _, err := service.Register(ctx, "new@example.com", "password123", "")
		if !errors.Is(err, ErrUserExists) {
			t.Errorf("expected ErrUserExists, got %v", err)
		}
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		_, _, err := service.Register(ctx, "not-an-email", "password123", "")
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("expected ErrInvalidEmail, got %v", err)
		}
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, _, err := service.Register(ctx, "short@example.com", "1234567", "")
		if !errors.Is(err, ErrWeakPassword) {
			t.Errorf("expected ErrWeakPassword, got %v", err)
		}
	})

	t.Run("over-length password rejected", func(t *testing.T) {
		long := make([]byte, 73)
		for i := range long {
			long[i] = 'a'
		}
		_, _, err := service.Register(ctx, "long@example.com", string(long), "")
		if !errors.Is(err, ErrPasswordTooLong) {
			t.Errorf("expected ErrPasswordTooLong, got %v", err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	service, db := setupTestService(t)
	ctx := context.Background()

	if _, _, err := service.Register(ctx, "login@example.com", "password123", ""); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("correct credentials", func(t *testing.T) {
		tokens, err := service.Login(ctx, "login@example.com", "password123")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if tokens.AccessToken == "" {
			t.Error("expected access token")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := service.Login(ctx, "login@example.com", "wrongpassword")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := service.Login(ctx, "nobody@example.com", "password123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("inactive account", func(t *testing.T) {
		if err := db.Model(&domain.User{}).
			Where("email = ?", "login@example.com").
			Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate account: %v", err)
		}

		_, err := service.Login(ctx, "login@example.com", "password123")
		if !errors.Is(err, ErrAccountInactive) {
			t.Errorf("expected ErrAccountInactive, got %v", err)
		}
	})
}

func TestAuthService_RefreshTokens(t *testing.T) {
	service, db := setupTestService(t)
	ctx := context.Background()

	_, tokens, err := service.Register(ctx, "refresh@example.com", "password123", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("valid refresh token", func(t *testing.T) {
		refreshed, err := service.RefreshTokens(ctx, tokens.RefreshToken)
		if err != nil {
			t.Fatalf("RefreshTokens() error = %v", err)
		}
		if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
			t.Error("expected a full token pair from refresh")
		}
	})

	t.Run("access token rejected", func(t *testing.T) {
		_, err := service.RefreshTokens(ctx, tokens.AccessToken)
		if err == nil {
			t.Error("RefreshTokens() should reject an access token")
		}
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := service.RefreshTokens(ctx, "not.a.token")
		if err == nil {
			t.Error("RefreshTokens() should reject a malformed token")
		}
	})

	t.Run("deactivated account rejected", func(t *testing.T) {
		if err := db.Model(&domain.User{}).
			Where("email = ?", "refresh@example.com").
			Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate account: %v", err)
		}

		_, err := service.RefreshTokens(ctx, tokens.RefreshToken)
		if !errors.Is(err, ErrAccountInactive) {
			t.Errorf("expected ErrAccountInactive, got %v", err)
		}
	})
}

func TestAuthService_ValidateToken(t *testing.T) {
	service, _ := setupTestService(t)
	ctx := context.Background()

	user, tokens, err := service.Register(ctx, "claims@example.com", "password123", "")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	t.Run("access token resolves to principal", func(t *testing.T) {
		claims, err := service.ValidateToken(ctx, tokens.AccessToken)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("claims.UserID = %d, want %d", claims.UserID, user.ID)
		}
		if claims.Email != "claims@example.com" {
			t.Errorf("claims.Email = %q, want %q", claims.Email, "claims@example.com")
		}
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		_, err := service.ValidateToken(ctx, tokens.RefreshToken)
		if err != ErrInvalidToken {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}

func TestEmailValidation(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{
			name:  "valid email",
			email: "user@example.com",
			want:  true,
		},
		{
			name:  "valid email with subdomain",
			email: "user@mail.example.com",
			want:  true,
		},
		{
			name:  "valid email with plus",
			email: "user+tag@example.com",
			want:  true,
		},
		{
			name:  "missing @",
			email: "userexample.com",
			want:  false,
		},
		{
			name:  "missing domain",
			email: "user@",
			want:  false,
		},
		{
			name:  "missing local part",
			email: "@example.com",
			want:  false,
		},
		{
			name:  "empty string",
			email: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mail.ParseAddress(tt.email)
			got := err == nil
			if got != tt.want {
				t.Errorf("mail.ParseAddress(%q) valid = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}
