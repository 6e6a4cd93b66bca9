package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/todo-api/middleware/ratelimit"
	"github.com/example/todo-api/modules/api"
	"github.com/example/todo-api/modules/auth"
	"github.com/example/todo-api/modules/notification"
	"github.com/example/todo-api/modules/task"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== Todo API ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Middleware must be registered before regular modules so it can
	// intercept their service registrations.
	if os.Getenv("RATE_LIMIT_ENABLED") == "true" {
		rateLimitMiddleware, err := ratelimit.New(
			ratelimit.WithRedisAddr(getEnv("REDIS_ADDR", "localhost:6379")),
			ratelimit.WithRedisPassword(os.Getenv("REDIS_PASSWORD")),
		)
		if err != nil {
			log.Fatalf("Failed to create rate limiting middleware: %v", err)
		}
		app.Register(rateLimitMiddleware)
		log.Println("Rate limiting enabled (login: 10/min, register: 5/min)")
	}

	// Order: independent modules first, then dependent modules
	app.Register(auth.NewModule())         // Independent (provides auth services)
	app.Register(notification.NewModule()) // Independent (consumes task events)
	app.Register(task.NewModule())         // Depends on auth
	app.Register(api.NewModule())          // Depends on auth and task

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/v1/auth/register       - Register a new user")
	log.Println("  POST   /api/v1/auth/login          - Login and get tokens")
	log.Println("  POST   /api/v1/auth/refresh        - Refresh access token")
	log.Println("  GET    /health                     - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token):")
	log.Println("  POST   /api/v1/auth/logout         - Logout (client discards tokens)")
	log.Println("  GET    /api/v1/profile             - Get current user profile")
	log.Println("  POST   /api/v1/tasks               - Create a task")
	log.Println("  GET    /api/v1/tasks?status=...    - List tasks (all/complete/incomplete)")
	log.Println("  GET    /api/v1/tasks/:id           - Get a task")
	log.Println("  PATCH  /api/v1/tasks/:id           - Update a task")
	log.Println("  DELETE /api/v1/tasks/:id           - Delete a task")
	log.Println("  POST   /api/v1/tasks/:id/toggle    - Toggle completion")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
