package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// Test student credentials, matching the account the original deployment
// was seeded with.
const (
	TestUserPhone    = "9876543210"
	TestUserPassword = "password123"
)

// Seed creates the test student account when seeding is enabled. Safe to
// call on every startup; an existing account is left untouched.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	if !doSeed {
		return nil
	}

	queries := New(db)

	_, err := queries.GetUserByPhone(ctx, TestUserPhone)
	if err == nil {
		slog.Info("test user already exists, skipping seed", "phone", TestUserPhone)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for test user: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		Phone:    TestUserPhone,
		Password: TestUserPassword,
	})
	if err != nil {
		return fmt.Errorf("creating test user: %w", err)
	}

	slog.Info("created test user", "id", user.ID, "phone", user.Phone)
	return nil
}
