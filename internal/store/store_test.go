package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrateBackfillsRegLink(t *testing.T) {
	// A database created by the legacy deployment has an events table
	// without reg_link and no goose bookkeeping.
	db, err := NewDB(filepath.Join(t.TempDir(), "legacy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT,
		domain TEXT NOT NULL,
		content TEXT,
		poster_url TEXT
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO events (name, date, domain) VALUES ('Old Event', '2025-01-01', 'Tech')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	// Old rows survive with the empty-string default.
	var regLink string
	require.NoError(t, db.QueryRow(`SELECT reg_link FROM events WHERE name = 'Old Event'`).Scan(&regLink))
	require.Equal(t, "", regLink)

	// Running again must not attempt a second ALTER.
	require.NoError(t, Migrate(db))
}

func TestEventCRUD(t *testing.T) {
	db := newTestDB(t)
	queries := New(db)
	ctx := context.Background()

	id, err := queries.CreateEvent(ctx, CreateEventParams{
		Name:    "Hack Day",
		Date:    "2026-03-01",
		Time:    "10:00",
		Domain:  "Tech",
		RegLink: "https://example.com/reg",
		Content: "Annual hackathon",
	})
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	event, err := queries.GetEventByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Hack Day", event.Name)
	require.Equal(t, "https://example.com/reg", event.RegLink)
	require.Equal(t, "", event.PosterURL)

	err = queries.UpdateEvent(ctx, UpdateEventParams{
		ID:      id,
		Name:    "Hack Day 2026",
		Date:    "2026-03-02",
		Domain:  "Tech",
		RegLink: "https://example.com/reg2",
	})
	require.NoError(t, err)

	event, err = queries.GetEventByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Hack Day 2026", event.Name)
	require.Equal(t, "2026-03-02", event.Date)
	require.Equal(t, "", event.Time) // full replace clears unset fields

	require.NoError(t, queries.DeleteEvent(ctx, id))

	_, err = queries.GetEventByID(ctx, id)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListEventsOrderAndFilter(t *testing.T) {
	db := newTestDB(t)
	queries := New(db)
	ctx := context.Background()

	seed := []CreateEventParams{
		{Name: "C", Date: "2026-05-01", Domain: "Sports", RegLink: "https://c"},
		{Name: "A", Date: "2026-01-01", Domain: "Tech", RegLink: "https://a"},
		{Name: "B", Date: "2026-03-01", Domain: "Tech", RegLink: "https://b"},
	}
	for _, p := range seed {
		_, err := queries.CreateEvent(ctx, p)
		require.NoError(t, err)
	}

	all, err := queries.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"A", "B", "C"}, []string{all[0].Name, all[1].Name, all[2].Name})

	tech, err := queries.ListEventsByDomain(ctx, "Tech")
	require.NoError(t, err)
	require.Len(t, tech, 2)
	require.Equal(t, "A", tech[0].Name)
	require.Equal(t, "B", tech[1].Name)

	// Exact, case-sensitive match only.
	none, err := queries.ListEventsByDomain(ctx, "tech")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestUserPhoneUnique(t *testing.T) {
	db := newTestDB(t)
	queries := New(db)
	ctx := context.Background()

	_, err := queries.CreateUser(ctx, CreateUserParams{Phone: "9876543210", Password: "password123"})
	require.NoError(t, err)

	_, err = queries.CreateUser(ctx, CreateUserParams{Phone: "9876543210", Password: "other"})
	require.Error(t, err)

	user, err := queries.GetUserByPhone(ctx, "9876543210")
	require.NoError(t, err)
	require.Equal(t, "password123", user.Password)

	_, err = queries.GetUserByPhone(ctx, "0000000000")
	require.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, Seed(ctx, db, true))
	require.NoError(t, Seed(ctx, db, true))

	var count int64
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users WHERE phone = ?`, TestUserPhone).Scan(&count))
	require.Equal(t, int64(1), count)
}

func TestSeedDisabled(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, Seed(context.Background(), db, false))

	var count int64
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	require.Equal(t, int64(0), count)
}
