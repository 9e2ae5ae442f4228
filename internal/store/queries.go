// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store provides database access for events and users.
package store

import (
	"context"
	"database/sql"

	"github.com/olegiv/campusconnect-go/internal/model"
)

// DBTX is the interface shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries wraps a database handle with typed query methods.
type Queries struct {
	db DBTX
}

// New creates a Queries instance backed by the given database handle.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

const eventColumns = "id, name, date, time, domain, reg_link, content, poster_url"

// scanEvent scans a single event row, mapping NULL text columns to "".
func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var (
		e                        model.Event
		timeCol, content, poster sql.NullString
	)
	err := row.Scan(&e.ID, &e.Name, &e.Date, &timeCol, &e.Domain, &e.RegLink, &content, &poster)
	if err != nil {
		return model.Event{}, err
	}
	e.Time = timeCol.String
	e.Content = content.String
	e.PosterURL = poster.String
	return e, nil
}

// CreateEventParams holds the fields for inserting a new event.
type CreateEventParams struct {
	Name      string
	Date      string
	Time      string
	Domain    string
	RegLink   string
	Content   string
	PosterURL string
}

// CreateEvent inserts an event row and returns the new id.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO events (name, date, time, domain, reg_link, content, poster_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Date, arg.Time, arg.Domain, arg.RegLink, arg.Content, arg.PosterURL,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetEventByID returns the event with the given id, or sql.ErrNoRows.
func (q *Queries) GetEventByID(ctx context.Context, id int64) (model.Event, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	return scanEvent(row)
}

// ListEvents returns all events ordered by date ascending.
func (q *Queries) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events ORDER BY date ASC")
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// ListEventsByDomain returns events with an exact domain match, ordered by
// date ascending.
func (q *Queries) ListEventsByDomain(ctx context.Context, domain string) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE domain = ? ORDER BY date ASC", domain)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

func collectEvents(rows *sql.Rows) ([]model.Event, error) {
	defer func() { _ = rows.Close() }()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// UpdateEventParams holds the fields for a full-replace event update.
type UpdateEventParams struct {
	ID        int64
	Name      string
	Date      string
	Time      string
	Domain    string
	RegLink   string
	Content   string
	PosterURL string
}

// UpdateEvent replaces all fields of an event except its id.
func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE events
		 SET name = ?, date = ?, time = ?, domain = ?, reg_link = ?, content = ?, poster_url = ?
		 WHERE id = ?`,
		arg.Name, arg.Date, arg.Time, arg.Domain, arg.RegLink, arg.Content, arg.PosterURL, arg.ID,
	)
	return err
}

// DeleteEvent removes an event row.
func (q *Queries) DeleteEvent(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	return err
}

// CountEvents returns the total number of event rows.
func (q *Queries) CountEvents(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n)
	return n, err
}

// CreateUserParams holds the fields for inserting a new user.
type CreateUserParams struct {
	Phone    string
	Password string
}

// CreateUser inserts a user row and returns the created user.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	result, err := q.db.ExecContext(ctx,
		"INSERT INTO users (phone, password) VALUES (?, ?)", arg.Phone, arg.Password)
	if err != nil {
		return model.User{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return model.User{ID: id, Phone: arg.Phone, Password: arg.Password}, nil
}

// GetUserByPhone returns the user with the given phone, or sql.ErrNoRows.
func (q *Queries) GetUserByPhone(ctx context.Context, phone string) (model.User, error) {
	var u model.User
	err := q.db.QueryRowContext(ctx,
		"SELECT id, phone, password FROM users WHERE phone = ?", phone).
		Scan(&u.ID, &u.Phone, &u.Password)
	return u, err
}
