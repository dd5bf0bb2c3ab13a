package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const eventColumns = `event_id, user_id, title, description, location, cover_image,
	going_count, likes_count, comments_count, created_at, updated_at`

// SQLRepo stores events in a relational database through database/sql.
// The statements use $n placeholders and RETURNING, which both lib/pq and
// go-sqlite3 understand.
type SQLRepo struct {
	db *sql.DB
}

func SQLNewRepo(db *sql.DB) *SQLRepo {
	return &SQLRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, extra ...any) (*Event, error) {
	var (
		e                               Event
		description, location, coverImg sql.NullString
	)
	dest := []any{
		&e.EventID, &e.UserID, &e.Title, &description, &location, &coverImg,
		&e.GoingCount, &e.LikesCount, &e.CommentsCount, &e.CreatedAt, &e.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	e.Description = nullToPtr(description)
	e.Location = nullToPtr(location)
	e.CoverImage = nullToPtr(coverImg)
	return &e, nil
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func ptrToNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *SQLRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	if r.db == nil {
		return nil, ErrClientNotInitialized
	}

	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO events (user_id, title, description, location, cover_image,
			going_count, likes_count, comments_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING event_id`,
		event.UserID, event.Title, ptrToNull(event.Description), ptrToNull(event.Location),
		ptrToNull(event.CoverImage), event.GoingCount, event.LikesCount, event.CommentsCount,
		event.CreatedAt, event.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	created, err := r.selectEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("event %d vanished after insert", id)
	}
	return created, nil
}

// selectEvent reads back a single row. Timestamps are read through a plain
// SELECT so that go-sqlite3 sees the declared column types.
func (r *SQLRepo) selectEvent(ctx context.Context, id int64) (*Event, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE event_id = $1`, id)

	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read event: %w", err)
	}
	return e, nil
}

func (r *SQLRepo) ListEventsByOwner(ctx context.Context, userID int64) ([]*Event, error) {
	if r.db == nil {
		return nil, ErrClientNotInitialized
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE user_id = $1 ORDER BY event_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// GetEventByID also resolves the owning user when a matching users row exists.
func (r *SQLRepo) GetEventByID(ctx context.Context, id int64) (*Event, error) {
	if r.db == nil {
		return nil, ErrClientNotInitialized
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT e.event_id, e.user_id, e.title, e.description, e.location, e.cover_image,
			e.going_count, e.likes_count, e.comments_count, e.created_at, e.updated_at,
			u.id, u.username, u.avatar_url
		FROM events e
		LEFT JOIN users u ON u.id = e.user_id
		WHERE e.event_id = $1`, id)

	var (
		ownerID   sql.NullInt64
		username  sql.NullString
		avatarURL sql.NullString
	)
	e, err := scanEvent(row, &ownerID, &username, &avatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}

	if ownerID.Valid {
		e.User = &User{
			ID:        ownerID.Int64,
			Username:  username.String,
			AvatarURL: nullToPtr(avatarURL),
		}
	}
	return e, nil
}

// SaveEvent writes the mutable columns of an existing event.
func (r *SQLRepo) SaveEvent(ctx context.Context, event *Event) (*Event, error) {
	if r.db == nil {
		return nil, ErrClientNotInitialized
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE events
		SET title = $1, description = $2, location = $3, cover_image = $4, updated_at = $5
		WHERE event_id = $6`,
		event.Title, ptrToNull(event.Description), ptrToNull(event.Location),
		ptrToNull(event.CoverImage), event.UpdatedAt, event.EventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}

	return r.selectEvent(ctx, event.EventID)
}

func (r *SQLRepo) DeleteEvent(ctx context.Context, id int64) (int64, error) {
	if r.db == nil {
		return 0, ErrClientNotInitialized
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE event_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete event: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected, nil
}
