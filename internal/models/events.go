package models

import (
	"strings"
	"time"
)

const (
	EventsTable   = "events"
	UsersTable    = "users"
	CountersTable = "counters"
)

type Event struct {
	EventID       int64     `db:"event_id" json:"event_id" bson:"_id"`
	UserID        int64     `db:"user_id" json:"user_id" bson:"user_id" validate:"required,gt=0"`
	Title         string    `db:"title" json:"title" bson:"title" validate:"required,min=1,max=255"` // e.g., "Launch"
	Description   *string   `db:"description" json:"description" bson:"description"`               // e.g., "Q1 launch"
	Location      *string   `db:"location" json:"location" bson:"location"`
	CoverImage    *string   `db:"cover_image" json:"cover_image" bson:"cover_image"`
	GoingCount    int       `db:"going_count" json:"going_count" bson:"going_count" validate:"min=0"`
	LikesCount    int       `db:"likes_count" json:"likes_count" bson:"likes_count" validate:"min=0"`
	CommentsCount int       `db:"comments_count" json:"comments_count" bson:"comments_count" validate:"min=0"`
	CreatedAt     time.Time `db:"created_at" json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at" bson:"updated_at"`

	// User is the owning user when the storage layer resolved it. It is
	// frequently nil; callers must rely on UserID.
	User *User `db:"-" json:"user,omitempty" bson:"-"`
}

// User is the slice of a profile that is exposed alongside an event.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	AvatarURL *string   `db:"avatar_url" json:"avatar_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CreateEventInput is the body accepted by POST /events.
type CreateEventInput struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitnil,max=5000"`
	Location    *string `json:"location" validate:"omitnil,max=255"`
	CoverImage  *string `json:"cover_image" validate:"omitnil"`
}

// UpdateEventInput is the body accepted by PUT /events/:eventId. Nil fields
// are left untouched.
type UpdateEventInput struct {
	Title       *string `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string `json:"description" validate:"omitnil,max=5000"`
	Location    *string `json:"location" validate:"omitnil,max=255"`
	CoverImage  *string `json:"cover_image" validate:"omitnil"`
}

func (in *CreateEventInput) Sanitize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = trimPtr(in.Description)
	in.Location = trimPtr(in.Location)
	in.CoverImage = trimPtr(in.CoverImage)
}

func (in *UpdateEventInput) Sanitize() {
	in.Title = trimPtr(in.Title)
	in.Description = trimPtr(in.Description)
	in.Location = trimPtr(in.Location)
	in.CoverImage = trimPtr(in.CoverImage)
}

func (in CreateEventInput) Validate() error {
	return Validate.Struct(in)
}

func (in UpdateEventInput) Validate() error {
	return Validate.Struct(in)
}

// Apply copies the fields present in the input onto e. Identity, ownership,
// counters and timestamps are never touched.
func (in UpdateEventInput) Apply(e *Event) {
	if in.Title != nil {
		e.Title = *in.Title
	}
	if in.Description != nil {
		e.Description = in.Description
	}
	if in.Location != nil {
		e.Location = in.Location
	}
	if in.CoverImage != nil {
		e.CoverImage = in.CoverImage
	}
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// StringPtr is a small convenience for building optional fields.
func StringPtr(s string) *string {
	return &s
}
