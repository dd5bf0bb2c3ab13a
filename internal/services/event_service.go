package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joshua-takyi/events/internal/models"
)

// CoverUploader stores an inline cover image somewhere durable and returns
// its public URL.
type CoverUploader interface {
	UploadCover(ctx context.Context, source string) (string, error)
}

type EventService struct {
	eventsRepo models.EventsRepo
	uploader   CoverUploader
	now        func() time.Time
}

type EventServiceOption func(*EventService)

// WithClock overrides the time source used for created_at/updated_at.
func WithClock(now func() time.Time) EventServiceOption {
	return func(es *EventService) {
		es.now = now
	}
}

// WithCoverUploader enables uploading of inline (data URI) cover images.
func WithCoverUploader(u CoverUploader) EventServiceOption {
	return func(es *EventService) {
		es.uploader = u
	}
}

func NewEventService(eventsRepo models.EventsRepo, opts ...EventServiceOption) *EventService {
	es := &EventService{
		eventsRepo: eventsRepo,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// Create stores a new event owned by ownerID with all counters at zero.
func (es *EventService) Create(ctx context.Context, input models.CreateEventInput, ownerID int64) (*models.Event, error) {
	cover, err := es.resolveCover(ctx, input.CoverImage)
	if err != nil {
		return nil, err
	}

	now := es.now().UTC()
	event := &models.Event{
		UserID:        ownerID,
		Title:         input.Title,
		Description:   input.Description,
		Location:      input.Location,
		CoverImage:    cover,
		GoingCount:    0,
		LikesCount:    0,
		CommentsCount: 0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := models.Validate.Struct(event); err != nil {
		return nil, fmt.Errorf("invalid event data provided: %w", err)
	}

	created, err := es.eventsRepo.CreateEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

// FindAllByOwner never returns a nil slice.
func (es *EventService) FindAllByOwner(ctx context.Context, ownerID int64) ([]*models.Event, error) {
	events, err := es.eventsRepo.ListEventsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if events == nil {
		events = []*models.Event{}
	}
	return events, nil
}

func (es *EventService) FindByID(ctx context.Context, id int64) (*models.Event, error) {
	event, err := es.eventsRepo.GetEventByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, notFound(id)
	}
	return event, nil
}

// Update overwrites the mutable fields present in input. Last writer wins.
func (es *EventService) Update(ctx context.Context, id int64, input models.UpdateEventInput) (*models.Event, error) {
	event, err := es.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CoverImage != nil {
		cover, err := es.resolveCover(ctx, input.CoverImage)
		if err != nil {
			return nil, err
		}
		input.CoverImage = cover
	}

	input.Apply(event)

	now := es.now().UTC()
	if now.Before(event.UpdatedAt) {
		now = event.UpdatedAt
	}
	event.UpdatedAt = now

	saved, err := es.eventsRepo.SaveEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if saved == nil {
		// deleted between the read and the write
		return nil, notFound(id)
	}
	return saved, nil
}

func (es *EventService) Remove(ctx context.Context, id int64) error {
	affected, err := es.eventsRepo.DeleteEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if affected == 0 {
		return notFound(id)
	}
	return nil
}

func (es *EventService) resolveCover(ctx context.Context, cover *string) (*string, error) {
	if cover == nil || es.uploader == nil || !IsInlineImage(*cover) {
		return cover, nil
	}

	url, err := es.uploader.UploadCover(ctx, *cover)
	if err != nil {
		return nil, fmt.Errorf("failed to upload cover image: %w", err)
	}
	return &url, nil
}

// IsInlineImage reports whether s carries the image bytes itself rather than
// pointing at an already hosted file.
func IsInlineImage(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "data:image/")
}

func notFound(id int64) error {
	return fmt.Errorf("event with ID %d: %w", id, models.ErrEventNotFound)
}
