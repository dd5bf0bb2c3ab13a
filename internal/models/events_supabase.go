package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const eventSelect = "event_id,user_id,title,description,location,cover_image,going_count,likes_count,comments_count,created_at,updated_at"

type SupabaseRepo struct {
	supabaseClient *supabase.Client
}

func SupabaseNewRepo(supabaseClient *supabase.Client) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
	}
}

func (su *SupabaseRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	if su.supabaseClient == nil {
		return nil, ErrClientNotInitialized
	}

	eventData := map[string]interface{}{
		"user_id":        event.UserID,
		"title":          event.Title,
		"description":    event.Description,
		"location":       event.Location,
		"cover_image":    event.CoverImage,
		"going_count":    event.GoingCount,
		"likes_count":    event.LikesCount,
		"comments_count": event.CommentsCount,
		"created_at":     event.CreatedAt,
		"updated_at":     event.UpdatedAt,
	}

	data, _, err := su.supabaseClient.
		From(EventsTable).
		Insert(eventData, false, "", "representation", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	created, err := decodeEventRows(data)
	if err != nil {
		return nil, err
	}
	if len(created) == 0 {
		return nil, fmt.Errorf("no event data returned after insert")
	}
	return created[0], nil
}

func (su *SupabaseRepo) ListEventsByOwner(ctx context.Context, userID int64) ([]*Event, error) {
	if su.supabaseClient == nil {
		return nil, ErrClientNotInitialized
	}

	data, _, err := su.supabaseClient.
		From(EventsTable).
		Select(eventSelect, "", false).
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Order("event_id", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	return decodeEventRows(data)
}

func (su *SupabaseRepo) GetEventByID(ctx context.Context, id int64) (*Event, error) {
	if su.supabaseClient == nil {
		return nil, ErrClientNotInitialized
	}

	data, _, err := su.supabaseClient.
		From(EventsTable).
		Select(eventSelect, "", false).
		Eq("event_id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}

	// Supabase returns an array even for single results
	events, err := decodeEventRows(data)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return events[0], nil
}

func (su *SupabaseRepo) SaveEvent(ctx context.Context, event *Event) (*Event, error) {
	if su.supabaseClient == nil {
		return nil, ErrClientNotInitialized
	}

	update := map[string]interface{}{
		"title":       event.Title,
		"description": event.Description,
		"location":    event.Location,
		"cover_image": event.CoverImage,
		"updated_at":  event.UpdatedAt,
	}

	data, _, err := su.supabaseClient.
		From(EventsTable).
		Update(update, "representation", "exact").
		Eq("event_id", strconv.FormatInt(event.EventID, 10)).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	events, err := decodeEventRows(data)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return events[0], nil
}

func (su *SupabaseRepo) DeleteEvent(ctx context.Context, id int64) (int64, error) {
	if su.supabaseClient == nil {
		return 0, ErrClientNotInitialized
	}

	data, _, err := su.supabaseClient.
		From(EventsTable).
		Delete("representation", "exact").
		Eq("event_id", strconv.FormatInt(id, 10)).
		Execute()
	if err != nil {
		return 0, fmt.Errorf("failed to delete event: %w", err)
	}

	deleted, err := decodeEventRows(data)
	if err != nil {
		return 0, err
	}
	return int64(len(deleted)), nil
}

func decodeEventRows(data []byte) ([]*Event, error) {
	events := []*Event{}
	if len(data) == 0 {
		return events, nil
	}
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event rows: %w", err)
	}
	return events, nil
}
