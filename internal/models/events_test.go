package models_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/joshua-takyi/events/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   models.CreateEventInput
		wantErr bool
	}{
		{name: "title only", input: models.CreateEventInput{Title: "Launch"}},
		{name: "all fields", input: models.CreateEventInput{
			Title:       "Launch",
			Description: models.StringPtr("Q1 launch"),
			Location:    models.StringPtr("Accra"),
			CoverImage:  models.StringPtr("https://img/launch.png"),
		}},
		{name: "missing title", input: models.CreateEventInput{}, wantErr: true},
		{name: "blank title", input: models.CreateEventInput{Title: "   "}, wantErr: true},
		{name: "title too long", input: models.CreateEventInput{Title: strings.Repeat("x", 256)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			in.Sanitize()
			err := in.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateEventInput_Validate(t *testing.T) {
	empty := models.UpdateEventInput{}
	assert.NoError(t, empty.Validate(), "every field is optional")

	blank := models.UpdateEventInput{Title: models.StringPtr("  ")}
	blank.Sanitize()
	assert.Error(t, blank.Validate(), "a present title must not be empty")

	clearDescription := models.UpdateEventInput{Description: models.StringPtr("")}
	assert.NoError(t, clearDescription.Validate())
}

func TestUpdateEventInput_Apply(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ev := &models.Event{
		EventID:     9,
		UserID:      1,
		Title:       "Launch",
		Description: models.StringPtr("Q1 launch"),
		GoingCount:  3,
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	models.UpdateEventInput{Title: models.StringPtr("Launch v2")}.Apply(ev)

	assert.Equal(t, "Launch v2", ev.Title)
	require.NotNil(t, ev.Description)
	assert.Equal(t, "Q1 launch", *ev.Description)
	assert.Nil(t, ev.Location)
	assert.Equal(t, int64(9), ev.EventID)
	assert.Equal(t, int64(1), ev.UserID)
	assert.Equal(t, 3, ev.GoingCount)
	assert.Equal(t, created, ev.CreatedAt)
}

func TestMemoryRepo_Lifecycle(t *testing.T) {
	repo := models.NewMemoryRepo()
	ctx := context.Background()
	now := time.Now().UTC()

	first, err := repo.CreateEvent(ctx, newEvent(1, "first", now))
	require.NoError(t, err)
	second, err := repo.CreateEvent(ctx, newEvent(1, "second", now))
	require.NoError(t, err)
	assert.Greater(t, second.EventID, first.EventID)

	// returned records are copies
	first.Description = models.StringPtr("mutated")
	stored, err := repo.GetEventByID(ctx, first.EventID)
	require.NoError(t, err)
	assert.Nil(t, stored.Description)

	list, err := repo.ListEventsByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Title)

	affected, err := repo.DeleteEvent(ctx, first.EventID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	saved, err := repo.SaveEvent(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestMemoryRepo_RespectsCancelledContext(t *testing.T) {
	repo := models.NewMemoryRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListEventsByOwner(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
