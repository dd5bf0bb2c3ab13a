package models

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var Validate = newValidator()

// EventsRepo is the persistence adapter used by the event service.
// GetEventByID and SaveEvent return (nil, nil) when the row does not exist;
// the service decides what absence means.
type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	ListEventsByOwner(ctx context.Context, userID int64) ([]*Event, error)
	GetEventByID(ctx context.Context, id int64) (*Event, error)
	SaveEvent(ctx context.Context, event *Event) (*Event, error)
	DeleteEvent(ctx context.Context, id int64) (int64, error)
}

func newValidator() *validator.Validate {
	v := validator.New()
	// report violations by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
