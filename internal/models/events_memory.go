package models

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo keeps events in process memory. It backs the "memory" storage
// driver and the service tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	events map[int64]Event
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{events: make(map[int64]Event)}
}

func (m *MemoryRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	stored := cloneEvent(*event)
	stored.EventID = m.nextID
	stored.User = nil
	m.events[stored.EventID] = stored

	out := cloneEvent(stored)
	return &out, nil
}

func (m *MemoryRepo) ListEventsByOwner(ctx context.Context, userID int64) ([]*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := []*Event{}
	for _, e := range m.events {
		if e.UserID == userID {
			out := cloneEvent(e)
			events = append(events, &out)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].EventID < events[j].EventID })
	return events, nil
}

func (m *MemoryRepo) GetEventByID(ctx context.Context, id int64) (*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	out := cloneEvent(e)
	return &out, nil
}

func (m *MemoryRepo) SaveEvent(ctx context.Context, event *Event) (*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.events[event.EventID]
	if !ok {
		return nil, nil
	}
	current.Title = event.Title
	current.Description = event.Description
	current.Location = event.Location
	current.CoverImage = event.CoverImage
	current.UpdatedAt = event.UpdatedAt
	current = cloneEvent(current)
	m.events[event.EventID] = current

	out := cloneEvent(current)
	return &out, nil
}

func (m *MemoryRepo) DeleteEvent(ctx context.Context, id int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[id]; !ok {
		return 0, nil
	}
	delete(m.events, id)
	return 1, nil
}

// cloneEvent copies the optional string fields so callers never share
// pointers with the stored record.
func cloneEvent(e Event) Event {
	e.Description = copyPtr(e.Description)
	e.Location = copyPtr(e.Location)
	e.CoverImage = copyPtr(e.CoverImage)
	return e
}

func copyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
