package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/campusmap/internal/domain"
)

type fakeStore struct {
	mu        sync.Mutex
	reset     bool
	canvas    domain.Canvas
	buildings map[int]string
	walkways  map[int]domain.Walkway
	rooms     []string
	schedules []string
	failRoom  string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		buildings: make(map[int]string),
		walkways:  make(map[int]domain.Walkway),
	}
}

func (f *fakeStore) Reset(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset = true
	return nil
}

func (f *fakeStore) UpsertCanvas(_ context.Context, canvas domain.Canvas) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canvas = canvas
	return nil
}

func (f *fakeStore) UpsertBuilding(_ context.Context, seq int, b domain.Building) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buildings[seq] = b.ID
	return nil
}

func (f *fakeStore) UpsertWalkway(_ context.Context, seq int, w domain.Walkway) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	known := func(id string) bool {
		for _, b := range f.buildings {
			if b == id {
				return true
			}
		}
		return false
	}
	if !known(w.From) || !known(w.To) {
		return false, nil
	}
	f.walkways[seq] = w
	return true, nil
}

func (f *fakeStore) UpsertRoom(_ context.Context, _ int, room domain.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if room.Tag == f.failRoom {
		return errors.New("constraint violation on " + room.Tag)
	}
	f.rooms = append(f.rooms, room.Tag)
	return nil
}

func (f *fakeStore) ReplaceSchedule(_ context.Context, tag string, _ []domain.ScheduleSlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules = append(f.schedules, tag)
	return nil
}

func TestBulkIngestor_Ingest(t *testing.T) {
	store := newFakeStore()
	ingestor := NewBulkIngestor(store, 3)

	report, err := ingestor.Ingest(context.Background(), fixtureCampus(), true)
	require.NoError(t, err)

	assert.Equal(t, IngestReport{
		Buildings:       7,
		Walkways:        3,
		SkippedWalkways: 1,
		Rooms:           3,
		Schedules:       1,
	}, report)
	assert.True(t, store.reset)
	assert.Equal(t, domain.Canvas{Width: 1000, Height: 600}, store.canvas)
	assert.Equal(t, "A", store.buildings[0])
	assert.Equal(t, "G", store.buildings[6])
	assert.Equal(t, "F", store.walkways[3].From, "walkways keep their declaration index")

	sort.Strings(store.rooms)
	assert.Equal(t, []string{"A-CR", "A101", "B201"}, store.rooms)
	assert.Equal(t, []string{"A101"}, store.schedules)
}

func TestBulkIngestor_CollectsTaskErrors(t *testing.T) {
	store := newFakeStore()
	store.failRoom = "B201"
	ingestor := NewBulkIngestor(store, 2)

	_, err := ingestor.Ingest(context.Background(), fixtureCampus(), false)
	require.Error(t, err)
	assert.False(t, store.reset)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Len(t, taskErr.Errors, 1)
	assert.Contains(t, err.Error(), "rooms: constraint violation on B201")
	assert.Len(t, store.rooms, 2, "other rooms are still written")
}

func TestBulkIngestor_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBulkIngestor(newFakeStore(), 0).Ingest(ctx, fixtureCampus(), false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTaskError_Message(t *testing.T) {
	var te TaskError
	assert.Equal(t, "no errors", te.Error())
	assert.NoError(t, te.asError())

	te.append(errors.New("a"))
	te.append(nil)
	te.append(errors.New("b"))
	assert.Equal(t, "multiple errors: a; b;", te.Error())
}
