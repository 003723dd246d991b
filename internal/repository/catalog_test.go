package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shivanand-hulikatti/eventease/internal/kv"
	"github.com/Shivanand-hulikatti/eventease/internal/model"
)

func newTestCatalog(store kv.Store, opts ...CatalogOption) *EventCatalog {
	opts = append([]CatalogOption{WithCatalogLogger(discardLogger())}, opts...)
	return NewEventCatalog(store, opts...)
}

func TestEventCatalog_SeedsDefaultCatalog(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	c := newTestCatalog(store)

	require.False(t, c.Loaded())
	events, err := c.List(ctx)
	require.NoError(t, err)
	require.True(t, c.Loaded())
	require.Len(t, events, 3)
	assert.Equal(t, "Tech Conference 2024", events[0].Name)
	assert.Equal(t, int64(29999), events[0].PriceCents)
	assert.Equal(t, 500, events[1].AvailableSpots)

	stored, ok, err := kv.Get[[]model.Event](ctx, store, kv.KeyEvents)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, events, stored)
}

func TestEventCatalog_LoadsStoredCatalog(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, store, kv.KeyEvents, []model.Event{{ID: 7, Name: "Stored", AvailableSpots: 3}}))

	c := newTestCatalog(store)
	events, err := c.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Event{{ID: 7, Name: "Stored", AvailableSpots: 3}}, events)

	created, err := c.Create(ctx, model.Event{Name: "Next"})
	require.NoError(t, err)
	require.Equal(t, 8, created.ID, "new ids continue after the highest stored id")
}

func TestEventCatalog_CorruptStorageReseeds(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.Set(ctx, kv.KeyEvents, []byte(`{"not":"a list"}`)))

	events, err := newTestCatalog(store).List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
}

func TestEventCatalog_SeedPersistFailure(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	store.failSet = true
	c := newTestCatalog(store)

	_, err := c.List(ctx)
	require.ErrorIs(t, err, errStorage)
	require.False(t, c.Loaded())

	store.failSet = false
	events, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
}

func TestEventCatalog_GetByID(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(kv.NewMemoryStore())

	e, err := c.GetByID(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Summer Music Festival", e.Name)

	_, err = c.GetByID(ctx, 99)
	require.ErrorIs(t, err, model.ErrEventNotFound)
	var nf *model.EventNotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, 99, nf.ID)
}

func TestEventCatalog_GetByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := newTestCatalog(kv.NewMemoryStore())

	e, err := c.GetByID(ctx, 1)
	require.NoError(t, err)
	e.AvailableSpots = 0

	again, err := c.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 200, again.AvailableSpots)
}

func TestEventCatalog_CreateUpdateDelete(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	c := newTestCatalog(store)

	created, err := c.Create(ctx, model.Event{ID: 42, Name: "Meetup", AvailableSpots: 10})
	require.NoError(t, err)
	require.Equal(t, 4, created.ID, "caller supplied ids are ignored")

	updated, err := c.Update(ctx, created.ID, model.Event{ID: 1000, Name: "Go Meetup", AvailableSpots: 9, Category: "Tech"})
	require.NoError(t, err)
	require.Equal(t, 4, updated.ID)
	require.Equal(t, "Go Meetup", updated.Name)

	_, err = c.Update(ctx, 99, model.Event{})
	require.ErrorIs(t, err, model.ErrEventNotFound)

	require.NoError(t, c.Delete(ctx, 1))
	require.ErrorIs(t, c.Delete(ctx, 1), model.ErrEventNotFound)

	// A fresh catalog over the same storage sees every change.
	events, err := newTestCatalog(store).List(ctx)
	require.NoError(t, err)
	ids := make([]int, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	require.Equal(t, []int{2, 3, 4}, ids)
	require.Equal(t, "Go Meetup", events[2].Name)
}

func TestEventCatalog_Scenarios(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		scenario  Scenario
		wantLen   int
		wantSaved bool
	}{
		{ScenarioValid, 1, true},
		{ScenarioEmpty, 0, true},
		{ScenarioInvalid, 1, true},
		{ScenarioNull, 0, false},
		{ScenarioLarge, 10, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.scenario), func(t *testing.T) {
			store := kv.NewMemoryStore()
			c := newTestCatalog(store,
				WithSeeder(ScenarioSeeder{Scenario: tt.scenario}),
				WithKey(kv.KeyTestEvents),
				WithCatalogClock(func() time.Time { return now }),
			)
			events, err := c.List(ctx)
			require.NoError(t, err)
			require.Len(t, events, tt.wantLen)

			_, err = store.Get(ctx, kv.KeyTestEvents)
			if tt.wantSaved {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, kv.ErrNotFound)
			}
			_, err = store.Get(ctx, kv.KeyEvents)
			require.ErrorIs(t, err, kv.ErrNotFound, "test data must not touch the production key")
		})
	}
}

func TestEventCatalog_ResetDiscardsStoredData(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, store, kv.KeyTestEvents, []model.Event{{ID: 5, Name: "Stale"}}))

	c := newTestCatalog(store, WithKey(kv.KeyTestEvents), WithReset(), WithSeeder(ScenarioSeeder{Scenario: ScenarioValid}))
	events, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, "Test Conference", events[0].Name)
}

func TestEventCatalog_ResetNullLeavesStorageEmpty(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, kv.Set(ctx, store, kv.KeyTestEvents, []model.Event{{ID: 5}}))

	c := newTestCatalog(store, WithKey(kv.KeyTestEvents), WithReset(), WithSeeder(ScenarioSeeder{Scenario: ScenarioNull}))
	events, err := c.List(ctx)
	require.NoError(t, err)
	require.Empty(t, events)
	_, err = store.Get(ctx, kv.KeyTestEvents)
	require.ErrorIs(t, err, kv.ErrNotFound)

	created, err := c.Create(ctx, model.Event{Name: "First"})
	require.NoError(t, err)
	require.Equal(t, 1, created.ID)
}
