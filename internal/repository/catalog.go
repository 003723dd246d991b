package repository

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/Shivanand-hulikatti/eventease/internal/kv"
	"github.com/Shivanand-hulikatti/eventease/internal/model"
)

// EventCatalog owns the authoritative event list and assigns event ids.
// It is not safe for concurrent use.
type EventCatalog struct {
	store  kv.Store
	seeder Seeder
	key    string
	reset  bool
	logger *slog.Logger
	now    func() time.Time

	state  loadState
	events []model.Event
	nextID int
}

// CatalogOption configures an EventCatalog.
type CatalogOption func(*EventCatalog)

// WithSeeder replaces the default seeding strategy.
func WithSeeder(s Seeder) CatalogOption {
	return func(c *EventCatalog) { c.seeder = s }
}

// WithKey stores the catalog under key instead of kv.KeyEvents.
func WithKey(key string) CatalogOption {
	return func(c *EventCatalog) { c.key = key }
}

// WithReset discards any stored catalog on load and always reseeds.
func WithReset() CatalogOption {
	return func(c *EventCatalog) { c.reset = true }
}

// WithCatalogLogger sets the logger.
func WithCatalogLogger(l *slog.Logger) CatalogOption {
	return func(c *EventCatalog) { c.logger = l }
}

// WithCatalogClock overrides time.Now for seeding.
func WithCatalogClock(now func() time.Time) CatalogOption {
	return func(c *EventCatalog) { c.now = now }
}

// NewEventCatalog constructs an EventCatalog backed by store.
func NewEventCatalog(store kv.Store, opts ...CatalogOption) *EventCatalog {
	c := &EventCatalog{
		store:  store,
		seeder: DefaultSeeder{},
		key:    kv.KeyEvents,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Loaded reports whether the catalog has been read from storage.
func (c *EventCatalog) Loaded() bool {
	return c.state == stateLoaded
}

func (c *EventCatalog) ensureLoaded(ctx context.Context) error {
	if c.state == stateLoaded {
		return nil
	}

	if c.reset {
		if err := c.store.Remove(ctx, c.key); err != nil {
			return fmt.Errorf("reset catalog: %w", err)
		}
	} else {
		events, ok, err := kv.Get[[]model.Event](ctx, c.store, c.key)
		switch {
		case err != nil:
			// Unreadable catalogs are reseeded rather than surfaced.
			c.logger.WarnContext(ctx, "stored catalog unreadable, reseeding",
				slog.String("key", c.key), slog.String("error", err.Error()))
		case ok && events != nil:
			c.setEvents(events)
			return nil
		}
	}

	events, persist := c.seeder.Seed(c.now())
	if persist {
		if events == nil {
			events = []model.Event{}
		}
		if err := kv.Set(ctx, c.store, c.key, events); err != nil {
			return fmt.Errorf("persist seeded catalog: %w", err)
		}
	}
	c.setEvents(events)
	c.logger.DebugContext(ctx, "catalog seeded", slog.Int("events", len(events)), slog.Bool("persisted", persist))
	return nil
}

func (c *EventCatalog) setEvents(events []model.Event) {
	c.events = events
	c.nextID = 1
	for _, e := range events {
		if e.ID >= c.nextID {
			c.nextID = e.ID + 1
		}
	}
	c.state = stateLoaded
}

func (c *EventCatalog) save(ctx context.Context) error {
	events := c.events
	if events == nil {
		events = []model.Event{}
	}
	if err := kv.Set(ctx, c.store, c.key, events); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

func (c *EventCatalog) indexOf(id int) int {
	return slices.IndexFunc(c.events, func(e model.Event) bool { return e.ID == id })
}

// List returns a copy of every event in catalog order.
func (c *EventCatalog) List(ctx context.Context) ([]model.Event, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(c.events), nil
}

// GetByID returns a copy of the event, or *model.EventNotFoundError.
func (c *EventCatalog) GetByID(ctx context.Context, id int) (*model.Event, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	i := c.indexOf(id)
	if i < 0 {
		return nil, &model.EventNotFoundError{ID: id}
	}
	e := c.events[i]
	return &e, nil
}

// Create assigns the next id to event, appends it and persists the catalog.
func (c *EventCatalog) Create(ctx context.Context, event model.Event) (*model.Event, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	event.ID = c.nextID
	c.nextID++
	c.events = append(c.events, event)
	if err := c.save(ctx); err != nil {
		return nil, err
	}
	return &event, nil
}

// Update overwrites every field of the stored event except its id.
func (c *EventCatalog) Update(ctx context.Context, id int, event model.Event) (*model.Event, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	i := c.indexOf(id)
	if i < 0 {
		return nil, &model.EventNotFoundError{ID: id}
	}
	event.ID = id
	c.events[i] = event
	if err := c.save(ctx); err != nil {
		return nil, err
	}
	return &event, nil
}

// Delete removes the event and persists the catalog.
func (c *EventCatalog) Delete(ctx context.Context, id int) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	i := c.indexOf(id)
	if i < 0 {
		return &model.EventNotFoundError{ID: id}
	}
	c.events = slices.Delete(c.events, i, i+1)
	return c.save(ctx)
}
