package repository

import (
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/eventease/internal/model"
)

// Seeder supplies the initial catalog when storage holds none.
// persist is false when the catalog should stay empty and unwritten.
type Seeder interface {
	Seed(now time.Time) (events []model.Event, persist bool)
}

// DefaultSeeder produces the fixed production catalog.
type DefaultSeeder struct{}

func (DefaultSeeder) Seed(time.Time) ([]model.Event, bool) {
	return []model.Event{
		{
			ID:             1,
			Name:           "Tech Conference 2024",
			Date:           time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
			Location:       "Convention Center",
			Description:    "Annual technology conference featuring the latest innovations",
			PriceCents:     29999,
			AvailableSpots: 200,
			Category:       "Conference",
		},
		{
			ID:             2,
			Name:           "Summer Music Festival",
			Date:           time.Date(2024, 7, 20, 0, 0, 0, 0, time.UTC),
			Location:       "Central Park",
			Description:    "Three days of live music and entertainment",
			PriceCents:     14999,
			AvailableSpots: 500,
			Category:       "Social",
		},
		{
			ID:             3,
			Name:           "Business Networking Dinner",
			Date:           time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC),
			Location:       "Grand Hotel",
			Description:    "Networking event for business professionals",
			PriceCents:     7999,
			AvailableSpots: 100,
			Category:       "Networking",
		},
	}, true
}

// Scenario names a canned test dataset.
type Scenario string

const (
	ScenarioValid   Scenario = "valid"
	ScenarioEmpty   Scenario = "empty"
	ScenarioInvalid Scenario = "invalid"
	ScenarioNull    Scenario = "null"
	ScenarioLarge   Scenario = "large"
)

// largeDatasetSize is the number of events in ScenarioLarge.
const largeDatasetSize = 10

// ScenarioSeeder generates test datasets relative to the seeding day.
type ScenarioSeeder struct {
	Scenario Scenario
}

// SeederFor maps a SEED_SCENARIO value to a strategy. "default" and "" give
// the production catalog.
func SeederFor(name string) (Seeder, error) {
	switch Scenario(name) {
	case "", "default":
		return DefaultSeeder{}, nil
	case ScenarioValid, ScenarioEmpty, ScenarioInvalid, ScenarioNull, ScenarioLarge:
		return ScenarioSeeder{Scenario: Scenario(name)}, nil
	}
	return nil, fmt.Errorf("unknown seed scenario %q", name)
}

func (s ScenarioSeeder) Seed(now time.Time) ([]model.Event, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch s.Scenario {
	case ScenarioValid:
		return []model.Event{{
			ID:             1,
			Name:           "Test Conference",
			Date:           today.AddDate(0, 0, 30),
			Location:       "Test Center",
			Description:    "A test conference",
			PriceCents:     9999,
			AvailableSpots: 100,
			Category:       "Test",
		}}, true
	case ScenarioEmpty:
		return []model.Event{}, true
	case ScenarioInvalid:
		// Deliberately violates the event validation rules.
		return []model.Event{{
			ID:             1,
			Description:    "Test description",
			PriceCents:     -1000,
			AvailableSpots: 0,
		}}, true
	case ScenarioLarge:
		events := make([]model.Event, 0, largeDatasetSize)
		for i := 1; i <= largeDatasetSize; i++ {
			events = append(events, model.Event{
				ID:             i,
				Name:           fmt.Sprintf("Test Event %d", i),
				Date:           today.AddDate(0, 0, i),
				Location:       fmt.Sprintf("Location %d", i),
				Description:    fmt.Sprintf("Description for test event %d", i),
				PriceCents:     int64(5000 + i*100),
				AvailableSpots: 100 + i,
				Category:       "Test",
			})
		}
		return events, true
	default:
		return nil, false
	}
}
