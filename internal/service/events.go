package service

import "github.com/gregroclawski/DataShatter/internal/domain"

// EventService serves the in-game event calendar. The calendar is static for
// now; the client decides presentation from the active flag.
type EventService struct{}

// NewEventService creates an event service.
func NewEventService() *EventService {
	return &EventService{}
}

// List returns every known event, active or not.
func (s *EventService) List() []domain.GameEvent {
	return []domain.GameEvent{
		{
			ID:          "daily_reward",
			Title:       "Daily Login Bonus",
			Description: "Get 50 gold and 5 gems for logging in daily!",
			Type:        domain.EventTypeDaily,
			Rewards:     map[string]int{"gold": 50, "gems": 5},
			Active:      true,
		},
		{
			ID:          "weekend_double_xp",
			Title:       "Weekend XP Boost",
			Description: "Double experience from all activities!",
			Type:        domain.EventTypeWeekend,
			Multiplier:  2.0,
			Active:      false,
		},
	}
}
