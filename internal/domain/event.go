package domain

// Game event type constants.
const (
	EventTypeDaily   = "daily"
	EventTypeWeekend = "weekend"
)

// GameEvent describes a limited-time event or offer shown in the client's
// event screen. Rewards and Multiplier are mutually optional: login-style
// events grant flat rewards, boost-style events carry a multiplier.
type GameEvent struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Type        string         `json:"type"`
	Rewards     map[string]int `json:"rewards,omitempty"`
	Multiplier  float64        `json:"multiplier,omitempty"`
	Active      bool           `json:"active"`
}
