package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gregroclawski/DataShatter/internal/domain"
	pkgkafka "github.com/gregroclawski/DataShatter/pkg/kafka"
)

// Kafka topics for player and game domain events.
var (
	TopicPlayerRegistered = pkgkafka.Topic("player", "registered")
	TopicPlayerLoggedIn   = pkgkafka.Topic("player", "logged_in")
	TopicGameSaved        = pkgkafka.Topic("game", "saved")
)

// Aggregate type constants.
const (
	AggregateTypePlayer   = "player"
	AggregateTypeGameSave = "game_save"
)

// Source identifier for events originating from this API.
const SourceAPI = "ninja-master-api"

// PlayerRegisteredData is the payload for a player.registered event.
type PlayerRegisteredData struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Provider string `json:"provider"`
}

// PlayerLoggedInData is the payload for a player.logged_in event.
type PlayerLoggedInData struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

// GameSavedData is the payload for a game.saved event. Carries the
// progression numbers downstream consumers care about, not the full save.
type GameSavedData struct {
	PlayerID   string `json:"player_id"`
	SaveID     string `json:"save_id"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
	Gold       int    `json:"gold"`
	IsAlive    bool   `json:"is_alive"`
}

// Producer publishes player and game domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishPlayerRegistered publishes a player.registered event.
func (p *Producer) PublishPlayerRegistered(ctx context.Context, user *domain.User) error {
	data := PlayerRegisteredData{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Provider: user.Provider,
	}

	event, err := pkgkafka.NewEvent(TopicPlayerRegistered, user.ID, AggregateTypePlayer, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create player.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPlayerRegistered, event); err != nil {
		return fmt.Errorf("publish player.registered event: %w", err)
	}

	return nil
}

// PublishPlayerLoggedIn publishes a player.logged_in event.
func (p *Producer) PublishPlayerLoggedIn(ctx context.Context, user *domain.User) error {
	data := PlayerLoggedInData{
		ID:       user.ID,
		Email:    user.Email,
		Provider: user.Provider,
	}

	event, err := pkgkafka.NewEvent(TopicPlayerLoggedIn, user.ID, AggregateTypePlayer, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create player.logged_in event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPlayerLoggedIn, event); err != nil {
		return fmt.Errorf("publish player.logged_in event: %w", err)
	}

	return nil
}

// PublishGameSaved publishes a game.saved event.
func (p *Producer) PublishGameSaved(ctx context.Context, save *domain.GameSave) error {
	data := GameSavedData{
		PlayerID:   save.PlayerID,
		SaveID:     save.ID,
		Level:      save.Ninja.Level,
		Experience: save.Ninja.Experience,
		Gold:       save.Ninja.Gold,
		IsAlive:    save.IsAlive,
	}

	event, err := pkgkafka.NewEvent(TopicGameSaved, save.PlayerID, AggregateTypeGameSave, SourceAPI, data)
	if err != nil {
		return fmt.Errorf("create game.saved event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicGameSaved, event); err != nil {
		return fmt.Errorf("publish game.saved event: %w", err)
	}

	return nil
}
