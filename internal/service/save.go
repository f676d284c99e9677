package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gregroclawski/DataShatter/internal/domain"
	"github.com/gregroclawski/DataShatter/internal/event"
	"github.com/gregroclawski/DataShatter/internal/repository"
	apperrors "github.com/gregroclawski/DataShatter/pkg/errors"
)

// SaveService implements game save persistence. Each player owns exactly one
// save slot and can only touch their own.
type SaveService struct {
	saves    repository.GameSaveRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewSaveService creates a new save service.
func NewSaveService(saves repository.GameSaveRepository, producer *event.Producer, logger *slog.Logger) *SaveService {
	return &SaveService{
		saves:    saves,
		producer: producer,
		logger:   logger,
	}
}

// SaveGameInput holds a full client-submitted game state.
type SaveGameInput struct {
	PlayerID         string
	Ninja            domain.NinjaStats
	Shurikens        []domain.Shuriken
	Pets             []domain.Pet
	Achievements     []string
	UnlockedFeatures []string
}

// Save upserts the caller's save slot. The save timestamp and alive flag are
// set server-side on every save; inventory items missing an ID get one
// assigned. Saving on behalf of another player is rejected.
func (s *SaveService) Save(ctx context.Context, callerID string, input SaveGameInput) (*domain.GameSave, error) {
	if input.PlayerID != callerID {
		return nil, apperrors.Forbidden("Cannot save another player's game")
	}

	save := &domain.GameSave{
		ID:               uuid.New().String(),
		PlayerID:         input.PlayerID,
		Ninja:            input.Ninja,
		Shurikens:        input.Shurikens,
		Pets:             input.Pets,
		Achievements:     input.Achievements,
		LastSaveTime:     time.Now().UTC(),
		IsAlive:          true,
		UnlockedFeatures: input.UnlockedFeatures,
	}
	normalizeSave(save)

	// On overwrite the repository replaces the generated ID with the one
	// assigned at first save.
	if err := s.saves.Upsert(ctx, save); err != nil {
		return nil, fmt.Errorf("save game: %w", err)
	}

	if err := s.producer.PublishGameSaved(ctx, save); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish game.saved event",
			slog.String("player_id", save.PlayerID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "game saved",
		slog.String("player_id", save.PlayerID),
		slog.Int("level", save.Ninja.Level),
	)

	return save, nil
}

// Load returns the caller's save, or (nil, nil) when they have never saved.
// Loading another player's save is rejected.
func (s *SaveService) Load(ctx context.Context, callerID, playerID string) (*domain.GameSave, error) {
	if playerID != callerID {
		return nil, apperrors.Forbidden("Cannot load another player's game")
	}

	save, err := s.saves.GetByPlayerID(ctx, playerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load game: %w", err)
	}

	return save, nil
}

// normalizeSave fills nil collections with their defaults and assigns IDs to
// inventory items that arrived without one, so stored documents always carry
// arrays and addressable items.
func normalizeSave(save *domain.GameSave) {
	if save.Shurikens == nil {
		save.Shurikens = []domain.Shuriken{}
	}
	if save.Pets == nil {
		save.Pets = []domain.Pet{}
	}
	if save.Achievements == nil {
		save.Achievements = []string{}
	}
	if save.UnlockedFeatures == nil {
		save.UnlockedFeatures = domain.DefaultUnlockedFeatures()
	}

	for i := range save.Shurikens {
		if save.Shurikens[i].ID == "" {
			save.Shurikens[i].ID = uuid.New().String()
		}
	}
	for i := range save.Pets {
		if save.Pets[i].ID == "" {
			save.Pets[i].ID = uuid.New().String()
		}
	}
}
