package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gregroclawski/DataShatter/internal/domain"
	"github.com/gregroclawski/DataShatter/pkg/database"
	apperrors "github.com/gregroclawski/DataShatter/pkg/errors"
)

// GameSaveRepository implements repository.GameSaveRepository using
// PostgreSQL. Nested game state (ninja stats, inventories) lives in JSONB
// columns; level, experience and gold are denormalized into plain columns so
// the leaderboard can sort without unpacking documents.
type GameSaveRepository struct {
	pool database.DBTX
}

// NewGameSaveRepository creates a new PostgreSQL-backed game save repository.
func NewGameSaveRepository(pool database.DBTX) *GameSaveRepository {
	return &GameSaveRepository{pool: pool}
}

// Upsert creates or replaces a player's save slot. player_id carries the
// uniqueness; on conflict every column except id is replaced, so the save ID
// assigned at first save survives later overwrites. The authoritative id is
// written back to save.ID.
func (r *GameSaveRepository) Upsert(ctx context.Context, save *domain.GameSave) error {
	ninjaJSON, err := json.Marshal(save.Ninja)
	if err != nil {
		return fmt.Errorf("marshal ninja stats: %w", err)
	}
	shurikensJSON, err := json.Marshal(save.Shurikens)
	if err != nil {
		return fmt.Errorf("marshal shurikens: %w", err)
	}
	petsJSON, err := json.Marshal(save.Pets)
	if err != nil {
		return fmt.Errorf("marshal pets: %w", err)
	}
	achievementsJSON, err := json.Marshal(save.Achievements)
	if err != nil {
		return fmt.Errorf("marshal achievements: %w", err)
	}
	featuresJSON, err := json.Marshal(save.UnlockedFeatures)
	if err != nil {
		return fmt.Errorf("marshal unlocked features: %w", err)
	}

	query := `
		INSERT INTO game_saves (id, player_id, ninja, shurikens, pets, achievements, unlocked_features, is_alive, level, experience, gold, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (player_id) DO UPDATE SET
			ninja = EXCLUDED.ninja,
			shurikens = EXCLUDED.shurikens,
			pets = EXCLUDED.pets,
			achievements = EXCLUDED.achievements,
			unlocked_features = EXCLUDED.unlocked_features,
			is_alive = EXCLUDED.is_alive,
			level = EXCLUDED.level,
			experience = EXCLUDED.experience,
			gold = EXCLUDED.gold,
			saved_at = EXCLUDED.saved_at
		RETURNING id`

	var storedID string
	err = r.pool.QueryRow(ctx, query,
		save.ID,
		save.PlayerID,
		ninjaJSON,
		shurikensJSON,
		petsJSON,
		achievementsJSON,
		featuresJSON,
		save.IsAlive,
		save.Ninja.Level,
		save.Ninja.Experience,
		save.Ninja.Gold,
		save.LastSaveTime,
	).Scan(&storedID)
	if err != nil {
		return fmt.Errorf("upsert game save: %w", err)
	}

	save.ID = storedID
	return nil
}

// GetByPlayerID retrieves a player's save.
func (r *GameSaveRepository) GetByPlayerID(ctx context.Context, playerID string) (*domain.GameSave, error) {
	query := `
		SELECT id, player_id, ninja, shurikens, pets, achievements, unlocked_features, is_alive, saved_at
		FROM game_saves
		WHERE player_id = $1`

	var save domain.GameSave
	var ninjaJSON, shurikensJSON, petsJSON, achievementsJSON, featuresJSON []byte

	err := r.pool.QueryRow(ctx, query, playerID).Scan(
		&save.ID,
		&save.PlayerID,
		&ninjaJSON,
		&shurikensJSON,
		&petsJSON,
		&achievementsJSON,
		&featuresJSON,
		&save.IsAlive,
		&save.LastSaveTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan game save: %w", err)
	}

	if err := json.Unmarshal(ninjaJSON, &save.Ninja); err != nil {
		return nil, fmt.Errorf("unmarshal ninja stats: %w", err)
	}
	if err := json.Unmarshal(shurikensJSON, &save.Shurikens); err != nil {
		return nil, fmt.Errorf("unmarshal shurikens: %w", err)
	}
	if err := json.Unmarshal(petsJSON, &save.Pets); err != nil {
		return nil, fmt.Errorf("unmarshal pets: %w", err)
	}
	if err := json.Unmarshal(achievementsJSON, &save.Achievements); err != nil {
		return nil, fmt.Errorf("unmarshal achievements: %w", err)
	}
	if err := json.Unmarshal(featuresJSON, &save.UnlockedFeatures); err != nil {
		return nil, fmt.Errorf("unmarshal unlocked features: %w", err)
	}

	return &save, nil
}

// TopByLevel returns up to limit leaderboard entries ordered by level, then
// experience, both descending.
func (r *GameSaveRepository) TopByLevel(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	query := `
		SELECT player_id, level, experience, gold, saved_at
		FROM game_saves
		ORDER BY level DESC, experience DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.Level, &e.Experience, &e.Gold, &e.LastSaveTime); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}

	return entries, nil
}
