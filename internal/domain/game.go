package domain

import (
	"encoding/json"
	"time"
)

// NinjaStats is the core character sheet of a player. Field names follow the
// mobile client's wire format (camelCase).
type NinjaStats struct {
	Level            int `json:"level"`
	Experience       int `json:"experience"`
	ExperienceToNext int `json:"experienceToNext"`
	Health           int `json:"health"`
	MaxHealth        int `json:"maxHealth"`
	Energy           int `json:"energy"`
	MaxEnergy        int `json:"maxEnergy"`
	Attack           int `json:"attack"`
	Defense          int `json:"defense"`
	Speed            int `json:"speed"`
	Luck             int `json:"luck"`
	Gold             int `json:"gold"`
	Gems             int `json:"gems"`
	SkillPoints      int `json:"skillPoints"`
}

// DefaultNinjaStats returns the stats a brand-new ninja starts with.
func DefaultNinjaStats() NinjaStats {
	return NinjaStats{
		Level:            1,
		Experience:       0,
		ExperienceToNext: 100,
		Health:           100,
		MaxHealth:        100,
		Energy:           50,
		MaxEnergy:        50,
		Attack:           10,
		Defense:          5,
		Speed:            8,
		Luck:             3,
		Gold:             100,
		Gems:             10,
		SkillPoints:      0,
	}
}

// UnmarshalJSON fills absent fields with the new-ninja defaults, so partial
// stat objects sent by older clients stay playable.
func (s *NinjaStats) UnmarshalJSON(data []byte) error {
	type alias NinjaStats
	stats := alias(DefaultNinjaStats())
	if err := json.Unmarshal(data, &stats); err != nil {
		return err
	}
	*s = NinjaStats(stats)
	return nil
}

// Shuriken is a throwable weapon in a player's inventory.
type Shuriken struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Rarity   string `json:"rarity"`
	Attack   int    `json:"attack"`
	Level    int    `json:"level"`
	Equipped bool   `json:"equipped"`
}

// UnmarshalJSON defaults Level to 1 when the client omits it.
func (s *Shuriken) UnmarshalJSON(data []byte) error {
	type alias Shuriken
	sh := alias{Level: 1}
	if err := json.Unmarshal(data, &sh); err != nil {
		return err
	}
	*s = Shuriken(sh)
	return nil
}

// Pet is a companion that fights alongside the ninja.
type Pet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Level      int    `json:"level"`
	Experience int    `json:"experience"`
	Happiness  int    `json:"happiness"`
	Strength   int    `json:"strength"`
	Active     bool   `json:"active"`
	Rarity     string `json:"rarity"`
}

// UnmarshalJSON fills absent pet fields with their hatchling defaults.
func (p *Pet) UnmarshalJSON(data []byte) error {
	type alias Pet
	pet := alias{
		Level:      1,
		Experience: 0,
		Happiness:  50,
		Strength:   10,
		Rarity:     RarityCommon,
	}
	if err := json.Unmarshal(data, &pet); err != nil {
		return err
	}
	*p = Pet(pet)
	return nil
}

// GameSave is the full persisted state of one player. There is at most one
// save per player; repeated saves overwrite it in place while the save ID is
// preserved.
type GameSave struct {
	ID               string     `json:"id"`
	PlayerID         string     `json:"playerId"`
	Ninja            NinjaStats `json:"ninja"`
	Shurikens        []Shuriken `json:"shurikens"`
	Pets             []Pet      `json:"pets"`
	Achievements     []string   `json:"achievements"`
	LastSaveTime     time.Time  `json:"lastSaveTime"`
	IsAlive          bool       `json:"isAlive"`
	UnlockedFeatures []string   `json:"unlockedFeatures"`
}

// DefaultUnlockedFeatures returns the feature set available from level 1.
func DefaultUnlockedFeatures() []string {
	return []string{"stats", "shurikens"}
}

// LeaderboardEntry is one row of the public top-players listing. Only
// non-sensitive progression fields are exposed.
type LeaderboardEntry struct {
	PlayerID     string    `json:"playerId"`
	Level        int       `json:"level"`
	Experience   int       `json:"experience"`
	Gold         int       `json:"gold"`
	LastSaveTime time.Time `json:"lastSaveTime"`
}
