package service

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/gregroclawski/DataShatter/internal/domain"
)

// gachaRolls counts generator rolls by item kind and rolled rarity.
var gachaRolls = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gacha_rolls_total",
		Help: "Total number of item generator rolls by kind and rarity",
	},
	[]string{"kind", "rarity"},
)

// rarityWeight is one row of a weighted rarity table.
type rarityWeight struct {
	rarity string
	weight int
}

// statRange is an inclusive [min, max] roll range.
type statRange struct {
	min int
	max int
}

// Drop tables. Weights are per-hundred; stat ranges are inclusive.
var (
	shurikenRarities = []rarityWeight{
		{domain.RarityCommon, 50},
		{domain.RarityRare, 30},
		{domain.RarityEpic, 15},
		{domain.RarityLegendary, 5},
	}

	shurikenNames = map[string][]string{
		domain.RarityCommon:    {"Training Shuriken", "Iron Shuriken", "Basic Blade"},
		domain.RarityRare:      {"Silver Star", "Wind Cutter", "Shadow Blade"},
		domain.RarityEpic:      {"Dragon Fang", "Lightning Strike", "Void Piercer"},
		domain.RarityLegendary: {"Celestial Edge", "Demon Slayer", "God Killer"},
	}

	shurikenAttack = map[string]statRange{
		domain.RarityCommon:    {5, 15},
		domain.RarityRare:      {12, 25},
		domain.RarityEpic:      {20, 40},
		domain.RarityLegendary: {35, 60},
	}

	petRarities = []rarityWeight{
		{domain.RarityCommon, 45},
		{domain.RarityRare, 35},
		{domain.RarityEpic, 15},
		{domain.RarityLegendary, 5},
	}

	petTypes = []string{"Dragon", "Wolf", "Eagle", "Tiger", "Phoenix", "Shadow Cat", "Spirit Fox"}

	petStrength = map[string]statRange{
		domain.RarityCommon:    {8, 15},
		domain.RarityRare:      {12, 25},
		domain.RarityEpic:      {20, 35},
		domain.RarityLegendary: {30, 50},
	}

	petHappiness = statRange{40, 80}
)

// GachaService rolls random shurikens and pets from the drop tables. The
// results are not persisted here; the client folds them into its next game
// save.
type GachaService struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGachaService creates a gacha service. rng may be nil, in which case a
// randomly seeded source is used; tests pass a seeded one for reproducible
// rolls.
func NewGachaService(rng *rand.Rand) *GachaService {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &GachaService{rng: rng}
}

// GenerateShuriken rolls a new shuriken.
func (s *GachaService) GenerateShuriken() domain.Shuriken {
	s.mu.Lock()
	defer s.mu.Unlock()

	rarity := s.rollRarity(shurikenRarities)
	names := shurikenNames[rarity]

	sh := domain.Shuriken{
		ID:     uuid.NewString(),
		Name:   names[s.rng.IntN(len(names))],
		Rarity: rarity,
		Attack: s.rollRange(shurikenAttack[rarity]),
		Level:  1,
	}

	gachaRolls.WithLabelValues("shuriken", rarity).Inc()

	return sh
}

// GeneratePet rolls a new pet. Pets hatch at level 1, inactive, named after
// their rarity and type.
func (s *GachaService) GeneratePet() domain.Pet {
	s.mu.Lock()
	defer s.mu.Unlock()

	rarity := s.rollRarity(petRarities)
	petType := petTypes[s.rng.IntN(len(petTypes))]

	pet := domain.Pet{
		ID:        uuid.NewString(),
		Name:      capitalize(rarity) + " " + petType,
		Type:      petType,
		Level:     1,
		Happiness: s.rollRange(petHappiness),
		Strength:  s.rollRange(petStrength[rarity]),
		Rarity:    rarity,
	}

	gachaRolls.WithLabelValues("pet", rarity).Inc()

	return pet
}

// rollRarity draws one rarity from a weighted table.
func (s *GachaService) rollRarity(table []rarityWeight) string {
	total := 0
	for _, row := range table {
		total += row.weight
	}

	roll := s.rng.IntN(total)
	for _, row := range table {
		roll -= row.weight
		if roll < 0 {
			return row.rarity
		}
	}

	return table[len(table)-1].rarity
}

// rollRange returns a uniform value in the inclusive range.
func (s *GachaService) rollRange(r statRange) int {
	return r.min + s.rng.IntN(r.max-r.min+1)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
