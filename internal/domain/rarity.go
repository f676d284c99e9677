package domain

// Rarity constants shared by shurikens and pets.
const (
	RarityCommon    = "common"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// ValidRarities returns the rarity tiers in ascending order of value.
func ValidRarities() []string {
	return []string{RarityCommon, RarityRare, RarityEpic, RarityLegendary}
}

// IsValidRarity checks whether the given rarity string is a known tier.
func IsValidRarity(rarity string) bool {
	for _, r := range ValidRarities() {
		if r == rarity {
			return true
		}
	}
	return false
}
