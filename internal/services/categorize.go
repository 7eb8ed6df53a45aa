package services

import (
	"regexp"
	"strings"

	"github.com/skywardclean/ordering-backend/internal/types"
)

// Keyword heuristics for uncategorized catalog entries. Equipment wins over
// consumables wins over supply; anything unmatched is a supply. Advisory
// only: a category already stored on an item is never overwritten by
// re-classification.
var (
	equipmentKeywords   = regexp.MustCompile(`vacuum|machine|auto\s?-?scrubber|burnisher|buffer|extractor|polisher|propane|battery|dispenser|bucket|cart|handle|frame`)
	consumableKeywords  = regexp.MustCompile(`towel|tissue|toilet|bath|liner|bag|soap|sanitiz|wipe|napkin|roll|pad|refill|chemical|degreaser|glass|cleaner|disinfect|urinal|odor|fragrance|can liner|trash bag`)
	supplyKeywords      = regexp.MustCompile(`mop|broom|brush|duster|dust\s?pan|dustpan|squeegee|spray\s?bottle|bottle\b|caddy|holder|sign|wet\s?floor|cone\b|gloves?|goggles?|mask\b|scraper|sponges?|mitt|microfiber|cloth|rag|handle\b|frame\b|pad\s?holder|bucket\b|cart\b|wringer`)
)

// Categorize classifies an item by its name and sku. Pure function, no I/O;
// callers decide whether to persist the result.
func Categorize(name, sku string) types.Category {
	text := strings.ToLower(name + " " + sku)
	switch {
	case equipmentKeywords.MatchString(text):
		return types.CategoryEquipment
	case consumableKeywords.MatchString(text):
		return types.CategoryConsumables
	case supplyKeywords.MatchString(text):
		return types.CategorySupply
	default:
		return types.CategorySupply
	}
}
