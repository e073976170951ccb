package dedupe

import (
	"slices"
	"strings"
)

// CatalogRecord is one exercise definition. ID must be a positive integer.
type CatalogRecord struct {
	ID                 int      `json:"id" firestore:"id" validate:"gt=0"`
	Slug               string   `json:"slug" firestore:"slug"`
	Name               string   `json:"name" firestore:"name" validate:"notblank"`
	Category           string   `json:"category" firestore:"category"`
	PrimaryMuscleGroup string   `json:"primaryMuscleGroup" firestore:"primary_muscle_group"`
	Equipment          []string `json:"equipment" firestore:"equipment"`
	Description        string   `json:"description,omitempty" firestore:"description"`
}

// BlockKey groups records that are allowed to be compared.
type BlockKey struct {
	PrimaryMuscleGroup string
	Category           string
}

func (k BlockKey) String() string {
	return k.PrimaryMuscleGroup + "/" + k.Category
}

// Key returns the record's block key.
func (r CatalogRecord) Key() BlockKey {
	return BlockKey{PrimaryMuscleGroup: r.PrimaryMuscleGroup, Category: r.Category}
}

// equipmentSet returns the distinct, lowercased, trimmed equipment entries
// in sorted order. Blank entries are dropped.
func equipmentSet(equipment []string) []string {
	set := make([]string, 0, len(equipment))
	for _, e := range equipment {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		set = append(set, e)
	}
	slices.Sort(set)
	return slices.Compact(set)
}

// sameEquipment compares two equipment lists as sets.
func sameEquipment(a, b []string) bool {
	return slices.Equal(equipmentSet(a), equipmentSet(b))
}
