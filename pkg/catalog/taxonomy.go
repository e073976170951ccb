package catalog

import (
	"github.com/agnivade/levenshtein"

	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
)

// MuscleMapping ties a canonical exercise to the muscle group it mostly
// trains.
type MuscleMapping struct {
	CanonicalName string
	Primary       string
	Aliases       []string
}

// MuscleLookup is the result of InferMuscleGroup.
type MuscleLookup struct {
	Matched       bool
	CanonicalName string
	Primary       string
	Confidence    float64 // 0.0-1.0 match confidence
}

// minFuzzyConfidence is the similarity a fuzzy match needs to be trusted.
const minFuzzyConfidence = 0.90

// MuscleTaxonomy holds the common strength exercises used to infer muscle
// groups for catalogs that do not carry them.
var MuscleTaxonomy = []MuscleMapping{
	// Chest
	{CanonicalName: "Bench Press", Primary: "chest", Aliases: []string{"Flat Bench", "Barbell Bench Press", "Flat Bench Press", "Chest Press"}},
	{CanonicalName: "Incline Bench Press", Primary: "chest", Aliases: []string{"Incline Press", "Incline Barbell Press"}},
	{CanonicalName: "Dumbbell Bench Press", Primary: "chest", Aliases: []string{"Dumbbell Press", "Dumbbell Chest Press"}},
	{CanonicalName: "Chest Fly", Primary: "chest", Aliases: []string{"Dumbbell Fly", "Pec Fly", "Cable Fly", "Pec Deck"}},
	{CanonicalName: "Push Up", Primary: "chest", Aliases: []string{"Pushup", "Press Up"}},
	{CanonicalName: "Dip", Primary: "chest", Aliases: []string{"Chest Dip", "Parallel Bar Dip"}},

	// Back
	{CanonicalName: "Pull Up", Primary: "lats", Aliases: []string{"Pullup", "Chin Up", "Chinup"}},
	{CanonicalName: "Lat Pulldown", Primary: "lats", Aliases: []string{"Lateral Pulldown", "Pulldown", "Cable Pulldown"}},
	{CanonicalName: "Barbell Row", Primary: "middle_back", Aliases: []string{"Bent Over Row", "Pendlay Row", "Barbell Bent Over Row"}},
	{CanonicalName: "Dumbbell Row", Primary: "middle_back", Aliases: []string{"One Arm Row", "Single Arm Dumbbell Row"}},
	{CanonicalName: "Seated Cable Row", Primary: "middle_back", Aliases: []string{"Cable Row", "Seated Row"}},
	{CanonicalName: "Deadlift", Primary: "lower_back", Aliases: []string{"Conventional Deadlift", "Barbell Deadlift"}},
	{CanonicalName: "Romanian Deadlift", Primary: "hamstrings", Aliases: []string{"Stiff Leg Deadlift", "RDL"}},

	// Shoulders
	{CanonicalName: "Overhead Press", Primary: "shoulders", Aliases: []string{"Military Press", "Shoulder Press", "OHP", "Barbell Overhead Press"}},
	{CanonicalName: "Lateral Raise", Primary: "shoulders", Aliases: []string{"Side Raise", "Dumbbell Lateral Raise", "Lat Raise"}},
	{CanonicalName: "Face Pull", Primary: "shoulders", Aliases: []string{"Cable Face Pull", "Rope Face Pull"}},
	{CanonicalName: "Shrug", Primary: "traps", Aliases: []string{"Barbell Shrug", "Dumbbell Shrug"}},

	// Arms
	{CanonicalName: "Bicep Curl", Primary: "biceps", Aliases: []string{"Biceps Curl", "Dumbbell Curl", "Barbell Curl", "Curl"}},
	{CanonicalName: "Hammer Curl", Primary: "biceps", Aliases: []string{"Dumbbell Hammer Curl", "Neutral Grip Curl"}},
	{CanonicalName: "Tricep Pushdown", Primary: "triceps", Aliases: []string{"Triceps Pushdown", "Cable Pushdown", "Rope Pushdown"}},
	{CanonicalName: "Skull Crusher", Primary: "triceps", Aliases: []string{"Lying Tricep Extension", "EZ Bar Skull Crusher"}},
	{CanonicalName: "Overhead Tricep Extension", Primary: "triceps", Aliases: []string{"Tricep Extension", "Triceps Extension"}},

	// Legs
	{CanonicalName: "Squat", Primary: "quadriceps", Aliases: []string{"Back Squat", "Barbell Squat", "Barbell Back Squat"}},
	{CanonicalName: "Front Squat", Primary: "quadriceps", Aliases: []string{"Barbell Front Squat"}},
	{CanonicalName: "Goblet Squat", Primary: "quadriceps", Aliases: []string{"Kettlebell Goblet Squat", "Dumbbell Goblet Squat"}},
	{CanonicalName: "Leg Press", Primary: "quadriceps", Aliases: []string{"Machine Leg Press", "Sled Leg Press"}},
	{CanonicalName: "Lunge", Primary: "quadriceps", Aliases: []string{"Walking Lunge", "Reverse Lunge", "Split Squat"}},
	{CanonicalName: "Leg Extension", Primary: "quadriceps", Aliases: []string{"Machine Leg Extension"}},
	{CanonicalName: "Leg Curl", Primary: "hamstrings", Aliases: []string{"Lying Leg Curl", "Seated Leg Curl", "Hamstring Curl"}},
	{CanonicalName: "Hip Thrust", Primary: "glutes", Aliases: []string{"Barbell Hip Thrust", "Glute Bridge"}},
	{CanonicalName: "Calf Raise", Primary: "calves", Aliases: []string{"Standing Calf Raise", "Seated Calf Raise"}},

	// Core
	{CanonicalName: "Plank", Primary: "abdominals", Aliases: []string{"Front Plank", "Forearm Plank"}},
	{CanonicalName: "Crunch", Primary: "abdominals", Aliases: []string{"Ab Crunch", "Sit Up", "Situp"}},
	{CanonicalName: "Hanging Leg Raise", Primary: "abdominals", Aliases: []string{"Leg Raise", "Hanging Knee Raise"}},
	{CanonicalName: "Russian Twist", Primary: "obliques", Aliases: []string{"Seated Twist"}},
	{CanonicalName: "Kettlebell Swing", Primary: "glutes", Aliases: []string{"KB Swing", "Swing"}},
}

// Taxonomy infers muscle groups from exercise names.
type Taxonomy struct {
	normalizer *dedupe.Normalizer
	exact      map[string]*MuscleMapping
	names      []taxonomyName
}

type taxonomyName struct {
	normalized string
	mapping    *MuscleMapping
}

// NewTaxonomy indexes mappings under the default abbreviation table.
func NewTaxonomy(mappings []MuscleMapping) *Taxonomy {
	t := &Taxonomy{
		normalizer: dedupe.NewNormalizer(dedupe.DefaultAbbreviations(), true),
		exact:      make(map[string]*MuscleMapping),
	}
	for i := range mappings {
		ex := &mappings[i]
		for _, name := range append([]string{ex.CanonicalName}, ex.Aliases...) {
			n := t.normalizer.Normalize(name)
			// First mapping wins so canonical names beat later aliases
			if _, ok := t.exact[n]; !ok {
				t.exact[n] = ex
			}
			t.names = append(t.names, taxonomyName{normalized: n, mapping: ex})
		}
	}
	return t
}

var defaultTaxonomy = NewTaxonomy(MuscleTaxonomy)

// InferMuscleGroup looks name up in the built-in taxonomy.
func InferMuscleGroup(name string) MuscleLookup {
	return defaultTaxonomy.Lookup(name)
}

// Lookup matches name exactly (after normalization), then falls back to
// the closest canonical name or alias by edit-distance similarity.
func (t *Taxonomy) Lookup(name string) MuscleLookup {
	normalized := t.normalizer.Normalize(name)
	if normalized == "" {
		return MuscleLookup{}
	}

	if ex, ok := t.exact[normalized]; ok {
		return lookupResult(ex, 1.0)
	}

	var best *MuscleMapping
	var bestScore float64
	for _, n := range t.names {
		if score := similarity(normalized, n.normalized); score > bestScore {
			bestScore = score
			best = n.mapping
		}
	}
	if best != nil && bestScore >= minFuzzyConfidence {
		return lookupResult(best, bestScore)
	}
	return MuscleLookup{}
}

func lookupResult(ex *MuscleMapping, confidence float64) MuscleLookup {
	return MuscleLookup{
		Matched:       true,
		CanonicalName: ex.CanonicalName,
		Primary:       ex.Primary,
		Confidence:    confidence,
	}
}

// similarity is 1 - distance/len(longer), over runes.
func similarity(a, b string) float64 {
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
}
