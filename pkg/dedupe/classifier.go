package dedupe

import (
	"fmt"
	"slices"
	"strings"
)

// Classifier runs the heuristic battery over a candidate pair.
// It holds no per-pair state and is safe for concurrent use.
type Classifier struct {
	cfg        Config
	normalizer *Normalizer
}

// NewClassifier validates cfg and binds it.
func NewClassifier(cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{
		cfg:        cfg,
		normalizer: NewNormalizer(cfg.Abbreviations, cfg.FoldAccents),
	}, nil
}

// Normalizer exposes the bound normalizer.
func (c *Classifier) Normalizer() *Normalizer {
	return c.normalizer
}

// candidate caches the derived views of one record for a single comparison.
type candidate struct {
	rec        *CatalogRecord
	normalized string
	tokens     map[string]struct{}
}

func (c *Classifier) prepare(rec *CatalogRecord) candidate {
	n := c.normalizer.Normalize(rec.Name)
	return candidate{rec: rec, normalized: n, tokens: Tokens(n)}
}

// Classify evaluates every heuristic and returns all that fire, in
// evaluation order.
func (c *Classifier) Classify(a, b CatalogRecord) []MatchFinding {
	return c.classify(c.prepare(&a), c.prepare(&b))
}

func (c *Classifier) classify(a, b candidate) []MatchFinding {
	// Details name the lower id first whatever the call order.
	if b.rec.ID < a.rec.ID {
		a, b = b, a
	}

	var findings []MatchFinding
	add := func(f MatchFinding, ok bool) {
		if ok {
			findings = append(findings, f)
		}
	}

	exact, ok := c.exactName(a, b)
	add(exact, ok)
	add(c.exactNormalized(a, b, ok))
	add(c.substringContainment(a, b))
	add(c.redundantEquipment(a, b))
	add(c.fuzzyEditDistance(a, b))
	add(c.attributeMatch(a, b))
	add(c.wordSalad(a, b))

	return findings
}

func (c *Classifier) exactName(a, b candidate) (MatchFinding, bool) {
	if !strings.EqualFold(a.rec.Name, b.rec.Name) {
		return MatchFinding{}, false
	}
	f := newFinding(a.rec.ID, b.rec.ID, ExactName)
	f.Detail = fmt.Sprintf("names match ignoring case: %q", a.rec.Name)
	return f, true
}

// exactNormalized only fires when the raw names differ; otherwise it would
// repeat the ExactName signal.
func (c *Classifier) exactNormalized(a, b candidate, exactFired bool) (MatchFinding, bool) {
	if exactFired || a.normalized == "" || a.normalized != b.normalized {
		return MatchFinding{}, false
	}
	f := newFinding(a.rec.ID, b.rec.ID, ExactNormalized)
	f.Detail = fmt.Sprintf("normalized names match: %q", a.normalized)
	return f, true
}

// containment returns the shorter and longer normalized names when the
// shorter is a substring of the longer. Equal names contain each other.
func containment(a, b candidate) (shorter, longer string, ok bool) {
	shorter, longer = a.normalized, b.normalized
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if shorter == "" {
		return "", "", false
	}
	if !strings.Contains(longer, shorter) {
		return "", "", false
	}
	return shorter, longer, true
}

func (c *Classifier) substringContainment(a, b candidate) (MatchFinding, bool) {
	shorter, longer, ok := containment(a, b)
	if !ok {
		return MatchFinding{}, false
	}
	if len(shorter) <= c.cfg.MinContainmentLength {
		return MatchFinding{}, false
	}
	ratio := float64(len(shorter)) / float64(len(longer))
	if ratio <= c.cfg.ContainmentRatio {
		return MatchFinding{}, false
	}
	f := newFinding(a.rec.ID, b.rec.ID, SubstringContainment)
	f.Contained = shorter
	f.Similarity = ratio
	f.Detail = fmt.Sprintf("%q is contained in %q (length ratio %.2f)", shorter, longer, ratio)
	return f, true
}

// redundantEquipment flags names whose only extra words restate the
// equipment both records already list, e.g. "Barbell Squat" vs "Squat".
func (c *Classifier) redundantEquipment(a, b candidate) (MatchFinding, bool) {
	shorter, longer, ok := containment(a, b)
	if !ok {
		return MatchFinding{}, false
	}
	if !sameEquipment(a.rec.Equipment, b.rec.Equipment) {
		return MatchFinding{}, false
	}

	extra := strings.Fields(strings.Replace(longer, shorter, " ", 1))
	equipment := equipmentSet(a.rec.Equipment)
	for _, word := range extra {
		if !mentionedIn(word, equipment) {
			return MatchFinding{}, false
		}
	}

	f := newFinding(a.rec.ID, b.rec.ID, RedundantEquipmentInName)
	f.Contained = shorter
	f.SharedWords = extra
	if len(extra) == 0 {
		f.Detail = fmt.Sprintf("normalized names are identical (%q), equipment [%s]",
			shorter, strings.Join(equipment, ", "))
	} else {
		f.Detail = fmt.Sprintf("extra words %s in %q repeat equipment [%s]",
			strings.Join(extra, " "), longer, strings.Join(equipment, ", "))
	}
	return f, true
}

func mentionedIn(word string, equipment []string) bool {
	word = strings.ToLower(word)
	for _, e := range equipment {
		if strings.Contains(e, word) {
			return true
		}
	}
	return false
}

func (c *Classifier) fuzzyEditDistance(a, b candidate) (MatchFinding, bool) {
	shortest := min(len(a.normalized), len(b.normalized))
	if shortest == 0 || shortest < c.cfg.MinFuzzyLength {
		return MatchFinding{}, false
	}
	maxDist := c.cfg.MaxDistanceFor(shortest)
	if maxDist == 0 {
		return MatchFinding{}, false
	}
	// The length difference is a lower bound on the distance.
	if abs(len(a.normalized)-len(b.normalized)) > maxDist {
		return MatchFinding{}, false
	}

	d := Levenshtein(a.normalized, b.normalized)
	if d == 0 || d > maxDist {
		return MatchFinding{}, false
	}
	f := newFinding(a.rec.ID, b.rec.ID, FuzzyEditDistance)
	f.Distance = d
	f.MaxDistance = maxDist
	f.Detail = fmt.Sprintf("levenshtein distance %d (max %d) between %q and %q", d, maxDist, a.normalized, b.normalized)
	return f, true
}

func (c *Classifier) attributeMatch(a, b candidate) (MatchFinding, bool) {
	ra, rb := a.rec, b.rec
	if ra.Category != rb.Category || ra.PrimaryMuscleGroup != rb.PrimaryMuscleGroup {
		return MatchFinding{}, false
	}
	if c.isSentinel(ra.Category) || c.isSentinel(ra.PrimaryMuscleGroup) {
		return MatchFinding{}, false
	}
	if !sameEquipment(ra.Equipment, rb.Equipment) {
		return MatchFinding{}, false
	}

	shared := sharedWords(a.tokens, b.tokens)
	if len(shared) == 0 {
		return MatchFinding{}, false
	}
	f := newFinding(ra.ID, rb.ID, AttributeMatch)
	f.SharedWords = shared
	f.Detail = fmt.Sprintf("same category %q, muscle group %q and equipment; shared words: %s",
		ra.Category, ra.PrimaryMuscleGroup, strings.Join(shared, ", "))
	return f, true
}

func (c *Classifier) isSentinel(v string) bool {
	return c.cfg.Sentinel != "" && strings.EqualFold(strings.TrimSpace(v), c.cfg.Sentinel)
}

func sharedWords(a, b map[string]struct{}) []string {
	var shared []string
	for tok := range a {
		if _, ok := b[tok]; ok {
			shared = append(shared, tok)
		}
	}
	slices.Sort(shared)
	return shared
}

// wordSalad skips names without words; Jaccard would call two empty sets
// identical.
func (c *Classifier) wordSalad(a, b candidate) (MatchFinding, bool) {
	if len(a.tokens) == 0 || len(b.tokens) == 0 {
		return MatchFinding{}, false
	}
	sim := jaccardSets(a.tokens, b.tokens)
	if sim <= c.cfg.JaccardThreshold {
		return MatchFinding{}, false
	}
	f := newFinding(a.rec.ID, b.rec.ID, WordSaladMatch)
	f.Similarity = sim
	f.Detail = fmt.Sprintf("word sets of %q and %q have jaccard similarity %.2f", a.normalized, b.normalized, sim)
	return f, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
