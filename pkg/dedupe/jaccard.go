package dedupe

// Jaccard returns |A ∩ B| / |A ∪ B| over the whitespace-delimited word
// sets of two normalized names. Two empty sets are identical (1.0); one
// empty set against a non-empty one scores 0.0.
func Jaccard(s1, s2 string) float64 {
	return jaccardSets(Tokens(s1), Tokens(s2))
}

func jaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	intersection := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
