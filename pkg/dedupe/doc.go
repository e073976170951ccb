// Package dedupe finds exercise catalog entries that probably describe the
// same real-world exercise under different labels.
//
// The engine blocks the catalog by (primary muscle group, category), then
// runs a fixed battery of heuristics over every unordered pair inside each
// block:
//   - ExactName: case-insensitive equality of the raw names
//   - ExactNormalized: equal after normalization, raw names differ
//   - SubstringContainment: one normalized name contains the other
//   - RedundantEquipmentInName: the extra words only repeat the equipment
//   - FuzzyEditDistance: small, length-adaptive Levenshtein distance
//   - AttributeMatch: same attributes and at least one shared word
//   - WordSaladMatch: high Jaccard similarity of the word sets
//
// Every heuristic that fires is reported. The catalog is never mutated and
// pairs that were filed under different muscle groups or categories are
// never compared.
package dedupe
