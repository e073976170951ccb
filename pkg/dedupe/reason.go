package dedupe

import (
	"encoding/json"
	"fmt"
)

// Reason tags the heuristic that produced a finding.
type Reason int

// Reasons in evaluation order.
const (
	ExactName Reason = iota + 1
	ExactNormalized
	SubstringContainment
	RedundantEquipmentInName
	FuzzyEditDistance
	AttributeMatch
	WordSaladMatch
)

var reasonNames = map[Reason]string{
	ExactName:                "ExactName",
	ExactNormalized:          "ExactNormalized",
	SubstringContainment:     "SubstringContainment",
	RedundantEquipmentInName: "RedundantEquipmentInName",
	FuzzyEditDistance:        "FuzzyEditDistance",
	AttributeMatch:           "AttributeMatch",
	WordSaladMatch:           "WordSaladMatch",
}

// AllReasons returns every reason in evaluation order.
func AllReasons() []Reason {
	return []Reason{
		ExactName,
		ExactNormalized,
		SubstringContainment,
		RedundantEquipmentInName,
		FuzzyEditDistance,
		AttributeMatch,
		WordSaladMatch,
	}
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Valid reports whether r is one of the known reasons.
func (r Reason) Valid() bool {
	_, ok := reasonNames[r]
	return ok
}

// ParseReason maps a tag back to its Reason.
func ParseReason(s string) (Reason, error) {
	for r, name := range reasonNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown reason %q", s)
}

func (r Reason) MarshalJSON() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", r)
	}
	return json.Marshal(r.String())
}

func (r *Reason) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseReason(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MatchFinding is one suspected duplicate pair. IDA is always the smaller id.
type MatchFinding struct {
	IDA    int    `json:"idA"`
	IDB    int    `json:"idB"`
	Reason Reason `json:"reason"`
	Detail string `json:"detail"`

	// Per-reason payloads; only the fields relevant to Reason are set.
	Distance    int      `json:"distance,omitempty"`
	MaxDistance int      `json:"maxDistance,omitempty"`
	Similarity  float64  `json:"similarity,omitempty"`
	SharedWords []string `json:"sharedWords,omitempty"`
	Contained   string   `json:"contained,omitempty"`
}

// newFinding orders the pair so the smaller id comes first.
func newFinding(a, b int, reason Reason) MatchFinding {
	if b < a {
		a, b = b, a
	}
	return MatchFinding{IDA: a, IDB: b, Reason: reason}
}
