package dedupe

// Report groups findings by reason. Within a group, findings keep the order
// in which they were discovered.
type Report struct {
	Groups map[Reason][]MatchFinding `json:"groups"`
}

// Aggregate groups findings by reason without reordering them.
func Aggregate(findings []MatchFinding) Report {
	groups := make(map[Reason][]MatchFinding)
	for _, f := range findings {
		groups[f.Reason] = append(groups[f.Reason], f)
	}
	return Report{Groups: groups}
}

// Reasons returns the reasons that have findings, in evaluation order.
func (r Report) Reasons() []Reason {
	var out []Reason
	for _, reason := range AllReasons() {
		if len(r.Groups[reason]) > 0 {
			out = append(out, reason)
		}
	}
	return out
}

// Total returns the number of findings across all groups.
func (r Report) Total() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g)
	}
	return n
}

// Pair identifies a suspected duplicate pair, smaller id first.
type Pair struct {
	IDA int `json:"idA"`
	IDB int `json:"idB"`
}

// PairSummary lists every reason that fired for one pair.
type PairSummary struct {
	Pair
	Reasons []Reason `json:"reasons"`
	Details []string `json:"details"`
}

// Pairs collapses the report to one entry per pair. Pairs are ordered by
// their first appearance walking the reasons in evaluation order; reasons
// within a pair keep evaluation order.
func (r Report) Pairs() []PairSummary {
	index := make(map[Pair]int)
	var out []PairSummary
	for _, reason := range AllReasons() {
		for _, f := range r.Groups[reason] {
			p := Pair{IDA: f.IDA, IDB: f.IDB}
			i, ok := index[p]
			if !ok {
				i = len(out)
				index[p] = i
				out = append(out, PairSummary{Pair: p})
			}
			out[i].Reasons = append(out[i].Reasons, f.Reason)
			out[i].Details = append(out[i].Details, f.Detail)
		}
	}
	return out
}
