package dedupe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_PreservesDiscoveryOrder(t *testing.T) {
	findings := []MatchFinding{
		{IDA: 5, IDB: 6, Reason: WordSaladMatch, Detail: "w1"},
		{IDA: 1, IDB: 2, Reason: ExactName, Detail: "e1"},
		{IDA: 3, IDB: 4, Reason: WordSaladMatch, Detail: "w2"},
		{IDA: 1, IDB: 2, Reason: WordSaladMatch, Detail: "w3"},
	}

	report := Aggregate(findings)

	assert.Equal(t, 4, report.Total())
	assert.Equal(t, []Reason{ExactName, WordSaladMatch}, report.Reasons())
	require.Len(t, report.Groups[WordSaladMatch], 3)
	assert.Equal(t, "w1", report.Groups[WordSaladMatch][0].Detail)
	assert.Equal(t, "w2", report.Groups[WordSaladMatch][1].Detail)
	assert.Equal(t, "w3", report.Groups[WordSaladMatch][2].Detail)
}

func TestAggregate_Empty(t *testing.T) {
	report := Aggregate(nil)
	assert.Zero(t, report.Total())
	assert.Empty(t, report.Reasons())
	assert.Empty(t, report.Pairs())
}

func TestReport_Pairs(t *testing.T) {
	report := Aggregate([]MatchFinding{
		{IDA: 3, IDB: 4, Reason: FuzzyEditDistance, Detail: "f"},
		{IDA: 1, IDB: 2, Reason: ExactName, Detail: "e"},
		{IDA: 1, IDB: 2, Reason: WordSaladMatch, Detail: "w"},
		{IDA: 3, IDB: 4, Reason: AttributeMatch, Detail: "a"},
	})

	pairs := report.Pairs()

	require.Len(t, pairs, 2)
	assert.Equal(t, Pair{IDA: 1, IDB: 2}, pairs[0].Pair)
	assert.Equal(t, []Reason{ExactName, WordSaladMatch}, pairs[0].Reasons)
	assert.Equal(t, []string{"e", "w"}, pairs[0].Details)
	assert.Equal(t, Pair{IDA: 3, IDB: 4}, pairs[1].Pair)
	assert.Equal(t, []Reason{FuzzyEditDistance, AttributeMatch}, pairs[1].Reasons)
}

func TestReason_JSON(t *testing.T) {
	data, err := json.Marshal(MatchFinding{IDA: 1, IDB: 2, Reason: RedundantEquipmentInName, Detail: "d"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"idA":1,"idB":2,"reason":"RedundantEquipmentInName","detail":"d"}`, string(data))

	var f MatchFinding
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Equal(t, RedundantEquipmentInName, f.Reason)

	assert.Error(t, json.Unmarshal([]byte(`{"reason":"Telepathy"}`), &f))
	_, err = json.Marshal(Reason(42))
	assert.Error(t, err)
}

func TestParseReason(t *testing.T) {
	for _, r := range AllReasons() {
		parsed, err := ParseReason(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}
	_, err := ParseReason("exactname")
	assert.Error(t, err)
	assert.Equal(t, "Reason(0)", Reason(0).String())
}
