package firestore

import (
	"strconv"
	"time"

	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
	"github.com/ripixel/fitglue-server/catalog/pkg/types"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Helper to safely get string from map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// getFirstString returns the first non-empty string among keys
func getFirstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s := getString(m, k); s != "" {
			return s
		}
	}
	return ""
}

// Helper to convert string to pointer, returns nil for empty strings
func stringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Helper to store optional strings without writing nil pointers
func setIfPresent(m map[string]interface{}, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

// Helper to safely get an int from map. Firestore returns integers as int64.
func getInt(m map[string]interface{}, key string) (int, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case int64:
		return int(val), true
	case int:
		return val, true
	case float64:
		return int(val), true
	case string:
		n, err := strconv.Atoi(val)
		return n, err == nil
	}
	return 0, false
}

// Helper to get a string slice from map (Firestore arrays decode to []interface{})
func getStringSlice(m map[string]interface{}, key string) []string {
	switch val := m[key].(type) {
	case []string:
		return val
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Helper to safely get time from map (handles time.Time from Firestore)
func getTime(m map[string]interface{}, key string) *timestamppb.Timestamp {
	if v, ok := m[key]; ok {
		if t, ok := v.(time.Time); ok {
			return timestamppb.New(t)
		}
	}
	return nil
}

// --- Exercise Converters ---

func ExerciseToFirestore(r dedupe.CatalogRecord) map[string]interface{} {
	m := map[string]interface{}{
		"id":                   r.ID,
		"slug":                 r.Slug,
		"name":                 r.Name,
		"category":             r.Category,
		"primary_muscle_group": r.PrimaryMuscleGroup,
		"equipment":            r.Equipment,
	}
	if r.Description != "" {
		m["description"] = r.Description
	}
	return m
}

// FirestoreToExercise builds a record from an exercise document. When the
// document has no id field, a numeric document ID is used instead.
func FirestoreToExercise(docID string, m map[string]interface{}) dedupe.CatalogRecord {
	r := dedupe.CatalogRecord{
		Slug:               getString(m, "slug"),
		Name:               getString(m, "name"),
		Category:           getString(m, "category"),
		PrimaryMuscleGroup: getFirstString(m, "primary_muscle_group", "primaryMuscleGroup"),
		Equipment:          getStringSlice(m, "equipment"),
		Description:        getString(m, "description"),
	}

	if id, ok := getInt(m, "id"); ok {
		r.ID = id
	} else if id, err := strconv.Atoi(docID); err == nil {
		r.ID = id
	}
	if r.Slug == "" {
		r.Slug = docID
	}

	return r
}

// --- ExecutionRecord Converters ---

func ExecutionToFirestore(e *types.ExecutionRecord) map[string]interface{} {
	m := map[string]interface{}{
		"execution_id":  e.ExecutionID,
		"service":       e.Service,
		"status":        int32(e.Status),
		"trigger_type":  e.TriggerType,
	}
	setIfPresent(m, "run_id", e.RunID)
	setIfPresent(m, "error_message", e.ErrorMessage)
	setIfPresent(m, "inputs_json", e.InputsJSON)
	setIfPresent(m, "outputs_json", e.OutputsJSON)
	if e.Timestamp != nil {
		m["timestamp"] = e.Timestamp.AsTime()
	}
	if e.StartTime != nil {
		m["start_time"] = e.StartTime.AsTime()
	}
	if e.EndTime != nil {
		m["end_time"] = e.EndTime.AsTime()
	}
	return m
}

func FirestoreToExecution(m map[string]interface{}) *types.ExecutionRecord {
	e := &types.ExecutionRecord{
		ExecutionID:  getString(m, "execution_id"),
		Service:      getString(m, "service"),
		Timestamp:    getTime(m, "timestamp"),
		TriggerType:  getString(m, "trigger_type"),
		RunID:        stringPtrOrNil(getString(m, "run_id")),
		StartTime:    getTime(m, "start_time"),
		EndTime:      getTime(m, "end_time"),
		ErrorMessage: stringPtrOrNil(getString(m, "error_message")),
		InputsJSON:   stringPtrOrNil(getString(m, "inputs_json")),
		OutputsJSON:  stringPtrOrNil(getString(m, "outputs_json")),
	}

	if v, ok := m["status"]; ok {
		// Handle int or string legacy
		switch val := v.(type) {
		case int64:
			e.Status = types.ExecutionStatus(val)
		case int:
			e.Status = types.ExecutionStatus(int32(val))
		case string:
			e.Status = parseExecutionStatus(val)
		}
	}

	return e
}

func parseExecutionStatus(s string) types.ExecutionStatus {
	for st := types.ExecutionStatusPending; st <= types.ExecutionStatusFailed; st++ {
		if st.String() == s {
			return st
		}
	}
	return types.ExecutionStatusUnknown
}
