package execution

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ripixel/fitglue-server/catalog/pkg/types"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Database interface for Firestore operations
type Database interface {
	SetExecution(ctx context.Context, record *types.ExecutionRecord) error
	UpdateExecution(ctx context.Context, id string, data map[string]interface{}) error
}

// ExecutionOptions contains optional fields for execution logging
type ExecutionOptions struct {
	RunID       string
	TriggerType string
	Inputs      interface{}
}

// stringPtr returns a pointer to the given string
func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// encodeJSON returns nil when v is nil or cannot be encoded
func encodeJSON(v interface{}) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return stringPtr(string(b))
}

// LogPending creates an execution record with PENDING status and captured inputs
func LogPending(ctx context.Context, db Database, service string, opts ExecutionOptions) (string, error) {
	execID := fmt.Sprintf("%s-%d", service, time.Now().UnixNano())

	now := timestamppb.Now()

	record := &types.ExecutionRecord{
		ExecutionID: execID,
		Service:     service,
		Status:      types.ExecutionStatusPending,
		Timestamp:   now,
		StartTime:   now,
		RunID:       stringPtr(opts.RunID),
		TriggerType: opts.TriggerType,
		InputsJSON:  encodeJSON(opts.Inputs),
	}

	if err := db.SetExecution(ctx, record); err != nil {
		return execID, fmt.Errorf("failed to log execution pending: %w", err)
	}

	return execID, nil
}

// LogStart updates an execution record to STARTED status and adds inputs/metadata
func LogStart(ctx context.Context, db Database, execID string, inputs interface{}, opts *ExecutionOptions) error {
	now := timestamppb.Now()

	updates := map[string]interface{}{
		"status":     int32(types.ExecutionStatusStarted),
		"start_time": now.AsTime(),
	}

	// Metadata that wasn't available at Pending time
	if opts != nil {
		if opts.RunID != "" {
			updates["run_id"] = opts.RunID
		}
		if opts.TriggerType != "" {
			updates["trigger_type"] = opts.TriggerType
		}
	}

	if in := encodeJSON(inputs); in != nil {
		updates["inputs_json"] = *in
	}

	if err := db.UpdateExecution(ctx, execID, updates); err != nil {
		return fmt.Errorf("failed to log execution start: %w", err)
	}

	return nil
}

// LogSuccess updates an execution record with SUCCESS status
func LogSuccess(ctx context.Context, db Database, execID string, outputs interface{}) error {
	now := timestamppb.Now()

	// snake_case keys as we use map[string]interface{}
	updates := map[string]interface{}{
		"status":    int32(types.ExecutionStatusSuccess),
		"timestamp": now.AsTime(),
		"end_time":  now.AsTime(),
	}

	if out := encodeJSON(outputs); out != nil {
		updates["outputs_json"] = *out
	}

	if err := db.UpdateExecution(ctx, execID, updates); err != nil {
		return fmt.Errorf("failed to log execution success: %w", err)
	}

	return nil
}

// LogFailure updates an execution record with FAILED status
func LogFailure(ctx context.Context, db Database, execID string, err error, outputs interface{}) error {
	now := timestamppb.Now()

	updates := map[string]interface{}{
		"status":        int32(types.ExecutionStatusFailed),
		"timestamp":     now.AsTime(),
		"end_time":      now.AsTime(),
		"error_message": err.Error(),
	}

	if out := encodeJSON(outputs); out != nil {
		updates["outputs_json"] = *out
	}

	if updateErr := db.UpdateExecution(ctx, execID, updates); updateErr != nil {
		return fmt.Errorf("failed to log execution failure: %w", updateErr)
	}

	return nil
}
