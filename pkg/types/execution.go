package types

import (
	"fmt"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// ExecutionStatus is the lifecycle state of a function run.
type ExecutionStatus int32

const (
	ExecutionStatusUnknown ExecutionStatus = iota
	ExecutionStatusPending
	ExecutionStatusStarted
	ExecutionStatusSuccess
	ExecutionStatusFailed
)

func (s ExecutionStatus) String() string {
	switch s {
	case ExecutionStatusPending:
		return "STATUS_PENDING"
	case ExecutionStatusStarted:
		return "STATUS_STARTED"
	case ExecutionStatusSuccess:
		return "STATUS_SUCCESS"
	case ExecutionStatusFailed:
		return "STATUS_FAILED"
	default:
		return fmt.Sprintf("STATUS_UNKNOWN(%d)", int32(s))
	}
}

// ExecutionRecord is stored in the executions collection, keyed by ExecutionID.
type ExecutionRecord struct {
	ExecutionID  string                 `firestore:"execution_id"`
	Service      string                 `firestore:"service"`
	Status       ExecutionStatus        `firestore:"status"`
	Timestamp    *timestamppb.Timestamp `firestore:"timestamp"`
	StartTime    *timestamppb.Timestamp `firestore:"start_time"`
	EndTime      *timestamppb.Timestamp `firestore:"end_time,omitempty"`
	TriggerType  string                 `firestore:"trigger_type"`
	RunID        *string                `firestore:"run_id,omitempty"`
	InputsJSON   *string                `firestore:"inputs_json,omitempty"`
	OutputsJSON  *string                `firestore:"outputs_json,omitempty"`
	ErrorMessage *string                `firestore:"error_message,omitempty"`
}
