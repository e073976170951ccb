package framework

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/cloudevents/sdk-go/v2/event"

	"github.com/ripixel/fitglue-server/catalog/pkg/bootstrap"
	"github.com/ripixel/fitglue-server/catalog/pkg/execution"
	"github.com/ripixel/fitglue-server/catalog/pkg/types"
)

const pubSubMessagePublished = "google.cloud.pubsub.topic.v1.messagePublished"

// FrameworkContext carries the per-invocation dependencies into a handler
type FrameworkContext struct {
	Service     *bootstrap.Service
	Logger      *slog.Logger
	ExecutionID string
}

// HandlerFunc is the signature for a cloud function handler.
// Returns outputs (for the execution log) and error.
type HandlerFunc func(ctx context.Context, e event.Event, fwCtx *FrameworkContext) (interface{}, error)

// WrapCloudEvent wraps a handler with automatic execution logging and
// unwraps CloudEvents that arrive inside a Pub/Sub envelope.
func WrapCloudEvent(serviceName string, svc *bootstrap.Service, handler HandlerFunc) func(context.Context, event.Event) error {
	return func(ctx context.Context, e event.Event) error {
		logger := slog.Default().With("service", serviceName)

		e = unwrapPubSub(e, logger)

		execID, err := execution.LogPending(ctx, svc.DB, serviceName, execution.ExecutionOptions{
			TriggerType: "pubsub",
		})
		if err != nil {
			// Don't fail the function just because logging failed
			logger.Error("Failed to log execution pending", "error", err)
		}

		logger = logger.With("execution_id", execID)

		if err := execution.LogStart(ctx, svc.DB, execID, eventInputs(e), nil); err != nil {
			logger.Warn("Failed to log execution start", "error", err)
		}
		logger.Info("Function started", "event_id", e.ID(), "event_type", e.Type())

		outputs, handlerErr := handler(ctx, e, &FrameworkContext{
			Service:     svc,
			Logger:      logger,
			ExecutionID: execID,
		})

		if handlerErr != nil {
			logger.Error("Function failed", "error", handlerErr)
			if logErr := execution.LogFailure(ctx, svc.DB, execID, handlerErr, outputs); logErr != nil {
				logger.Warn("Failed to log execution failure", "error", logErr)
			}
			return handlerErr
		}

		logger.Info("Function completed successfully")
		if logErr := execution.LogSuccess(ctx, svc.DB, execID, outputs); logErr != nil {
			logger.Warn("Failed to log execution success", "error", logErr)
		}

		return nil
	}
}

// unwrapPubSub returns the CloudEvent nested in a Pub/Sub message, or e
// unchanged when the payload is not a CloudEvent.
func unwrapPubSub(e event.Event, logger *slog.Logger) event.Event {
	if e.Type() != pubSubMessagePublished {
		return e
	}

	var msg types.PubSubMessage
	if err := json.Unmarshal(e.Data(), &msg); err != nil {
		logger.Warn("Failed to decode Pub/Sub envelope", "error", err)
		return e
	}

	var inner event.Event
	if err := json.Unmarshal(msg.Message.Data, &inner); err != nil {
		return e
	}
	if inner.Validate() != nil {
		return e
	}
	return inner
}

func eventInputs(e event.Event) map[string]interface{} {
	inputs := map[string]interface{}{
		"event_id":   e.ID(),
		"event_type": e.Type(),
	}
	if data := e.Data(); len(data) > 0 && json.Valid(data) {
		inputs["data"] = json.RawMessage(data)
	}
	return inputs
}
