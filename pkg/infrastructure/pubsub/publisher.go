package pubsub

import (
	"context"
	"encoding/json"
	"log/slog"

	"cloud.google.com/go/pubsub"
	"github.com/cloudevents/sdk-go/v2/event"

	fgerrors "github.com/ripixel/fitglue-server/catalog/pkg/errors"
)

// PubSubAdapter provides message publishing using Google Cloud Pub/Sub
type PubSubAdapter struct {
	Client *pubsub.Client
}

func (a *PubSubAdapter) PublishCloudEvent(ctx context.Context, topicID string, e event.Event) (string, error) {
	bytes, err := json.Marshal(e)
	if err != nil {
		slog.Error("Failed to marshal CloudEvent", "topic", topicID, "error", err)
		return "", fgerrors.Wrap(err, fgerrors.CodePubSubError, "marshal cloud event")
	}
	slog.Info("Publishing CloudEvent",
		"topic", topicID,
		"event_type", e.Type(),
		"event_id", e.ID(),
		"source", e.Source(),
		"size_bytes", len(bytes))
	return a.publishWithAttrs(ctx, topicID, bytes, eventAttributes(e))
}

func (a *PubSubAdapter) publishWithAttrs(ctx context.Context, topicID string, data []byte, attributes map[string]string) (string, error) {
	topic := a.Client.Topic(topicID)
	defer topic.Stop()

	msg := &pubsub.Message{
		Data: data,
	}
	if attributes != nil {
		msg.Attributes = attributes
	}
	res := topic.Publish(ctx, msg)
	msgID, err := res.Get(ctx)
	if err != nil {
		slog.Error("Failed to publish message", "topic", topicID, "error", err)
		return "", fgerrors.WrapRetryable(err, fgerrors.CodePubSubError, "publish to "+topicID)
	}
	slog.Info("Message published successfully", "topic", topicID, "message_id", msgID, "size_bytes", len(data))
	return msgID, nil
}

// eventAttributes lets subscribers filter on the event type without
// decoding the payload.
func eventAttributes(e event.Event) map[string]string {
	attrs := map[string]string{}
	if t := e.Type(); t != "" {
		attrs["ce-type"] = t
	}
	if s := e.Source(); s != "" {
		attrs["ce-source"] = s
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// LogPublisher is a mock publisher for local development
type LogPublisher struct{}

func (p *LogPublisher) PublishCloudEvent(ctx context.Context, topicID string, e event.Event) (string, error) {
	bytes, err := json.Marshal(e)
	if err != nil {
		return "", fgerrors.Wrap(err, fgerrors.CodePubSubError, "marshal cloud event")
	}
	slog.Info("MOCK PUBLISH", "topic", topicID, "data", string(bytes), "attributes", eventAttributes(e))
	return "mock-msg-id", nil
}
