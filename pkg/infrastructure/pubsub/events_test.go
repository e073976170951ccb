package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestNewCloudEvent_JSONPayload(t *testing.T) {
	e, err := NewCloudEvent("/catalog/dedupe", "com.fitglue.catalog.duplicates", map[string]int{"findings": 2})
	require.NoError(t, err)

	assert.Equal(t, "1.0", e.SpecVersion())
	assert.NotEmpty(t, e.ID())
	assert.Equal(t, "com.fitglue.catalog.duplicates", e.Type())
	assert.JSONEq(t, `{"findings":2}`, string(e.Data()))
	require.NoError(t, e.Validate())
}

func TestNewCloudEvent_ProtoPayload(t *testing.T) {
	ts := timestamppb.New(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	e, err := NewCloudEvent("/catalog/dedupe", "com.fitglue.test", ts)
	require.NoError(t, err)

	var decoded string
	require.NoError(t, json.Unmarshal(e.Data(), &decoded))
	assert.Equal(t, "2026-01-02T03:04:05Z", decoded)
}

func TestLogPublisher(t *testing.T) {
	e, err := NewCloudEvent("/catalog/dedupe", "com.fitglue.test", map[string]string{"ok": "yes"})
	require.NoError(t, err)

	id, err := (&LogPublisher{}).PublishCloudEvent(context.Background(), "topic-test", e)
	require.NoError(t, err)
	assert.Equal(t, "mock-msg-id", id)
}

func TestEventAttributes(t *testing.T) {
	e, err := NewCloudEvent("/catalog/dedupe", "com.fitglue.test", nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"ce-type": "com.fitglue.test", "ce-source": "/catalog/dedupe"}, eventAttributes(e))
}
