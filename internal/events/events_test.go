package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventEnvelope(t *testing.T) {
	evt := New(LotCreated, map[string]interface{}{"lot_code": "RC1"})

	b, err := json.Marshal(evt)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, LotCreated, decoded["type"])
	assert.NotEmpty(t, decoded["occurred_at"])
	assert.Equal(t, "RC1", decoded["data"].(map[string]interface{})["lot_code"])
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = Noop{}
	assert.NoError(t, p.Publish(context.Background(), New(TrashPurged, nil)))
	assert.NoError(t, p.Close())
}

func TestNewRabbitMQPublisher_RequiresURL(t *testing.T) {
	_, err := NewRabbitMQPublisher("", "inventory.events")
	assert.Error(t, err)
}
