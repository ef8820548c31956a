package label

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReceiptPayload_FieldOrder(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.FixedZone("X", 3600))

	payload, err := ReceiptPayload("RC1234567890", "Bottled water 19L", 50, created)
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"RECEIPT_LOT","lot_code":"RC1234567890","product":"Bottled water 19L","quantity":50,"created_at":"2024-03-01T09:30:00Z"}`,
		payload)

	again, err := ReceiptPayload("RC1234567890", "Bottled water 19L", 50, created)
	require.NoError(t, err)
	assert.Equal(t, payload, again)
}

func TestDeliveryPayload(t *testing.T) {
	payload, err := DeliveryPayload("DL-ABCDEF12", "Front desk", "Bottled water 19L", 2, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, payload, `"type":"DELIVERY"`)
	assert.Contains(t, payload, `"delivery_code":"DL-ABCDEF12"`)
}

func TestClampSize(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultSize},
		{-5, DefaultSize},
		{64, MinSize},
		{300, 300},
		{5000, MaxSize},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampSize(tt.in), "size %d", tt.in)
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(`{"type":"RECEIPT_LOT"}`, 200)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
}
