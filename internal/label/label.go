// Package label builds the scannable payload printed on lot and delivery labels.
package label

import (
	"encoding/json"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// Payload type tags.
const (
	TypeReceiptLot = "RECEIPT_LOT"
	TypeDelivery   = "DELIVERY"
)

// Image size bounds in pixels.
const (
	DefaultSize = 256
	MinSize     = 128
	MaxSize     = 1024
)

// receiptLabel fixes the field order of the persisted payload.
type receiptLabel struct {
	Type      string `json:"type"`
	LotCode   string `json:"lot_code"`
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	CreatedAt string `json:"created_at"`
}

type deliveryLabel struct {
	Type          string `json:"type"`
	DeliveryCode  string `json:"delivery_code"`
	RecipientName string `json:"recipient_name"`
	Product       string `json:"product"`
	Quantity      int    `json:"quantity"`
	DeliveryTime  string `json:"delivery_time"`
}

// ReceiptPayload returns the canonical JSON payload for a receipt lot.
func ReceiptPayload(lotCode, product string, quantity int, createdAt time.Time) (string, error) {
	b, err := json.Marshal(receiptLabel{
		Type:      TypeReceiptLot,
		LotCode:   lotCode,
		Product:   product,
		Quantity:  quantity,
		CreatedAt: createdAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DeliveryPayload returns the on-demand payload for a delivery. It is never persisted.
func DeliveryPayload(code, recipient, product string, quantity int, deliveryTime time.Time) (string, error) {
	b, err := json.Marshal(deliveryLabel{
		Type:          TypeDelivery,
		DeliveryCode:  code,
		RecipientName: recipient,
		Product:       product,
		Quantity:      quantity,
		DeliveryTime:  deliveryTime.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ClampSize returns size bounded to [MinSize, MaxSize]; zero or negative selects DefaultSize.
func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultSize
	case size < MinSize:
		return MinSize
	case size > MaxSize:
		return MaxSize
	}
	return size
}

// RenderPNG encodes payload as a QR code PNG with high error correction.
func RenderPNG(payload string, size int) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.High, ClampSize(size))
}
