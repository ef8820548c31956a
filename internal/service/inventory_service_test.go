package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryService_Summary(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	confirmed := s.createLot(t, "Aqua Co", "1", 10)
	_, err := s.receipts.UpdateStatus(ctx, confirmed.ID, "confirm")
	require.NoError(t, err)
	s.createLot(t, "Aqua Co", "1", 5)

	trashed := s.createLot(t, "Aqua Co", "1", 100)
	_, err = s.receipts.UpdateStatus(ctx, trashed.ID, "confirm")
	require.NoError(t, err)
	_, err = s.receipts.SoftDelete(ctx, trashed.ID)
	require.NoError(t, err)

	_, err = s.deliveries.Create(ctx, DeliveryInput{
		RecipientName: ptr("Desk"), Product: ptr("1"), Quantity: ptr(3), Status: ptr("COMPLETED"),
	})
	require.NoError(t, err)
	_, err = s.deliveries.Create(ctx, DeliveryInput{
		RecipientName: ptr("Desk"), Product: ptr("1"), Quantity: ptr(50),
	})
	require.NoError(t, err)

	lines, err := s.inventory.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, lines, 3)

	first := lines[0]
	assert.Equal(t, uint(1), first.WaterProductID)
	assert.Equal(t, int64(10), first.Received)
	assert.Equal(t, int64(3), first.Delivered)
	assert.Equal(t, int64(7), first.OnHand)
	assert.Equal(t, "24.50", first.StockValue)

	assert.Equal(t, int64(0), lines[1].OnHand)
	assert.Equal(t, "0.00", lines[1].StockValue)
}
