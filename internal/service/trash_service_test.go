package service

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wateradmin/internal/cache"
	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/events"
	"wateradmin/internal/metrics"
	"wateradmin/internal/model"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func TestTrashService_Purge(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	pub := &recordingPublisher{}
	s.trash.notifier.publisher = pub
	s.trash.metrics = metrics.New()

	longAgo := func() time.Time { return time.Now().UTC().Add(-40 * 24 * time.Hour) }
	recently := func() time.Time { return time.Now().UTC().Add(-2 * 24 * time.Hour) }

	admin := s.createUser(t, "root", model.RoleAdmin, nil)
	leaver := s.createUser(t, "leaver", model.RoleManager, nil)

	oldLot := s.createLot(t, "Aqua Co", "1", 1)
	newLot := s.createLot(t, "Aqua Co", "1", 1)
	liveLot, err := s.receipts.Create(ctx, CreateLotInput{
		SupplierName: "Aqua Co", DeliveryPersonName: "Sam", Product: "1", Quantity: 2, CreatedBy: leaver.ID,
	})
	require.NoError(t, err)
	oldDelivery, err := s.deliveries.Create(ctx, DeliveryInput{RecipientName: ptr("Desk"), Product: ptr("1"), Quantity: ptr(1)})
	require.NoError(t, err)

	s.receipts.now = longAgo
	_, err = s.receipts.SoftDelete(ctx, oldLot.ID)
	require.NoError(t, err)
	s.receipts.now = recently
	_, err = s.receipts.SoftDelete(ctx, newLot.ID)
	require.NoError(t, err)
	s.deliveries.now = longAgo
	_, err = s.deliveries.SoftDelete(ctx, oldDelivery.ID)
	require.NoError(t, err)
	s.users.now = longAgo
	_, err = s.users.SoftDelete(ctx, admin.ID, leaver.ID)
	require.NoError(t, err)

	dry, err := s.trash.Purge(ctx, true)
	require.NoError(t, err)
	assert.True(t, dry.DryRun)
	assert.Equal(t, int64(1), dry.Receipts)
	assert.Equal(t, int64(1), dry.Deliveries)
	assert.Equal(t, int64(1), dry.Users)
	assert.Empty(t, pub.types(), "dry runs publish nothing")

	result, err := s.trash.Purge(ctx, false)
	require.NoError(t, err)
	assert.False(t, result.DryRun)
	assert.Equal(t, int64(1), result.Receipts)
	assert.Equal(t, int64(1), result.Deliveries)
	assert.Equal(t, int64(1), result.Users)
	assert.Equal(t, []string{events.TrashPurged}, pub.types())

	trash, err := s.receipts.ListTrash(ctx)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, newLot.ID, trash[0].Item.ID)

	kept, err := s.receipts.Get(ctx, liveLot.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.CreatedByID, "purged creators are detached from their lots")

	again, err := s.trash.Purge(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, again.Receipts+again.Deliveries+again.Users)
}

func TestTrashService_PurgeLockHeld(t *testing.T) {
	s := newStack(t)
	mr := miniredis.RunT(t)
	client := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	s.trash.cache = client

	release, err := client.Lock(context.Background(), purgeLockKey, time.Minute)
	require.NoError(t, err)

	_, err = s.trash.Purge(context.Background(), false)
	assert.ErrorIs(t, err, apperrors.ErrPurgeInProgress)

	release()
	result, err := s.trash.Purge(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
}
