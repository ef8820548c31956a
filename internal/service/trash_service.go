package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"wateradmin/internal/cache"
	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/events"
	"wateradmin/internal/metrics"
	"wateradmin/internal/model"
	"wateradmin/internal/repository"
)

const (
	purgeLockKey = "lock:trash-purge"
	purgeLockTTL = 5 * time.Minute
)

// TrashService hard-deletes soft-deleted rows older than the retention window.
type TrashService interface {
	Purge(ctx context.Context, dryRun bool) (*model.PurgeResult, error)
}

type trashService struct {
	receipts   repository.ReceiptRepository
	deliveries repository.DeliveryRepository
	users      repository.UserRepository
	cache      *cache.Client
	metrics    *metrics.Metrics
	notifier   notifier
	log        *zap.Logger
	retention  time.Duration
	now        func() time.Time
}

// NewTrashService builds the purge service.
func NewTrashService(
	receipts repository.ReceiptRepository,
	deliveries repository.DeliveryRepository,
	users repository.UserRepository,
	cache *cache.Client,
	publisher events.Publisher,
	m *metrics.Metrics,
	log *zap.Logger,
	retention time.Duration,
) TrashService {
	if log == nil {
		log = zap.NewNop()
	}
	return &trashService{
		receipts:   receipts,
		deliveries: deliveries,
		users:      users,
		cache:      cache,
		metrics:    m,
		notifier:   notifier{publisher: publisher, log: log},
		log:        log,
		retention:  retention,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type purgeTarget struct {
	name  string
	count func(context.Context, time.Time) (int64, error)
	purge func(context.Context, time.Time) (int64, error)
	dest  *int64
}

// Purge removes expired trash. With dryRun it only counts what would be removed.
func (s *trashService) Purge(ctx context.Context, dryRun bool) (*model.PurgeResult, error) {
	release, err := s.cache.Lock(ctx, purgeLockKey, purgeLockTTL)
	if errors.Is(err, cache.ErrLockNotObtained) {
		return nil, apperrors.ErrPurgeInProgress
	}
	defer release()

	result := &model.PurgeResult{Cutoff: s.now().Add(-s.retention), DryRun: dryRun}
	// lots and deliveries go before users so created_by detaching sees final state
	targets := []purgeTarget{
		{"receipts", s.receipts.CountDeletedBefore, s.receipts.PurgeDeletedBefore, &result.Receipts},
		{"deliveries", s.deliveries.CountDeletedBefore, s.deliveries.PurgeDeletedBefore, &result.Deliveries},
		{"users", s.users.CountDeletedBefore, s.users.PurgeDeletedBefore, &result.Users},
	}

	for _, t := range targets {
		op := t.purge
		if dryRun {
			op = t.count
		}
		n, err := op(ctx, result.Cutoff)
		if err != nil {
			s.log.Error("trash purge failed", zap.String("entity", t.name), zap.Error(err))
			return nil, fmt.Errorf("purge %s: %w", t.name, err)
		}
		*t.dest = n
		if !dryRun {
			s.metrics.RowsPurged(t.name, n)
		}
	}

	s.log.Info("trash purge finished",
		zap.Bool("dry_run", dryRun),
		zap.Time("cutoff", result.Cutoff),
		zap.Int64("receipts", result.Receipts),
		zap.Int64("deliveries", result.Deliveries),
		zap.Int64("users", result.Users),
	)
	if !dryRun {
		s.notifier.publish(ctx, events.TrashPurged, result)
	}
	return result, nil
}
