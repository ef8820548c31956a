package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"wateradmin/internal/events"
	"wateradmin/internal/model"
	"wateradmin/internal/repository"
)

const publishTimeout = 2 * time.Second

// PageResult is a page of rows plus the unpaginated total.
type PageResult[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func newPageResult[T any](items []T, total int64, page repository.Page) *PageResult[T] {
	p := page.Normalize()
	if items == nil {
		items = []T{}
	}
	return &PageResult[T]{Items: items, Total: total, Page: p.Number, PageSize: p.Size}
}

func trashEntries[T any](rows []T, deletedAt func(T) time.Time, retention time.Duration) []model.TrashEntry[T] {
	entries := make([]model.TrashEntry[T], 0, len(rows))
	for _, row := range rows {
		at := deletedAt(row)
		entries = append(entries, model.TrashEntry[T]{
			Item:      row,
			DeletedAt: at,
			ExpiresAt: at.Add(retention),
		})
	}
	return entries
}

// notifier publishes events after the owning operation has committed.
// Broker failures are logged and never reach the caller.
type notifier struct {
	publisher events.Publisher
	log       *zap.Logger
}

func (n notifier) publish(ctx context.Context, eventType string, data interface{}) {
	if n.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := n.publisher.Publish(ctx, events.New(eventType, data)); err != nil && n.log != nil {
		n.log.Warn("publish event failed", zap.String("type", eventType), zap.Error(err))
	}
}
