package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rl1809/inventory-service/internal/core/domain"
	"github.com/rl1809/inventory-service/internal/port"
)

var ErrDuplicateRequest = errors.New("duplicate request")

type ItemService struct {
	repo  port.InventoryRepository
	cache port.CacheRepository
	now   func() time.Time
}

// NewItemService wires the item operations to a store. cache may be nil, in
// which case Idempotency-Key handling is disabled.
func NewItemService(repo port.InventoryRepository, cache port.CacheRepository) *ItemService {
	return &ItemService{
		repo:  repo,
		cache: cache,
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (s *ItemService) Create(ctx context.Context, requestID string, ownerID int64, fields domain.ItemFields) (domain.InventoryItem, error) {
	if err := fields.Validate(); err != nil {
		return domain.InventoryItem{}, err
	}

	idempotencyKey := ""
	if requestID != "" && s.cache != nil {
		idempotencyKey = fmt.Sprintf("idempotency:inventory:%d:%s", ownerID, requestID)

		ok, err := s.cache.SetIdempotency(ctx, idempotencyKey)
		if err != nil {
			return domain.InventoryItem{}, fmt.Errorf("idempotency check failed: %w", err)
		}
		if !ok {
			return domain.InventoryItem{}, ErrDuplicateRequest
		}
	}

	now := s.now()
	item := domain.InventoryItem{
		DateAdded:   now,
		LastUpdated: now,
		OwnerID:     ownerID,
	}
	fields.Apply(&item)

	id, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		if idempotencyKey != "" {
			if releaseErr := s.cache.ReleaseIdempotency(ctx, idempotencyKey); releaseErr != nil {
				slog.Error("failed to release idempotency key", "key", idempotencyKey, "error", releaseErr)
			}
		}
		return domain.InventoryItem{}, fmt.Errorf("create item: %w", err)
	}
	item.ID = id

	return item, nil
}

func (s *ItemService) List(ctx context.Context, ownerID int64) ([]domain.InventoryItem, error) {
	items, err := s.repo.ListItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []domain.InventoryItem{}
	}
	return items, nil
}

// Update replaces every writable field of an owned item. An item owned by
// someone else is reported as domain.ErrNotFound.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, fields domain.ItemFields) (domain.InventoryItem, error) {
	item, err := s.repo.GetItem(ctx, ownerID, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.InventoryItem{}, domain.ErrNotFound
		}
		return domain.InventoryItem{}, fmt.Errorf("get item: %w", err)
	}

	if err := fields.Validate(); err != nil {
		return domain.InventoryItem{}, err
	}

	fields.Apply(item)
	item.LastUpdated = s.now()

	if err := s.repo.UpdateItem(ctx, *item); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.InventoryItem{}, domain.ErrNotFound
		}
		return domain.InventoryItem{}, fmt.Errorf("update item: %w", err)
	}

	return *item, nil
}

func (s *ItemService) Delete(ctx context.Context, ownerID, itemID int64) error {
	if err := s.repo.DeleteItem(ctx, ownerID, itemID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
