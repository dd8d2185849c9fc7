package port

import (
	"context"

	"github.com/rl1809/inventory-service/internal/core/domain"
)

type InventoryRepository interface {
	// CreateItem persists a new item and returns its assigned ID
	CreateItem(ctx context.Context, item domain.InventoryItem) (int64, error)

	// ListItemsByOwner returns every item owned by ownerID in insertion order
	ListItemsByOwner(ctx context.Context, ownerID int64) ([]domain.InventoryItem, error)

	// GetItem returns domain.ErrNotFound unless itemID exists and belongs to ownerID
	GetItem(ctx context.Context, ownerID, itemID int64) (*domain.InventoryItem, error)

	// UpdateItem overwrites the mutable fields of an owned item
	UpdateItem(ctx context.Context, item domain.InventoryItem) error

	// DeleteItem removes an owned item together with its change logs
	DeleteItem(ctx context.Context, ownerID, itemID int64) error
}

type ChangeLogRepository interface {
	// RecordChange appends a ledger row for an existing item
	RecordChange(ctx context.Context, entry domain.InventoryChangeLog) (int64, error)

	// ListChangeLogs returns the ledger rows of an item, oldest first
	ListChangeLogs(ctx context.Context, itemID int64) ([]domain.InventoryChangeLog, error)
}
