package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rl1809/inventory-service/internal/core/domain"
	"github.com/rl1809/inventory-service/internal/port"
)

var (
	_ port.UserRepository      = (*MemoryAdapter)(nil)
	_ port.InventoryRepository = (*MemoryAdapter)(nil)
	_ port.ChangeLogRepository = (*MemoryAdapter)(nil)
)

// MemoryAdapter is a process-local store with the same ownership, cascade
// and SET NULL rules as the MySQL schema. It backs STORE_DRIVER=memory and
// the service and handler tests.
type MemoryAdapter struct {
	mu sync.RWMutex

	users      map[int64]domain.User
	usernames  map[string]int64
	items      map[int64]domain.InventoryItem
	logs       map[int64]domain.InventoryChangeLog
	nextUserID int64
	nextItemID int64
	nextLogID  int64
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		users:     make(map[int64]domain.User),
		usernames: make(map[string]int64),
		items:     make(map[int64]domain.InventoryItem),
		logs:      make(map[int64]domain.InventoryChangeLog),
	}
}

func (m *MemoryAdapter) CreateUser(ctx context.Context, user domain.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.usernames[user.Username]; exists {
		return 0, domain.ErrDuplicateUsername
	}

	m.nextUserID++
	user.ID = m.nextUserID
	m.users[user.ID] = user
	m.usernames[user.Username] = user.ID
	return user.ID, nil
}

func (m *MemoryAdapter) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.usernames[username]
	if !ok {
		return nil, nil
	}
	user := m.users[id]
	return &user, nil
}

// DeleteUser removes a user with the schema's side effects: owned items and
// their logs go, other logs keep their row with the user reference cleared.
// No API path deletes users; it exists so tests can exercise the ON DELETE
// CASCADE and SET NULL rules that MySQL enforces through foreign keys.
func (m *MemoryAdapter) DeleteUser(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	delete(m.users, userID)
	delete(m.usernames, user.Username)

	for id, item := range m.items {
		if item.OwnerID == userID {
			m.deleteItemLocked(id)
		}
	}
	for id, entry := range m.logs {
		if entry.UserID != nil && *entry.UserID == userID {
			entry.UserID = nil
			m.logs[id] = entry
		}
	}
	return nil
}

func (m *MemoryAdapter) CreateItem(ctx context.Context, item domain.InventoryItem) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[item.OwnerID]; !ok {
		return 0, fmt.Errorf("insert item: owner %d does not exist", item.OwnerID)
	}

	m.nextItemID++
	item.ID = m.nextItemID
	m.items[item.ID] = item
	return item.ID, nil
}

func (m *MemoryAdapter) ListItemsByOwner(ctx context.Context, ownerID int64) ([]domain.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]domain.InventoryItem, 0)
	for _, item := range m.items {
		if item.OwnerID == ownerID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (m *MemoryAdapter) GetItem(ctx context.Context, ownerID, itemID int64) (*domain.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[itemID]
	if !ok || item.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

func (m *MemoryAdapter) UpdateItem(ctx context.Context, item domain.InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.items[item.ID]
	if !ok || current.OwnerID != item.OwnerID {
		return domain.ErrNotFound
	}
	item.DateAdded = current.DateAdded
	m.items[item.ID] = item
	return nil
}

func (m *MemoryAdapter) DeleteItem(ctx context.Context, ownerID, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	if !ok || item.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	m.deleteItemLocked(itemID)
	return nil
}

func (m *MemoryAdapter) RecordChange(ctx context.Context, entry domain.InventoryChangeLog) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !entry.ChangeType.Valid() {
		return 0, fmt.Errorf("unknown change type %q", entry.ChangeType)
	}
	if entry.QuantityChanged < 0 {
		return 0, fmt.Errorf("quantity changed must not be negative")
	}
	if _, ok := m.items[entry.ItemID]; !ok {
		return 0, fmt.Errorf("insert change log: item %d does not exist", entry.ItemID)
	}

	m.nextLogID++
	entry.ID = m.nextLogID
	m.logs[entry.ID] = entry
	return entry.ID, nil
}

func (m *MemoryAdapter) ListChangeLogs(ctx context.Context, itemID int64) ([]domain.InventoryChangeLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	logs := make([]domain.InventoryChangeLog, 0)
	for _, entry := range m.logs {
		if entry.ItemID == itemID {
			logs = append(logs, entry)
		}
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].ID < logs[j].ID })
	return logs, nil
}

func (m *MemoryAdapter) deleteItemLocked(itemID int64) {
	delete(m.items, itemID)
	for id, entry := range m.logs {
		if entry.ItemID == itemID {
			delete(m.logs, id)
		}
	}
}
