//go:build integration

package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/rl1809/inventory-service/internal/core/domain"
)

// setupMySQL starts a throwaway MySQL container with the schema applied.
func setupMySQL(t *testing.T) (*MySQLAdapter, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	container, err := tcmysql.Run(ctx,
		"mysql:8.0.36",
		tcmysql.WithDatabase("inventory"),
		tcmysql.WithUsername("root"),
		tcmysql.WithPassword("password"),
	)
	if err != nil {
		t.Fatalf("Failed to start MySQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := OpenMySQL(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	adapter := NewMySQLAdapter(db)
	applied, err := adapter.Migrate(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 3)

	return adapter, db
}

func createUser(t *testing.T, adapter *MySQLAdapter, username string) int64 {
	t.Helper()
	id, err := adapter.CreateUser(context.Background(), domain.User{
		Username:     username,
		PasswordHash: "hash",
		DateJoined:   time.Now().UTC().Truncate(time.Microsecond),
	})
	require.NoError(t, err)
	return id
}

func newItem(ownerID int64, name string) domain.InventoryItem {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.InventoryItem{
		Name:        name,
		Description: "from integration test",
		Quantity:    5,
		Price:       decimal.RequireFromString("9.99"),
		Category:    "tools",
		DateAdded:   now,
		LastUpdated: now,
		OwnerID:     ownerID,
	}
}

func TestMySQL(t *testing.T) {
	adapter, db := setupMySQL(t)
	ctx := context.Background()

	t.Run("Migrate is idempotent", func(t *testing.T) {
		applied, err := adapter.Migrate(ctx)
		require.NoError(t, err)
		assert.Empty(t, applied)
	})

	t.Run("Duplicate username", func(t *testing.T) {
		createUser(t, adapter, "dup")
		_, err := adapter.CreateUser(ctx, domain.User{Username: "dup", PasswordHash: "x", DateJoined: time.Now().UTC()})
		assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

		user, err := adapter.GetUserByUsername(ctx, "missing")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("Item CRUD scoped to owner", func(t *testing.T) {
		alice := createUser(t, adapter, "alice")
		bob := createUser(t, adapter, "bob")

		item := newItem(alice, "Widget")
		id, err := adapter.CreateItem(ctx, item)
		require.NoError(t, err)
		item.ID = id

		got, err := adapter.GetItem(ctx, alice, id)
		require.NoError(t, err)
		assert.Equal(t, "Widget", got.Name)
		assert.Equal(t, "9.99", got.Price.StringFixed(2))
		assert.True(t, item.DateAdded.Equal(got.DateAdded))

		_, err = adapter.GetItem(ctx, bob, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		bobItems, err := adapter.ListItemsByOwner(ctx, bob)
		require.NoError(t, err)
		assert.Empty(t, bobItems)

		// Writing identical values still counts as a match.
		require.NoError(t, adapter.UpdateItem(ctx, *got))

		got.Quantity = 0
		got.Price = decimal.RequireFromString("12.50")
		got.LastUpdated = got.LastUpdated.Add(time.Second)
		require.NoError(t, adapter.UpdateItem(ctx, *got))

		foreign := *got
		foreign.OwnerID = bob
		assert.ErrorIs(t, adapter.UpdateItem(ctx, foreign), domain.ErrNotFound)

		items, err := adapter.ListItemsByOwner(ctx, alice)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 0, items[0].Quantity)
		assert.Equal(t, "12.50", items[0].Price.StringFixed(2))

		assert.ErrorIs(t, adapter.DeleteItem(ctx, bob, id), domain.ErrNotFound)
		require.NoError(t, adapter.DeleteItem(ctx, alice, id))
		assert.ErrorIs(t, adapter.DeleteItem(ctx, alice, id), domain.ErrNotFound)
	})

	t.Run("Deleting an item cascades its change logs", func(t *testing.T) {
		owner := createUser(t, adapter, "carol")
		id, err := adapter.CreateItem(ctx, newItem(owner, "Gadget"))
		require.NoError(t, err)

		_, err = adapter.RecordChange(ctx, domain.InventoryChangeLog{
			ItemID:          id,
			UserID:          &owner,
			ChangeType:      domain.ChangeTypeRestock,
			QuantityChanged: 3,
			Timestamp:       time.Now().UTC(),
		})
		require.NoError(t, err)

		logs, err := adapter.ListChangeLogs(ctx, id)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		require.NotNil(t, logs[0].UserID)
		assert.Equal(t, owner, *logs[0].UserID)

		require.NoError(t, adapter.DeleteItem(ctx, owner, id))

		logs, err = adapter.ListChangeLogs(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, logs)
	})

	t.Run("Deleting a user clears log authorship and removes owned items", func(t *testing.T) {
		owner := createUser(t, adapter, "dave")
		actor := createUser(t, adapter, "erin")
		id, err := adapter.CreateItem(ctx, newItem(owner, "Sprocket"))
		require.NoError(t, err)

		_, err = adapter.RecordChange(ctx, domain.InventoryChangeLog{
			ItemID:          id,
			UserID:          &actor,
			ChangeType:      domain.ChangeTypeSale,
			QuantityChanged: 1,
			Timestamp:       time.Now().UTC(),
		})
		require.NoError(t, err)

		_, err = db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, actor)
		require.NoError(t, err)

		logs, err := adapter.ListChangeLogs(ctx, id)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Nil(t, logs[0].UserID)

		_, err = db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, owner)
		require.NoError(t, err)

		items, err := adapter.ListItemsByOwner(ctx, owner)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Unknown change type is rejected", func(t *testing.T) {
		owner := createUser(t, adapter, "frank")
		id, err := adapter.CreateItem(ctx, newItem(owner, "Bolt"))
		require.NoError(t, err)

		_, err = adapter.RecordChange(ctx, domain.InventoryChangeLog{ItemID: id, ChangeType: "refund", Timestamp: time.Now().UTC()})
		assert.Error(t, err)
	})
}
