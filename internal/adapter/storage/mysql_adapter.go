package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/inventory-service/internal/core/domain"
	"github.com/rl1809/inventory-service/internal/port"
)

const mysqlDuplicateEntry = 1062

var (
	_ port.UserRepository      = (*MySQLAdapter)(nil)
	_ port.InventoryRepository = (*MySQLAdapter)(nil)
	_ port.ChangeLogRepository = (*MySQLAdapter)(nil)
)

type MySQLAdapter struct {
	db *sql.DB
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db}
}

// OpenMySQL opens a pool for dsn with the driver options the adapter relies
// on: parsed DATETIME columns in UTC and "found" rather than "changed" row
// counts for UPDATE.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.ClientFoundRows = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

func (m *MySQLAdapter) CreateItem(ctx context.Context, item domain.InventoryItem) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory_items
			(name, description, quantity, price, category, date_added, last_updated, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Name, item.Description, item.Quantity, item.Price, item.Category,
		item.DateAdded, item.LastUpdated, item.OwnerID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert item id: %w", err)
	}
	return id, nil
}

func (m *MySQLAdapter) ListItemsByOwner(ctx context.Context, ownerID int64) ([]domain.InventoryItem, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, name, description, quantity, price, category, date_added, last_updated, user_id
		FROM inventory_items
		WHERE user_id = ?
		ORDER BY id ASC`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (m *MySQLAdapter) GetItem(ctx context.Context, ownerID, itemID int64) (*domain.InventoryItem, error) {
	row := m.db.QueryRowContext(ctx, `
		SELECT id, name, description, quantity, price, category, date_added, last_updated, user_id
		FROM inventory_items
		WHERE id = ? AND user_id = ?`, itemID, ownerID,
	)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return &item, nil
}

func (m *MySQLAdapter) UpdateItem(ctx context.Context, item domain.InventoryItem) error {
	result, err := m.db.ExecContext(ctx, `
		UPDATE inventory_items
		SET name = ?, description = ?, quantity = ?, price = ?, category = ?, last_updated = ?
		WHERE id = ? AND user_id = ?`,
		item.Name, item.Description, item.Quantity, item.Price, item.Category, item.LastUpdated,
		item.ID, item.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteItem relies on the inventory_change_logs foreign key to cascade.
func (m *MySQLAdapter) DeleteItem(ctx context.Context, ownerID, itemID int64) error {
	result, err := m.db.ExecContext(ctx,
		`DELETE FROM inventory_items WHERE id = ? AND user_id = ?`, itemID, ownerID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Quantity, &item.Price,
		&item.Category, &item.DateAdded, &item.LastUpdated, &item.OwnerID,
	)
	return item, err
}

func isDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
