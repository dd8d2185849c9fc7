package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rl1809/inventory-service/internal/core/domain"
)

func (m *MySQLAdapter) RecordChange(ctx context.Context, entry domain.InventoryChangeLog) (int64, error) {
	if !entry.ChangeType.Valid() {
		return 0, fmt.Errorf("unknown change type %q", entry.ChangeType)
	}

	var userID sql.NullInt64
	if entry.UserID != nil {
		userID = sql.NullInt64{Int64: *entry.UserID, Valid: true}
	}

	result, err := m.db.ExecContext(ctx, `
		INSERT INTO inventory_change_logs (item_id, user_id, change_type, quantity_changed, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		entry.ItemID, userID, string(entry.ChangeType), entry.QuantityChanged, entry.Timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert change log: %w", err)
	}
	return result.LastInsertId()
}

func (m *MySQLAdapter) ListChangeLogs(ctx context.Context, itemID int64) ([]domain.InventoryChangeLog, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, item_id, user_id, change_type, quantity_changed, timestamp
		FROM inventory_change_logs
		WHERE item_id = ?
		ORDER BY id ASC`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("query change logs: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.InventoryChangeLog, 0)
	for rows.Next() {
		var (
			entry      domain.InventoryChangeLog
			userID     sql.NullInt64
			changeType string
		)
		if err := rows.Scan(&entry.ID, &entry.ItemID, &userID, &changeType, &entry.QuantityChanged, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("scan change log: %w", err)
		}
		entry.ChangeType = domain.ChangeType(changeType)
		if userID.Valid {
			uid := userID.Int64
			entry.UserID = &uid
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
