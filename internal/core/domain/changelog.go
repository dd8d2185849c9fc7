package domain

import "time"

type ChangeType string

const (
	ChangeTypeRestock ChangeType = "restock"
	ChangeTypeSale    ChangeType = "sale"
)

func (t ChangeType) Valid() bool {
	return t == ChangeTypeRestock || t == ChangeTypeSale
}

// InventoryChangeLog is a passive ledger row. UserID is nil once the acting
// user has been deleted; the row itself goes away with its item.
type InventoryChangeLog struct {
	ID              int64
	ItemID          int64
	UserID          *int64
	ChangeType      ChangeType
	QuantityChanged int
	Timestamp       time.Time
}
