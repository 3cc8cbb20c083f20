package models

import (
	"time"
)

// User represents a chat participant with a ledger balance.
// ExternalID is the stable identity assigned by the chat network.
type User struct {
	ID         int64     `db:"id"`
	ExternalID string    `db:"external_id"`
	Balance    int64     `db:"balance"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}
