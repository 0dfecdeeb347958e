// Package audit records document change history.
// Edits and deletions of ledger documents move derived stock, so the admin
// console keeps a trail of who changed what to explain later drift.
package audit

import (
	"context"
	"time"

	"turbostock/internal/core/id"
)

// Action is the kind of change recorded.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is one recorded change.
type Entry struct {
	ID         id.ID     `db:"id" json:"id"`
	Entity     string    `db:"entity" json:"entity"`
	EntityID   id.ID     `db:"entity_id" json:"entityId"`
	Action     Action    `db:"action" json:"action"`
	OccurredAt time.Time `db:"occurred_at" json:"occurredAt"`

	// Changes is the JSON snapshot of the document after the change
	// (before the change, for deletions). Large payloads are compressed
	// by the store.
	Changes []byte `db:"changes" json:"-"`
}

// NewEntry creates an Entry stamped now.
func NewEntry(entity string, entityID id.ID, action Action, changes []byte) Entry {
	return Entry{
		ID:         id.New(),
		Entity:     entity,
		EntityID:   entityID,
		Action:     action,
		OccurredAt: time.Now().UTC(),
		Changes:    changes,
	}
}

// ChangeLog persists audit entries. Recording is best-effort at call sites:
// a failed audit write never rolls back the business operation.
type ChangeLog interface {
	Record(ctx context.Context, entry Entry) error
	ListForEntity(ctx context.Context, entity string, entityID id.ID) ([]Entry, error)
}
