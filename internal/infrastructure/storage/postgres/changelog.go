package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	"turbostock/internal/core/id"
	"turbostock/internal/domain/audit"
)

// compressThreshold is the snapshot size above which zstd kicks in.
// Most documents are a few hundred bytes; bulk edits can carry dozens of
// lines and cross this easily.
const compressThreshold = 4 * 1024

const (
	compressionNone = "none"
	compressionZstd = "zstd"
)

// ChangeLogRepository implements audit.ChangeLog on the audit_log table.
// Large snapshots are stored zstd-compressed.
type ChangeLogRepository struct {
	txm     *TxManager
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewChangeLogRepository creates an audit change log repository.
func NewChangeLogRepository(txm *TxManager) (*ChangeLogRepository, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &ChangeLogRepository{txm: txm, encoder: encoder, decoder: decoder}, nil
}

func (r *ChangeLogRepository) Record(ctx context.Context, entry audit.Entry) error {
	changes := entry.Changes
	algo := compressionNone
	if len(changes) > compressThreshold {
		changes = r.encoder.EncodeAll(changes, nil)
		algo = compressionZstd
	}

	q := builder().Insert("audit_log").SetMap(map[string]any{
		"id":               entry.ID,
		"entity":           entry.Entity,
		"entity_id":        entry.EntityID,
		"action":           entry.Action,
		"occurred_at":      entry.OccurredAt,
		"changes":          changes,
		"compression_algo": algo,
	})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *ChangeLogRepository) ListForEntity(ctx context.Context, entity string, entityID id.ID) ([]audit.Entry, error) {
	q := builder().
		Select("id", "entity", "entity_id", "action", "occurred_at", "changes", "compression_algo").
		From("audit_log").
		Where(squirrel.Eq{"entity": entity, "entity_id": entityID}).
		OrderBy("occurred_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		var algo string
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &e.Action, &e.OccurredAt, &e.Changes, &algo); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if algo == compressionZstd && len(e.Changes) > 0 {
			decompressed, err := r.decoder.DecodeAll(e.Changes, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress audit changes: %w", err)
			}
			e.Changes = decompressed
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
