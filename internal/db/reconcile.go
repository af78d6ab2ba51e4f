package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uniclubs/movement-service/internal/ctxutil"
	"github.com/uniclubs/movement-service/internal/metrics"
)

// MarkMovementRecordDirty queues one student record for the next
// reconcile pass.
func MarkMovementRecordDirty(ctx context.Context, database *sql.DB, recordID int64) error {
	res, err := database.ExecContext(ctx,
		`UPDATE movement_records SET dirty = TRUE WHERE id = $1`, recordID)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return fmt.Errorf("movement record %d: %w", recordID, ErrNotFound)
	}
	return nil
}

// MarkClubRecordsDirty queues every monthly record of a club's semester for
// recomputation, backing the "recalculate totals for club X" repair action.
// Returns how many records were queued.
func MarkClubRecordsDirty(ctx context.Context, database *sql.DB, clubID, semesterID int64) (int64, error) {
	res, err := database.ExecContext(ctx,
		`UPDATE club_movement_records SET dirty = TRUE WHERE club_id = $1 AND semester_id = $2`,
		clubID, semesterID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountDirtyRecords feeds the staleness gauge.
func CountDirtyRecords(ctx context.Context, database *sql.DB) (int, error) {
	var n int
	err := database.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM movement_records WHERE dirty)
		     + (SELECT COUNT(*) FROM club_movement_records WHERE dirty)`,
	).Scan(&n)
	return n, err
}

// ReconcileDirtyRecords recomputes every record marked dirty. A record
// whose recompute keeps failing stays dirty and is reported as stale, so
// divergence is bounded by the reconcile interval and never silent.
func ReconcileDirtyRecords(ctx context.Context, database *sql.DB) (int, error) {
	repaired := 0
	var stale error

	studentIDs, err := collectIDs(ctx, database, `SELECT id FROM movement_records WHERE dirty ORDER BY id`)
	if err != nil {
		return 0, err
	}
	for _, id := range studentIDs {
		cctx, cancel := ctxutil.WithDBTimeout(ctx)
		err := RecomputeMovementRecord(cctx, database, id)
		cancel()
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue // removed since the scan
			}
			stale = errors.Join(stale, fmt.Errorf("movement record %d: %w: %w", id, ErrStaleTotals, err))
			continue
		}
		repaired++
	}

	clubIDs, err := collectIDs(ctx, database, `SELECT id FROM club_movement_records WHERE dirty ORDER BY id`)
	if err != nil {
		return repaired, err
	}
	for _, id := range clubIDs {
		cctx, cancel := ctxutil.WithDBTimeout(ctx)
		err := RecomputeClubMovementRecord(cctx, database, id)
		cancel()
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			stale = errors.Join(stale, fmt.Errorf("club movement record %d: %w: %w", id, ErrStaleTotals, err))
			continue
		}
		repaired++
	}

	if n, err := CountDirtyRecords(ctx, database); err == nil {
		metrics.DirtyRecords.Set(float64(n))
	}
	return repaired, stale
}

func collectIDs(ctx context.Context, database *sql.DB, query string) ([]int64, error) {
	rows, err := database.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
