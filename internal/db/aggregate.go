package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uniclubs/movement-service/internal/metrics"
	"github.com/uniclubs/movement-service/internal/score"
)

const recomputeRetries = 3

// runRecordTx runs fn in a transaction and retries on serialization or
// deadlock failures. The owning record's row lock is the unit of mutual
// exclusion, so two writers on the same record serialize here while
// different records proceed in parallel.
func runRecordTx(ctx context.Context, database *sql.DB, fn func(tx *sql.Tx) error) error {
	var err error
	for attempt := 0; attempt < recomputeRetries; attempt++ {
		err = func() error {
			tx, txErr := database.BeginTx(ctx, nil)
			if txErr != nil {
				return txErr
			}
			defer func() { _ = tx.Rollback() }()
			if fnErr := fn(tx); fnErr != nil {
				return fnErr
			}
			return tx.Commit()
		}()
		if state := sqlState(err); state == pgSerializationFail || state == pgDeadlockDetected {
			continue
		}
		return err
	}
	return err
}

// RecomputeMovementRecord rebuilds the cached flat total of a student
// record from its current details. Zero details is a valid empty sum.
// The call is idempotent.
func RecomputeMovementRecord(ctx context.Context, database *sql.DB, recordID int64) error {
	t0 := time.Now()
	err := runRecordTx(ctx, database, func(tx *sql.Tx) error {
		return recomputeStudentTx(ctx, tx, recordID)
	})
	observeRecompute("student", t0, err)
	return err
}

func recomputeStudentTx(ctx context.Context, tx *sql.Tx, recordID int64) error {
	if err := lockRecord(ctx, tx, "movement_records", recordID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE movement_records
		SET total_score = COALESCE((SELECT SUM(score) FROM movement_record_details WHERE record_id = $1), 0),
		    dirty = FALSE,
		    updated_at = now()
		WHERE id = $1`, recordID)
	if sqlState(err) == pgCheckViolation {
		return fmt.Errorf("recompute record %d: negative total: %w", recordID, ErrValidation)
	}
	return err
}

// RecomputeClubMovementRecord rebuilds the six bucket totals and the
// overall total of a club record. Every detail falls into exactly one
// bucket, classified by its criterion title; details without a criterion
// land in "other". All seven fields persist in one statement.
func RecomputeClubMovementRecord(ctx context.Context, database *sql.DB, recordID int64) error {
	t0 := time.Now()
	err := runRecordTx(ctx, database, func(tx *sql.Tx) error {
		return recomputeClubTx(ctx, tx, recordID)
	})
	observeRecompute("club", t0, err)
	return err
}

func recomputeClubTx(ctx context.Context, tx *sql.Tx, recordID int64) error {
	if err := lockRecord(ctx, tx, "club_movement_records", recordID); err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT d.score, COALESCE(c.title, '')
		FROM club_movement_record_details d
		LEFT JOIN criteria c ON c.id = d.criterion_id
		WHERE d.record_id = $1`, recordID)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	var totals score.Totals
	for rows.Next() {
		var amount int
		var title string
		if err := rows.Scan(&amount, &title); err != nil {
			return err
		}
		totals.Add(score.ClassifyTitle(title), amount)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE club_movement_records
		SET meeting_score = $1, event_score = $2, competition_score = $3,
		    plan_score = $4, collaboration_score = $5, other_score = $6,
		    total_score = $7, dirty = FALSE, updated_at = now()
		WHERE id = $8`,
		totals.Meeting, totals.Event, totals.Competition,
		totals.Plan, totals.Collaboration, totals.Other,
		totals.Total, recordID)
	if sqlState(err) == pgCheckViolation {
		return fmt.Errorf("recompute club record %d: negative bucket: %w", recordID, ErrValidation)
	}
	return err
}

// lockRecord takes the row lock that serializes all total mutations of one
// record. NotFound if the record vanished mid-recompute.
func lockRecord(ctx context.Context, tx *sql.Tx, table string, recordID int64) error {
	var id int64
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM `+table+` WHERE id = $1 FOR UPDATE`, recordID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("record %d in %s: %w", recordID, table, ErrNotFound)
	}
	return err
}

func observeRecompute(kind string, t0 time.Time, err error) {
	metrics.RecomputeDuration.WithLabelValues(kind).Observe(time.Since(t0).Seconds())
	if err != nil {
		metrics.RecomputeErrors.WithLabelValues(kind).Inc()
	} else {
		metrics.Recomputes.WithLabelValues(kind).Inc()
	}
}
