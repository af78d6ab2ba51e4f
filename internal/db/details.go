package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uniclubs/movement-service/internal/models"
)

// AddMovementDetail appends one point award to a student record and
// recomputes the record's total in the same transaction, so no reader can
// observe the new row without the matching total.
func AddMovementDetail(ctx context.Context, database *sql.DB, d models.MovementRecordDetail) (int64, error) {
	if d.AwardedAt.IsZero() {
		d.AwardedAt = time.Now()
	}
	var id int64
	err := runRecordTx(ctx, database, func(tx *sql.Tx) error {
		if err := lockRecord(ctx, tx, "movement_records", d.RecordID); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO movement_record_details (record_id, criterion_id, score, awarded_at, note, activity_id, score_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			d.RecordID, d.CriterionID, d.Score, d.AwardedAt, d.Note, d.ActivityID, d.ScoreType,
		).Scan(&id); err != nil {
			return err
		}
		return recomputeStudentTx(ctx, tx, d.RecordID)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// RemoveMovementDetail deletes one award and recomputes the owning record
// in the same transaction. Returns false when the detail does not exist.
func RemoveMovementDetail(ctx context.Context, database *sql.DB, detailID int64) (bool, error) {
	removed := false
	err := runRecordTx(ctx, database, func(tx *sql.Tx) error {
		removed = false
		var recordID int64
		err := tx.QueryRowContext(ctx,
			`SELECT record_id FROM movement_record_details WHERE id = $1`, detailID,
		).Scan(&recordID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := lockRecord(ctx, tx, "movement_records", recordID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM movement_record_details WHERE id = $1`, detailID)
		if err != nil {
			return err
		}
		aff, _ := res.RowsAffected()
		if aff == 0 {
			// raced with another delete; nothing changed
			return nil
		}
		removed = true
		return recomputeStudentTx(ctx, tx, recordID)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func ListMovementDetails(ctx context.Context, database *sql.DB, recordID int64) ([]models.MovementRecordDetail, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, record_id, criterion_id, score, awarded_at, note, activity_id, score_type
		FROM movement_record_details
		WHERE record_id = $1
		ORDER BY awarded_at, id`, recordID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.MovementRecordDetail
	for rows.Next() {
		var d models.MovementRecordDetail
		if err := rows.Scan(&d.ID, &d.RecordID, &d.CriterionID, &d.Score, &d.AwardedAt, &d.Note, &d.ActivityID, &d.ScoreType); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// FindMovementDetailByCriterion detects an existing award for the same
// criterion on the same record; automatic award paths call this before
// appending to avoid double-crediting one criterion.
func FindMovementDetailByCriterion(ctx context.Context, database *sql.DB, recordID, criterionID int64) (*models.MovementRecordDetail, error) {
	var d models.MovementRecordDetail
	err := database.QueryRowContext(ctx, `
		SELECT id, record_id, criterion_id, score, awarded_at, note, activity_id, score_type
		FROM movement_record_details
		WHERE record_id = $1 AND criterion_id = $2
		ORDER BY id
		LIMIT 1`, recordID, criterionID,
	).Scan(&d.ID, &d.RecordID, &d.CriterionID, &d.Score, &d.AwardedAt, &d.Note, &d.ActivityID, &d.ScoreType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("detail for record %d criterion %d: %w", recordID, criterionID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func AddClubMovementDetail(ctx context.Context, database *sql.DB, d models.ClubMovementRecordDetail) (int64, error) {
	if d.AwardedAt.IsZero() {
		d.AwardedAt = time.Now()
	}
	var id int64
	err := runRecordTx(ctx, database, func(tx *sql.Tx) error {
		if err := lockRecord(ctx, tx, "club_movement_records", d.RecordID); err != nil {
			return err
		}
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO club_movement_record_details (record_id, criterion_id, score, awarded_at, activity_id, created_by)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			d.RecordID, d.CriterionID, d.Score, d.AwardedAt, d.ActivityID, d.CreatedBy,
		).Scan(&id); err != nil {
			return err
		}
		return recomputeClubTx(ctx, tx, d.RecordID)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func RemoveClubMovementDetail(ctx context.Context, database *sql.DB, detailID int64) (bool, error) {
	removed := false
	err := runRecordTx(ctx, database, func(tx *sql.Tx) error {
		removed = false
		var recordID int64
		err := tx.QueryRowContext(ctx,
			`SELECT record_id FROM club_movement_record_details WHERE id = $1`, detailID,
		).Scan(&recordID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := lockRecord(ctx, tx, "club_movement_records", recordID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM club_movement_record_details WHERE id = $1`, detailID)
		if err != nil {
			return err
		}
		aff, _ := res.RowsAffected()
		if aff == 0 {
			return nil
		}
		removed = true
		return recomputeClubTx(ctx, tx, recordID)
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func ListClubMovementDetails(ctx context.Context, database *sql.DB, recordID int64) ([]models.ClubMovementRecordDetail, error) {
	rows, err := database.QueryContext(ctx, `
		SELECT id, record_id, criterion_id, score, awarded_at, activity_id, created_by
		FROM club_movement_record_details
		WHERE record_id = $1
		ORDER BY awarded_at, id`, recordID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.ClubMovementRecordDetail
	for rows.Next() {
		var d models.ClubMovementRecordDetail
		if err := rows.Scan(&d.ID, &d.RecordID, &d.CriterionID, &d.Score, &d.AwardedAt, &d.ActivityID, &d.CreatedBy); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
