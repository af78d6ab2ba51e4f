package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uniclubs/movement-service/internal/ctxutil"
	"github.com/uniclubs/movement-service/internal/metrics"
	"github.com/uniclubs/movement-service/internal/models"
	"go.uber.org/zap"
)

const (
	pgUniqueViolation   = "23505"
	pgSerializationFail = "40001"
	pgDeadlockDetected  = "40P01"
	pgCheckViolation    = "23514"
)

// sqlState extracts the SQLSTATE code regardless of driver (pgx in the
// service, lib/pq in the test harness).
func sqlState(err error) string {
	var coder interface{ SQLState() string }
	if errors.As(err, &coder) {
		return coder.SQLState()
	}
	return ""
}

func CreateMovementRecord(ctx context.Context, database *sql.DB, studentID, semesterID int64) (int64, error) {
	var id int64
	err := database.QueryRowContext(ctx,
		`INSERT INTO movement_records (student_id, semester_id) VALUES ($1, $2) RETURNING id`,
		studentID, semesterID,
	).Scan(&id)
	if sqlState(err) == pgUniqueViolation {
		return 0, fmt.Errorf("movement record for student %d semester %d already exists: %w", studentID, semesterID, ErrConflict)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func GetMovementRecordByID(ctx context.Context, database *sql.DB, id int64) (*models.MovementRecord, error) {
	return scanMovementRecord(database.QueryRowContext(ctx,
		`SELECT id, student_id, semester_id, total_score, dirty, adjusted_by, adjusted_at, adjustment_reason, created_at, updated_at
		 FROM movement_records WHERE id = $1`, id))
}

func GetMovementRecord(ctx context.Context, database *sql.DB, studentID, semesterID int64) (*models.MovementRecord, error) {
	return scanMovementRecord(database.QueryRowContext(ctx,
		`SELECT id, student_id, semester_id, total_score, dirty, adjusted_by, adjusted_at, adjustment_reason, created_at, updated_at
		 FROM movement_records WHERE student_id = $1 AND semester_id = $2`, studentID, semesterID))
}

func scanMovementRecord(row *sql.Row) (*models.MovementRecord, error) {
	var r models.MovementRecord
	err := row.Scan(&r.ID, &r.StudentID, &r.SemesterID, &r.TotalScore, &r.Dirty,
		&r.AdjustedBy, &r.AdjustedAt, &r.AdjustmentReason, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("movement record: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetOrCreateMovementRecord is the first-award path: a record appears the
// first time a (student, semester) pair earns points. A concurrent creator
// winning the unique index is not an error here.
func GetOrCreateMovementRecord(ctx context.Context, database *sql.DB, studentID, semesterID int64) (*models.MovementRecord, error) {
	rec, err := GetMovementRecord(ctx, database, studentID, semesterID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if _, err := CreateMovementRecord(ctx, database, studentID, semesterID); err != nil && !errors.Is(err, ErrConflict) {
		return nil, err
	}
	return GetMovementRecord(ctx, database, studentID, semesterID)
}

func CreateClubMovementRecord(ctx context.Context, database *sql.DB, clubID, semesterID int64, month int) (int64, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("month %d: %w", month, ErrValidation)
	}
	var id int64
	err := database.QueryRowContext(ctx,
		`INSERT INTO club_movement_records (club_id, semester_id, month) VALUES ($1, $2, $3) RETURNING id`,
		clubID, semesterID, month,
	).Scan(&id)
	if sqlState(err) == pgUniqueViolation {
		return 0, fmt.Errorf("club movement record for club %d semester %d month %d already exists: %w", clubID, semesterID, month, ErrConflict)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func GetClubMovementRecordByID(ctx context.Context, database *sql.DB, id int64) (*models.ClubMovementRecord, error) {
	return scanClubMovementRecord(database.QueryRowContext(ctx,
		`SELECT id, club_id, semester_id, month, meeting_score, event_score, competition_score,
		        plan_score, collaboration_score, other_score, total_score, dirty, created_at, updated_at
		 FROM club_movement_records WHERE id = $1`, id))
}

func GetClubMovementRecord(ctx context.Context, database *sql.DB, clubID, semesterID int64, month int) (*models.ClubMovementRecord, error) {
	return scanClubMovementRecord(database.QueryRowContext(ctx,
		`SELECT id, club_id, semester_id, month, meeting_score, event_score, competition_score,
		        plan_score, collaboration_score, other_score, total_score, dirty, created_at, updated_at
		 FROM club_movement_records WHERE club_id = $1 AND semester_id = $2 AND month = $3`,
		clubID, semesterID, month))
}

func scanClubMovementRecord(row *sql.Row) (*models.ClubMovementRecord, error) {
	var r models.ClubMovementRecord
	err := row.Scan(&r.ID, &r.ClubID, &r.SemesterID, &r.Month,
		&r.MeetingScore, &r.EventScore, &r.CompetitionScore, &r.PlanScore,
		&r.CollaborationScore, &r.OtherScore, &r.TotalScore, &r.Dirty,
		&r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("club movement record: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func GetOrCreateClubMovementRecord(ctx context.Context, database *sql.DB, clubID, semesterID int64, month int) (*models.ClubMovementRecord, error) {
	rec, err := GetClubMovementRecord(ctx, database, clubID, semesterID, month)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if _, err := CreateClubMovementRecord(ctx, database, clubID, semesterID, month); err != nil && !errors.Is(err, ErrConflict) {
		return nil, err
	}
	return GetClubMovementRecord(ctx, database, clubID, semesterID, month)
}

// DeleteMovementRecord hard-deletes a record. Without cascade it refuses
// while details exist; with cascade the details go too, as an explicit
// administrative action.
func DeleteMovementRecord(ctx context.Context, database *sql.DB, recordID int64, cascade bool) error {
	return deleteRecord(ctx, database, "movement_records", "movement_record_details", recordID, cascade)
}

func DeleteClubMovementRecord(ctx context.Context, database *sql.DB, recordID int64, cascade bool) error {
	return deleteRecord(ctx, database, "club_movement_records", "club_movement_record_details", recordID, cascade)
}

func deleteRecord(ctx context.Context, database *sql.DB, table, detailTable string, recordID int64, cascade bool) error {
	if !cascade {
		var details int
		if err := database.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM `+detailTable+` WHERE record_id = $1`, recordID,
		).Scan(&details); err != nil {
			return err
		}
		if details > 0 {
			return fmt.Errorf("record %d still has %d details: %w", recordID, details, ErrConflict)
		}
	}
	res, err := database.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, recordID)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return fmt.Errorf("record %d: %w", recordID, ErrNotFound)
	}
	return nil
}

// AdjustStudentTotal overrides a student record's stored total without
// touching its details. The record's total stays inconsistent with the
// detail sum until the next detail mutation recomputes it; the override is
// audited on the record and logged so the two states are never confused.
func AdjustStudentTotal(ctx context.Context, database *sql.DB, recordID int64, newTotal, maxTotal int, actorID int64, reason string) error {
	if newTotal < 0 || newTotal > maxTotal {
		return fmt.Errorf("total %d outside 0..%d: %w", newTotal, maxTotal, ErrValidation)
	}
	res, err := database.ExecContext(ctx, `
		UPDATE movement_records
		SET total_score = $1, adjusted_by = $2, adjusted_at = now(), adjustment_reason = $3, updated_at = now()
		WHERE id = $4`,
		newTotal, actorID, reason, recordID,
	)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return fmt.Errorf("movement record %d: %w", recordID, ErrNotFound)
	}
	metrics.ManualAdjustments.Inc()
	fields := []zap.Field{
		zap.Int64("record_id", recordID),
		zap.Int("new_total", newTotal),
		zap.Int64("actor_id", actorID),
		zap.String("reason", reason),
	}
	if op, ok := ctxutil.Op(ctx); ok {
		fields = append(fields, zap.String("op", op))
	}
	zap.L().Warn("manual total override", fields...)
	return nil
}
