package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uniclubs/movement-service/internal/ctxutil"
	"github.com/uniclubs/movement-service/internal/models"
)

// StudentAward is one intake-side award request from the outer workflows
// (evidence approval, activity attendance, manual admin entry).
type StudentAward struct {
	StudentID   int64
	SemesterID  int64
	CriterionID int64
	Amount      int
	Note        *string
	ActivityID  *int64
	ScoreType   string // models.ScoreTypeAutomatic or models.ScoreTypeManual
}

// AwardStudentPoints creates the (student, semester) record on first award
// and appends the detail. Automatic awards for a criterion that already
// credited this record are rejected with a conflict, so a rescan of the
// same source event cannot double-credit.
func AwardStudentPoints(ctx context.Context, database *sql.DB, a StudentAward) (int64, error) {
	crit, err := GetCriterionByID(ctx, database, a.CriterionID)
	if err != nil {
		return 0, err
	}
	if !crit.IsActive {
		return 0, fmt.Errorf("criterion %d is inactive: %w", a.CriterionID, ErrValidation)
	}

	rec, err := GetOrCreateMovementRecord(ctx, database, a.StudentID, a.SemesterID)
	if err != nil {
		return 0, err
	}

	if a.ScoreType == models.ScoreTypeAutomatic {
		if _, err := FindMovementDetailByCriterion(ctx, database, rec.ID, a.CriterionID); err == nil {
			return 0, fmt.Errorf("criterion %d already credited on record %d: %w", a.CriterionID, rec.ID, ErrConflict)
		} else if !errors.Is(err, ErrNotFound) {
			return 0, err
		}
	}

	scoreType := a.ScoreType
	return AddMovementDetail(ctx, database, models.MovementRecordDetail{
		RecordID:    rec.ID,
		CriterionID: a.CriterionID,
		Score:       a.Amount,
		AwardedAt:   time.Now(),
		Note:        a.Note,
		ActivityID:  a.ActivityID,
		ScoreType:   &scoreType,
	})
}

type ClubAward struct {
	ClubID      int64
	SemesterID  int64
	Month       int
	CriterionID *int64
	Amount      int
	ActivityID  *int64
	CreatedBy   *int64
}

// AwardClubPoints creates the (club, semester, month) record on first
// award and appends the detail.
func AwardClubPoints(ctx context.Context, database *sql.DB, a ClubAward) (int64, error) {
	if a.CriterionID != nil {
		if _, err := GetCriterionByID(ctx, database, *a.CriterionID); err != nil {
			return 0, err
		}
	}
	rec, err := GetOrCreateClubMovementRecord(ctx, database, a.ClubID, a.SemesterID, a.Month)
	if err != nil {
		return 0, err
	}
	if a.CreatedBy == nil {
		if actor, ok := ctxutil.ActorID(ctx); ok {
			a.CreatedBy = &actor
		}
	}
	return AddClubMovementDetail(ctx, database, models.ClubMovementRecordDetail{
		RecordID:    rec.ID,
		CriterionID: a.CriterionID,
		Score:       a.Amount,
		AwardedAt:   time.Now(),
		ActivityID:  a.ActivityID,
		CreatedBy:   a.CreatedBy,
	})
}
