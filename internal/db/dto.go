package db

import (
	"context"
	"database/sql"

	"github.com/uniclubs/movement-service/internal/models"
)

// GetMovementRecordDetailed is the reporting projection for one student
// record: the record, its details and the capped category view.
func GetMovementRecordDetailed(ctx context.Context, database *sql.DB, recordID int64) (*models.MovementRecordDetailedDto, error) {
	rec, err := GetMovementRecordByID(ctx, database, recordID)
	if err != nil {
		return nil, err
	}
	details, err := ListMovementDetails(ctx, database, recordID)
	if err != nil {
		return nil, err
	}
	categories, err := GetCategoryScores(ctx, database, recordID)
	if err != nil {
		return nil, err
	}
	return &models.MovementRecordDetailedDto{
		Record:     *rec,
		Details:    details,
		Categories: categories,
	}, nil
}

// GetClubMovementRecordDetailed is the reporting projection for one club
// record: the record with its six bucket totals and the details behind them.
func GetClubMovementRecordDetailed(ctx context.Context, database *sql.DB, recordID int64) (*models.ClubMovementRecordDto, error) {
	rec, err := GetClubMovementRecordByID(ctx, database, recordID)
	if err != nil {
		return nil, err
	}
	details, err := ListClubMovementDetails(ctx, database, recordID)
	if err != nil {
		return nil, err
	}
	return &models.ClubMovementRecordDto{
		Record:  *rec,
		Details: details,
	}, nil
}
