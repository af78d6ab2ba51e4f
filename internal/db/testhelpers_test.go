//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/uniclubs/movement-service/internal/db"
	"github.com/uniclubs/movement-service/internal/models"
	"github.com/uniclubs/movement-service/internal/testutil/testdb"
)

func startDB(t *testing.T) *testdb.DBHandle {
	t.Helper()
	h, err := testdb.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.Close)
	return h
}

func mustCreateGroup(t *testing.T, dbx *sql.DB, name string, target models.TargetType, maxScore int) int64 {
	t.Helper()
	id, err := db.CreateCriterionGroup(context.Background(), dbx, name, target, maxScore)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func mustCreateCriterion(t *testing.T, dbx *sql.DB, groupID int64, title string, maxScore int, target models.TargetType) int64 {
	t.Helper()
	id, err := db.CreateCriterion(context.Background(), dbx, models.Criterion{
		GroupID:    groupID,
		Title:      title,
		MaxScore:   maxScore,
		TargetType: target,
		IsActive:   true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func mustAddDetail(t *testing.T, dbx *sql.DB, recordID, criterionID int64, amount int) int64 {
	t.Helper()
	id, err := db.AddMovementDetail(context.Background(), dbx, models.MovementRecordDetail{
		RecordID:    recordID,
		CriterionID: criterionID,
		Score:       amount,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func mustAddClubDetail(t *testing.T, dbx *sql.DB, recordID int64, criterionID *int64, amount int) int64 {
	t.Helper()
	id, err := db.AddClubMovementDetail(context.Background(), dbx, models.ClubMovementRecordDetail{
		RecordID:    recordID,
		CriterionID: criterionID,
		Score:       amount,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func ptrInt64(v int64) *int64    { return &v }
func ptrString(v string) *string { return &v }
