//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"sync"
	"testing"

	"github.com/uniclubs/movement-service/internal/db"
	"github.com/uniclubs/movement-service/internal/models"
)

// Two records take parallel appends; each cached total must equal its own
// detail sum at the end, with no lost updates across the shared aggregator.
func TestAddMovementDetail_Parallel(t *testing.T) {
	h := startDB(t)
	ctx := context.Background()

	gid := mustCreateGroup(t, h.DB, "Học tập PAR", models.TargetStudent, 10000)
	cid := mustCreateCriterion(t, h.DB, gid, "Tham gia hội thảo PAR", 10000, models.TargetStudent)

	r1, err := db.CreateMovementRecord(ctx, h.DB, 81, 1)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := db.CreateMovementRecord(ctx, h.DB, 82, 1)
	if err != nil {
		t.Fatal(err)
	}

	wg := sync.WaitGroup{}
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := db.AddMovementDetail(ctx, h.DB, models.MovementRecordDetail{
				RecordID: r1, CriterionID: cid, Score: 10,
			}); err != nil {
				t.Error(err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := db.AddMovementDetail(ctx, h.DB, models.MovementRecordDetail{
				RecordID: r2, CriterionID: cid, Score: 10,
			}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	rec1, err := db.GetMovementRecordByID(ctx, h.DB, r1)
	if err != nil {
		t.Fatal(err)
	}
	rec2, err := db.GetMovementRecordByID(ctx, h.DB, r2)
	if err != nil {
		t.Fatal(err)
	}
	if rec1.TotalScore != 500 || rec2.TotalScore != 500 {
		t.Fatalf("expected 500 points each, got %d and %d", rec1.TotalScore, rec2.TotalScore)
	}

	details, err := db.ListMovementDetails(ctx, h.DB, r1)
	if err != nil {
		t.Fatal(err)
	}
	if len(details) != 50 {
		t.Fatalf("record 1 has %d details, want 50", len(details))
	}
}

func TestAddClubMovementDetail_Parallel(t *testing.T) {
	h := startDB(t)
	ctx := context.Background()

	gid := mustCreateGroup(t, h.DB, "Hoạt động CLB PAR", models.TargetClub, 10000)
	meeting := mustCreateCriterion(t, h.DB, gid, "Sinh hoạt CLB PAR", 10000, models.TargetClub)
	event := mustCreateCriterion(t, h.DB, gid, "Sự kiện PAR", 10000, models.TargetClub)

	rid, err := db.CreateClubMovementRecord(ctx, h.DB, 19, 1, 5)
	if err != nil {
		t.Fatal(err)
	}

	wg := sync.WaitGroup{}
	for i := 0; i < 30; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := db.AddClubMovementDetail(ctx, h.DB, models.ClubMovementRecordDetail{
				RecordID: rid, CriterionID: ptrInt64(meeting), Score: 2,
			}); err != nil {
				t.Error(err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := db.AddClubMovementDetail(ctx, h.DB, models.ClubMovementRecordDetail{
				RecordID: rid, CriterionID: ptrInt64(event), Score: 3,
			}); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	rec, err := db.GetClubMovementRecordByID(ctx, h.DB, rid)
	if err != nil {
		t.Fatal(err)
	}
	if rec.MeetingScore != 60 || rec.EventScore != 90 || rec.TotalScore != 150 {
		t.Fatalf("buckets meeting=%d event=%d total=%d, want 60/90/150",
			rec.MeetingScore, rec.EventScore, rec.TotalScore)
	}
}
