//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/uniclubs/movement-service/internal/db"
	"github.com/uniclubs/movement-service/internal/models"
)

func TestCatalog_GroupCRUD(t *testing.T) {
	h := startDB(t)
	ctx := context.Background()

	gid := mustCreateGroup(t, h.DB, "Học tập CRUD", models.TargetStudent, 20)

	g, err := db.GetCriterionGroupByID(ctx, h.DB, gid)
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "Học tập CRUD" || g.TargetType != models.TargetStudent || g.MaxScore != 20 {
		t.Fatalf("unexpected group: %+v", g)
	}

	if err := db.UpdateCriterionGroup(ctx, h.DB, gid, "Học tập CRUD", models.TargetStudent, 25); err != nil {
		t.Fatal(err)
	}
	g, _ = db.GetCriterionGroupByID(ctx, h.DB, gid)
	if g.MaxScore != 25 {
		t.Fatalf("max score not updated: %+v", g)
	}

	if _, err := db.GetCriterionGroupByID(ctx, h.DB, 999999); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := db.CreateCriterionGroup(ctx, h.DB, "bad", "Faculty", 10); !errors.Is(err, db.ErrValidation) {
		t.Fatalf("want ErrValidation for bad target, got %v", err)
	}
	if _, err := db.CreateCriterionGroup(ctx, h.DB, "bad", models.TargetClub, -1); !errors.Is(err, db.ErrValidation) {
		t.Fatalf("want ErrValidation for negative max, got %v", err)
	}

	// a group that owns criteria cannot be deleted
	mustCreateCriterion(t, h.DB, gid, "Tham gia hội thảo CRUD", 10, models.TargetStudent)
	if err := db.DeleteCriterionGroup(ctx, h.DB, gid); !errors.Is(err, db.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}

	empty := mustCreateGroup(t, h.DB, "Nhóm trống", models.TargetStudent, 5)
	if err := db.DeleteCriterionGroup(ctx, h.DB, empty); err != nil {
		t.Fatal(err)
	}
}

func TestCatalog_CriterionLifecycle(t *testing.T) {
	h := startDB(t)
	ctx := context.Background()

	gid := mustCreateGroup(t, h.DB, "Phong trào LC", models.TargetStudent, 30)
	cid := mustCreateCriterion(t, h.DB, gid, "Tham gia Sự kiện LC", 15, models.TargetStudent)

	active, err := db.ToggleCriterionActive(ctx, h.DB, cid)
	if err != nil {
		t.Fatal(err)
	}
	if active {
		t.Fatal("toggle must return the new value (false)")
	}
	active, _ = db.ToggleCriterionActive(ctx, h.DB, cid)
	if !active {
		t.Fatal("second toggle must flip back to true")
	}

	students, err := db.ListCriteriaByTargetType(ctx, h.DB, models.TargetStudent)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, c := range students {
		if c.ID == cid {
			found = true
		}
		if c.TargetType != models.TargetStudent {
			t.Fatalf("wrong target type in listing: %+v", c)
		}
	}
	if !found {
		t.Fatal("created criterion missing from target-type listing")
	}

	// a referenced criterion cannot be deleted, only deactivated
	rid, err := db.CreateMovementRecord(ctx, h.DB, 1001, 1)
	if err != nil {
		t.Fatal(err)
	}
	mustAddDetail(t, h.DB, rid, cid, 5)
	if err := db.DeleteCriterion(ctx, h.DB, cid); !errors.Is(err, db.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}

	// …including references from the club side
	clubCrit := mustCreateCriterion(t, h.DB, gid, "Sinh hoạt CLB LC", 10, models.TargetClub)
	crid, err := db.CreateClubMovementRecord(ctx, h.DB, 7, 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	mustAddClubDetail(t, h.DB, crid, ptrInt64(clubCrit), 5)
	if err := db.DeleteCriterion(ctx, h.DB, clubCrit); !errors.Is(err, db.ErrConflict) {
		t.Fatalf("want ErrConflict for club-referenced criterion, got %v", err)
	}

	unused := mustCreateCriterion(t, h.DB, gid, "Chưa dùng LC", 5, models.TargetStudent)
	if err := db.DeleteCriterion(ctx, h.DB, unused); err != nil {
		t.Fatal(err)
	}
}

func TestCatalog_ListActive(t *testing.T) {
	h := startDB(t)
	ctx := context.Background()

	gid := mustCreateGroup(t, h.DB, "Xã hội LA", models.TargetStudent, 10)
	onID := mustCreateCriterion(t, h.DB, gid, "Tình nguyện LA", 10, models.TargetStudent)
	offID := mustCreateCriterion(t, h.DB, gid, "Đã ẩn LA", 10, models.TargetStudent)
	if _, err := db.ToggleCriterionActive(ctx, h.DB, offID); err != nil {
		t.Fatal(err)
	}

	active, err := db.ListActiveCriteria(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	seenOn := false
	for _, c := range active {
		if c.ID == offID {
			t.Fatal("inactive criterion in active listing")
		}
		if c.ID == onID {
			seenOn = true
		}
	}
	if !seenOn {
		t.Fatal("active criterion missing from listing")
	}
}
