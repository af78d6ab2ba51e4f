package models

import "time"

// ScoreType marks how a detail entered the system.
const (
	ScoreTypeAutomatic = "Automatic"
	ScoreTypeManual    = "Manual"
)

type MovementRecord struct {
	ID               int64      `db:"id"`
	StudentID        int64      `db:"student_id"`
	SemesterID       int64      `db:"semester_id"`
	TotalScore       int        `db:"total_score"`
	Dirty            bool       `db:"dirty"`
	AdjustedBy       *int64     `db:"adjusted_by"`
	AdjustedAt       *time.Time `db:"adjusted_at"`
	AdjustmentReason *string    `db:"adjustment_reason"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

type MovementRecordDetail struct {
	ID          int64     `db:"id"`
	RecordID    int64     `db:"record_id"`
	CriterionID int64     `db:"criterion_id"`
	Score       int       `db:"score"`
	AwardedAt   time.Time `db:"awarded_at"`
	Note        *string   `db:"note"`
	ActivityID  *int64    `db:"activity_id"`
	ScoreType   *string   `db:"score_type"`
}

type ClubMovementRecord struct {
	ID                 int64     `db:"id"`
	ClubID             int64     `db:"club_id"`
	SemesterID         int64     `db:"semester_id"`
	Month              int       `db:"month"`
	MeetingScore       int       `db:"meeting_score"`
	EventScore         int       `db:"event_score"`
	CompetitionScore   int       `db:"competition_score"`
	PlanScore          int       `db:"plan_score"`
	CollaborationScore int       `db:"collaboration_score"`
	OtherScore         int       `db:"other_score"`
	TotalScore         int       `db:"total_score"`
	Dirty              bool      `db:"dirty"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type ClubMovementRecordDetail struct {
	ID          int64     `db:"id"`
	RecordID    int64     `db:"record_id"`
	CriterionID *int64    `db:"criterion_id"`
	Score       int       `db:"score"`
	AwardedAt   time.Time `db:"awarded_at"`
	ActivityID  *int64    `db:"activity_id"`
	CreatedBy   *int64    `db:"created_by"`
}
