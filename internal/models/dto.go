package models

// CategoryScoreView reports one criterion group of a student record with
// both the raw sum and the sum capped to the group ceiling. Capping is a
// reporting concern: the record's stored total stays uncapped.
type CategoryScoreView struct {
	GroupID     int64  `db:"group_id"`
	GroupName   string `db:"group_name"`
	ActualScore int    `db:"actual_score"`
	MaxScore    int    `db:"max_score"`
	CappedScore int    `db:"capped_score"`
	IsCapped    bool   `db:"is_capped"`
}

type MovementRecordDetailedDto struct {
	Record     MovementRecord
	Details    []MovementRecordDetail
	Categories []CategoryScoreView
}

type ClubMovementRecordDto struct {
	Record  ClubMovementRecord
	Details []ClubMovementRecordDetail
}
