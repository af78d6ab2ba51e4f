package models

import "time"

type TargetType string

const (
	TargetStudent TargetType = "Student"
	TargetClub    TargetType = "Club"
)

func (t TargetType) Valid() bool {
	return t == TargetStudent || t == TargetClub
}

type CriterionGroup struct {
	ID         int64      `db:"id"`
	Name       string     `db:"name"`
	TargetType TargetType `db:"target_type"`
	MaxScore   int        `db:"max_score"`
	CreatedAt  time.Time  `db:"created_at"`
}

type Criterion struct {
	ID         int64      `db:"id"`
	GroupID    int64      `db:"group_id"`
	Title      string     `db:"title"`
	MaxScore   int        `db:"max_score"`
	TargetType TargetType `db:"target_type"`
	IsActive   bool       `db:"is_active"`
	DataSource *string    `db:"data_source"`
	CreatedAt  time.Time  `db:"created_at"`
}
