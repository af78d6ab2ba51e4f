package db

import (
	"context"
	"database/sql"

	"github.com/uniclubs/movement-service/internal/models"
)

// GetCategoryScores builds the per-group capped view of a student record:
// the raw sum of its details per criterion group next to the sum bounded by
// the group ceiling. The view is computed on read and persists nothing;
// the record's stored total stays the uncapped flat sum.
func GetCategoryScores(ctx context.Context, database *sql.DB, recordID int64) ([]models.CategoryScoreView, error) {
	if _, err := GetMovementRecordByID(ctx, database, recordID); err != nil {
		return nil, err
	}

	rows, err := database.QueryContext(ctx, `
		SELECT g.id, g.name, g.max_score, SUM(d.score) AS actual
		FROM movement_record_details d
		JOIN criteria c ON c.id = d.criterion_id
		JOIN criterion_groups g ON g.id = c.group_id
		WHERE d.record_id = $1
		GROUP BY g.id, g.name, g.max_score
		ORDER BY g.id`, recordID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.CategoryScoreView
	for rows.Next() {
		var v models.CategoryScoreView
		if err := rows.Scan(&v.GroupID, &v.GroupName, &v.MaxScore, &v.ActualScore); err != nil {
			return nil, err
		}
		v.CappedScore = v.ActualScore
		if v.ActualScore > v.MaxScore {
			v.CappedScore = v.MaxScore
			v.IsCapped = true
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
