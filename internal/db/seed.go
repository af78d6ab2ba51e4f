package db

import (
	"context"
	"database/sql"

	"github.com/uniclubs/movement-service/internal/models"
)

type seedGroup struct {
	name     string
	target   models.TargetType
	maxScore int
	criteria []seedCriterion
}

type seedCriterion struct {
	title    string
	maxScore int
	source   string
}

var defaultCatalog = []seedGroup{
	{
		name: "Học tập", target: models.TargetStudent, maxScore: 30,
		criteria: []seedCriterion{
			{title: "Tham gia hội thảo", maxScore: 20, source: "activity"},
			{title: "Đạt giải cuộc thi học thuật", maxScore: 15, source: "evidence"},
		},
	},
	{
		name: "Xã hội", target: models.TargetStudent, maxScore: 25,
		criteria: []seedCriterion{
			{title: "Tình nguyện", maxScore: 10, source: "evidence"},
			{title: "Hiến máu nhân đạo", maxScore: 10, source: "evidence"},
		},
	},
	{
		name: "Phong trào", target: models.TargetStudent, maxScore: 30,
		criteria: []seedCriterion{
			{title: "Tham gia Sự kiện của trường", maxScore: 15, source: "activity"},
			{title: "Thành viên ban tổ chức Sự kiện", maxScore: 20, source: "manual"},
		},
	},
	{
		name: "Hoạt động CLB", target: models.TargetClub, maxScore: 100,
		criteria: []seedCriterion{
			{title: "Sinh hoạt CLB định kỳ", maxScore: 20, source: "activity"},
			{title: "Tổ chức Sự kiện", maxScore: 25, source: "manual"},
			{title: "Tham gia Cuộc thi", maxScore: 25, source: "manual"},
			{title: "Nộp Kế hoạch hoạt động", maxScore: 10, source: "manual"},
			{title: "Phối hợp tổ chức với đơn vị khác", maxScore: 20, source: "manual"},
		},
	},
}

// SeedCriterionCatalog inserts the default groups and criteria so a fresh
// deployment has a usable catalog. Re-running is a no-op on existing rows.
func SeedCriterionCatalog(ctx context.Context, database *sql.DB) error {
	for _, g := range defaultCatalog {
		var groupID int64
		err := database.QueryRowContext(ctx, `
			INSERT INTO criterion_groups (name, target_type, max_score)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`,
			g.name, string(g.target), g.maxScore,
		).Scan(&groupID)
		if err != nil {
			return err
		}
		for _, c := range g.criteria {
			_, err := database.ExecContext(ctx, `
				INSERT INTO criteria (group_id, title, max_score, target_type, is_active, data_source)
				VALUES ($1, $2, $3, $4, TRUE, $5)
				ON CONFLICT (group_id, title) DO NOTHING`,
				groupID, c.title, c.maxScore, string(g.target), c.source,
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
