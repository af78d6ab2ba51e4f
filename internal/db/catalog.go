package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uniclubs/movement-service/internal/models"
)

func CreateCriterionGroup(ctx context.Context, database *sql.DB, name string, target models.TargetType, maxScore int) (int64, error) {
	if err := validateCatalogInput(target, maxScore); err != nil {
		return 0, err
	}
	var id int64
	err := database.QueryRowContext(ctx,
		`INSERT INTO criterion_groups (name, target_type, max_score) VALUES ($1, $2, $3) RETURNING id`,
		name, string(target), maxScore,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func GetCriterionGroupByID(ctx context.Context, database *sql.DB, id int64) (*models.CriterionGroup, error) {
	var g models.CriterionGroup
	err := database.QueryRowContext(ctx,
		`SELECT id, name, target_type, max_score, created_at FROM criterion_groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.TargetType, &g.MaxScore, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("criterion group %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func UpdateCriterionGroup(ctx context.Context, database *sql.DB, id int64, name string, target models.TargetType, maxScore int) error {
	if err := validateCatalogInput(target, maxScore); err != nil {
		return err
	}
	res, err := database.ExecContext(ctx,
		`UPDATE criterion_groups SET name = $1, target_type = $2, max_score = $3 WHERE id = $4`,
		name, string(target), maxScore, id,
	)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return fmt.Errorf("criterion group %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCriterionGroup refuses to delete a group that still owns criteria.
func DeleteCriterionGroup(ctx context.Context, database *sql.DB, id int64) error {
	var owned int
	if err := database.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM criteria WHERE group_id = $1`, id,
	).Scan(&owned); err != nil {
		return err
	}
	if owned > 0 {
		return fmt.Errorf("criterion group %d owns %d criteria: %w", id, owned, ErrConflict)
	}
	res, err := database.ExecContext(ctx, `DELETE FROM criterion_groups WHERE id = $1`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return fmt.Errorf("criterion group %d: %w", id, ErrNotFound)
	}
	return nil
}

func ListCriterionGroups(ctx context.Context, database *sql.DB) ([]models.CriterionGroup, error) {
	rows, err := database.QueryContext(ctx,
		`SELECT id, name, target_type, max_score, created_at FROM criterion_groups ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.CriterionGroup
	for rows.Next() {
		var g models.CriterionGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetType, &g.MaxScore, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func CreateCriterion(ctx context.Context, database *sql.DB, c models.Criterion) (int64, error) {
	if err := validateCatalogInput(c.TargetType, c.MaxScore); err != nil {
		return 0, err
	}
	// the group must exist; its target type is NOT cross-checked here,
	// matching stays a catalog-editing convention
	if _, err := GetCriterionGroupByID(ctx, database, c.GroupID); err != nil {
		return 0, err
	}
	var id int64
	err := database.QueryRowContext(ctx,
		`INSERT INTO criteria (group_id, title, max_score, target_type, is_active, data_source)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		c.GroupID, c.Title, c.MaxScore, string(c.TargetType), c.IsActive, c.DataSource,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func GetCriterionByID(ctx context.Context, database *sql.DB, id int64) (*models.Criterion, error) {
	var c models.Criterion
	err := database.QueryRowContext(ctx,
		`SELECT id, group_id, title, max_score, target_type, is_active, data_source, created_at
		 FROM criteria WHERE id = $1`, id,
	).Scan(&c.ID, &c.GroupID, &c.Title, &c.MaxScore, &c.TargetType, &c.IsActive, &c.DataSource, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("criterion %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func UpdateCriterion(ctx context.Context, database *sql.DB, c models.Criterion) error {
	if err := validateCatalogInput(c.TargetType, c.MaxScore); err != nil {
		return err
	}
	res, err := database.ExecContext(ctx,
		`UPDATE criteria
		 SET group_id = $1, title = $2, max_score = $3, target_type = $4, data_source = $5
		 WHERE id = $6`,
		c.GroupID, c.Title, c.MaxScore, string(c.TargetType), c.DataSource, c.ID,
	)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return fmt.Errorf("criterion %d: %w", c.ID, ErrNotFound)
	}
	return nil
}

// DeleteCriterion refuses to delete a criterion referenced by any detail,
// student or club side. Such criteria are deactivated instead.
func DeleteCriterion(ctx context.Context, database *sql.DB, id int64) error {
	var refs int
	err := database.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM movement_record_details WHERE criterion_id = $1)
		     + (SELECT COUNT(*) FROM club_movement_record_details WHERE criterion_id = $1)`,
		id,
	).Scan(&refs)
	if err != nil {
		return err
	}
	if refs > 0 {
		return fmt.Errorf("criterion %d referenced by %d details: %w", id, refs, ErrConflict)
	}
	res, err := database.ExecContext(ctx, `DELETE FROM criteria WHERE id = $1`, id)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff == 0 {
		return fmt.Errorf("criterion %d: %w", id, ErrNotFound)
	}
	return nil
}

// ToggleCriterionActive flips the active flag and returns the new value.
func ToggleCriterionActive(ctx context.Context, database *sql.DB, id int64) (bool, error) {
	var active bool
	err := database.QueryRowContext(ctx,
		`UPDATE criteria SET is_active = NOT is_active WHERE id = $1 RETURNING is_active`, id,
	).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("criterion %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return false, err
	}
	return active, nil
}

func ListCriteriaByTargetType(ctx context.Context, database *sql.DB, target models.TargetType) ([]models.Criterion, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("target type %q: %w", target, ErrValidation)
	}
	return listCriteria(ctx, database,
		`SELECT id, group_id, title, max_score, target_type, is_active, data_source, created_at
		 FROM criteria WHERE target_type = $1 ORDER BY id`, string(target))
}

func ListActiveCriteria(ctx context.Context, database *sql.DB) ([]models.Criterion, error) {
	return listCriteria(ctx, database,
		`SELECT id, group_id, title, max_score, target_type, is_active, data_source, created_at
		 FROM criteria WHERE is_active = TRUE ORDER BY id`)
}

func listCriteria(ctx context.Context, database *sql.DB, query string, args ...any) ([]models.Criterion, error) {
	rows, err := database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []models.Criterion
	for rows.Next() {
		var c models.Criterion
		if err := rows.Scan(&c.ID, &c.GroupID, &c.Title, &c.MaxScore, &c.TargetType, &c.IsActive, &c.DataSource, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func validateCatalogInput(target models.TargetType, maxScore int) error {
	if !target.Valid() {
		return fmt.Errorf("target type %q: %w", target, ErrValidation)
	}
	if maxScore < 0 {
		return fmt.Errorf("max score %d: %w", maxScore, ErrValidation)
	}
	return nil
}
