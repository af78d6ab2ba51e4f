package jobs

import (
	"context"
	"database/sql"

	"github.com/uniclubs/movement-service/internal/db"
	"github.com/uniclubs/movement-service/internal/observability"
	"go.uber.org/zap"
)

// Reconcile drains dirty records. A record that cannot be repaired stays
// dirty for the next tick; the failure is logged and reported, never
// swallowed.
func Reconcile(database *sql.DB, lg *zap.Logger) Job {
	return func(ctx context.Context) error {
		repaired, err := db.ReconcileDirtyRecords(ctx, database)
		if repaired > 0 {
			lg.Info("reconciled records", zap.Int("repaired", repaired))
		}
		if err != nil {
			lg.Error("stale records remain", zap.Error(err))
			observability.CaptureErr(err)
			return err
		}
		return nil
	}
}
