package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartDeletedUserPurger removes soft-deleted users past the retention window
func StartDeletedUserPurger(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	retention time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-retention)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM users
                     WHERE deleted_at IS NOT NULL
                       AND deleted_at < $1
                `, cutoff)
				if err != nil {
					log.Error("failed to purge deleted users", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("purged deleted users", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
