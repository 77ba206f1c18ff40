package dbhelper

import (
	"context"
	"time"

	"github.com/ray-remotestate/qrmenu/models"
)

func InsertAdminLog(ctx context.Context, db SQLExecutor, adminUser, action, details string, at time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO admin_logs (admin_user, action, details, created_at)
		VALUES ($1, $2, $3, $4)`,
		adminUser, action, details, at)
	return err
}

func ListRecentAdminLogs(ctx context.Context, db SQLExecutor, limit int) ([]models.AdminLogEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, admin_user, action, details, created_at
		FROM admin_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.AdminLogEntry, 0)
	for rows.Next() {
		var entry models.AdminLogEntry
		if err := rows.Scan(&entry.ID, &entry.AdminUser, &entry.Action, &entry.Details, &entry.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
