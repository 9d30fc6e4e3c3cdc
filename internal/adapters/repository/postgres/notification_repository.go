package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ogurasousui/feedback-exchange/internal/core/notification"
	pgdb "github.com/ogurasousui/feedback-exchange/internal/platform/db/postgres"
)

// NotificationRepository は PostgreSQL を利用した通知永続化の実装です。
type NotificationRepository struct {
	pool pgdb.Queryer
}

// NewNotificationRepository は NotificationRepository を生成します。
func NewNotificationRepository(pool pgdb.Queryer) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create は通知を追記します。
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) (*notification.Notification, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO notifications (id, employee_id, manager_employee_id, manager_name, message, seen, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, employee_id, manager_employee_id, manager_name, message, seen, created_at
    `, n.ID, n.EmployeeID, n.ManagerEmployeeID, n.ManagerName, n.Message, n.Seen, n.CreatedAt)

	return scanNotification(row)
}

// ListByEmployee は受信者の通知を新しい順に返します。
func (r *NotificationRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*notification.Notification, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, employee_id, manager_employee_id, manager_name, message, seen, created_at
          FROM notifications
         WHERE employee_id = $1
         ORDER BY created_at DESC, id DESC
    `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*notification.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SetSeen は既読フラグを指定値に更新します。
func (r *NotificationRepository) SetSeen(ctx context.Context, id string, seen bool) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `UPDATE notifications SET seen = $1 WHERE id = $2`, seen, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

// MarkAllSeen は受信者の全通知を既読にし、対象件数を返します。
func (r *NotificationRepository) MarkAllSeen(ctx context.Context, employeeID string) (int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `UPDATE notifications SET seen = TRUE WHERE employee_id = $1`, employeeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanNotification(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	if err := row.Scan(&n.ID, &n.EmployeeID, &n.ManagerEmployeeID, &n.ManagerName, &n.Message, &n.Seen, &n.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, err
	}
	return &n, nil
}
