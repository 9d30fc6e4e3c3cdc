package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/ogurasousui/feedback-exchange/internal/core/feedbackrequest"
	pgdb "github.com/ogurasousui/feedback-exchange/internal/platform/db/postgres"
)

// FeedbackRequestRepository は PostgreSQL を利用したフィードバック依頼永続化の実装です。
type FeedbackRequestRepository struct {
	pool pgdb.Queryer
}

// NewFeedbackRequestRepository は FeedbackRequestRepository を生成します。
func NewFeedbackRequestRepository(pool pgdb.Queryer) *FeedbackRequestRepository {
	return &FeedbackRequestRepository{pool: pool}
}

// Create は依頼を新規作成します。
func (r *FeedbackRequestRepository) Create(ctx context.Context, req *feedbackrequest.Request) (*feedbackrequest.Request, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO feedback_requests (id, employee_id, manager_employee_id, message, seen, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, employee_id, manager_employee_id, message, seen, created_at
    `, req.ID, req.EmployeeID, req.ManagerEmployeeID, req.Message, req.Seen, req.CreatedAt)

	return scanFeedbackRequest(row)
}

// ListByManager はマネージャー宛ての依頼を新しい順に返します。
func (r *FeedbackRequestRepository) ListByManager(ctx context.Context, managerID string) ([]*feedbackrequest.Request, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, `
        SELECT id, employee_id, manager_employee_id, message, seen, created_at
          FROM feedback_requests
         WHERE manager_employee_id = $1
         ORDER BY created_at DESC, id DESC
    `, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*feedbackrequest.Request, 0)
	for rows.Next() {
		req, err := scanFeedbackRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkSeen は依頼を既読にします。
func (r *FeedbackRequestRepository) MarkSeen(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `UPDATE feedback_requests SET seen = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return feedbackrequest.ErrRequestNotFound
	}
	return nil
}

// CountUnseen はマネージャー宛ての未読依頼数を返します。
func (r *FeedbackRequestRepository) CountUnseen(ctx context.Context, managerID string) (int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	var count int64
	if err := exec.QueryRow(ctx, `
        SELECT COUNT(*)
          FROM feedback_requests
         WHERE manager_employee_id = $1
           AND seen = FALSE
    `, managerID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanFeedbackRequest(row pgx.Row) (*feedbackrequest.Request, error) {
	var req feedbackrequest.Request
	if err := row.Scan(&req.ID, &req.EmployeeID, &req.ManagerEmployeeID, &req.Message, &req.Seen, &req.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, feedbackrequest.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}
