package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ogurasousui/feedback-exchange/internal/core/feedback"
	pgdb "github.com/ogurasousui/feedback-exchange/internal/platform/db/postgres"
)

const feedbackColumns = `id, employee_id, manager_employee_id, strengths, improvement, sentiment, anonymous, tags, acknowledged, comments, created_at`

// commentRecord は comments 列 (jsonb 配列) の要素です。
type commentRecord struct {
	EmployeeID string `json:"employee_id"`
	Text       string `json:"text"`
}

// FeedbackRepository は PostgreSQL を利用したフィードバック永続化の実装です。
type FeedbackRepository struct {
	pool pgdb.Queryer
}

// NewFeedbackRepository は FeedbackRepository を生成します。
func NewFeedbackRepository(pool pgdb.Queryer) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

// Create はフィードバックを新規作成します。
func (r *FeedbackRepository) Create(ctx context.Context, fb *feedback.Feedback) (*feedback.Feedback, error) {
	comments, err := encodeComments(fb.Comments)
	if err != nil {
		return nil, err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO feedback (id, employee_id, manager_employee_id, strengths, improvement, sentiment, anonymous, tags, acknowledged, comments, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11)
        RETURNING `+feedbackColumns,
		fb.ID,
		fb.EmployeeID,
		fb.ManagerEmployeeID,
		fb.Strengths,
		fb.Improvement,
		string(fb.Sentiment),
		fb.Anonymous,
		nonNilTags(fb.Tags),
		fb.Acknowledged,
		comments,
		fb.CreatedAt,
	)

	return scanFeedback(row)
}

// FindByID は ID でフィードバックを取得します。
func (r *FeedbackRepository) FindByID(ctx context.Context, id string) (*feedback.Feedback, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+feedbackColumns+`
          FROM feedback
         WHERE id = $1
    `, id)

	return scanFeedback(row)
}

// Update は本文系フィールドのみを置き換えます。
func (r *FeedbackRepository) Update(ctx context.Context, fb *feedback.Feedback) (*feedback.Feedback, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE feedback
           SET strengths = $1,
               improvement = $2,
               sentiment = $3,
               anonymous = $4,
               tags = $5
         WHERE id = $6
        RETURNING `+feedbackColumns,
		fb.Strengths,
		fb.Improvement,
		string(fb.Sentiment),
		fb.Anonymous,
		nonNilTags(fb.Tags),
		fb.ID,
	)

	return scanFeedback(row)
}

// Delete はフィードバックを削除します。
func (r *FeedbackRepository) Delete(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return feedback.ErrFeedbackNotFound
	}
	return nil
}

// DeleteByManager はマネージャーが作成した全件を削除し、件数を返します。
func (r *FeedbackRepository) DeleteByManager(ctx context.Context, managerID string) (int64, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM feedback WHERE manager_employee_id = $1`, managerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// AppendComment は jsonb 配列の連結でコメントを末尾に追加します。
func (r *FeedbackRepository) AppendComment(ctx context.Context, id string, c feedback.Comment) error {
	payload, err := encodeComments([]feedback.Comment{c})
	if err != nil {
		return err
	}

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `
        UPDATE feedback
           SET comments = comments || $1::jsonb
         WHERE id = $2
    `, payload, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return feedback.ErrFeedbackNotFound
	}
	return nil
}

// SetAcknowledged は確認済みフラグを立てます。
func (r *FeedbackRepository) SetAcknowledged(ctx context.Context, id string) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `UPDATE feedback SET acknowledged = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return feedback.ErrFeedbackNotFound
	}
	return nil
}

// ListByEmployee は従業員宛てのフィードバックを作成順に返します。
func (r *FeedbackRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*feedback.Feedback, error) {
	return r.list(ctx, `
        SELECT `+feedbackColumns+`
          FROM feedback
         WHERE employee_id = $1
         ORDER BY created_at ASC, id ASC
    `, employeeID)
}

// ListByManager はマネージャーが作成したフィードバックを作成順に返します。
func (r *FeedbackRepository) ListByManager(ctx context.Context, managerID string) ([]*feedback.Feedback, error) {
	return r.list(ctx, `
        SELECT `+feedbackColumns+`
          FROM feedback
         WHERE manager_employee_id = $1
         ORDER BY created_at ASC, id ASC
    `, managerID)
}

func (r *FeedbackRepository) list(ctx context.Context, query string, args ...any) ([]*feedback.Feedback, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*feedback.Feedback, 0)
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanFeedback(row pgx.Row) (*feedback.Feedback, error) {
	var (
		fb        feedback.Feedback
		sentiment string
		tags      []string
		comments  []byte
		createdAt time.Time
	)

	if err := row.Scan(
		&fb.ID,
		&fb.EmployeeID,
		&fb.ManagerEmployeeID,
		&fb.Strengths,
		&fb.Improvement,
		&sentiment,
		&fb.Anonymous,
		&tags,
		&fb.Acknowledged,
		&comments,
		&createdAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, feedback.ErrFeedbackNotFound
		}
		return nil, err
	}

	decoded, err := decodeComments(comments)
	if err != nil {
		return nil, err
	}

	fb.Sentiment = feedback.Sentiment(sentiment)
	fb.Tags = nonNilTags(tags)
	fb.Comments = decoded
	fb.CreatedAt = createdAt
	return &fb, nil
}

func encodeComments(comments []feedback.Comment) (string, error) {
	records := make([]commentRecord, 0, len(comments))
	for _, c := range comments {
		records = append(records, commentRecord{EmployeeID: c.EmployeeID, Text: c.Text})
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("postgres: encode comments: %w", err)
	}
	return string(raw), nil
}

func decodeComments(raw []byte) ([]feedback.Comment, error) {
	if len(raw) == 0 {
		return []feedback.Comment{}, nil
	}
	var records []commentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("postgres: decode comments: %w", err)
	}
	out := make([]feedback.Comment, 0, len(records))
	for _, rec := range records {
		out = append(out, feedback.Comment{EmployeeID: rec.EmployeeID, Text: rec.Text})
	}
	return out, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
