package feedback

import "context"

// Repository はフィードバック永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, fb *Feedback) (*Feedback, error)
	FindByID(ctx context.Context, id string) (*Feedback, error)
	// Update は本文系フィールド (strengths, improvement, sentiment, tags, anonymous) のみを置き換えます。
	Update(ctx context.Context, fb *Feedback) (*Feedback, error)
	Delete(ctx context.Context, id string) error
	// DeleteByManager は指定マネージャーが作成した全件を削除し、削除件数を返します。
	DeleteByManager(ctx context.Context, managerID string) (int64, error)
	// AppendComment は単一レコードへの追記としてコメントを末尾に加えます。
	AppendComment(ctx context.Context, id string, c Comment) error
	SetAcknowledged(ctx context.Context, id string) error
	// ListByEmployee と ListByManager は作成日時の昇順で返します。
	ListByEmployee(ctx context.Context, employeeID string) ([]*Feedback, error)
	ListByManager(ctx context.Context, managerID string) ([]*Feedback, error)
}
