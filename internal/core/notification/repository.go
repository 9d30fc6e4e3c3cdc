package notification

import "context"

// Repository は通知の永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, n *Notification) (*Notification, error)
	// ListByEmployee は受信者の通知を作成日時の降順で返します。
	ListByEmployee(ctx context.Context, employeeID string) ([]*Notification, error)
	// SetSeen は既読フラグを更新します。該当がない場合は ErrNotificationNotFound を返します。
	SetSeen(ctx context.Context, id string, seen bool) error
	// MarkAllSeen は受信者の全通知を既読にし、対象件数を返します。
	MarkAllSeen(ctx context.Context, employeeID string) (int64, error)
}
