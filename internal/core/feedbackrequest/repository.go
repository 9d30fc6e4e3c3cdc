package feedbackrequest

import "context"

// Repository はフィードバック依頼永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, r *Request) (*Request, error)
	// ListByManager は作成日時の降順で返します。
	ListByManager(ctx context.Context, managerID string) ([]*Request, error)
	// MarkSeen は既読にします。該当がない場合は ErrRequestNotFound を返します。
	MarkSeen(ctx context.Context, id string) error
	CountUnseen(ctx context.Context, managerID string) (int64, error)
}
