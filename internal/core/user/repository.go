package user

import "context"

// Repository はディレクトリの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	// Find は ID と役割でユーザーを検索します。role が nil の場合は役割を問わず最初に登録されたものを返します。
	Find(ctx context.Context, employeeID string, role *Role) (*User, error)
	List(ctx context.Context, role *Role) ([]*User, error)
}
