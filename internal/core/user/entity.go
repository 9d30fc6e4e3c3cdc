package user

import "time"

// Role はディレクトリ上のユーザーの役割を表します。
type Role string

const (
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// User はディレクトリに登録されたアカウントです。
// EmployeeID は役割ごとに一意です。
type User struct {
	EmployeeID string
	Name       string
	Role       Role
	CreatedAt  time.Time
}

// IsManager はユーザーがマネージャー権限を持つかを返します。
func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}

// IsEmployee はユーザーが従業員権限を持つかを返します。
func (u *User) IsEmployee() bool {
	return u != nil && u.Role == RoleEmployee
}
