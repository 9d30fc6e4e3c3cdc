package feedbackrequest

import "time"

// Request は従業員からマネージャーへのフィードバック依頼です。
// Seen は false から true への一方向にのみ変化し、依頼は削除されません。
type Request struct {
	ID                string
	EmployeeID        string
	ManagerEmployeeID string
	Message           string
	Seen              bool
	CreatedAt         time.Time
}

// View は一覧表示用の依頼です。EmployeeName は読み取り時点で解決されます。
type View struct {
	Request      *Request
	EmployeeName string
}
