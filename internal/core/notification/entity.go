package notification

import "time"

// Notification は受信者のフィードに表示されるイベント記録です。追記専用で削除されません。
//
// ManagerName は作成時点の表示名のスナップショットです。後からディレクトリが変わっても維持されます。
type Notification struct {
	ID                string
	EmployeeID        string
	ManagerEmployeeID string
	ManagerName       string
	Message           string
	Seen              bool
	CreatedAt         time.Time
}
