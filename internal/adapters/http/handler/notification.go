package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/feedback-exchange/internal/core/notification"
)

// NotificationHandler は通知フィードの HTTP エンドポイントです。
type NotificationHandler struct {
	svc notification.UseCase
}

// NewNotificationHandler は NotificationHandler を生成します。
func NewNotificationHandler(svc notification.UseCase) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type notificationResponse struct {
	ID                string    `json:"id"`
	EmployeeID        string    `json:"employee_id"`
	ManagerEmployeeID string    `json:"manager_employee_id"`
	ManagerName       string    `json:"manager_name"`
	Message           string    `json:"message"`
	Seen              bool      `json:"seen"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListForEmployee は受信者の通知を新しい順に返します。
func (h *NotificationHandler) ListForEmployee(c echo.Context) error {
	items, err := h.svc.ListForEmployee(c.Request().Context(), notification.ListForEmployeeInput{
		EmployeeID: c.Param("employee_id"),
	})
	if err != nil {
		return toHTTPError(c, err)
	}

	out := make([]notificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, notificationResponse{
			ID:                n.ID,
			EmployeeID:        n.EmployeeID,
			ManagerEmployeeID: n.ManagerEmployeeID,
			ManagerName:       n.ManagerName,
			Message:           n.Message,
			Seen:              n.Seen,
			CreatedAt:         n.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// SetSeen はクエリ seen の値で既読フラグを更新します。
func (h *NotificationHandler) SetSeen(c echo.Context) error {
	var seen bool
	if err := echo.QueryParamsBinder(c).MustBool("seen", &seen).BindError(); err != nil {
		return toHTTPError(c, err)
	}

	err := h.svc.SetSeen(c.Request().Context(), notification.SetSeenInput{
		ID:   c.Param("notification_id"),
		Seen: seen,
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return message(c, "Notification updated")
}

// MarkAllSeen は受信者の全通知を既読にします。
func (h *NotificationHandler) MarkAllSeen(c echo.Context) error {
	_, err := h.svc.MarkAllSeen(c.Request().Context(), notification.MarkAllSeenInput{
		EmployeeID: c.Param("employee_id"),
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return message(c, "All notifications marked as seen")
}
