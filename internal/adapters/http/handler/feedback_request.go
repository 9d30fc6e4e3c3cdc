package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/feedback-exchange/internal/core/feedbackrequest"
)

// FeedbackRequestHandler はフィードバック依頼の HTTP エンドポイントです。
type FeedbackRequestHandler struct {
	svc feedbackrequest.UseCase
}

// NewFeedbackRequestHandler は FeedbackRequestHandler を生成します。
func NewFeedbackRequestHandler(svc feedbackrequest.UseCase) *FeedbackRequestHandler {
	return &FeedbackRequestHandler{svc: svc}
}

type requestFeedbackRequest struct {
	EmployeeID        string `json:"employee_id" validate:"required"`
	ManagerEmployeeID string `json:"manager_employee_id" validate:"required"`
	Message           string `json:"message" validate:"required"`
}

type feedbackRequestResponse struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Message      string    `json:"message"`
	Seen         bool      `json:"seen"`
	CreatedAt    time.Time `json:"created_at"`
}

type unseenCountResponse struct {
	UnseenCount int64 `json:"unseen_count"`
}

// RequestFeedback は従業員からマネージャーへの依頼を作成します。
func (h *FeedbackRequestHandler) RequestFeedback(c echo.Context) error {
	req := new(requestFeedbackRequest)
	if err := c.Bind(req); err != nil {
		return toHTTPError(c, err)
	}
	if err := c.Validate(req); err != nil {
		return toHTTPError(c, err)
	}

	_, err := h.svc.RequestFeedback(c.Request().Context(), feedbackrequest.RequestFeedbackInput{
		EmployeeID:        req.EmployeeID,
		ManagerEmployeeID: req.ManagerEmployeeID,
		Message:           req.Message,
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return message(c, "Feedback request submitted successfully")
}

// ListForManager はマネージャー宛ての依頼を新しい順に返します。
func (h *FeedbackRequestHandler) ListForManager(c echo.Context) error {
	views, err := h.svc.ListForManager(c.Request().Context(), feedbackrequest.ListForManagerInput{
		ManagerID: c.Param("manager_id"),
	})
	if err != nil {
		return toHTTPError(c, err)
	}

	out := make([]feedbackRequestResponse, 0, len(views))
	for _, v := range views {
		out = append(out, feedbackRequestResponse{
			ID:           v.Request.ID,
			EmployeeID:   v.Request.EmployeeID,
			EmployeeName: v.EmployeeName,
			Message:      v.Request.Message,
			Seen:         v.Request.Seen,
			CreatedAt:    v.Request.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// MarkSeen は依頼を既読にします。
func (h *FeedbackRequestHandler) MarkSeen(c echo.Context) error {
	if err := h.svc.MarkSeen(c.Request().Context(), feedbackrequest.MarkSeenInput{ID: c.Param("request_id")}); err != nil {
		return toHTTPError(c, err)
	}
	return message(c, "Feedback request marked as seen")
}

// CountUnseen は未読の依頼数を返します。
func (h *FeedbackRequestHandler) CountUnseen(c echo.Context) error {
	count, err := h.svc.CountUnseen(c.Request().Context(), feedbackrequest.CountUnseenInput{
		ManagerID: c.Param("manager_id"),
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, unseenCountResponse{UnseenCount: count})
}
