package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/feedback-exchange/internal/core/feedback"
)

// ReportRenderer はフィードバック一覧を文書に変換します。
type ReportRenderer interface {
	ContentType() string
	Render(w io.Writer, employeeID string, items []*feedback.Feedback) error
}

// FeedbackHandler はフィードバックの HTTP エンドポイントです。
type FeedbackHandler struct {
	svc    feedback.UseCase
	report ReportRenderer
}

// NewFeedbackHandler は FeedbackHandler を生成します。
func NewFeedbackHandler(svc feedback.UseCase, report ReportRenderer) *FeedbackHandler {
	return &FeedbackHandler{svc: svc, report: report}
}

type feedbackRequest struct {
	EmployeeID        string   `json:"employee_id" validate:"required"`
	ManagerEmployeeID string   `json:"manager_employee_id" validate:"required"`
	Strengths         string   `json:"strengths" validate:"required"`
	Improvement       string   `json:"improvement" validate:"required"`
	Sentiment         string   `json:"sentiment" validate:"required"`
	Anonymous         bool     `json:"anonymous"`
	Tags              []string `json:"tags"`
}

type commentRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Text       string `json:"text" validate:"required"`
}

type commentResponse struct {
	EmployeeID string `json:"employee_id"`
	Text       string `json:"text"`
}

type feedbackResponse struct {
	ID                string            `json:"id"`
	EmployeeID        string            `json:"employee_id"`
	ManagerEmployeeID string            `json:"manager_employee_id"`
	ManagerName       string            `json:"manager_name"`
	Strengths         string            `json:"strengths"`
	Improvement       string            `json:"improvement"`
	Sentiment         string            `json:"sentiment"`
	Anonymous         bool              `json:"anonymous"`
	Tags              []string          `json:"tags"`
	Acknowledged      bool              `json:"acknowledged"`
	Comments          []commentResponse `json:"comments"`
	CreatedAt         time.Time         `json:"created_at"`
}

// Submit はフィードバックを作成します。
func (h *FeedbackHandler) Submit(c echo.Context) error {
	req := new(feedbackRequest)
	if err := c.Bind(req); err != nil {
		return toHTTPError(c, err)
	}
	if err := c.Validate(req); err != nil {
		return toHTTPError(c, err)
	}

	view, err := h.svc.Submit(c.Request().Context(), feedback.SubmitInput{
		EmployeeID:        req.EmployeeID,
		ManagerEmployeeID: req.ManagerEmployeeID,
		Strengths:         req.Strengths,
		Improvement:       req.Improvement,
		Sentiment:         req.Sentiment,
		Anonymous:         req.Anonymous,
		Tags:              req.Tags,
	})
	if err != nil {
		return toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, toFeedbackResponse(view))
}

// Update はフィードバックの内容を置き換えます。manager_employee_id が操作者です。
func (h *FeedbackHandler) Update(c echo.Context) error {
	req := new(feedbackRequest)
	if err := c.Bind(req); err != nil {
		return toHTTPError(c, err)
	}
	if err := c.Validate(req); err != nil {
		return toHTTPError(c, err)
	}

	view, err := h.svc.Update(c.Request().Context(), feedback.UpdateInput{
		ID:                c.Param("feedback_id"),
		ManagerEmployeeID: req.ManagerEmployeeID,
		Strengths:         req.Strengths,
		Improvement:       req.Improvement,
		Sentiment:         req.Sentiment,
		Anonymous:         req.Anonymous,
		Tags:              req.Tags,
	})
	if err != nil {
		return toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, toFeedbackResponse(view))
}

// Delete はフィードバックを 1 件削除します。
func (h *FeedbackHandler) Delete(c echo.Context) error {
	if err := h.svc.Delete(c.Request().Context(), feedback.DeleteInput{ID: c.Param("feedback_id")}); err != nil {
		return toHTTPError(c, err)
	}
	return message(c, "Deleted")
}

// DeleteAllByManager はマネージャーが作成した全フィードバックを削除します。
func (h *FeedbackHandler) DeleteAllByManager(c echo.Context) error {
	deleted, err := h.svc.DeleteAllByManager(c.Request().Context(), feedback.DeleteAllByManagerInput{
		ManagerID: c.Param("manager_id"),
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return message(c, fmt.Sprintf("Deleted %d items", deleted))
}

// Acknowledge はフィードバックを確認済みにします。
func (h *FeedbackHandler) Acknowledge(c echo.Context) error {
	if err := h.svc.Acknowledge(c.Request().Context(), feedback.AcknowledgeInput{ID: c.Param("feedback_id")}); err != nil {
		return toHTTPError(c, err)
	}
	return message(c, "Feedback acknowledged")
}

// AddComment はフィードバックにコメントを追記します。
func (h *FeedbackHandler) AddComment(c echo.Context) error {
	req := new(commentRequest)
	if err := c.Bind(req); err != nil {
		return toHTTPError(c, err)
	}
	if err := c.Validate(req); err != nil {
		return toHTTPError(c, err)
	}

	err := h.svc.AddComment(c.Request().Context(), feedback.AddCommentInput{
		FeedbackID: c.Param("feedback_id"),
		EmployeeID: req.EmployeeID,
		Text:       req.Text,
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return message(c, "Comment added")
}

// ListByEmployee は従業員宛てのフィードバックを返します。
func (h *FeedbackHandler) ListByEmployee(c echo.Context) error {
	views, err := h.svc.ListByEmployee(c.Request().Context(), feedback.ListByEmployeeInput{
		EmployeeID: c.Param("employee_id"),
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, toFeedbackResponses(views))
}

// ListByManager はマネージャーが作成したフィードバックを返します。
func (h *FeedbackHandler) ListByManager(c echo.Context) error {
	views, err := h.svc.ListByManager(c.Request().Context(), feedback.ListByManagerInput{
		ManagerID: c.Param("manager_id"),
	})
	if err != nil {
		return toHTTPError(c, err)
	}
	return c.JSON(http.StatusOK, toFeedbackResponses(views))
}

// Export は従業員宛てのフィードバックを文書として返します。
func (h *FeedbackHandler) Export(c echo.Context) error {
	employeeID := c.Param("employee_id")
	items, err := h.svc.ExportFeedback(c.Request().Context(), feedback.ExportInput{EmployeeID: employeeID})
	if err != nil {
		return toHTTPError(c, err)
	}

	var buf bytes.Buffer
	if err := h.report.Render(&buf, employeeID, items); err != nil {
		return toHTTPError(c, fmt.Errorf("render report: %w", err))
	}

	return c.Blob(http.StatusOK, h.report.ContentType(), buf.Bytes())
}

func toFeedbackResponses(views []*feedback.View) []feedbackResponse {
	out := make([]feedbackResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toFeedbackResponse(v))
	}
	return out
}

func toFeedbackResponse(v *feedback.View) feedbackResponse {
	fb := v.Feedback
	comments := make([]commentResponse, 0, len(v.Comments))
	for _, cm := range v.Comments {
		comments = append(comments, commentResponse{EmployeeID: cm.EmployeeID, Text: cm.HTML})
	}
	tags := fb.Tags
	if tags == nil {
		tags = []string{}
	}

	return feedbackResponse{
		ID:                fb.ID,
		EmployeeID:        fb.EmployeeID,
		ManagerEmployeeID: fb.ManagerEmployeeID,
		ManagerName:       v.ManagerName,
		Strengths:         fb.Strengths,
		Improvement:       fb.Improvement,
		Sentiment:         string(fb.Sentiment),
		Anonymous:         fb.Anonymous,
		Tags:              tags,
		Acknowledged:      fb.Acknowledged,
		Comments:          comments,
		CreatedAt:         fb.CreatedAt,
	}
}
