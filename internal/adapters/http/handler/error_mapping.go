package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/feedback-exchange/internal/core/feedback"
	"github.com/ogurasousui/feedback-exchange/internal/core/feedbackrequest"
	"github.com/ogurasousui/feedback-exchange/internal/core/notification"
	"github.com/ogurasousui/feedback-exchange/internal/core/user"
)

func toHTTPError(c echo.Context, err error) error {
	var (
		httpErr    *echo.HTTPError
		bindErr    *echo.BindingError
		validation validator.ValidationErrors
	)

	switch {
	case err == nil:
		return nil
	case errors.As(err, &bindErr):
		return echo.NewHTTPError(http.StatusBadRequest, bindErr.Error())
	case errors.As(err, &httpErr):
		return httpErr
	case errors.As(err, &validation):
		return echo.NewHTTPError(http.StatusBadRequest, validation.Error())
	case errors.Is(err, user.ErrInvalidEmployeeID),
		errors.Is(err, user.ErrInvalidName),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, feedback.ErrInvalidID),
		errors.Is(err, feedback.ErrInvalidEmployeeID),
		errors.Is(err, feedback.ErrInvalidManagerID),
		errors.Is(err, feedback.ErrInvalidStrengths),
		errors.Is(err, feedback.ErrInvalidImprovement),
		errors.Is(err, feedback.ErrInvalidSentiment),
		errors.Is(err, feedback.ErrInvalidCommentText),
		errors.Is(err, feedbackrequest.ErrInvalidID),
		errors.Is(err, feedbackrequest.ErrInvalidEmployeeID),
		errors.Is(err, feedbackrequest.ErrInvalidManagerID),
		errors.Is(err, feedbackrequest.ErrInvalidMessage),
		errors.Is(err, notification.ErrInvalidID),
		errors.Is(err, notification.ErrInvalidRecipient),
		errors.Is(err, notification.ErrInvalidMessage):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, feedback.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, user.ErrUserAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, user.ErrManagerNotFound),
		errors.Is(err, user.ErrEmployeeNotFound),
		errors.Is(err, feedback.ErrFeedbackNotFound),
		errors.Is(err, feedbackrequest.ErrRequestNotFound),
		errors.Is(err, notification.ErrNotificationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		req := c.Request()
		c.Logger().Errorf("%s %s: %v", req.Method, req.URL.Path, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

func message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}
