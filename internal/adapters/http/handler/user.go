package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/feedback-exchange/internal/core/user"
)

// UserHandler はディレクトリへの登録と参照を提供します。
type UserHandler struct {
	svc user.UseCase
}

// NewUserHandler は UserHandler を生成します。
func NewUserHandler(svc user.UseCase) *UserHandler {
	return &UserHandler{svc: svc}
}

type registerUserRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Role       string `json:"role" validate:"required"`
}

type userResponse struct {
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// RegisterUser はユーザーを登録します。
func (h *UserHandler) RegisterUser(c echo.Context) error {
	req := new(registerUserRequest)
	if err := c.Bind(req); err != nil {
		return toHTTPError(c, err)
	}
	if err := c.Validate(req); err != nil {
		return toHTTPError(c, err)
	}

	created, err := h.svc.RegisterUser(c.Request().Context(), user.RegisterUserInput{
		EmployeeID: req.EmployeeID,
		Name:       req.Name,
		Role:       user.Role(req.Role),
	})
	if err != nil {
		return toHTTPError(c, err)
	}

	return c.JSON(http.StatusCreated, toUserResponse(created))
}

// GetUser は ID と任意の役割でユーザーを取得します。
func (h *UserHandler) GetUser(c echo.Context) error {
	u, err := h.svc.GetUser(c.Request().Context(), user.GetUserInput{
		EmployeeID: c.Param("employee_id"),
		Role:       roleQuery(c),
	})
	if err != nil {
		return toHTTPError(c, err)
	}

	return c.JSON(http.StatusOK, toUserResponse(u))
}

// ListUsers はユーザーの一覧を返します。
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context(), user.ListUsersInput{Role: roleQuery(c)})
	if err != nil {
		return toHTTPError(c, err)
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}

func roleQuery(c echo.Context) *user.Role {
	raw := c.QueryParam("role")
	if raw == "" {
		return nil
	}
	role := user.Role(raw)
	return &role
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{
		EmployeeID: u.EmployeeID,
		Name:       u.Name,
		Role:       string(u.Role),
		CreatedAt:  u.CreatedAt,
	}
}
