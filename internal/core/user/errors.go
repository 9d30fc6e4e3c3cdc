package user

import "errors"

var (
	// ErrUserNotFound はユーザーが存在しない場合に返却されます。
	ErrUserNotFound = errors.New("user not found")
	// ErrManagerNotFound は指定 ID のマネージャーが存在しない場合に返却されます。
	ErrManagerNotFound = errors.New("manager not found")
	// ErrEmployeeNotFound は指定 ID の従業員が存在しない場合に返却されます。
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrUserAlreadyExists は同じ役割で同じ ID が登録済みの場合に返却されます。
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidEmployeeID は ID が不正な場合に返却されます。
	ErrInvalidEmployeeID = errors.New("invalid employee id")
	// ErrInvalidName は名前が不正な場合に返却されます。
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidRole は役割が不正な場合に返却されます。
	ErrInvalidRole = errors.New("invalid role")
)
