package feedbackrequest

import "errors"

var (
	// ErrRequestNotFound は依頼が存在しない場合に返却されます。
	ErrRequestNotFound = errors.New("feedback request not found")
	// ErrInvalidID は依頼 ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid feedback request id")
	// ErrInvalidEmployeeID は従業員 ID が不正な場合に返却されます。
	ErrInvalidEmployeeID = errors.New("invalid employee id")
	// ErrInvalidManagerID はマネージャー ID が不正な場合に返却されます。
	ErrInvalidManagerID = errors.New("invalid manager id")
	// ErrInvalidMessage は依頼本文が空の場合に返却されます。
	ErrInvalidMessage = errors.New("invalid message")
)
