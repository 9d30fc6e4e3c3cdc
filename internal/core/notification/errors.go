package notification

import "errors"

var (
	// ErrNotificationNotFound は通知が存在しない場合に返却されます。
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrInvalidID は通知 ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid notification id")
	// ErrInvalidRecipient は受信者 ID が不正な場合に返却されます。
	ErrInvalidRecipient = errors.New("invalid recipient")
	// ErrInvalidMessage は本文が空の場合に返却されます。
	ErrInvalidMessage = errors.New("invalid message")
)
