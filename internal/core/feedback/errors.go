package feedback

import "errors"

var (
	// ErrFeedbackNotFound はフィードバックが存在しない場合に返却されます。
	ErrFeedbackNotFound = errors.New("feedback not found")
	// ErrForbidden は操作者が対象に対する権限を持たない場合に返却されます。
	ErrForbidden = errors.New("not authorized")
	// ErrInvalidID はフィードバック ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("invalid feedback id")
	// ErrInvalidEmployeeID は従業員 ID が不正な場合に返却されます。
	ErrInvalidEmployeeID = errors.New("invalid employee id")
	// ErrInvalidManagerID はマネージャー ID が不正な場合に返却されます。
	ErrInvalidManagerID = errors.New("invalid manager id")
	// ErrInvalidStrengths は strengths が空の場合に返却されます。
	ErrInvalidStrengths = errors.New("invalid strengths")
	// ErrInvalidImprovement は improvement が空の場合に返却されます。
	ErrInvalidImprovement = errors.New("invalid improvement")
	// ErrInvalidSentiment は sentiment が許可された値でない場合に返却されます。
	ErrInvalidSentiment = errors.New("invalid sentiment")
	// ErrInvalidCommentText はコメント本文が空の場合に返却されます。
	ErrInvalidCommentText = errors.New("invalid comment text")
)
