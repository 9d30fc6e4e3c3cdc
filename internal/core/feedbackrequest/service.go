package feedbackrequest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ogurasousui/feedback-exchange/internal/core/notification"
	"github.com/ogurasousui/feedback-exchange/internal/core/user"
)

// UnknownEmployeeName は依頼者を解決できないときに表示する名前です。
const UnknownEmployeeName = "Unknown"

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// IDGenerator は新しいレコード ID を払い出します。
type IDGenerator interface {
	NewID() (string, error)
}

type uuidGenerator struct{}

func (uuidGenerator) NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// UseCase はフィードバック依頼ユースケースの公開インターフェースです。
type UseCase interface {
	RequestFeedback(ctx context.Context, in RequestFeedbackInput) (*Request, error)
	ListForManager(ctx context.Context, in ListForManagerInput) ([]*View, error)
	MarkSeen(ctx context.Context, in MarkSeenInput) error
	CountUnseen(ctx context.Context, in CountUnseenInput) (int64, error)
}

// Service はフィードバック依頼に関するユースケースをまとめます。
type Service struct {
	repo     Repository
	dir      user.Directory
	notifier notification.Notifier
	clock    Clock
	ids      IDGenerator
}

// NewService は Service を生成します。ids が nil の場合は UUIDv7 を使用します。
func NewService(repo Repository, dir user.Directory, notifier notification.Notifier, clock Clock, ids IDGenerator) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if ids == nil {
		ids = uuidGenerator{}
	}
	return &Service{repo: repo, dir: dir, notifier: notifier, clock: clock, ids: ids}
}

// RequestFeedbackInput は依頼作成時の入力です。
type RequestFeedbackInput struct {
	EmployeeID        string
	ManagerEmployeeID string
	Message           string
}

// ListForManagerInput は依頼一覧の入力です。
type ListForManagerInput struct {
	ManagerID string
}

// MarkSeenInput は既読化の入力です。
type MarkSeenInput struct {
	ID string
}

// CountUnseenInput は未読件数取得の入力です。
type CountUnseenInput struct {
	ManagerID string
}

// RequestFeedback は依頼を作成し、マネージャー自身のフィードへ通知します。
// 通知の employee_id と manager_employee_id はどちらもマネージャー ID です。
func (s *Service) RequestFeedback(ctx context.Context, in RequestFeedbackInput) (*Request, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, fmt.Errorf("employee_id: %w", ErrInvalidEmployeeID)
	}
	managerID := strings.TrimSpace(in.ManagerEmployeeID)
	if managerID == "" {
		return nil, fmt.Errorf("manager_employee_id: %w", ErrInvalidManagerID)
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, ErrInvalidMessage
	}

	if _, err := s.dir.ResolveEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	mgr, err := s.dir.ResolveManager(ctx, managerID)
	if err != nil {
		return nil, err
	}

	id, err := s.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("feedbackrequest: generate id: %w", err)
	}

	created, err := s.repo.Create(ctx, &Request{
		ID:                id,
		EmployeeID:        employeeID,
		ManagerEmployeeID: mgr.EmployeeID,
		Message:           in.Message,
		Seen:              false,
		CreatedAt:         s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.notifier.Notify(ctx, notification.NotifyInput{
		Kind:              notification.KindFeedbackRequested,
		EmployeeID:        mgr.EmployeeID,
		ManagerEmployeeID: mgr.EmployeeID,
		ManagerName:       mgr.Name,
		Message:           fmt.Sprintf("Feedback request from employee %s", employeeID),
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// ListForManager はマネージャー宛ての依頼を新しい順に返します。
func (s *Service) ListForManager(ctx context.Context, in ListForManagerInput) ([]*View, error) {
	mgr, err := s.dir.ResolveManager(ctx, in.ManagerID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByManager(ctx, mgr.EmployeeID)
	if err != nil {
		return nil, err
	}

	// 依頼者は従業員として検証済みのため、同じ ID のマネージャーではなく従業員の名前を表示する。
	employeeRole := user.RoleEmployee
	views := make([]*View, 0, len(items))
	for _, r := range items {
		name := UnknownEmployeeName
		emp, err := s.dir.Find(ctx, r.EmployeeID, &employeeRole)
		switch {
		case err == nil:
			name = emp.Name
		case !errors.Is(err, user.ErrUserNotFound):
			return nil, err
		}
		views = append(views, &View{Request: r, EmployeeName: name})
	}
	return views, nil
}

// MarkSeen は依頼を既読にします。既読済みでも成功します。
func (s *Service) MarkSeen(ctx context.Context, in MarkSeenInput) error {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.MarkSeen(ctx, id)
}

// CountUnseen はマネージャー宛ての未読依頼数を返します。
func (s *Service) CountUnseen(ctx context.Context, in CountUnseenInput) (int64, error) {
	mgr, err := s.dir.ResolveManager(ctx, in.ManagerID)
	if err != nil {
		return 0, err
	}
	return s.repo.CountUnseen(ctx, mgr.EmployeeID)
}
