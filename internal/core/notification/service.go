package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

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

// Kind は通知を発生させたイベントの種類です。永続化はされません。
type Kind string

const (
	KindFeedbackSubmitted    Kind = "feedback_submitted"
	KindFeedbackAcknowledged Kind = "feedback_acknowledged"
	KindFeedbackCommented    Kind = "feedback_commented"
	KindFeedbackRequested    Kind = "feedback_requested"
)

// Observer は通知作成を観測します。
type Observer interface {
	NotificationCreated(kind Kind)
}

type noopObserver struct{}

func (noopObserver) NotificationCreated(Kind) {}

// Notifier は他のユースケースが副作用として通知を書き込むための抽象です。
type Notifier interface {
	Notify(ctx context.Context, in NotifyInput) (*Notification, error)
}

// UseCase は通知ユースケースの公開インターフェースです。
type UseCase interface {
	Notifier
	ListForEmployee(ctx context.Context, in ListForEmployeeInput) ([]*Notification, error)
	SetSeen(ctx context.Context, in SetSeenInput) error
	MarkAllSeen(ctx context.Context, in MarkAllSeenInput) (int64, error)
}

// Service は通知に関するユースケースをまとめます。
type Service struct {
	repo     Repository
	clock    Clock
	ids      IDGenerator
	observer Observer
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithIDGenerator は ID 生成器を差し替えます。
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithObserver は通知作成の観測者を設定します。
func WithObserver(o Observer) Option {
	return func(s *Service) {
		if o != nil {
			s.observer = o
		}
	}
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	s := &Service{repo: repo, clock: clock, ids: uuidGenerator{}, observer: noopObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NotifyInput は通知作成時の入力です。
type NotifyInput struct {
	Kind              Kind
	EmployeeID        string
	ManagerEmployeeID string
	ManagerName       string
	Message           string
}

// ListForEmployeeInput は通知一覧取得時の入力です。
type ListForEmployeeInput struct {
	EmployeeID string
}

// SetSeenInput は既読フラグ更新時の入力です。
type SetSeenInput struct {
	ID   string
	Seen bool
}

// MarkAllSeenInput は一括既読時の入力です。
type MarkAllSeenInput struct {
	EmployeeID string
}

// Notify は通知を作成します。Seen は常に false で作成されます。
func (s *Service) Notify(ctx context.Context, in NotifyInput) (*Notification, error) {
	recipient := strings.TrimSpace(in.EmployeeID)
	if recipient == "" {
		return nil, ErrInvalidRecipient
	}
	if strings.TrimSpace(in.Message) == "" {
		return nil, ErrInvalidMessage
	}

	id, err := s.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("notification: generate id: %w", err)
	}

	created, err := s.repo.Create(ctx, &Notification{
		ID:                id,
		EmployeeID:        recipient,
		ManagerEmployeeID: in.ManagerEmployeeID,
		ManagerName:       in.ManagerName,
		Message:           in.Message,
		Seen:              false,
		CreatedAt:         s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	s.observer.NotificationCreated(in.Kind)
	return created, nil
}

// ListForEmployee は受信者の通知を新しい順に返します。受信者の存在確認は行いません。
func (s *Service) ListForEmployee(ctx context.Context, in ListForEmployeeInput) ([]*Notification, error) {
	return s.repo.ListByEmployee(ctx, strings.TrimSpace(in.EmployeeID))
}

// SetSeen は既読フラグを指定値に設定します。未読へ戻すことも可能です。
func (s *Service) SetSeen(ctx context.Context, in SetSeenInput) error {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.repo.SetSeen(ctx, id, in.Seen)
}

// MarkAllSeen は受信者の全通知を既読にします。対象がなくても成功します。
func (s *Service) MarkAllSeen(ctx context.Context, in MarkAllSeenInput) (int64, error) {
	return s.repo.MarkAllSeen(ctx, strings.TrimSpace(in.EmployeeID))
}
