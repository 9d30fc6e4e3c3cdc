package feedback

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

// UnknownManagerName は作成者を解決できないときに表示する名前です。
const UnknownManagerName = "Unknown"

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

// TransactionManager はトランザクション制御の抽象化です。
// 所有者確認と書き込みを伴う更新・削除は読み書きトランザクション内で実行されます。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// CommentRenderer はコメント本文を表示用 HTML に変換します。
type CommentRenderer interface {
	Render(text string) (string, error)
}

type plainRenderer struct{}

func (plainRenderer) Render(text string) (string, error) {
	return text, nil
}

// UseCase はフィードバックユースケースの公開インターフェースです。
type UseCase interface {
	Submit(ctx context.Context, in SubmitInput) (*View, error)
	Update(ctx context.Context, in UpdateInput) (*View, error)
	Delete(ctx context.Context, in DeleteInput) error
	DeleteAllByManager(ctx context.Context, in DeleteAllByManagerInput) (int64, error)
	Acknowledge(ctx context.Context, in AcknowledgeInput) error
	AddComment(ctx context.Context, in AddCommentInput) error
	ListByEmployee(ctx context.Context, in ListByEmployeeInput) ([]*View, error)
	ListByManager(ctx context.Context, in ListByManagerInput) ([]*View, error)
	ExportFeedback(ctx context.Context, in ExportInput) ([]*Feedback, error)
}

// Service はフィードバックに関するユースケースをまとめます。
//
// 主レコードの書き込みと通知の書き込みは独立した逐次操作です。
// 両者の間で失敗した場合、通知のないフィードバックが残ります。
type Service struct {
	repo     Repository
	dir      user.Directory
	notifier notification.Notifier
	renderer CommentRenderer
	clock    Clock
	ids      IDGenerator
	tx       TransactionManager
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

// WithCommentRenderer はコメントの表示変換を設定します。未設定の場合は本文をそのまま返します。
func WithCommentRenderer(r CommentRenderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// NewService は Service を生成します。
func NewService(repo Repository, dir user.Directory, notifier notification.Notifier, clock Clock, tx TransactionManager, opts ...Option) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{
		repo:     repo,
		dir:      dir,
		notifier: notifier,
		renderer: plainRenderer{},
		clock:    clock,
		ids:      uuidGenerator{},
		tx:       tx,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitInput はフィードバック作成時の入力です。
type SubmitInput struct {
	EmployeeID        string
	ManagerEmployeeID string
	Strengths         string
	Improvement       string
	Sentiment         string
	Anonymous         bool
	Tags              []string
}

// UpdateInput はフィードバック更新時の入力です。ManagerEmployeeID は操作者を表します。
type UpdateInput struct {
	ID                string
	ManagerEmployeeID string
	Strengths         string
	Improvement       string
	Sentiment         string
	Anonymous         bool
	Tags              []string
}

// DeleteInput はフィードバック削除時の入力です。
type DeleteInput struct {
	ID string
}

// DeleteAllByManagerInput は一括削除時の入力です。
type DeleteAllByManagerInput struct {
	ManagerID string
}

// AcknowledgeInput は確認済み化の入力です。
type AcknowledgeInput struct {
	ID string
}

// AddCommentInput はコメント追加時の入力です。
type AddCommentInput struct {
	FeedbackID string
	EmployeeID string
	Text       string
}

// ListByEmployeeInput は従業員別一覧の入力です。
type ListByEmployeeInput struct {
	EmployeeID string
}

// ListByManagerInput はマネージャー別一覧の入力です。
type ListByManagerInput struct {
	ManagerID string
}

// ExportInput はレポート出力の入力です。
type ExportInput struct {
	EmployeeID string
}

type content struct {
	strengths   string
	improvement string
	sentiment   Sentiment
	anonymous   bool
	tags        []string
}

func normalizeContent(strengths, improvement, sentiment string, anonymous bool, tags []string) (content, error) {
	if strings.TrimSpace(strengths) == "" {
		return content{}, ErrInvalidStrengths
	}
	if strings.TrimSpace(improvement) == "" {
		return content{}, ErrInvalidImprovement
	}
	sent, err := ParseSentiment(sentiment)
	if err != nil {
		return content{}, err
	}
	return content{
		strengths:   strengths,
		improvement: improvement,
		sentiment:   sent,
		anonymous:   anonymous,
		tags:        normalizeTags(tags),
	}, nil
}

// Submit はマネージャーから従業員へのフィードバックを作成し、従業員へ通知します。
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*View, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		return nil, fmt.Errorf("employee_id: %w", ErrInvalidEmployeeID)
	}
	managerID := strings.TrimSpace(in.ManagerEmployeeID)
	if managerID == "" {
		return nil, fmt.Errorf("manager_employee_id: %w", ErrInvalidManagerID)
	}
	c, err := normalizeContent(in.Strengths, in.Improvement, in.Sentiment, in.Anonymous, in.Tags)
	if err != nil {
		return nil, err
	}

	mgr, err := s.dir.ResolveManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.dir.ResolveEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	id, err := s.ids.NewID()
	if err != nil {
		return nil, fmt.Errorf("feedback: generate id: %w", err)
	}

	created, err := s.repo.Create(ctx, &Feedback{
		ID:                id,
		EmployeeID:        employeeID,
		ManagerEmployeeID: mgr.EmployeeID,
		Strengths:         c.strengths,
		Improvement:       c.improvement,
		Sentiment:         c.sentiment,
		Anonymous:         c.anonymous,
		Tags:              c.tags,
		Acknowledged:      false,
		Comments:          []Comment{},
		CreatedAt:         s.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.notifier.Notify(ctx, notification.NotifyInput{
		Kind:              notification.KindFeedbackSubmitted,
		EmployeeID:        employeeID,
		ManagerEmployeeID: mgr.EmployeeID,
		ManagerName:       mgr.Name,
		Message:           fmt.Sprintf("You have received new feedback from manager %s", mgr.Name),
	}); err != nil {
		return nil, err
	}

	return s.view(created, mgr.Name)
}

// Update は所有者のマネージャーに限り本文系フィールドを置き換えます。
// acknowledged とコメントは変更されません。
func (s *Service) Update(ctx context.Context, in UpdateInput) (*View, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	c, err := normalizeContent(in.Strengths, in.Improvement, in.Sentiment, in.Anonymous, in.Tags)
	if err != nil {
		return nil, err
	}

	var (
		updated *Feedback
		mgr     *user.User
	)
	err = s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		mgr, err = s.authorizeManager(ctx, in.ManagerEmployeeID)
		if err != nil {
			return err
		}
		if current.ManagerEmployeeID != mgr.EmployeeID {
			return ErrForbidden
		}

		next := *current
		next.Strengths = c.strengths
		next.Improvement = c.improvement
		next.Sentiment = c.sentiment
		next.Anonymous = c.anonymous
		next.Tags = c.tags

		updated, err = s.repo.Update(ctx, &next)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.view(updated, mgr.Name)
}

// Delete はフィードバックを削除します。
//
// 認可は保存済みのマネージャー ID がマネージャーとして解決できるかのみを確認し、操作者との一致は確認しません。
func (s *Service) Delete(ctx context.Context, in DeleteInput) error {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		current, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.authorizeManager(ctx, current.ManagerEmployeeID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
}

// DeleteAllByManager はマネージャーが作成した全フィードバックを削除し、件数を返します。
func (s *Service) DeleteAllByManager(ctx context.Context, in DeleteAllByManagerInput) (int64, error) {
	mgr, err := s.authorizeManager(ctx, in.ManagerID)
	if err != nil {
		return 0, err
	}
	return s.repo.DeleteByManager(ctx, mgr.EmployeeID)
}

// Acknowledge はフィードバックを確認済みにし、作成者へ通知します。
// 呼び出しのたびに通知が作成されます。
func (s *Service) Acknowledge(ctx context.Context, in AcknowledgeInput) error {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetAcknowledged(ctx, id); err != nil {
		return err
	}

	return s.notifyManager(ctx, current.ManagerEmployeeID, notification.KindFeedbackAcknowledged,
		fmt.Sprintf("Employee %s acknowledged your feedback.", current.EmployeeID))
}

// AddComment は従業員アカウントによるコメントを末尾に追加し、作成者へ通知します。
// コメント者がフィードバックの対象者であるかは確認しません。
func (s *Service) AddComment(ctx context.Context, in AddCommentInput) error {
	id := strings.TrimSpace(in.FeedbackID)
	if id == "" {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}
	if strings.TrimSpace(in.Text) == "" {
		return ErrInvalidCommentText
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	author, err := s.dir.Find(ctx, in.EmployeeID, nil)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrForbidden
		}
		return err
	}
	if !author.IsEmployee() {
		return ErrForbidden
	}

	if err := s.repo.AppendComment(ctx, id, Comment{EmployeeID: author.EmployeeID, Text: in.Text}); err != nil {
		return err
	}

	return s.notifyManager(ctx, current.ManagerEmployeeID, notification.KindFeedbackCommented,
		fmt.Sprintf("Employee %s commented on your feedback.", author.EmployeeID))
}

// ListByEmployee は従業員宛てのフィードバックを返します。従業員の存在確認は行いません。
// 作成者名はレコードごとに読み取り時点で解決します。
func (s *Service) ListByEmployee(ctx context.Context, in ListByEmployeeInput) ([]*View, error) {
	employeeID := strings.TrimSpace(in.EmployeeID)

	var views []*View
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		items, err := s.repo.ListByEmployee(txCtx, employeeID)
		if err != nil {
			return err
		}

		views = make([]*View, 0, len(items))
		for _, fb := range items {
			name, err := s.managerName(txCtx, fb.ManagerEmployeeID)
			if err != nil {
				return err
			}
			v, err := s.view(fb, name)
			if err != nil {
				return err
			}
			views = append(views, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ListByManager はマネージャーが作成したフィードバックを返します。
func (s *Service) ListByManager(ctx context.Context, in ListByManagerInput) ([]*View, error) {
	var views []*View
	err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		mgr, err := s.dir.ResolveManager(txCtx, in.ManagerID)
		if err != nil {
			return err
		}

		items, err := s.repo.ListByManager(txCtx, mgr.EmployeeID)
		if err != nil {
			return err
		}

		views = make([]*View, 0, len(items))
		for _, fb := range items {
			v, err := s.view(fb, mgr.Name)
			if err != nil {
				return err
			}
			views = append(views, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// ExportFeedback はレポート出力用に従業員宛てのフィードバックを作成順で返します。
func (s *Service) ExportFeedback(ctx context.Context, in ExportInput) ([]*Feedback, error) {
	return s.repo.ListByEmployee(ctx, strings.TrimSpace(in.EmployeeID))
}

// authorizeManager は ID をマネージャーとして再解決します。解決できない場合は ErrForbidden です。
func (s *Service) authorizeManager(ctx context.Context, managerID string) (*user.User, error) {
	mgr, err := s.dir.ResolveManager(ctx, managerID)
	if err != nil {
		if errors.Is(err, user.ErrManagerNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	return mgr, nil
}

// notifyManager は作成者へ通知します。作成者が役割を問わず解決できない場合は何もしません。
func (s *Service) notifyManager(ctx context.Context, managerID string, kind notification.Kind, message string) error {
	mgr, err := s.dir.Find(ctx, managerID, nil)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil
		}
		return err
	}

	_, err = s.notifier.Notify(ctx, notification.NotifyInput{
		Kind:              kind,
		EmployeeID:        managerID,
		ManagerEmployeeID: managerID,
		ManagerName:       mgr.Name,
		Message:           message,
	})
	return err
}

func (s *Service) managerName(ctx context.Context, managerID string) (string, error) {
	mgr, err := s.dir.Find(ctx, managerID, nil)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return UnknownManagerName, nil
		}
		return "", err
	}
	return mgr.Name, nil
}

func (s *Service) view(fb *Feedback, managerName string) (*View, error) {
	comments := make([]RenderedComment, 0, len(fb.Comments))
	for _, c := range fb.Comments {
		html, err := s.renderer.Render(c.Text)
		if err != nil {
			return nil, fmt.Errorf("feedback: render comment: %w", err)
		}
		comments = append(comments, RenderedComment{EmployeeID: c.EmployeeID, HTML: html})
	}
	return &View{Feedback: fb, ManagerName: managerName, Comments: comments}, nil
}
