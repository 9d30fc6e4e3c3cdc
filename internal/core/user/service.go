package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Directory は他のユースケースが利用するユーザー解決の抽象です。
// 認可は保存済みの ID を役割付きで再解決することで行われます。
type Directory interface {
	Find(ctx context.Context, employeeID string, role *Role) (*User, error)
	ResolveManager(ctx context.Context, employeeID string) (*User, error)
	ResolveEmployee(ctx context.Context, employeeID string) (*User, error)
}

// UseCase はディレクトリユースケースの公開インターフェースです。
type UseCase interface {
	Directory
	RegisterUser(ctx context.Context, in RegisterUserInput) (*User, error)
	GetUser(ctx context.Context, in GetUserInput) (*User, error)
	ListUsers(ctx context.Context, in ListUsersInput) ([]*User, error)
}

// Service はディレクトリに関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, clock: clock}
}

// RegisterUserInput はユーザー登録時の入力です。
type RegisterUserInput struct {
	EmployeeID string
	Name       string
	Role       Role
}

// GetUserInput はユーザー取得時の入力です。Role が nil の場合は役割を問いません。
type GetUserInput struct {
	EmployeeID string
	Role       *Role
}

// ListUsersInput は一覧取得時の入力です。
type ListUsersInput struct {
	Role *Role
}

// RegisterUser はディレクトリへユーザーを登録します。
func (s *Service) RegisterUser(ctx context.Context, in RegisterUserInput) (*User, error) {
	id := strings.TrimSpace(in.EmployeeID)
	if id == "" {
		return nil, ErrInvalidEmployeeID
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	role, err := ParseRole(string(in.Role))
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Find(ctx, id, &role)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	return s.repo.Create(ctx, &User{
		EmployeeID: id,
		Name:       name,
		Role:       role,
		CreatedAt:  s.clock.Now(),
	})
}

// GetUser は ID でユーザーを取得します。
func (s *Service) GetUser(ctx context.Context, in GetUserInput) (*User, error) {
	if strings.TrimSpace(in.EmployeeID) == "" {
		return nil, fmt.Errorf("employee_id: %w", ErrInvalidEmployeeID)
	}
	role, err := normalizeRole(in.Role)
	if err != nil {
		return nil, err
	}
	return s.Find(ctx, in.EmployeeID, role)
}

// ListUsers はユーザーの一覧を取得します。
func (s *Service) ListUsers(ctx context.Context, in ListUsersInput) ([]*User, error) {
	role, err := normalizeRole(in.Role)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, role)
}

// Find は ID と任意の役割でユーザーを解決します。存在しない場合は ErrUserNotFound を返します。
func (s *Service) Find(ctx context.Context, employeeID string, role *Role) (*User, error) {
	id := strings.TrimSpace(employeeID)
	if id == "" {
		return nil, ErrUserNotFound
	}
	return s.repo.Find(ctx, id, role)
}

// ResolveManager は ID をマネージャーとして解決します。
func (s *Service) ResolveManager(ctx context.Context, employeeID string) (*User, error) {
	return s.resolve(ctx, employeeID, RoleManager, ErrManagerNotFound)
}

// ResolveEmployee は ID を従業員として解決します。
func (s *Service) ResolveEmployee(ctx context.Context, employeeID string) (*User, error) {
	return s.resolve(ctx, employeeID, RoleEmployee, ErrEmployeeNotFound)
}

func (s *Service) resolve(ctx context.Context, employeeID string, role Role, notFound error) (*User, error) {
	u, err := s.Find(ctx, employeeID, &role)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	// 解決結果の役割は要求した役割と一致している必要があります。
	if u.Role != role {
		return nil, notFound
	}
	return u, nil
}

func normalizeRole(role *Role) (*Role, error) {
	if role == nil {
		return nil, nil
	}
	parsed, err := ParseRole(string(*role))
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// ParseRole は文字列を Role に変換します。
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleManager:
		return RoleManager, nil
	case RoleEmployee:
		return RoleEmployee, nil
	default:
		return "", ErrInvalidRole
	}
}
