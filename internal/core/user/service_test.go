package user

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}

type fakeRepo struct {
	users   []*User
	findErr error
}

func newFakeRepo(seed ...*User) *fakeRepo {
	r := &fakeRepo{}
	for _, u := range seed {
		r.users = append(r.users, cloneUser(u))
	}
	return r
}

func (r *fakeRepo) Create(_ context.Context, user *User) (*User, error) {
	for _, u := range r.users {
		if u.EmployeeID == user.EmployeeID && u.Role == user.Role {
			return nil, ErrUserAlreadyExists
		}
	}
	r.users = append(r.users, cloneUser(user))
	return cloneUser(user), nil
}

func (r *fakeRepo) Find(_ context.Context, employeeID string, role *Role) (*User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.EmployeeID != employeeID {
			continue
		}
		if role != nil && u.Role != *role {
			continue
		}
		return cloneUser(u), nil
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepo) List(_ context.Context, role *Role) ([]*User, error) {
	var out []*User
	for _, u := range r.users {
		if role != nil && u.Role != *role {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	copy := *u
	return &copy
}

func TestService_RegisterUser_Success(t *testing.T) {
	t.Parallel()

	clk := stubClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	svc := NewService(newFakeRepo(), clk)

	created, err := svc.RegisterUser(context.Background(), RegisterUserInput{
		EmployeeID: " M1 ",
		Name:       "  Alice Manager ",
		Role:       "Manager",
	})
	if err != nil {
		t.Fatalf("RegisterUser returned error: %v", err)
	}

	if created.EmployeeID != "M1" {
		t.Errorf("expected trimmed id, got %q", created.EmployeeID)
	}
	if created.Name != "Alice Manager" {
		t.Errorf("expected trimmed name, got %q", created.Name)
	}
	if created.Role != RoleManager {
		t.Errorf("expected manager role, got %s", created.Role)
	}
	if !created.CreatedAt.Equal(clk.now) {
		t.Errorf("expected CreatedAt to use clock, got %v", created.CreatedAt)
	}
}

func TestService_RegisterUser_SameIDDifferentRole(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), nil)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, RegisterUserInput{EmployeeID: "X1", Name: "X", Role: RoleManager}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.RegisterUser(ctx, RegisterUserInput{EmployeeID: "X1", Name: "X", Role: RoleEmployee}); err != nil {
		t.Fatalf("expected ids to be unique per role only, got %v", err)
	}

	_, err := svc.RegisterUser(ctx, RegisterUserInput{EmployeeID: "X1", Name: "Y", Role: RoleManager})
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestService_RegisterUser_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), nil)

	tests := []struct {
		name string
		in   RegisterUserInput
		want error
	}{
		{"blank id", RegisterUserInput{EmployeeID: " ", Name: "A", Role: RoleEmployee}, ErrInvalidEmployeeID},
		{"blank name", RegisterUserInput{EmployeeID: "E1", Name: "", Role: RoleEmployee}, ErrInvalidName},
		{"unknown role", RegisterUserInput{EmployeeID: "E1", Name: "A", Role: "admin"}, ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.RegisterUser(context.Background(), tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestService_ResolveManager(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(
		&User{EmployeeID: "M1", Name: "Manager One", Role: RoleManager},
		&User{EmployeeID: "E1", Name: "Employee One", Role: RoleEmployee},
	)
	svc := NewService(repo, nil)

	mgr, err := svc.ResolveManager(context.Background(), "M1")
	if err != nil {
		t.Fatalf("ResolveManager returned error: %v", err)
	}
	if mgr.Name != "Manager One" {
		t.Fatalf("unexpected manager %+v", mgr)
	}

	if _, err := svc.ResolveManager(context.Background(), "E1"); !errors.Is(err, ErrManagerNotFound) {
		t.Fatalf("expected employee id to fail manager resolution, got %v", err)
	}

	if _, err := svc.ResolveManager(context.Background(), "missing"); !errors.Is(err, ErrManagerNotFound) {
		t.Fatalf("expected ErrManagerNotFound, got %v", err)
	}
}

func TestService_ResolveEmployee(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(&User{EmployeeID: "M1", Name: "Manager One", Role: RoleManager})
	svc := NewService(repo, nil)

	if _, err := svc.ResolveEmployee(context.Background(), "M1"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestService_Resolve_PropagatesStoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection reset")
	repo := newFakeRepo()
	repo.findErr = storeErr
	svc := NewService(repo, nil)

	if _, err := svc.ResolveEmployee(context.Background(), "E1"); !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestService_Find_AnyRole(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(&User{EmployeeID: "E1", Name: "Employee One", Role: RoleEmployee})
	svc := NewService(repo, nil)

	u, err := svc.Find(context.Background(), "E1", nil)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if u.Role != RoleEmployee {
		t.Fatalf("unexpected role %s", u.Role)
	}

	if _, err := svc.Find(context.Background(), "", nil); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected blank id to resolve to nothing, got %v", err)
	}
}

func TestService_ListUsers_FilterByRole(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(
		&User{EmployeeID: "M1", Role: RoleManager},
		&User{EmployeeID: "E1", Role: RoleEmployee},
		&User{EmployeeID: "E2", Role: RoleEmployee},
	)
	svc := NewService(repo, nil)

	role := RoleEmployee
	users, err := svc.ListUsers(context.Background(), ListUsersInput{Role: &role})
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(users))
	}

	bad := Role("owner")
	if _, err := svc.ListUsers(context.Background(), ListUsersInput{Role: &bad}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestService_RoleFilterIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo(
		&User{EmployeeID: "M1", Name: "Alice", Role: RoleManager},
		&User{EmployeeID: "E1", Name: "Erin", Role: RoleEmployee},
	)
	svc := NewService(repo, nil)
	ctx := context.Background()

	mixed := Role("Manager")
	got, err := svc.GetUser(ctx, GetUserInput{EmployeeID: "M1", Role: &mixed})
	if err != nil {
		t.Fatalf("GetUser returned error: %v", err)
	}
	if got.Role != RoleManager || got.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", got)
	}

	upper := Role(" EMPLOYEE ")
	users, err := svc.ListUsers(ctx, ListUsersInput{Role: &upper})
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 1 || users[0].EmployeeID != "E1" {
		t.Fatalf("expected only E1, got %+v", users)
	}
}
