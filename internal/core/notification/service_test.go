package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type seqIDs struct {
	n int
}

func (g *seqIDs) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("ntf-%d", g.n), nil
}

type fakeRepo struct {
	items     map[string]*Notification
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]*Notification)}
}

func (r *fakeRepo) Create(_ context.Context, n *Notification) (*Notification, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	cp := *n
	r.items[n.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) ListByEmployee(_ context.Context, employeeID string) ([]*Notification, error) {
	out := []*Notification{}
	for _, n := range r.items {
		if n.EmployeeID == employeeID {
			cp := *n
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRepo) SetSeen(_ context.Context, id string, seen bool) error {
	n, ok := r.items[id]
	if !ok {
		return ErrNotificationNotFound
	}
	n.Seen = seen
	return nil
}

func (r *fakeRepo) MarkAllSeen(_ context.Context, employeeID string) (int64, error) {
	var count int64
	for _, n := range r.items {
		if n.EmployeeID == employeeID {
			n.Seen = true
			count++
		}
	}
	return count, nil
}

type countingObserver struct {
	kinds []Kind
}

func (o *countingObserver) NotificationCreated(kind Kind) {
	o.kinds = append(o.kinds, kind)
}

func TestService_Notify_Success(t *testing.T) {
	t.Parallel()

	clk := &stubClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	obs := &countingObserver{}
	repo := newFakeRepo()
	svc := NewService(repo, clk, WithIDGenerator(&seqIDs{}), WithObserver(obs))

	created, err := svc.Notify(context.Background(), NotifyInput{
		Kind:              KindFeedbackSubmitted,
		EmployeeID:        "E1",
		ManagerEmployeeID: "M1",
		ManagerName:       "Alice",
		Message:           "You have received new feedback from manager Alice",
	})
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	if created.ID != "ntf-1" {
		t.Errorf("expected generated id, got %s", created.ID)
	}
	if created.Seen {
		t.Errorf("expected new notification to be unseen")
	}
	if !created.CreatedAt.Equal(clk.now) {
		t.Errorf("expected CreatedAt to use clock")
	}
	if len(obs.kinds) != 1 || obs.kinds[0] != KindFeedbackSubmitted {
		t.Errorf("expected observer to record one submitted notification, got %v", obs.kinds)
	}
}

func TestService_Notify_StoreFailureIsNotObserved(t *testing.T) {
	t.Parallel()

	obs := &countingObserver{}
	repo := newFakeRepo()
	repo.createErr = errors.New("write failed")
	svc := NewService(repo, nil, WithObserver(obs))

	_, err := svc.Notify(context.Background(), NotifyInput{EmployeeID: "E1", Message: "hello"})
	if !errors.Is(err, repo.createErr) {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(obs.kinds) != 0 {
		t.Fatalf("expected no observation on failure")
	}
}

func TestService_Notify_InvalidInput(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), nil)

	if _, err := svc.Notify(context.Background(), NotifyInput{Message: "x"}); !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}
	if _, err := svc.Notify(context.Background(), NotifyInput{EmployeeID: "E1"}); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}

func TestService_ListForEmployee_NewestFirst(t *testing.T) {
	t.Parallel()

	clk := &stubClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewService(newFakeRepo(), clk, WithIDGenerator(&seqIDs{}))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Notify(ctx, NotifyInput{EmployeeID: "E1", Message: fmt.Sprintf("m%d", i)}); err != nil {
			t.Fatalf("Notify returned error: %v", err)
		}
		clk.now = clk.now.Add(time.Minute)
	}
	if _, err := svc.Notify(ctx, NotifyInput{EmployeeID: "E2", Message: "other"}); err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	list, err := svc.ListForEmployee(ctx, ListForEmployeeInput{EmployeeID: "E1"})
	if err != nil {
		t.Fatalf("ListForEmployee returned error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(list))
	}
	if list[0].Message != "m2" || list[2].Message != "m0" {
		t.Fatalf("expected newest first, got %s..%s", list[0].Message, list[2].Message)
	}

	empty, err := svc.ListForEmployee(ctx, ListForEmployeeInput{EmployeeID: "unknown"})
	if err != nil {
		t.Fatalf("expected no error for unknown recipient, got %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty list, got %d", len(empty))
	}
}

func TestService_SetSeen_IsReversible(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil, WithIDGenerator(&seqIDs{}))
	ctx := context.Background()

	n, err := svc.Notify(ctx, NotifyInput{EmployeeID: "E1", Message: "x"})
	if err != nil {
		t.Fatalf("Notify returned error: %v", err)
	}

	if err := svc.SetSeen(ctx, SetSeenInput{ID: n.ID, Seen: true}); err != nil {
		t.Fatalf("SetSeen(true) returned error: %v", err)
	}
	if !repo.items[n.ID].Seen {
		t.Fatalf("expected notification to be seen")
	}

	if err := svc.SetSeen(ctx, SetSeenInput{ID: n.ID, Seen: false}); err != nil {
		t.Fatalf("SetSeen(false) returned error: %v", err)
	}
	if repo.items[n.ID].Seen {
		t.Fatalf("expected notification to be unseen again")
	}
}

func TestService_SetSeen_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), nil)

	if err := svc.SetSeen(context.Background(), SetSeenInput{ID: "missing", Seen: true}); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}
	if err := svc.SetSeen(context.Background(), SetSeenInput{ID: " "}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestService_MarkAllSeen(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil, WithIDGenerator(&seqIDs{}))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Notify(ctx, NotifyInput{EmployeeID: "E1", Message: "x"}); err != nil {
			t.Fatalf("Notify returned error: %v", err)
		}
	}

	count, err := svc.MarkAllSeen(ctx, MarkAllSeenInput{EmployeeID: "E1"})
	if err != nil {
		t.Fatalf("MarkAllSeen returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 notifications marked, got %d", count)
	}
	for _, n := range repo.items {
		if !n.Seen {
			t.Fatalf("expected all notifications seen")
		}
	}

	count, err = svc.MarkAllSeen(ctx, MarkAllSeenInput{EmployeeID: "nobody"})
	if err != nil || count != 0 {
		t.Fatalf("expected no-op success, got count=%d err=%v", count, err)
	}
}
