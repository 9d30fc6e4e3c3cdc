package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/ogurasousui/feedback-exchange/internal/core/notification"
)

func TestNotificationRepository_CreateAndList(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewNotificationRepository(mock)
	now := time.Now().UTC()
	columns := []string{"id", "employee_id", "manager_employee_id", "manager_name", "message", "seen", "created_at"}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO notifications`)).
		WithArgs("n-1", "E1", "M1", "Alice", "hello", false, now).
		WillReturnRows(pgxmock.NewRows(columns).AddRow("n-1", "E1", "M1", "Alice", "hello", false, now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM notifications WHERE employee_id = $1 ORDER BY created_at DESC, id DESC`)).
		WithArgs("E1").
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("n-2", "E1", "M1", "Alice", "newer", false, now.Add(time.Minute)).
			AddRow("n-1", "E1", "M1", "Alice", "hello", true, now))

	if _, err := repo.Create(context.Background(), &notification.Notification{
		ID: "n-1", EmployeeID: "E1", ManagerEmployeeID: "M1", ManagerName: "Alice", Message: "hello", CreatedAt: now,
	}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	items, err := repo.ListByEmployee(context.Background(), "E1")
	if err != nil {
		t.Fatalf("ListByEmployee returned error: %v", err)
	}
	if len(items) != 2 || items[0].ID != "n-2" {
		t.Fatalf("unexpected items %+v", items)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNotificationRepository_SetSeen(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewNotificationRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET seen = $1 WHERE id = $2`)).
		WithArgs(false, "n-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET seen = $1 WHERE id = $2`)).
		WithArgs(true, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE notifications SET seen = TRUE WHERE employee_id = $1`)).
		WithArgs("E1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 4))

	if err := repo.SetSeen(context.Background(), "n-1", false); err != nil {
		t.Fatalf("SetSeen returned error: %v", err)
	}
	if err := repo.SetSeen(context.Background(), "missing", true); !errors.Is(err, notification.ErrNotificationNotFound) {
		t.Fatalf("expected ErrNotificationNotFound, got %v", err)
	}

	count, err := repo.MarkAllSeen(context.Background(), "E1")
	if err != nil || count != 4 {
		t.Fatalf("expected 4 marked, got %d (%v)", count, err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
