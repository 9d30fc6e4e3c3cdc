package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ogurasousui/feedback-exchange/internal/core/user"
	pgdb "github.com/ogurasousui/feedback-exchange/internal/platform/db/postgres"
)

const uniqueViolationCode = "23505"

// UserRepository は PostgreSQL を利用したディレクトリ永続化の実装です。
type UserRepository struct {
	pool pgdb.Queryer
}

// NewUserRepository は UserRepository を生成します。
func NewUserRepository(pool pgdb.Queryer) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create はユーザーを新規登録します。
func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO users (employee_id, name, role, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING employee_id, name, role, created_at
    `, u.EmployeeID, u.Name, string(u.Role), u.CreatedAt)

	created, err := scanUser(row)
	if err != nil {
		return nil, translatePgError(err)
	}
	return created, nil
}

// Find は ID と任意の役割でユーザーを取得します。役割未指定で複数該当する場合は最初に登録されたものを返します。
func (r *UserRepository) Find(ctx context.Context, employeeID string, role *user.Role) (*user.User, error) {
	args := []any{employeeID}
	conditions := []string{"employee_id = $1"}
	if role != nil {
		args = append(args, string(*role))
		conditions = append(conditions, "role = $"+strconv.Itoa(len(args)))
	}

	query := `
        SELECT employee_id, name, role, created_at
          FROM users
         WHERE ` + strings.Join(conditions, " AND ") + `
         ORDER BY created_at ASC, role ASC
         LIMIT 1
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	found, err := scanUser(exec.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translatePgError(err)
	}
	return found, nil
}

// List はユーザーを登録順に返します。
func (r *UserRepository) List(ctx context.Context, role *user.Role) ([]*user.User, error) {
	args := make([]any, 0, 1)
	whereClause := ""
	if role != nil {
		args = append(args, string(*role))
		whereClause = " WHERE role = $1"
	}

	query := `
        SELECT employee_id, name, role, created_at
          FROM users` + whereClause + `
         ORDER BY created_at ASC, employee_id ASC
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError(err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, translatePgError(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, translatePgError(err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		employeeID string
		name       string
		role       string
		createdAt  time.Time
	)

	if err := row.Scan(&employeeID, &name, &role, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}

	return &user.User{
		EmployeeID: employeeID,
		Name:       name,
		Role:       user.Role(role),
		CreatedAt:  createdAt,
	}, nil
}

func translatePgError(err error) error {
	if isUniqueViolation(err) {
		return user.ErrUserAlreadyExists
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
