package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Supermercado-api/internal/domain"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
	"github.com/jhoicas/Supermercado-api/internal/domain/repository"
)

var _ repository.UserAdminRepository = (*UserRepo)(nil)

const userColumns = `user_id, username, password_hash, role, store_id, created_at`

// querier lo cumplen *pgxpool.Pool y pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
// db puede ser el pool o una transacción abierta por TxRunner.
func NewUserRepository(db querier) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste un nuevo usuario y rellena UserID y CreatedAt con los valores generados por la DB.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (username, password_hash, role, store_id)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, created_at`
	err := r.db.QueryRow(ctx, query,
		user.Username, user.PasswordHash, string(user.Role), user.StoreID,
	).Scan(&user.UserID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("tienda %s: %w", storeLabel(user.StoreID), domain.ErrNotFound)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByUsername obtiene un usuario por nombre de usuario.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// List lista usuarios con el nombre de su tienda.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, error) {
	query := `
		SELECT u.user_id, u.username, u.password_hash, u.role, u.store_id, u.created_at, COALESCE(s.name, '')
		FROM users u
		LEFT JOIN stores s ON s.store_id = u.store_id
		WHERE (($1::bigint IS NULL OR u.store_id = $1) AND (cardinality($2::text[]) = 0 OR u.role = ANY($2)))
		   OR u.user_id = $3
		ORDER BY u.user_id DESC`
	roles := make([]string, 0, len(f.Roles))
	for _, role := range f.Roles {
		roles = append(roles, string(role))
	}
	rows, err := r.db.Query(ctx, query, f.StoreID, roles, f.AlsoUserID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		var (
			u    entity.User
			role string
		)
		if err := rows.Scan(&u.UserID, &u.Username, &u.PasswordHash, &role, &u.StoreID, &u.CreatedAt, &u.StoreName); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Role = entity.Role(role)
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Update actualiza datos de la cuenta; la contraseña solo si viene un hash nuevo.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	var (
		tag pgconn.CommandTag
		err error
	)
	if user.PasswordHash != "" {
		tag, err = r.db.Exec(ctx,
			`UPDATE users SET username = $2, role = $3, store_id = $4, password_hash = $5 WHERE user_id = $1`,
			user.UserID, user.Username, string(user.Role), user.StoreID, user.PasswordHash)
	} else {
		tag, err = r.db.Exec(ctx,
			`UPDATE users SET username = $2, role = $3, store_id = $4 WHERE user_id = $1`,
			user.UserID, user.Username, string(user.Role), user.StoreID)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("tienda %s: %w", storeLabel(user.StoreID), domain.ErrNotFound)
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete elimina la cuenta.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("usuario %d: %w", id, domain.ErrInUse)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u    entity.User
		role string
	)
	err := row.Scan(&u.UserID, &u.Username, &u.PasswordHash, &role, &u.StoreID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}
