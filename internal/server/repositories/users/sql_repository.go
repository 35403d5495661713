package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// sqlRepository holds the queries shared by both dialects. They use $N
// placeholders and RETURNING, which pgx and modernc sqlite both accept.
type sqlRepository struct {
	db       dbx.DBTX
	isUnique func(error) bool
}

func (r *sqlRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, password, created_at)
         VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Email, user.Password, user.CreatedAt).Scan(&user.ID)

	if err != nil {
		if r.isUnique(err) {
			return nil, fmt.Errorf("%w: %w", common.ErrorAlreadyExists, err)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *sqlRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password, created_at FROM users
		 WHERE email = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.UserName, &user.Email, &user.Password, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *sqlRepository) ExistsByUserNameOrEmail(ctx context.Context, userName, email string) (bool, error) {
	query :=
		`SELECT COUNT(*) FROM users
		 WHERE username = $1 OR email = $2
		 `

	var n int
	if err := r.db.QueryRowContext(ctx, query, userName, email).Scan(&n); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n > 0, nil
}

func (r *sqlRepository) List(ctx context.Context) ([]models.User, error) {
	query :=
		`SELECT id, username, email, password, created_at FROM users
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.UserName, &u.Email, &u.Password, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
