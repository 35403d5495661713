package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository stores credential records.
//
// Create returns common.ErrorAlreadyExists when the username or email is
// taken; GetUserByEmail returns common.ErrorNotFound for an unknown email.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByUserNameOrEmail(ctx context.Context, userName, email string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
}
