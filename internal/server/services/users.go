// Package services contains server-side business logic. UserService drives
// the Anonymous → Registered → Authenticated lifecycle: it registers users,
// checks credentials and issues tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.PublicUser
}

// UserService provides registration, login and user listing.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
	issuer      *auth.Issuer
	logger      logging.Logger

	// dummyHash is verified against when the email is unknown, so that both
	// login failures cost one bcrypt comparison.
	dummyHash func() (string, error)
}

// NewUserService constructs a UserService.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, h *auth.Hasher, i *auth.Issuer, l logging.Logger) *UserService {
	if l == nil {
		l = logging.NewNopLogger()
	}
	s := &UserService{
		db:          db,
		repomanager: m,
		hasher:      h,
		issuer:      i,
		logger:      l.With("module", "user_service"),
	}
	s.dummyHash = sync.OnceValues(func() (string, error) {
		return h.Hash(context.Background(), uuid.NewString())
	})
	return s
}

// Register hashes the password and stores a new user. A taken username or
// email yields auth.ErrConflict.
func (s *UserService) Register(ctx context.Context, userName, email, password string) (*models.PublicUser, error) {
	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, err
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		taken, err := repo.ExistsByUserNameOrEmail(ctx, userName, email)
		if err != nil {
			return err
		}
		if taken {
			return common.ErrorAlreadyExists
		}

		created, err = repo.Create(ctx, &models.User{UserName: userName, Email: email, Password: hash})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, auth.ErrConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)

	pub := created.Public()
	return &pub, nil
}

// Login checks email and password and issues a token. An unknown email and
// a wrong password produce the same auth.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error searching user: %w", err)
		}
		s.burnVerify(ctx, password)
		return nil, auth.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(ctx, password, user.Password)
	if err != nil {
		// the client still gets the uniform rejection
		s.logger.Error(ctx, "stored password hash is unusable", "user_id", user.ID, "error", err)
		return nil, auth.ErrInvalidCredentials
	}
	if !ok {
		return nil, auth.ErrInvalidCredentials
	}

	token, claims, err := s.issuer.IssueClaims(user.ID, user.Email, user.UserName)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.Expiry(),
		User:      user.Public(),
	}, nil
}

// ListUsers returns every registered user without password hashes.
func (s *UserService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	list, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	out := make([]models.PublicUser, 0, len(list))
	for i := range list {
		out = append(out, list[i].Public())
	}
	return out, nil
}

func (s *UserService) burnVerify(ctx context.Context, password string) {
	hash, err := s.dummyHash()
	if err != nil {
		s.logger.Warn(ctx, "dummy hash unavailable", "error", err)
		return
	}
	_, _ = s.hasher.Verify(ctx, password, hash)
}
