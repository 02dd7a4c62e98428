// Package services holds the business logic behind the HTTP handlers:
// account registration and login, and the product lifecycle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.Tokens
	logger      logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.Tokens, logger logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		logger:      logger.With("module", "users"),
	}
}

// Register creates an account and returns it with a fresh token. An empty
// role means customer.
func (s *UserService) Register(ctx context.Context, email, password string, role models.Role) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}
	if role == "" {
		role = models.RoleCustomer
	}
	if !role.Valid() {
		return nil, "", fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}

	repo := s.repomanager.Users(s.db)

	// the unique index still decides concurrent registrations
	if _, err := repo.GetUserByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("%w: user already exists", common.ErrConflict)
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash, Role: role})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, "", fmt.Errorf("%w: user already exists", common.ErrConflict)
		}
		return nil, "", fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: token: %v", common.ErrorInternal, err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// Login checks the credentials and issues a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	user, err := s.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrUnauthenticated)
		}
		return nil, "", err
	}

	if !s.VerifyCredential(user, password) {
		return nil, "", fmt.Errorf("%w: invalid credentials", common.ErrUnauthenticated)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("%w: token: %v", common.ErrorInternal, err)
	}

	return user, token, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByEmail(ctx, email)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetUserByID(ctx, id)
}

func (s *UserService) VerifyCredential(user *models.User, password string) bool {
	return auth.CheckPassword(user.PasswordHash, password)
}

// Authenticate resolves a bearer token to its account.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", common.ErrUnauthenticated)
		}
		return nil, err
	}
	return user, nil
}
