package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/veldran/kingdom-manager/internal/domain/user"
	"github.com/veldran/kingdom-manager/internal/platform/logging"
)

const (
	bootstrapAdminUsername = "admin"
	minPasswordLength      = 6
)

// TokenIssuer mints a signed session token for an account.
type TokenIssuer interface {
	Issue(u user.User) (string, error)
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Check(hash, plain string) bool
}

// TenantProvisioner manages the per-account store behind an account's
// lifecycle.
type TenantProvisioner interface {
	Ensure(ctx context.Context, userID int64) error
	RemoveMapping(ctx context.Context, userID int64) error
}

type AuthService struct {
	userRepo  user.Repository
	tokens    TokenIssuer
	passwords PasswordHasher
	tenants   TenantProvisioner
	logger    *logging.Logger
}

func NewAuthService(
	userRepo user.Repository,
	tokens TokenIssuer,
	passwords PasswordHasher,
	tenants TenantProvisioner,
	logger *logging.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		passwords: passwords,
		tenants:   tenants,
		logger:    logger,
	}
}

// Login verifies credentials and returns a session token. Unknown
// accounts and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", user.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	account, exists, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists || !s.passwords.Check(account.PasswordHash, password) {
		return "", user.User{}, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return "", user.User{}, fmt.Errorf("issue token: %w", err)
	}

	return token, account, nil
}

type RegisterInput struct {
	Username string
	Password string
	IsAdmin  bool
}

// Register creates an account and provisions its store. When
// provisioning fails the account row is removed again so a retry starts
// clean.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Register")
	defer span.End()

	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		return user.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return user.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	if _, exists, err := s.userRepo.GetByUsername(ctx, input.Username); err != nil {
		return user.User{}, fmt.Errorf("check username: %w", err)
	} else if exists {
		return user.User{}, fmt.Errorf("%w: username %s is taken", ErrConflict, input.Username)
	}

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, user.User{
		Username:     input.Username,
		PasswordHash: hash,
		IsAdmin:      input.IsAdmin,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	if err := s.tenants.Ensure(ctx, created.ID); err != nil {
		if _, rollbackErr := s.userRepo.Delete(ctx, created.ID); rollbackErr != nil {
			s.logger.ErrorContext(ctx, "rollback user after provisioning failure",
				"userId", created.ID, "error", rollbackErr)
		}
		return user.User{}, fmt.Errorf("provision store for user %d: %w", created.ID, err)
	}

	s.logger.InfoContext(ctx, "user registered", "userId", created.ID, "username", created.Username)
	return created, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]user.WithDatabase, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.ListUsers")
	defer span.End()

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

type UpdateUserInput struct {
	Username string
	Password string
	IsAdmin  bool
}

func (s *AuthService) UpdateUser(ctx context.Context, userID int64, input UpdateUserInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.UpdateUser")
	defer span.End()

	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" {
		return user.User{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if input.Password != "" && len(input.Password) < minPasswordLength {
		return user.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	existing, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%d", ErrNotFound, userID)
	}

	if input.Username != existing.Username {
		if _, taken, err := s.userRepo.GetByUsername(ctx, input.Username); err != nil {
			return user.User{}, fmt.Errorf("check username: %w", err)
		} else if taken {
			return user.User{}, fmt.Errorf("%w: username %s is taken", ErrConflict, input.Username)
		}
	}

	if existing.IsAdmin && !input.IsAdmin {
		admins, err := s.userRepo.CountAdmins(ctx)
		if err != nil {
			return user.User{}, fmt.Errorf("count admins: %w", err)
		}
		if admins <= 1 {
			return user.User{}, fmt.Errorf("%w: cannot demote the last administrator", ErrForbidden)
		}
	}

	updated := user.User{
		ID:       userID,
		Username: input.Username,
		IsAdmin:  input.IsAdmin,
	}
	if input.Password != "" {
		hash, err := s.passwords.Hash(input.Password)
		if err != nil {
			return user.User{}, fmt.Errorf("hash password: %w", err)
		}
		updated.PasswordHash = hash
	}

	if _, err := s.userRepo.Update(ctx, updated); err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}

	reloaded, _, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("reload user: %w", err)
	}

	return reloaded, nil
}

// DeleteUser removes an account and its store mapping. Administrator
// accounts cannot be deleted. The store file itself stays on disk.
func (s *AuthService) DeleteUser(ctx context.Context, userID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.DeleteUser")
	defer span.End()

	existing, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: user=%d", ErrNotFound, userID)
	}
	if existing.IsAdmin {
		return fmt.Errorf("%w: administrator accounts cannot be deleted", ErrForbidden)
	}

	if err := s.tenants.RemoveMapping(ctx, userID); err != nil {
		return fmt.Errorf("remove store mapping: %w", err)
	}
	if _, err := s.userRepo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.InfoContext(ctx, "user deleted", "userId", userID, "username", existing.Username)
	return nil
}

// BootstrapAdmin creates the initial administrator account when no
// admin exists yet. Safe to call on every startup.
func (s *AuthService) BootstrapAdmin(ctx context.Context, password string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.BootstrapAdmin")
	defer span.End()

	admins, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if admins > 0 {
		return nil
	}

	created, err := s.Register(ctx, RegisterInput{
		Username: bootstrapAdminUsername,
		Password: password,
		IsAdmin:  true,
	})
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	s.logger.InfoContext(ctx, "bootstrap admin created", "userId", created.ID)
	return nil
}
