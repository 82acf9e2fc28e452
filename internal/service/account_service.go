package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/auth"
	"github.com/spec-kit/account-service/internal/domain"
	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/repository"
	"github.com/spec-kit/account-service/pkg/apperrors"
)

// Caller-visible messages. The inactive-account message intentionally differs
// from the generic one, which reveals that the account exists; this mirrors
// the documented API behavior and must not be merged with the generic message.
const (
	msgUserAlreadyExists    = "User with this email already exists"
	msgInvalidCredentials   = "Invalid email or password"
	msgAccountInactive      = "User account is inactive"
	msgFailedToCreateUser   = "Failed to create user account"
	msgFailedToAuthenticate = "Failed to authenticate user"
)

// AccountService coordinates sign-up and sign-in flows.
type AccountService struct {
	users      repository.UserRepository
	hasher     auth.PasswordHasher
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AccountDependencies encapsulates requirements for the account service.
type AccountDependencies struct {
	UserRepo   repository.UserRepository
	Hasher     auth.PasswordHasher
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// SignUpInput describes a validated sign-up command.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

// SignInInput describes a validated sign-in command.
type SignInInput struct {
	Email    string
	Password string
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		users:      deps.UserRepo,
		hasher:     deps.Hasher,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// SignUp creates a new user account. The existence pre-check only produces a
// friendlier conflict in the common case; the unique constraint on email is
// the authority, so a conflict raised by Create during the race window
// propagates unchanged.
func (s *AccountService) SignUp(ctx context.Context, input SignUpInput) (*domain.User, error) {
	existing, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, s.wrapUnexpected(err, "sign_up", input.Email, msgFailedToCreateUser)
	}
	if existing != nil {
		return nil, apperrors.NewConflict(msgUserAlreadyExists, map[string]any{"email": input.Email})
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, s.wrapUnexpected(err, "sign_up", input.Email, msgFailedToCreateUser)
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, s.wrapUnexpected(err, "sign_up", input.Email, msgFailedToCreateUser)
	}

	s.logger.Info("user signed up",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))
	s.publish(ctx, events.NewUserSignedUp(user))

	return user, nil
}

// SignIn authenticates a user by email and password. An unknown email and a
// wrong password render identically to the caller.
func (s *AccountService) SignIn(ctx context.Context, input SignInInput) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, s.wrapUnexpected(err, "sign_in", input.Email, msgFailedToAuthenticate)
	}
	if user == nil {
		return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
	}

	if !user.IsActive {
		return nil, apperrors.NewUnauthorized(msgAccountInactive)
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, s.wrapUnexpected(err, "sign_in", input.Email, msgFailedToAuthenticate)
	}
	if !ok {
		return nil, apperrors.NewUnauthorized(msgInvalidCredentials)
	}

	s.logger.Info("user signed in",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))
	s.publish(ctx, events.NewUserSignedIn(user))

	return user, nil
}

// wrapUnexpected lets recognized taxonomy errors pass through unchanged and
// wraps anything else as an internal failure, keeping the detail in the logs.
func (s *AccountService) wrapUnexpected(err error, operation, email, message string) error {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	s.logger.Error("unexpected error",
		zap.String("operation", operation),
		zap.String("email", email),
		zap.Error(err))
	return apperrors.NewInternalError(message, err)
}

func (s *AccountService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
