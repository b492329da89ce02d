// Package services contains server-side business logic. This file implements
// UserService, which registers accounts and authenticates them in exchange
// for a signed access token.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"github.com/dmitrijs2005/credkeeper/internal/server/auth"
	"github.com/dmitrijs2005/credkeeper/internal/server/models"
	"github.com/dmitrijs2005/credkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/credkeeper/internal/server/validation"
)

// TokenSigner mints access tokens. *auth.TokenIssuer implements it.
type TokenSigner interface {
	Issue(userID, email string) (string, error)
}

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	User        *models.User
	AccessToken string
}

// UserService provides the account operations:
// - Signup: validate input, hash the password and store the user once
// - Login: verify credentials and mint an access token
//
// Client-facing failures are the sentinels of package common
// (ErrorValidation, ErrorConflict, ErrorUserNotFound, ErrorUnauthorized).
// Everything else is logged with its code and surfaces as
// common.ErrorInternal.
type UserService struct {
	users     users.Repository
	hasher    auth.PasswordHasher
	tokens    TokenSigner
	validator *validation.Validator
	timeout   time.Duration
	logger    logging.Logger
}

// NewUserService wires a UserService. A zero timeout leaves the caller's
// deadline untouched.
func NewUserService(repo users.Repository, hasher auth.PasswordHasher, tokens TokenSigner,
	timeout time.Duration, logger logging.Logger) *UserService {
	return &UserService{
		users:     repo,
		hasher:    hasher,
		tokens:    tokens,
		validator: validation.New(),
		timeout:   timeout,
		logger:    logger.With("module", "user_service"),
	}
}

// Signup creates an account and returns it with the assigned ID. Input is
// validated before the store is touched; a taken email is
// common.ErrorConflict and leaves the stored user unchanged.
func (s *UserService) Signup(ctx context.Context, req validation.SignupRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, s.clientOrInternal(ctx, "signup validation failed", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.users.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, common.ErrorConflict
	case !errors.Is(err, common.ErrorNotFound):
		return nil, s.internal(ctx, "signup lookup failed",
			oops.Code("USER_LOOKUP_FAILED").With("email", req.Email).Wrap(err))
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, s.internal(ctx, "signup hashing failed",
			oops.Code("PASSWORD_HASH_FAILED").With("email", req.Email).Wrap(err))
	}

	user, err := s.users.CreateIfAbsent(ctx, &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: digest,
	})
	if err != nil {
		// a concurrent signup may take the email between lookup and insert
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorConflict
		}
		return nil, s.internal(ctx, "signup insert failed",
			oops.Code("USER_CREATE_FAILED").With("email", req.Email).Wrap(err))
	}

	s.logger.Info(ctx, "user signed up", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login checks the credentials and returns the user with a fresh access
// token. An unknown email is common.ErrorUserNotFound, a wrong password
// common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, req validation.LoginRequest) (*LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, s.clientOrInternal(ctx, "login validation failed", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUserNotFound
		}
		return nil, s.internal(ctx, "login lookup failed",
			oops.Code("USER_LOOKUP_FAILED").With("email", req.Email).Wrap(err))
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		// a digest that cannot be checked is a server fault, not a bad password
		return nil, s.internal(ctx, "login verification failed",
			oops.Code("PASSWORD_VERIFY_FAILED").With("user_id", user.ID).Wrap(err))
	}
	if !ok {
		s.logger.Debug(ctx, "login rejected", "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, s.internal(ctx, "token signing failed",
			oops.Code("TOKEN_SIGN_FAILED").With("user_id", user.ID).Wrap(err))
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{User: user, AccessToken: token}, nil
}

// --- helpers below ---

func (s *UserService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *UserService) internal(ctx context.Context, msg string, err error) error {
	logging.LogError(ctx, s.logger, msg, err)
	return common.ErrorInternal
}

func (s *UserService) clientOrInternal(ctx context.Context, msg string, err error) error {
	if errors.Is(err, common.ErrorValidation) {
		return err
	}
	return s.internal(ctx, msg, oops.Code("VALIDATION_FAILED").Wrap(err))
}
