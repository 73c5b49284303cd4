package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authdomain "github.com/kechcole/Blog-App/internal/auth/domain"
	authrepo "github.com/kechcole/Blog-App/internal/auth/repository"
	"github.com/kechcole/Blog-App/internal/common/clock"
	commoncrypto "github.com/kechcole/Blog-App/internal/common/crypto"
	"github.com/kechcole/Blog-App/internal/common/logger"
)

// EventPublisher is the identity side of the user-created event contract.
// The profile store subscribes at wiring time; this service only publishes.
type EventPublisher interface {
	PublishUserCreated(ctx context.Context, userID string) error
}

type AuthService struct {
	repo           authrepo.Repository
	events         EventPublisher
	hasher         commoncrypto.PasswordHasher
	idGenerator    commoncrypto.IDGenerator
	jwtSecret      []byte
	clock          clock.Clock
	log            *logger.Logger
	accessTokenTTL time.Duration
}

type AuthServiceDeps struct {
	Repo           authrepo.Repository
	Events         EventPublisher
	Hasher         commoncrypto.PasswordHasher
	IDGenerator    commoncrypto.IDGenerator
	JWTSecret      string
	Clock          clock.Clock
	Log            *logger.Logger
	AccessTokenTTL time.Duration
}

func NewAuthService(deps AuthServiceDeps) *AuthService {
	c := deps.Clock
	if c == nil {
		c = clock.NewRealClock()
	}

	return &AuthService{
		repo:           deps.Repo,
		events:         deps.Events,
		hasher:         deps.Hasher,
		idGenerator:    deps.IDGenerator,
		jwtSecret:      []byte(deps.JWTSecret),
		clock:          c,
		log:            deps.Log,
		accessTokenTTL: deps.AccessTokenTTL,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Username string
	Password string
}

type AuthResult struct {
	UserID      string
	AccessToken string
	ExpiresAt   time.Time
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "register_attempt",
	}).Info("register attempt")

	if err := validateRegistration(input.Username, input.Email, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return AuthResult{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return AuthResult{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return AuthResult{}, err
	}

	user := authdomain.User{
		ID:           authdomain.ID(id),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, authrepo.ErrUsernameAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			return AuthResult{}, ErrUsernameTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return AuthResult{}, err
	}

	// Profile bootstrapping hangs off this event. If it fails the account
	// would violate the one-profile-per-user invariant, so roll it back.
	if err := s.events.PublishUserCreated(ctx, string(user.ID)); err != nil {
		if delErr := s.repo.Delete(ctx, user.ID); delErr != nil {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"user_id":  string(user.ID),
				"action":   "register_rollback_failed",
			}).Errorf("register failed: could not delete user after event error: %v", delErr)
		}
		return AuthResult{}, fmt.Errorf("failed to bootstrap user: %w", err)
	}

	result, err := s.issueAccessToken(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "register_token_issue_failed",
		}).Errorf("register failed: token issue error: %v", err)
		return AuthResult{}, err
	}

	incrementUsersRegistered()

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "register_success",
	}).Info("register success")

	return result, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"username": input.Username,
		"action":   "login_attempt",
	}).Info("login attempt")

	if err := validateCredentials(input.Username, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		return AuthResult{}, err
	}

	user, err := s.repo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, authrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "login_user_not_found",
			}).Warn("login failed: not found")
			return AuthResult{}, ErrInvalidCredentials
		}
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return AuthResult{}, err
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "login_invalid_password",
		}).Warn("login failed: invalid password")
		return AuthResult{}, ErrInvalidCredentials
	}

	result, err := s.issueAccessToken(user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"user_id":  string(user.ID),
			"action":   "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"user_id":  string(user.ID),
		"action":   "login_success",
	}).Info("login success")

	return result, nil
}

// DeleteAccount removes the caller's own account. The profile and every post
// authored by the user go with it via cascading deletes.
func (s *AuthService) DeleteAccount(ctx context.Context, callerID string) error {
	if err := s.repo.Delete(ctx, authdomain.ID(callerID)); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": callerID,
			"action":  "delete_account_failed",
		}).Errorf("delete account failed: %v", err)
		return err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": callerID,
		"action":  "account_deleted",
	}).Info("account deleted")
	return nil
}

func (s *AuthService) issueAccessToken(user authdomain.User) (AuthResult, error) {
	expiresAt := s.clock.Now().Add(s.accessTokenTTL)
	claims := jwt.MapClaims{
		"sub": string(user.ID),
		"usr": user.Username,
		"exp": expiresAt.Unix(),
		"iat": s.clock.Now().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(s.jwtSecret)
	if err != nil {
		return AuthResult{}, err
	}

	incrementAccessTokensIssued()
	return AuthResult{
		UserID:      string(user.ID),
		AccessToken: tokenString,
		ExpiresAt:   expiresAt,
	}, nil
}
