package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	authdomain "github.com/kechcole/Blog-App/internal/auth/domain"
	"github.com/kechcole/Blog-App/internal/auth/service"
	"github.com/kechcole/Blog-App/internal/common/clock"
	commonerrors "github.com/kechcole/Blog-App/internal/common/errors"
	"github.com/kechcole/Blog-App/internal/common/jwtverify"
	"github.com/kechcole/Blog-App/internal/common/logger"
)

const testJWTSecret = "test-secret-key-with-at-least-32-bytes!!"

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user authdomain.User) error
	findByUsernameFunc func(ctx context.Context, username string) (authdomain.User, error)
	findByIDFunc       func(ctx context.Context, id authdomain.ID) (authdomain.User, error)
	deleteFunc         func(ctx context.Context, id authdomain.ID) error
}

func (m *mockUserRepo) Create(ctx context.Context, user authdomain.User) error {
	return m.createFunc(ctx, user)
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (authdomain.User, error) {
	return m.findByUsernameFunc(ctx, username)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id authdomain.ID) (authdomain.User, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockUserRepo) Delete(ctx context.Context, id authdomain.ID) error {
	return m.deleteFunc(ctx, id)
}

type mockEventPublisher struct {
	publishFunc func(ctx context.Context, userID string) error
	published   []string
}

func (m *mockEventPublisher) PublishUserCreated(ctx context.Context, userID string) error {
	m.published = append(m.published, userID)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, userID)
	}
	return nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	return m.hashFunc(password)
}

func (m *mockHasher) Compare(hash, password string) error {
	return m.compareFunc(hash, password)
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	return m.newIDFunc()
}

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepo, *mockEventPublisher, *mockHasher, *mockIDGenerator, *clock.MockClock) {
	_ = t
	repo := &mockUserRepo{}
	events := &mockEventPublisher{}
	hasher := &mockHasher{
		hashFunc:    func(p string) (string, error) { return "hashed_" + p, nil },
		compareFunc: func(hash, p string) error { return nil },
	}
	idGen := &mockIDGenerator{
		newIDFunc: func() (string, error) { return "user-123", nil },
	}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	log, _ := logger.New("", "test", "info")

	svc := service.NewAuthService(service.AuthServiceDeps{
		Repo:           repo,
		Events:         events,
		Hasher:         hasher,
		IDGenerator:    idGen,
		JWTSecret:      testJWTSecret,
		Clock:          mockClock,
		Log:            log,
		AccessTokenTTL: 30 * time.Minute,
	})

	return svc, repo, events, hasher, idGen, mockClock
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, repo, events, _, _, mockClock := setupAuthService(t)

	var created authdomain.User
	repo.createFunc = func(ctx context.Context, user authdomain.User) error {
		created = user
		return nil
	}

	result, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if created.Username != "testuser" {
		t.Errorf("expected username testuser, got %s", created.Username)
	}
	if created.PasswordHash != "hashed_password123" {
		t.Errorf("expected hashed password, got %s", created.PasswordHash)
	}

	if len(events.published) != 1 || events.published[0] != "user-123" {
		t.Errorf("expected user-created event for user-123, got %v", events.published)
	}

	if result.AccessToken == "" {
		t.Fatal("expected access token to be set")
	}
	claims, err := jwtverify.ParseToken(result.AccessToken, []byte(testJWTSecret))
	if err != nil {
		t.Fatalf("expected issued token to verify, got %v", err)
	}
	if claims.UserID != "user-123" || claims.Username != "testuser" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if !result.ExpiresAt.Equal(mockClock.Now().Add(30 * time.Minute)) {
		t.Errorf("unexpected expiry %v", result.ExpiresAt)
	}
}

func TestAuthService_Register_ValidationError(t *testing.T) {
	svc, repo, events, _, _, _ := setupAuthService(t)

	repo.createFunc = func(ctx context.Context, user authdomain.User) error {
		t.Error("repository should not be called on validation failure")
		return nil
	}

	testCases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"short username", "ab", "test@example.com", "password123"},
		{"long username", strings.Repeat("a", 33), "test@example.com", "password123"},
		{"invalid username chars", "test@user", "test@example.com", "password123"},
		{"username starts with dash", "-testuser", "test@example.com", "password123"},
		{"short password", "testuser", "test@example.com", "pass123"},
		{"password without digits", "testuser", "test@example.com", "passwordonly"},
		{"password without letters", "testuser", "test@example.com", "1234567890"},
		{"invalid email", "testuser", "not-an-email", "password123"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), service.RegisterInput{
				Username: tc.username,
				Email:    tc.email,
				Password: tc.password,
			})
			if !commonerrors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	if len(events.published) != 0 {
		t.Errorf("expected no events, got %v", events.published)
	}
}

func TestAuthService_Register_UsernameTaken(t *testing.T) {
	svc, repo, events, _, _, _ := setupAuthService(t)

	repo.createFunc = func(ctx context.Context, user authdomain.User) error {
		return commonerrors.ErrUsernameAlreadyExists
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	})
	if !errors.Is(err, service.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
	if len(events.published) != 0 {
		t.Errorf("expected no events for a failed registration, got %v", events.published)
	}
}

func TestAuthService_Register_EventFailureRollsBack(t *testing.T) {
	svc, repo, events, _, _, _ := setupAuthService(t)

	repo.createFunc = func(ctx context.Context, user authdomain.User) error {
		return nil
	}
	events.publishFunc = func(ctx context.Context, userID string) error {
		return errors.New("profile bootstrap failed")
	}

	var deleted authdomain.ID
	repo.deleteFunc = func(ctx context.Context, id authdomain.ID) error {
		deleted = id
		return nil
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	})
	if err == nil {
		t.Fatal("expected registration to fail when the event handler fails")
	}
	if deleted != "user-123" {
		t.Errorf("expected user-123 to be rolled back, got %q", deleted)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, _, hasher, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (authdomain.User, error) {
		return authdomain.User{
			ID:           "user-123",
			Username:     username,
			PasswordHash: "hashed_password123",
		}, nil
	}
	hasher.compareFunc = func(hash, password string) error {
		if hash != "hashed_password123" || password != "password123" {
			t.Errorf("unexpected compare inputs: %s / %s", hash, password)
		}
		return nil
	}

	result, err := svc.Login(context.Background(), service.LoginInput{
		Username: "testuser",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.UserID != "user-123" {
		t.Errorf("expected user-123, got %s", result.UserID)
	}
	if result.AccessToken == "" {
		t.Error("expected access token to be set")
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, repo, _, hasher, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (authdomain.User, error) {
		return authdomain.User{ID: "user-123", Username: username, PasswordHash: "hash"}, nil
	}
	hasher.compareFunc = func(hash, password string) error {
		return errors.New("mismatch")
	}

	_, err := svc.Login(context.Background(), service.LoginInput{
		Username: "testuser",
		Password: "wrongpass1",
	})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, repo, _, _, _, _ := setupAuthService(t)

	repo.findByUsernameFunc = func(ctx context.Context, username string) (authdomain.User, error) {
		return authdomain.User{}, commonerrors.ErrUserNotFound
	}

	_, err := svc.Login(context.Background(), service.LoginInput{
		Username: "ghostuser",
		Password: "password123",
	})
	if !errors.Is(err, service.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_DeleteAccount(t *testing.T) {
	svc, repo, _, _, _, _ := setupAuthService(t)

	var deleted authdomain.ID
	repo.deleteFunc = func(ctx context.Context, id authdomain.ID) error {
		deleted = id
		return nil
	}

	if err := svc.DeleteAccount(context.Background(), "user-123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != "user-123" {
		t.Errorf("expected user-123 to be deleted, got %q", deleted)
	}
}
