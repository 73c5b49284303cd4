package http_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/kechcole/Blog-App/internal/common/errors"
	"github.com/kechcole/Blog-App/internal/common/logger"
	"github.com/kechcole/Blog-App/internal/image"
	"github.com/kechcole/Blog-App/internal/profile/domain"
	profilehttp "github.com/kechcole/Blog-App/internal/profile/http"
	"github.com/kechcole/Blog-App/internal/profile/service"
)

const (
	testJWTSecret = "test-secret-key-with-at-least-32-bytes!!"
	testUserID    = "0b0c9254-52ea-4f62-8a66-7d2f4d11e847"
)

type mockProfileRepo struct {
	findByUserIDFunc    func(ctx context.Context, userID string) (domain.Profile, error)
	updateImagePathFunc func(ctx context.Context, userID, imagePath string) error
}

func (m *mockProfileRepo) Create(ctx context.Context, profile domain.Profile) error {
	return nil
}

func (m *mockProfileRepo) FindByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	return m.findByUserIDFunc(ctx, userID)
}

func (m *mockProfileRepo) UpdateImagePath(ctx context.Context, userID, imagePath string) error {
	return m.updateImagePathFunc(ctx, userID, imagePath)
}

type mockMediaStore struct{}

func (m *mockMediaStore) PlaceholderPath() string {
	return "default.jpg"
}

func (m *mockMediaStore) SaveProfileImage(userID, format string, data []byte) (string, error) {
	return "images/" + userID + ".png", nil
}

func (m *mockMediaStore) Remove(relPath string) error {
	return nil
}

type mockNormalizer struct{}

func (m *mockNormalizer) Normalize(data []byte) (image.Normalized, error) {
	return image.Normalized{Data: data, Format: "png"}, nil
}

func setupHandler(t *testing.T) (http.Handler, *mockProfileRepo) {
	_ = t
	repo := &mockProfileRepo{}
	log, _ := logger.New("", "test", "info")

	svc := service.NewProfileService(service.ProfileServiceDeps{
		Repo:       repo,
		Media:      &mockMediaStore{},
		Normalizer: &mockNormalizer{},
		Log:        log,
	})

	handler := profilehttp.NewHandler(svc, testJWTSecret, 5*time.Second, 5<<20, log)
	return handler, repo
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": userID,
		"usr": "testuser",
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return "Bearer " + token
}

func multipartImage(t *testing.T, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "avatar.png")
	if err != nil {
		t.Fatalf("failed to build upload: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("failed to write upload: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to finish upload: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestProfileRouter_Get_Public(t *testing.T) {
	handler, repo := setupHandler(t)

	repo.findByUserIDFunc = func(ctx context.Context, userID string) (domain.Profile, error) {
		return domain.Profile{UserID: userID, ImagePath: "default.jpg"}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/"+testUserID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestProfileRouter_Get_NotFound(t *testing.T) {
	handler, repo := setupHandler(t)

	repo.findByUserIDFunc = func(ctx context.Context, userID string) (domain.Profile, error) {
		return domain.Profile{}, commonerrors.ErrProfileNotFound
	}

	req := httptest.NewRequest(http.MethodGet, "/api/profiles/"+testUserID, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestProfileRouter_UpdateImage_RequiresToken(t *testing.T) {
	handler, _ := setupHandler(t)

	body, contentType := multipartImage(t, []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPut, "/api/profiles/"+testUserID+"/image", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestProfileRouter_UpdateImage_Success(t *testing.T) {
	handler, repo := setupHandler(t)

	repo.findByUserIDFunc = func(ctx context.Context, userID string) (domain.Profile, error) {
		return domain.Profile{UserID: userID, ImagePath: "default.jpg"}, nil
	}

	var storedPath string
	repo.updateImagePathFunc = func(ctx context.Context, userID, imagePath string) error {
		storedPath = imagePath
		return nil
	}

	body, contentType := multipartImage(t, []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPut, "/api/profiles/"+testUserID+"/image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, testUserID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if storedPath != "images/"+testUserID+".png" {
		t.Errorf("expected new image path to be stored, got %s", storedPath)
	}
}

func TestProfileRouter_UpdateImage_ForbiddenForOtherUser(t *testing.T) {
	handler, repo := setupHandler(t)

	repo.findByUserIDFunc = func(ctx context.Context, userID string) (domain.Profile, error) {
		t.Error("repository should not be called for another user's profile")
		return domain.Profile{}, nil
	}

	body, contentType := multipartImage(t, []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPut, "/api/profiles/"+testUserID+"/image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", bearerToken(t, "5d9e6fd1-9adf-4d4e-bd1a-7e2b9305ce11"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestProfileRouter_UpdateImage_MissingImageIsNoop(t *testing.T) {
	handler, repo := setupHandler(t)

	repo.findByUserIDFunc = func(ctx context.Context, userID string) (domain.Profile, error) {
		return domain.Profile{UserID: userID, ImagePath: "default.jpg"}, nil
	}
	repo.updateImagePathFunc = func(ctx context.Context, userID, imagePath string) error {
		t.Error("repository should not be touched without a new image")
		return nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("not_image", "oops"); err != nil {
		t.Fatalf("failed to build upload: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/profiles/"+testUserID+"/image", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", bearerToken(t, testUserID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
