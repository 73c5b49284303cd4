package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kechcole/Blog-App/internal/common/clock"
	commonerrors "github.com/kechcole/Blog-App/internal/common/errors"
	"github.com/kechcole/Blog-App/internal/common/logger"
	"github.com/kechcole/Blog-App/internal/post/domain"
	"github.com/kechcole/Blog-App/internal/post/service"
)

type mockPostRepo struct {
	createFunc   func(ctx context.Context, post domain.Post) error
	findByIDFunc func(ctx context.Context, id domain.ID) (domain.Post, error)
	listFunc     func(ctx context.Context) ([]domain.Post, error)
	updateFunc   func(ctx context.Context, post domain.Post) error
	deleteFunc   func(ctx context.Context, id domain.ID) error
}

func (m *mockPostRepo) Create(ctx context.Context, post domain.Post) error {
	return m.createFunc(ctx, post)
}

func (m *mockPostRepo) FindByID(ctx context.Context, id domain.ID) (domain.Post, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockPostRepo) List(ctx context.Context) ([]domain.Post, error) {
	return m.listFunc(ctx)
}

func (m *mockPostRepo) Update(ctx context.Context, post domain.Post) error {
	return m.updateFunc(ctx, post)
}

func (m *mockPostRepo) Delete(ctx context.Context, id domain.ID) error {
	return m.deleteFunc(ctx, id)
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	return m.newIDFunc()
}

type mockNotifier struct {
	notified []domain.Summary
}

func (m *mockNotifier) NotifyPostCreated(summary domain.Summary) {
	m.notified = append(m.notified, summary)
}

func setupPostService(t *testing.T) (*service.PostService, *mockPostRepo, *mockIDGenerator, *mockNotifier, *clock.MockClock) {
	_ = t
	repo := &mockPostRepo{}
	idGen := &mockIDGenerator{
		newIDFunc: func() (string, error) { return "post-123", nil },
	}
	notifier := &mockNotifier{}
	mockClock := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	log, _ := logger.New("", "test", "info")

	svc := service.NewPostService(repo, idGen, mockClock, notifier, log)
	return svc, repo, idGen, notifier, mockClock
}

func TestPostService_Create_Success(t *testing.T) {
	svc, repo, _, notifier, mockClock := setupPostService(t)

	var created domain.Post
	repo.createFunc = func(ctx context.Context, post domain.Post) error {
		created = post
		return nil
	}

	post, err := svc.Create(context.Background(), "author-1", "First Post", "hello world")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if post.AuthorID != "author-1" {
		t.Errorf("expected author author-1, got %s", post.AuthorID)
	}
	if post.ID != "post-123" {
		t.Errorf("expected generated id post-123, got %s", post.ID)
	}
	if !post.CreatedAt.Equal(mockClock.Now()) {
		t.Errorf("expected created_at %v, got %v", mockClock.Now(), post.CreatedAt)
	}
	if created.Title != "First Post" {
		t.Errorf("expected stored title First Post, got %s", created.Title)
	}

	if len(notifier.notified) != 1 {
		t.Fatalf("expected one feed notification, got %d", len(notifier.notified))
	}
	if notifier.notified[0].ID != post.ID {
		t.Errorf("expected notification for %s, got %s", post.ID, notifier.notified[0].ID)
	}
}

func TestPostService_Create_Unauthenticated(t *testing.T) {
	svc, _, _, _, _ := setupPostService(t)

	_, err := svc.Create(context.Background(), "", "Title", "content")
	if !errors.Is(err, commonerrors.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	svc, repo, _, notifier, _ := setupPostService(t)

	repo.createFunc = func(ctx context.Context, post domain.Post) error {
		t.Error("repository should not be called on validation failure")
		return nil
	}

	testCases := []struct {
		name    string
		title   string
		content string
	}{
		{"empty title", "", "content"},
		{"whitespace title", "   ", "content"},
		{"title too long", strings.Repeat("a", 101), "content"},
		{"multibyte title too long", strings.Repeat("я", 101), "content"},
		{"empty content", "Title", ""},
		{"whitespace content", "Title", "  \n "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "author-1", tc.title, tc.content)
			if !commonerrors.IsValidation(err) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	if len(notifier.notified) != 0 {
		t.Errorf("expected no notifications, got %d", len(notifier.notified))
	}
}

func TestPostService_Create_TitleAtLimit(t *testing.T) {
	svc, repo, _, _, _ := setupPostService(t)

	repo.createFunc = func(ctx context.Context, post domain.Post) error {
		return nil
	}

	if _, err := svc.Create(context.Background(), "author-1", strings.Repeat("a", 100), "content"); err != nil {
		t.Errorf("expected 100-character title to be accepted, got %v", err)
	}

	// The bound counts characters, not bytes.
	if _, err := svc.Create(context.Background(), "author-1", strings.Repeat("я", 100), "content"); err != nil {
		t.Errorf("expected 100-character multibyte title to be accepted, got %v", err)
	}
}

func TestPostService_Update_Success(t *testing.T) {
	svc, repo, _, _, mockClock := setupPostService(t)

	createdAt := mockClock.Now().Add(-time.Hour)
	repo.findByIDFunc = func(ctx context.Context, id domain.ID) (domain.Post, error) {
		return domain.Post{
			ID:        id,
			Title:     "Old",
			Content:   "old content",
			AuthorID:  "author-1",
			CreatedAt: createdAt,
		}, nil
	}

	var updated domain.Post
	repo.updateFunc = func(ctx context.Context, post domain.Post) error {
		updated = post
		return nil
	}

	post, err := svc.Update(context.Background(), "author-1", "post-123", "New Title", "new content")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if post.Title != "New Title" || post.Content != "new content" {
		t.Errorf("expected updated fields, got %+v", post)
	}
	if !post.CreatedAt.Equal(createdAt) {
		t.Error("expected creation timestamp to be preserved")
	}
	if updated.AuthorID != "author-1" {
		t.Errorf("expected author to be unchanged, got %s", updated.AuthorID)
	}
}

func TestPostService_Update_Forbidden(t *testing.T) {
	svc, repo, _, _, _ := setupPostService(t)

	repo.findByIDFunc = func(ctx context.Context, id domain.ID) (domain.Post, error) {
		return domain.Post{ID: id, AuthorID: "author-1"}, nil
	}
	repo.updateFunc = func(ctx context.Context, post domain.Post) error {
		t.Error("repository update should not be called for another user's post")
		return nil
	}

	_, err := svc.Update(context.Background(), "author-2", "post-123", "Title", "content")
	if !errors.Is(err, commonerrors.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestPostService_Update_NotFound(t *testing.T) {
	svc, repo, _, _, _ := setupPostService(t)

	repo.findByIDFunc = func(ctx context.Context, id domain.ID) (domain.Post, error) {
		return domain.Post{}, commonerrors.ErrPostNotFound
	}

	_, err := svc.Update(context.Background(), "author-1", "missing", "Title", "content")
	if !errors.Is(err, commonerrors.ErrPostNotFound) {
		t.Errorf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_Delete_Success(t *testing.T) {
	svc, repo, _, _, _ := setupPostService(t)

	repo.findByIDFunc = func(ctx context.Context, id domain.ID) (domain.Post, error) {
		return domain.Post{ID: id, AuthorID: "author-1"}, nil
	}

	var deleted domain.ID
	repo.deleteFunc = func(ctx context.Context, id domain.ID) error {
		deleted = id
		return nil
	}

	if err := svc.Delete(context.Background(), "author-1", "post-123"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != "post-123" {
		t.Errorf("expected post-123 deleted, got %s", deleted)
	}
}

func TestPostService_Delete_Forbidden(t *testing.T) {
	svc, repo, _, _, _ := setupPostService(t)

	repo.findByIDFunc = func(ctx context.Context, id domain.ID) (domain.Post, error) {
		return domain.Post{ID: id, AuthorID: "author-1"}, nil
	}
	repo.deleteFunc = func(ctx context.Context, id domain.ID) error {
		t.Error("repository delete should not be called for another user's post")
		return nil
	}

	err := svc.Delete(context.Background(), "author-2", "post-123")
	if !errors.Is(err, commonerrors.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestPostService_Delete_Unauthenticated(t *testing.T) {
	svc, repo, _, _, _ := setupPostService(t)

	repo.findByIDFunc = func(ctx context.Context, id domain.ID) (domain.Post, error) {
		return domain.Post{ID: id, AuthorID: "author-1"}, nil
	}

	err := svc.Delete(context.Background(), "", "post-123")
	if !errors.Is(err, commonerrors.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestPostService_List(t *testing.T) {
	svc, repo, _, _, _ := setupPostService(t)

	expected := []domain.Post{
		{ID: "p2", Title: "Newest"},
		{ID: "p1", Title: "Oldest"},
	}
	repo.listFunc = func(ctx context.Context) ([]domain.Post, error) {
		return expected, nil
	}

	posts, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "p2" {
		t.Errorf("expected repository order to be preserved, got %+v", posts)
	}
}
