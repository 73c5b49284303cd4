package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/kechcole/Blog-App/internal/common/clock"
	"github.com/kechcole/Blog-App/internal/common/constants"
	commoncrypto "github.com/kechcole/Blog-App/internal/common/crypto"
	commonerrors "github.com/kechcole/Blog-App/internal/common/errors"
	"github.com/kechcole/Blog-App/internal/common/logger"
	"github.com/kechcole/Blog-App/internal/policy"
	"github.com/kechcole/Blog-App/internal/post/domain"
	postrepo "github.com/kechcole/Blog-App/internal/post/repository"
)

// Notifier pushes freshly created posts to the live feed. Optional; a nil
// notifier turns broadcasting off.
type Notifier interface {
	NotifyPostCreated(post domain.Summary)
}

type PostService struct {
	repo        postrepo.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	notifier    Notifier
	log         *logger.Logger
}

func NewPostService(
	repo postrepo.Repository,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
	notifier Notifier,
	log *logger.Logger,
) *PostService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &PostService{
		repo:        repo,
		idGenerator: idGenerator,
		clock:       clk,
		notifier:    notifier,
		log:         log,
	}
}

// List is an open read: no authentication, newest first, current state on
// every call.
func (s *PostService) List(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "list_posts_failed",
		}).Errorf("list posts failed: %v", err)
		return nil, err
	}
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id string) (domain.Post, error) {
	post, err := s.repo.FindByID(ctx, domain.ID(id))
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// Create stores a post authored by the caller. The author is always the
// authenticated identity; it is not an input a client can choose.
func (s *PostService) Create(ctx context.Context, authorID, title, content string) (domain.Post, error) {
	if authorID == "" {
		return domain.Post{}, commonerrors.ErrUnauthenticated
	}

	if err := validatePostFields(title, content); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"author_id": authorID,
			"action":    "create_post_validation_failed",
		}).Warnf("create post validation failed: %v", err)
		return domain.Post{}, err
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Post{}, err
	}

	post := domain.Post{
		ID:        domain.ID(id),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.Create(ctx, post); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"author_id": authorID,
			"action":    "create_post_failed",
		}).Errorf("create post failed: %v", err)
		return domain.Post{}, err
	}

	incrementPostsCreated()

	s.log.WithFields(ctx, logger.Fields{
		"post_id":   id,
		"author_id": authorID,
		"action":    "post_created",
	}).Info("post created")

	if s.notifier != nil {
		s.notifier.NotifyPostCreated(domain.Summary{
			ID:        post.ID,
			Title:     post.Title,
			AuthorID:  post.AuthorID,
			CreatedAt: post.CreatedAt,
		})
	}

	return post, nil
}

// Update overwrites title and content after the ownership check. The
// creation timestamp and author never change.
func (s *PostService) Update(ctx context.Context, callerID, id, title, content string) (domain.Post, error) {
	post, err := s.authorizeMutation(ctx, callerID, id)
	if err != nil {
		return domain.Post{}, err
	}

	if err := validatePostFields(title, content); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"post_id":   id,
			"caller_id": callerID,
			"action":    "update_post_validation_failed",
		}).Warnf("update post validation failed: %v", err)
		return domain.Post{}, err
	}

	post.Title = title
	post.Content = content

	if err := s.repo.Update(ctx, post); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"post_id": id,
			"action":  "update_post_failed",
		}).Errorf("update post failed: %v", err)
		return domain.Post{}, err
	}

	incrementPostsUpdated()

	s.log.WithFields(ctx, logger.Fields{
		"post_id":   id,
		"caller_id": callerID,
		"action":    "post_updated",
	}).Info("post updated")

	return post, nil
}

func (s *PostService) Delete(ctx context.Context, callerID, id string) error {
	if _, err := s.authorizeMutation(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, domain.ID(id)); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"post_id": id,
			"action":  "delete_post_failed",
		}).Errorf("delete post failed: %v", err)
		return err
	}

	incrementPostsDeleted()

	s.log.WithFields(ctx, logger.Fields{
		"post_id":   id,
		"caller_id": callerID,
		"action":    "post_deleted",
	}).Info("post deleted")

	return nil
}

// authorizeMutation is the shared ownership gate for update and delete:
// fetch, then check caller against the stored author.
func (s *PostService) authorizeMutation(ctx context.Context, callerID, id string) (domain.Post, error) {
	post, err := s.repo.FindByID(ctx, domain.ID(id))
	if err != nil {
		return domain.Post{}, err
	}

	if err := policy.AuthorizeOwner(callerID, post.AuthorID); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"post_id":   id,
			"caller_id": callerID,
			"action":    "post_mutation_forbidden",
		}).Warn("post mutation forbidden")
		return domain.Post{}, err
	}

	return post, nil
}

func validatePostFields(title, content string) error {
	if strings.TrimSpace(title) == "" {
		return commonerrors.NewValidationError("title", "is required")
	}
	// Characters, not bytes: the column is VARCHAR(100).
	if utf8.RuneCountInString(title) > constants.PostTitleMaxLength {
		return commonerrors.NewValidationError("title", "must be at most 100 characters")
	}
	if strings.TrimSpace(content) == "" {
		return commonerrors.NewValidationError("content", "is required")
	}
	return nil
}
