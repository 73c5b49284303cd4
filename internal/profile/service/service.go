package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/kechcole/Blog-App/internal/common/clock"
	"github.com/kechcole/Blog-App/internal/common/logger"
	"github.com/kechcole/Blog-App/internal/image"
	"github.com/kechcole/Blog-App/internal/policy"
	"github.com/kechcole/Blog-App/internal/profile/domain"
	profilerepo "github.com/kechcole/Blog-App/internal/profile/repository"
)

// MediaStore persists avatar bytes and hands back the relative path stored on
// the profile row.
type MediaStore interface {
	PlaceholderPath() string
	SaveProfileImage(userID, format string, data []byte) (string, error)
	Remove(relPath string) error
}

// ImageNormalizer bounds uploaded avatars to the allowed dimensions.
type ImageNormalizer interface {
	Normalize(data []byte) (image.Normalized, error)
}

type ProfileService struct {
	repo       profilerepo.Repository
	media      MediaStore
	normalizer ImageNormalizer
	clock      clock.Clock
	log        *logger.Logger
}

type ProfileServiceDeps struct {
	Repo       profilerepo.Repository
	Media      MediaStore
	Normalizer ImageNormalizer
	Clock      clock.Clock
	Log        *logger.Logger
}

func NewProfileService(deps ProfileServiceDeps) *ProfileService {
	c := deps.Clock
	if c == nil {
		c = clock.NewRealClock()
	}

	return &ProfileService{
		repo:       deps.Repo,
		media:      deps.Media,
		normalizer: deps.Normalizer,
		clock:      c,
		log:        deps.Log,
	}
}

// CreateForUser handles the user-created event: it bootstraps the 1:1 profile
// row pointing at the placeholder avatar. A duplicate here means the event
// fired twice for one user, which is a bug rather than a user mistake.
func (s *ProfileService) CreateForUser(ctx context.Context, userID string) error {
	profile := domain.Profile{
		UserID:    userID,
		ImagePath: s.media.PlaceholderPath(),
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.Create(ctx, profile); err != nil {
		if errors.Is(err, profilerepo.ErrProfileExists) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": userID,
				"action":  "profile_already_exists",
			}).Errorf("profile creation failed: %v", err)
			return err
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "profile_create_failed",
		}).Errorf("profile creation failed: %v", err)
		return err
	}

	incrementProfilesCreated()

	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"action":  "profile_created",
	}).Info("profile created")

	return nil
}

func (s *ProfileService) Get(ctx context.Context, userID string) (domain.Profile, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

// UpdateImage replaces the caller's avatar. Only the profile owner may upload;
// the image is normalized before it is persisted, and the stored path only
// changes once both the file write and the row update succeed. A nil upload is
// a no-op returning the current profile.
func (s *ProfileService) UpdateImage(ctx context.Context, callerID, userID string, data []byte) (domain.Profile, error) {
	if err := policy.AuthorizeOwner(callerID, userID); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"caller_id": callerID,
			"user_id":   userID,
			"action":    "profile_image_denied",
		}).Warnf("profile image update denied: %v", err)
		return domain.Profile{}, err
	}

	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}

	if len(data) == 0 {
		return profile, nil
	}

	normalized, err := s.normalizer.Normalize(data)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "profile_image_unreadable",
		}).Warnf("profile image update failed: %v", err)
		return domain.Profile{}, err
	}

	relPath, err := s.media.SaveProfileImage(userID, normalized.Format, normalized.Data)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "profile_image_write_failed",
		}).Errorf("profile image update failed: %v", err)
		return domain.Profile{}, fmt.Errorf("failed to store profile image: %w", err)
	}

	if err := s.repo.UpdateImagePath(ctx, userID, relPath); err != nil {
		return domain.Profile{}, err
	}

	// Formats can change between uploads (png avatar replaced by a jpeg), so
	// the previous file is cleaned up when the path moved.
	if profile.ImagePath != relPath {
		if rmErr := s.media.Remove(profile.ImagePath); rmErr != nil {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": userID,
				"action":  "profile_image_cleanup_failed",
			}).Warnf("could not remove previous avatar: %v", rmErr)
		}
	}

	profile.ImagePath = relPath

	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"resized": normalized.Resized,
		"action":  "profile_image_updated",
	}).Info("profile image updated")

	return profile, nil
}
