package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

const maxBioLen = 500

type ProfileService struct {
	profileRepo repository.ProfileRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
}

type UpdateProfileInput struct {
	UserID      uint
	Bio         *string
	Avatar      *string
	Location    *string
	Website     *string
	SocialLinks *models.SocialLinks
	Skills      []string
	Interests   []string
	IsPublic    *bool
}

func NewProfileService(
	profileRepo repository.ProfileRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
	}
}

// GetProfile returns a user's profile. Private profiles are only visible to
// their owner.
func (s *ProfileService) GetProfile(ctx context.Context, userID, viewerID uint) (*models.UserProfile, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsPublic && userID != viewerID {
		return nil, models.NewForbiddenError("This profile is private")
	}
	return profile, nil
}

// GetMyProfile returns the caller's profile, creating it on first access.
func (s *ProfileService) GetMyProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	return s.profileRepo.GetOrCreate(ctx, userID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		profile.Bio = *in.Bio
	}
	if in.Avatar != nil {
		profile.Avatar = *in.Avatar
	}
	if in.Location != nil {
		profile.Location = *in.Location
	}
	if in.Website != nil {
		profile.Website = *in.Website
	}
	if in.SocialLinks != nil {
		profile.SocialLinks = *in.SocialLinks
	}
	if in.Skills != nil {
		profile.Skills = in.Skills
	}
	if in.Interests != nil {
		profile.Interests = in.Interests
	}
	if in.IsPublic != nil {
		profile.IsPublic = *in.IsPublic
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// RefreshStats recomputes the profile stats from the authoritative post and
// comment counts, then awards any newly earned badges. Badges accumulate;
// a stat dropping back below its threshold never removes one.
func (s *ProfileService) RefreshStats(ctx context.Context, userID uint) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.CountByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	views, err := s.postRepo.SumViewsByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	likes, err := s.postRepo.SumLikesReceivedByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.Stats.PostsCount = int(posts)
	profile.Stats.CommentsCount = int(comments)
	profile.Stats.ViewsCount = int(views)
	profile.Stats.LikesReceived = int(likes)
	profile.AwardBadges()

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
