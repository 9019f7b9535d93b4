package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profiles/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.profileService.GetMyProfile(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/profiles/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Bio         *string             `json:"bio"`
		Avatar      *string             `json:"avatar"`
		Location    *string             `json:"location"`
		Website     *string             `json:"website"`
		SocialLinks *models.SocialLinks `json:"social_links"`
		Skills      []string            `json:"skills"`
		Interests   []string            `json:"interests"`
		IsPublic    *bool               `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:      userID,
		Bio:         req.Bio,
		Avatar:      req.Avatar,
		Location:    req.Location,
		Website:     req.Website,
		SocialLinks: req.SocialLinks,
		Skills:      req.Skills,
		Interests:   req.Interests,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(profile)
}

// GetProfile handles GET /api/profiles/:username
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", c.Params("username")))
	}

	profile, err := s.profileService.GetProfile(c.Context(), user.ID, optionalUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	// Recent activity shown alongside the profile.
	recentPosts, err := s.postService.GetUserPosts(c.Context(), user.ID, 5, 0, optionalUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	recentComments, _, err := s.commentService.ListByAuthor(c.Context(), user.ID, 5, 0)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":            user,
		"profile":         profile,
		"recent_posts":    recentPosts,
		"recent_comments": recentComments,
	})
}

// GetProfileStats handles GET /api/profiles/:username/stats. Stats are
// recomputed from the post and comment tables on every call, then persisted
// along with any newly earned badges.
func (s *Server) GetProfileStats(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByUsername(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", c.Params("username")))
	}

	profile, err := s.profileService.RefreshStats(c.Context(), user.ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"stats":  profile.Stats,
		"badges": profile.Badges,
	})
}
