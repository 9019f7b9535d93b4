package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Subscribe handles POST /api/newsletter/subscribe
func (s *Server) Subscribe(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	subscriber, err := s.newsletterService.Subscribe(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Subscribed to the newsletter",
		"subscriber": subscriber,
	})
}

// Unsubscribe handles POST /api/newsletter/unsubscribe
func (s *Server) Unsubscribe(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.newsletterService.Unsubscribe(c.Context(), req.Email); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Unsubscribed from the newsletter"})
}

// NewsletterStats handles GET /api/newsletter/stats
func (s *Server) NewsletterStats(c *fiber.Ctx) error {
	count, err := s.newsletterService.SubscriberCount(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"subscribers": count})
}

// SendDigest handles POST /api/newsletter/digest
func (s *Server) SendDigest(c *fiber.Ctx) error {
	var req struct {
		PostCount int `json:"post_count"`
	}
	// An empty body means the default post count.
	_ = c.BodyParser(&req)

	recipients, err := s.newsletterService.SendDigest(c.Context(), req.PostCount)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    "Digest queued",
		"recipients": recipients,
	})
}
