package server

import (
	"inkwell/internal/cache"
	"inkwell/internal/external"

	"github.com/gofiber/fiber/v2"
)

// GetNews handles GET /api/external/news. Feed fetches degrade to an empty
// list rather than failing the request.
func (s *Server) GetNews(c *fiber.Ctx) error {
	category := c.Query("category", "technology")
	limit := c.QueryInt("limit", 10)

	var articles []external.NewsArticle
	_ = cache.Aside(c.Context(), cache.NewsKey(category), &articles, cache.ExternalTTL, func() error {
		articles = s.newsFetcher.Fetch(c.Context(), category, limit)
		return nil
	})

	return c.JSON(fiber.Map{
		"category": category,
		"articles": articles,
	})
}

// GetWikipedia handles GET /api/external/wikipedia
func (s *Server) GetWikipedia(c *fiber.Ctx) error {
	topic := c.Query("topic", "Artificial Intelligence")

	var articles []external.WikiArticle
	_ = cache.Aside(c.Context(), cache.WikipediaKey(topic), &articles, cache.ExternalTTL, func() error {
		articles = s.wikiClient.Search(c.Context(), topic)
		return nil
	})

	return c.JSON(fiber.Map{
		"topic":    topic,
		"articles": articles,
	})
}

// GetTechEvents handles GET /api/external/tech-events
func (s *Server) GetTechEvents(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"events": external.TechEvents()})
}
