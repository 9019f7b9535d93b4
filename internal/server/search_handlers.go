package server

import (
	"time"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// parseSearchDate parses an optional YYYY-MM-DD query parameter.
func parseSearchDate(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, models.NewValidationError("Invalid " + name + " date, expected YYYY-MM-DD")
	}
	return &t, nil
}

// Search handles GET /api/search
func (s *Server) Search(c *fiber.Ctx) error {
	page := parsePagination(c, 10)

	dateFrom, err := parseSearchDate(c, "dateFrom")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	dateTo, err := parseSearchDate(c, "dateTo")
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	var types []string
	if t := c.Query("type"); t != "" && t != "all" {
		types = []string{t}
	}

	results, err := s.searchService.Search(c.Context(), service.SearchInput{
		Query:        c.Query("q"),
		Types:        types,
		CategorySlug: c.Query("category"),
		Author:       c.Query("author"),
		DateFrom:     dateFrom,
		DateTo:       dateTo,
		SortBy:       c.Query("sortBy", "newest"),
		Limit:        page.Limit,
		Offset:       page.Offset(),
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"query":      c.Query("q"),
		"results":    results,
		"pagination": page.Meta(results.PostsTotal),
	})
}

// SearchSuggestions handles GET /api/search/suggestions
func (s *Server) SearchSuggestions(c *fiber.Ctx) error {
	suggestions, err := s.searchService.Suggest(c.Context(), c.Query("q"), c.QueryInt("limit", 5))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"suggestions": suggestions})
}
