package server

import (
	"encoding/xml"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap handles GET /sitemap.xml. The rendered document is cached as a raw
// string since it is requested by crawlers far more often than it changes.
func (s *Server) Sitemap(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "application/xml; charset=utf-8")

	if body, ok := cache.GetString(c.Context(), cache.SitemapKey); ok {
		return c.SendString(body)
	}

	base := s.config.BaseURL
	if base == "" {
		base = "http://localhost:" + s.config.Port
	}

	urlset := sitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: base + "/", ChangeFreq: "daily", Priority: "1.0"},
			{Loc: base + "/posts", ChangeFreq: "daily", Priority: "0.9"},
			{Loc: base + "/categories", ChangeFreq: "weekly", Priority: "0.6"},
		},
	}

	categories, err := s.categoryRepo.List(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	for _, cat := range categories {
		urlset.URLs = append(urlset.URLs, sitemapURL{
			Loc:        base + "/categories/" + cat.Slug,
			ChangeFreq: "weekly",
			Priority:   "0.6",
		})
	}

	posts, err := s.postRepo.AllSlugs(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	for _, post := range posts {
		urlset.URLs = append(urlset.URLs, sitemapURL{
			Loc:        base + "/posts/" + post.Slug,
			LastMod:    post.UpdatedAt.Format(time.RFC3339),
			ChangeFreq: "monthly",
			Priority:   "0.8",
		})
	}

	out, err := xml.MarshalIndent(urlset, "", "  ")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	body := xml.Header + string(out)
	cache.SetString(c.Context(), cache.SitemapKey, body, cache.SitemapTTL)

	return c.SendString(body)
}
