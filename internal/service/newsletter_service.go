package service

import (
	"context"
	"strings"

	"inkwell/internal/mail"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type NewsletterService struct {
	subscriberRepo repository.NewsletterRepository
	postRepo       repository.PostRepository
	mailer         *mail.Mailer
	baseURL        string
}

func NewNewsletterService(
	subscriberRepo repository.NewsletterRepository,
	postRepo repository.PostRepository,
	mailer *mail.Mailer,
	baseURL string,
) *NewsletterService {
	return &NewsletterService{
		subscriberRepo: subscriberRepo,
		postRepo:       postRepo,
		mailer:         mailer,
		baseURL:        baseURL,
	}
}

// Subscribe registers the address and sends a welcome mail. Addresses are
// stored lowercased so case variants cannot subscribe twice.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		observability.NewsletterSubscriptionsTotal.WithLabelValues("invalid").Inc()
		return nil, models.NewValidationError(err.Error())
	}

	subscriber, err := s.subscriberRepo.Subscribe(ctx, email)
	if err != nil {
		observability.NewsletterSubscriptionsTotal.WithLabelValues("duplicate").Inc()
		return nil, err
	}
	observability.NewsletterSubscriptionsTotal.WithLabelValues("subscribed").Inc()

	if s.mailer != nil {
		s.mailer.SendWelcome(email)
	}
	return subscriber, nil
}

func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return models.NewValidationError(err.Error())
	}
	return s.subscriberRepo.Unsubscribe(ctx, email)
}

func (s *NewsletterService) SubscriberCount(ctx context.Context) (int64, error) {
	return s.subscriberRepo.Count(ctx)
}

// SendDigest mails the latest published posts to every subscriber. Delivery
// is asynchronous; the returned count is recipients, not successes.
func (s *NewsletterService) SendDigest(ctx context.Context, postCount int) (int, error) {
	if s.mailer == nil || !s.mailer.Enabled() {
		return 0, models.NewValidationError("Mail delivery is not configured")
	}
	if postCount <= 0 {
		postCount = 5
	}

	posts, _, err := s.postRepo.List(ctx, repository.PostFilter{PublishedOnly: true}, postCount, 0, 0)
	if err != nil {
		return 0, err
	}
	if len(posts) == 0 {
		return 0, models.NewValidationError("No published posts to send")
	}

	emails, err := s.subscriberRepo.ListEmails(ctx)
	if err != nil {
		return 0, err
	}
	if len(emails) == 0 {
		return 0, nil
	}

	digest := make([]mail.DigestPost, 0, len(posts))
	for _, p := range posts {
		digest = append(digest, mail.DigestPost{Title: p.Title, Slug: p.Slug})
	}
	s.mailer.SendDigest(emails, s.baseURL, digest)

	return len(emails), nil
}
